package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kravuar/arangate/internal/config"
	"github.com/kravuar/arangate/internal/gateway"
	"github.com/kravuar/arangate/internal/observability"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

// BatchRequest is the wire shape of a batch invocation. The selection and
// connection are fixed once per batch; items carry per-invocation parameters.
type BatchRequest struct {
	Connection        model.ConnectionConfig `json:"connection"`
	Resource          string                 `json:"resource"`
	Operation         string                 `json:"operation"`
	ContinueOnFailure bool                   `json:"continueOnFailure"`
	Items             []map[string]any       `json:"items"`
}

// BatchResponse is the wire shape of a batch result: the flattened output
// sequence in execution order.
type BatchResponse struct {
	Items []model.OutputItem `json:"items"`
}

// Dialer opens a store connection for one batch. The production dialer is
// store.Dial; tests substitute a fake.
type Dialer func(ctx context.Context, cfg model.ConnectionConfig) (store.Client, error)

// BatchHandler serves POST /v1/batches.
type BatchHandler struct {
	executor *gateway.Executor
	dial     Dialer
	limits   config.LimitsConfig
	store    config.StoreConfig
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewBatchHandler creates a BatchHandler. metrics may be nil.
func NewBatchHandler(
	executor *gateway.Executor,
	dial Dialer,
	limits config.LimitsConfig,
	storeCfg config.StoreConfig,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *BatchHandler {
	if dial == nil {
		dial = func(ctx context.Context, cc model.ConnectionConfig) (store.Client, error) {
			return store.Dial(ctx, cc, store.DialOptions{
				ConnectTimeout: storeCfg.ConnectTimeout,
				RequestTimeout: storeCfg.RequestTimeout,
			})
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchHandler{
		executor: executor,
		dial:     dial,
		limits:   limits,
		store:    storeCfg,
		metrics:  metrics,
		logger:   logger,
	}
}

// ServeHTTP decodes the batch request, opens a connection for it, runs the
// executor, and writes the ordered output sequence. A fatal item failure in
// halt-on-first-error mode produces an error envelope instead.
func (h *BatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		WriteError(w, model.NewBadRequestError("request body is not valid JSON"))
		return
	}

	if err := h.validate(&req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Connection.Port == 0 {
		req.Connection.Port = h.store.DefaultPort
	}

	ctx := r.Context()
	logger := observability.RequestLogger(ctx, h.logger)

	if ce := logger.Check(zap.DebugLevel, "batch request"); ce != nil {
		redacted := make([]map[string]any, len(req.Items))
		for i, item := range req.Items {
			redacted[i] = observability.RedactBody(item, nil)
		}
		ce.Write(
			zap.String("resource", req.Resource),
			zap.String("operation", req.Operation),
			zap.Any("items", redacted),
		)
	}

	start := time.Now()
	client, err := h.dial(ctx, req.Connection)
	if err != nil {
		h.recordConnection("error")
		logger.Error("store connection failed",
			zap.String("host", req.Connection.Host),
			zap.String("database", req.Connection.Database),
			zap.Error(err),
		)
		WriteError(w, model.NewAdapterError(0, "could not connect to store", err))
		return
	}
	h.recordConnection("ok")

	sel := model.Selection{Resource: req.Resource, Operation: req.Operation}
	items, err := h.executor.ExecuteBatch(ctx, client, sel, req.Items, gateway.Options{
		ContinueOnFailure: req.ContinueOnFailure,
	})
	h.recordBatch(sel, err, len(req.Items), time.Since(start))
	if err != nil {
		WriteError(w, err)
		return
	}

	logger.Info("batch executed",
		zap.String("resource", sel.Resource),
		zap.String("operation", sel.Operation),
		zap.Int("input_items", len(req.Items)),
		zap.Int("output_items", len(items)),
		zap.Duration("duration", time.Since(start)),
	)

	if items == nil {
		items = []model.OutputItem{}
	}
	WriteJSON(w, http.StatusOK, BatchResponse{Items: items})
}

// validate checks the request envelope before any store work.
func (h *BatchHandler) validate(req *BatchRequest) error {
	if req.Resource == "" {
		return model.NewBadRequestError("resource is required")
	}
	if req.Operation == "" {
		return model.NewBadRequestError("operation is required")
	}
	if req.Connection.Host == "" {
		return model.NewBadRequestError("connection.host is required")
	}
	if req.Connection.Database == "" {
		return model.NewBadRequestError("connection.database is required")
	}
	if len(req.Items) == 0 {
		return model.NewBadRequestError("items must contain at least one entry")
	}
	if h.limits.MaxBatchItems > 0 && len(req.Items) > h.limits.MaxBatchItems {
		return model.NewBadRequestError(
			fmt.Sprintf("items exceeds the configured maximum of %d", h.limits.MaxBatchItems))
	}
	return nil
}

func (h *BatchHandler) recordConnection(status string) {
	if h.metrics != nil {
		h.metrics.RecordStoreConnection(status)
	}
}

func (h *BatchHandler) recordBatch(sel model.Selection, err error, items int, d time.Duration) {
	if h.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		if ge, ok := err.(*model.GatewayError); ok {
			h.metrics.RecordStoreError(ge.Kind)
		}
	}
	h.metrics.RecordBatch(sel.Resource, sel.Operation, status, items, d)
}
