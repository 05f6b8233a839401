// Package gateway contains the batch executor: it binds parameters per item,
// dispatches handlers against the store client, and flattens results into
// the ordered output sequence with per-item error attribution.
package gateway

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/kravuar/arangate/internal/catalog"
	"github.com/kravuar/arangate/internal/dispatch"
	"github.com/kravuar/arangate/internal/params"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

// ItemState is the terminal state of one batch item. Terminal states are
// final; the gateway performs no retries.
type ItemState string

const (
	StateSucceeded ItemState = "succeeded"
	StateFailed    ItemState = "failed"
)

// ItemEvent describes the terminal outcome of one batch item.
type ItemEvent struct {
	Resource  string
	Operation string
	Index     int
	State     ItemState
	Duration  time.Duration
	ErrorKind string
}

// Observer receives lifecycle events from batch execution. Implementations
// may record metrics or audit logs.
type Observer interface {
	OnItemProcessed(ctx context.Context, event ItemEvent)
}

// Options configures one batch invocation.
type Options struct {
	// ContinueOnFailure converts item-level failures into error output items
	// so the batch proceeds. When false (the default), the first failure
	// aborts the batch, discarding already-computed items.
	ContinueOnFailure bool
}

// Executor runs batches sequentially, one item at a time, in input order.
// Items are deliberately not parallelized: this bounds concurrent load on
// the backing store and keeps per-item error attribution unambiguous.
type Executor struct {
	registry   *catalog.Registry
	resolver   *params.Resolver
	dispatcher *dispatch.Dispatcher
	observers  []Observer
	logger     *zap.Logger
	tracer     trace.Tracer
}

// ExecutorOption configures optional executor dependencies.
type ExecutorOption func(*Executor)

// WithObserver adds a lifecycle observer.
func WithObserver(obs Observer) ExecutorOption {
	return func(e *Executor) { e.observers = append(e.observers, obs) }
}

// WithLogger sets the executor logger.
func WithLogger(logger *zap.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// WithTracer sets the executor tracer.
func WithTracer(tracer trace.Tracer) ExecutorOption {
	return func(e *Executor) { e.tracer = tracer }
}

// NewExecutor creates an Executor with its required dependencies.
func NewExecutor(registry *catalog.Registry, dispatcher *dispatch.Dispatcher, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry:   registry,
		resolver:   params.NewResolver(),
		dispatcher: dispatcher,
		logger:     zap.NewNop(),
		tracer:     noop.NewTracerProvider().Tracer("arangate"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecuteBatch processes the items in order against the given store client.
// The selection is resolved against the catalog before any item work: an
// unknown (resource, operation) pair is always a batch-level failure and
// never causes partial side effects.
func (e *Executor) ExecuteBatch(
	ctx context.Context,
	client store.Client,
	sel model.Selection,
	items []map[string]any,
	opts Options,
) ([]model.OutputItem, error) {
	desc, err := e.registry.Resolve(sel.Resource, sel.Operation)
	if err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "gateway.batch", trace.WithAttributes(
		attribute.String("gateway.resource", sel.Resource),
		attribute.String("gateway.operation", sel.Operation),
		attribute.Int("gateway.items", len(items)),
	))
	defer span.End()

	var output []model.OutputItem
	for i, raw := range items {
		outputs, itemErr := e.processItem(ctx, client, desc, i, raw)
		if itemErr != nil {
			if !opts.ContinueOnFailure {
				// Fatal abort: discard computed items, surface the failing
				// index and underlying message.
				e.logger.Warn("batch aborted",
					zap.String("resource", sel.Resource),
					zap.String("operation", sel.Operation),
					zap.Int("item", i),
					zap.String("error", itemErr.Message),
				)
				return nil, itemErr
			}
			output = append(output, model.ErrorItem(itemErr, i))
			continue
		}
		output = append(output, outputs...)
	}

	return output, nil
}

// processItem walks one item through the Pending -> Resolving -> Executing
// -> {Succeeded, Failed} state machine.
func (e *Executor) processItem(
	ctx context.Context,
	client store.Client,
	desc catalog.OperationDescriptor,
	index int,
	raw map[string]any,
) ([]model.OutputItem, *model.GatewayError) {
	start := time.Now()

	ctx, span := e.tracer.Start(ctx, "gateway.item", trace.WithAttributes(
		attribute.Int("gateway.item_index", index),
	))
	defer span.End()

	fail := func(err error) ([]model.OutputItem, *model.GatewayError) {
		ge := asGatewayError(err).WithOrigin(index)
		e.notify(ctx, ItemEvent{
			Resource:  desc.Resource,
			Operation: desc.Operation,
			Index:     index,
			State:     StateFailed,
			Duration:  time.Since(start),
			ErrorKind: ge.Kind,
		})
		return nil, ge
	}

	// Resolving: validation failures here never reach the adapter.
	resolved, err := e.resolver.Resolve(desc, raw)
	if err != nil {
		return fail(err)
	}

	// Executing.
	result, err := e.dispatcher.Dispatch(ctx, client, desc, resolved)
	if err != nil {
		return fail(err)
	}

	e.notify(ctx, ItemEvent{
		Resource:  desc.Resource,
		Operation: desc.Operation,
		Index:     index,
		State:     StateSucceeded,
		Duration:  time.Since(start),
	})
	return Normalize(result, index), nil
}

func (e *Executor) notify(ctx context.Context, event ItemEvent) {
	for _, obs := range e.observers {
		obs.OnItemProcessed(ctx, event)
	}
}

// asGatewayError coerces any handler error into the gateway's error type.
func asGatewayError(err error) *model.GatewayError {
	if ge, ok := err.(*model.GatewayError); ok {
		return ge
	}
	return model.NewAdapterError(0, err.Error(), err)
}
