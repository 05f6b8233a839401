// Package integration provides a reusable harness for end-to-end testing of
// the arangate gateway: a fully wired HTTP server backed by the in-memory
// store, plus a test token issuer for the API's bearer auth.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kravuar/arangate/internal/catalog"
	"github.com/kravuar/arangate/internal/config"
	"github.com/kravuar/arangate/internal/dispatch"
	"github.com/kravuar/arangate/internal/gateway"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/internal/transport"
	"github.com/kravuar/arangate/model"
)

const (
	testSecret   = "integration-secret"
	testIssuer   = "https://auth.test.arangate.dev"
	testAudience = "arangate-test"
)

// Harness encapsulates a fully wired gateway instance for integration
// testing. The store dialer always returns the harness's Memory instance, so
// tests can seed and inspect it directly.
type Harness struct {
	t      *testing.T
	server *httptest.Server

	Store *store.Memory
}

// NewHarness starts a gateway server wired to an in-memory store.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	mem := store.NewMemory()
	cfg := config.Defaults()
	cfg.Auth.Issuer = testIssuer
	cfg.Auth.Audience = testAudience
	cfg.Observability.Metrics.Enabled = false
	cfg.Observability.Tracing.Enabled = false

	registry := catalog.NewRegistry()
	dispatcher := dispatch.NewDispatcher(registry)
	executor := gateway.NewExecutor(registry, dispatcher)

	dial := func(_ context.Context, _ model.ConnectionConfig) (store.Client, error) {
		return mem, nil
	}

	router := transport.NewRouter(transport.Dependencies{
		Config:       cfg,
		Authenticate: transport.NewAuthenticator(cfg.Auth, testSecret).Middleware,
		Batch:        transport.NewBatchHandler(executor, dial, cfg.Limits, cfg.Store, nil, nil),
		Catalog:      transport.NewCatalogHandler(registry),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &Harness{t: t, server: srv, Store: mem}
}

// Token issues a valid HS256 bearer token for the given subject.
func (h *Harness) Token(subject string) string {
	h.t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": testIssuer,
		"aud": testAudience,
		"sub": subject,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		h.t.Fatalf("sign token: %v", err)
	}
	return signed
}

// Connection returns a connection block accepted by the batch endpoint. The
// harness dialer ignores it, but envelope validation still applies.
func (h *Harness) Connection() model.ConnectionConfig {
	return model.ConnectionConfig{
		Host:     "db.test",
		Port:     8529,
		Username: "root",
		Password: "secret",
		Database: "app",
	}
}

// Do sends an authenticated request and returns the response.
func (h *Harness) Do(method, path string, body any) *http.Response {
	h.t.Helper()
	return h.doWithToken(method, path, body, h.Token("test-user"))
}

// DoUnauthenticated sends a request without a bearer token.
func (h *Harness) DoUnauthenticated(method, path string, body any) *http.Response {
	h.t.Helper()
	return h.doWithToken(method, path, body, "")
}

func (h *Harness) doWithToken(method, path string, body any, token string) *http.Response {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, h.server.URL+path, reader)
	if err != nil {
		h.t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.server.Client().Do(req)
	if err != nil {
		h.t.Fatalf("%s %s: %v", method, path, err)
	}
	h.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// DecodeJSON decodes a response body into out, failing the test on error.
func (h *Harness) DecodeJSON(resp *http.Response, out any) {
	h.t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		h.t.Fatalf("decode response: %v", err)
	}
}
