package model

import (
	"context"
	"testing"
)

func TestRequestContextRoundTrip(t *testing.T) {
	rctx := &RequestContext{
		SubjectID:     "user-1",
		Claims:        map[string]any{"sub": "user-1", "role": "admin"},
		CorrelationID: "corr-1",
		TraceID:       "trace-1",
	}

	ctx := WithRequestContext(context.Background(), rctx)
	got := RequestContextFrom(ctx)

	if got != rctx {
		t.Fatalf("got %+v, want the stored value", got)
	}
}

func TestRequestContextFromBareContext(t *testing.T) {
	if got := RequestContextFrom(context.Background()); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestClaim(t *testing.T) {
	rctx := &RequestContext{Claims: map[string]any{"role": "admin"}}

	if got := rctx.Claim("role"); got != "admin" {
		t.Errorf("Claim(role) = %v", got)
	}
	if got := rctx.Claim("missing"); got != nil {
		t.Errorf("Claim(missing) = %v, want nil", got)
	}

	empty := &RequestContext{}
	if got := empty.Claim("role"); got != nil {
		t.Errorf("Claim on nil claims = %v, want nil", got)
	}
}
