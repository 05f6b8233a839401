package dispatch

import (
	"context"
	"testing"

	"github.com/kravuar/arangate/internal/catalog"
	"github.com/kravuar/arangate/internal/params"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

// execute resolves raw parameters against the catalog and dispatches the
// operation, the same path a batch item takes.
func execute(t *testing.T, client store.Client, resource, operation string, raw map[string]any) (model.ExecutionResult, error) {
	t.Helper()
	reg := catalog.NewRegistry()
	desc, err := reg.Resolve(resource, operation)
	if err != nil {
		t.Fatalf("Resolve(%s, %s): %v", resource, operation, err)
	}
	p, err := params.NewResolver().Resolve(desc, raw)
	if err != nil {
		return model.ExecutionResult{}, err
	}
	return NewDispatcher(reg).Dispatch(context.Background(), client, desc, p)
}

func mustExecute(t *testing.T, client store.Client, resource, operation string, raw map[string]any) model.ExecutionResult {
	t.Helper()
	res, err := execute(t, client, resource, operation, raw)
	if err != nil {
		t.Fatalf("%s.%s: %v", resource, operation, err)
	}
	return res
}

func TestEveryOperationHasHandler(t *testing.T) {
	// NewDispatcher panics if the catalog and handler table disagree.
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("dispatcher wiring panic: %v", r)
		}
	}()
	NewDispatcher(catalog.NewRegistry())
}

func TestDispatchStringSliceValidation(t *testing.T) {
	m := store.NewMemory()
	m.Seed("users", store.Document{"_key": "u1"})

	_, err := execute(t, m, "document", "getMany", map[string]any{
		"collection": "users",
		"keys":       []any{"u1", float64(7)},
	})
	if err == nil {
		t.Fatal("expected validation error for non-string key")
	}
	ge := err.(*model.GatewayError)
	if ge.Kind != model.ErrValidation {
		t.Errorf("Kind = %q, want %q", ge.Kind, model.ErrValidation)
	}
}
