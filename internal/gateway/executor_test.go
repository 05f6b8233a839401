package gateway

import (
	"context"
	"testing"

	"github.com/kravuar/arangate/internal/catalog"
	"github.com/kravuar/arangate/internal/dispatch"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

func newExecutor(observers ...Observer) *Executor {
	reg := catalog.NewRegistry()
	opts := make([]ExecutorOption, 0, len(observers))
	for _, obs := range observers {
		opts = append(opts, WithObserver(obs))
	}
	return NewExecutor(reg, dispatch.NewDispatcher(reg), opts...)
}

type recordingObserver struct {
	events []ItemEvent
}

func (r *recordingObserver) OnItemProcessed(_ context.Context, e ItemEvent) {
	r.events = append(r.events, e)
}

func TestExecuteBatchOrderAndOriginIndices(t *testing.T) {
	m := store.NewMemory()
	e := newExecutor()

	sel := model.Selection{Resource: "document", Operation: "create"}
	items := []map[string]any{
		{"collection": "users", "data": map[string]any{"_key": "a"}},
		{"collection": "users", "data": map[string]any{"_key": "b"}},
		{"collection": "users", "data": map[string]any{"_key": "c"}},
	}

	out, err := e.ExecuteBatch(context.Background(), m, sel, items, Options{})
	if err != nil {
		t.Fatalf("ExecuteBatch error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d output items, want 3", len(out))
	}
	for i, item := range out {
		if item.OriginIndex != i {
			t.Errorf("item %d OriginIndex = %d", i, item.OriginIndex)
		}
	}
}

func TestExecuteBatchListFlattening(t *testing.T) {
	m := store.NewMemory()
	m.Seed("users",
		store.Document{"_key": "a"},
		store.Document{"_key": "b"},
		store.Document{"_key": "c"},
	)
	e := newExecutor()

	sel := model.Selection{Resource: "document", Operation: "getMany"}
	items := []map[string]any{
		{"collection": "users", "keys": []any{"a", "b"}},
		{"collection": "users", "keys": []any{"c"}},
	}

	out, err := e.ExecuteBatch(context.Background(), m, sel, items, Options{})
	if err != nil {
		t.Fatalf("ExecuteBatch error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d output items, want 3", len(out))
	}
	// Origin indices are non-decreasing across the flattened sequence.
	wantOrigins := []int{0, 0, 1}
	for i, item := range out {
		if item.OriginIndex != wantOrigins[i] {
			t.Errorf("item %d OriginIndex = %d, want %d", i, item.OriginIndex, wantOrigins[i])
		}
	}
}

func TestExecuteBatchUnknownOperation(t *testing.T) {
	m := store.NewMemory()
	e := newExecutor()

	_, err := e.ExecuteBatch(context.Background(), m,
		model.Selection{Resource: "document", Operation: "explode"},
		[]map[string]any{{"collection": "users"}},
		Options{ContinueOnFailure: true},
	)
	if err == nil {
		t.Fatal("expected unknown-operation error")
	}
	ge := err.(*model.GatewayError)
	if ge.Kind != model.ErrUnknownOperation {
		t.Errorf("Kind = %q, want %q", ge.Kind, model.ErrUnknownOperation)
	}
}

func TestExecuteBatchHaltOnFirstError(t *testing.T) {
	m := store.NewMemory()
	m.Seed("users", store.Document{"_key": "a", "name": "neo"})
	e := newExecutor()

	sel := model.Selection{Resource: "document", Operation: "get"}
	items := []map[string]any{
		{"collection": "users", "key": "a"},
		{"collection": "users", "key": "ghost"},
		{"collection": "users", "key": "a"},
	}

	out, err := e.ExecuteBatch(context.Background(), m, sel, items, Options{})
	if err == nil {
		t.Fatal("expected batch failure")
	}
	if out != nil {
		t.Errorf("partial output returned on fatal failure: %v", out)
	}
	ge := err.(*model.GatewayError)
	if ge.Kind != model.ErrNotFound {
		t.Errorf("Kind = %q, want %q", ge.Kind, model.ErrNotFound)
	}
	if ge.OriginIndex != 1 {
		t.Errorf("OriginIndex = %d, want 1", ge.OriginIndex)
	}
}

func TestExecuteBatchContinueOnFailure(t *testing.T) {
	m := store.NewMemory()
	m.Seed("users", store.Document{"_key": "a", "name": "neo"})
	e := newExecutor()

	sel := model.Selection{Resource: "document", Operation: "get"}
	items := []map[string]any{
		{"collection": "users", "key": "ghost"},
		{"collection": "users", "key": "a"},
	}

	out, err := e.ExecuteBatch(context.Background(), m, sel, items, Options{ContinueOnFailure: true})
	if err != nil {
		t.Fatalf("ExecuteBatch error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d output items, want 2", len(out))
	}

	if out[0].Error == nil {
		t.Fatal("first item should carry an error")
	}
	if out[0].Error.Kind != model.ErrNotFound {
		t.Errorf("error kind = %q, want %q", out[0].Error.Kind, model.ErrNotFound)
	}
	if out[0].OriginIndex != 0 || out[0].Error.OriginIndex != 0 {
		t.Errorf("error item origin = %d/%d, want 0/0", out[0].OriginIndex, out[0].Error.OriginIndex)
	}
	if out[0].Payload != nil {
		t.Error("error item also carries a payload")
	}

	if out[1].Error != nil {
		t.Errorf("second item failed: %v", out[1].Error)
	}
	if out[1].Payload["name"] != "neo" {
		t.Errorf("second item payload = %v", out[1].Payload)
	}
}

func TestExecuteBatchValidationNeverReachesAdapter(t *testing.T) {
	m := store.NewMemory()
	e := newExecutor()

	sel := model.Selection{Resource: "document", Operation: "create"}
	items := []map[string]any{
		{"collection": "users"}, // data missing
	}

	_, err := e.ExecuteBatch(context.Background(), m, sel, items, Options{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if err.(*model.GatewayError).Kind != model.ErrValidation {
		t.Errorf("Kind = %q", err.(*model.GatewayError).Kind)
	}

	// The store must be untouched.
	cols, _ := m.ListCollections(context.Background())
	if len(cols) != 0 {
		t.Errorf("store touched by invalid item: collections %v", cols)
	}
}

func TestExecuteBatchObserverEvents(t *testing.T) {
	m := store.NewMemory()
	m.Seed("users", store.Document{"_key": "a"})
	obs := &recordingObserver{}
	e := newExecutor(obs)

	sel := model.Selection{Resource: "document", Operation: "get"}
	items := []map[string]any{
		{"collection": "users", "key": "a"},
		{"collection": "users", "key": "ghost"},
	}

	_, _ = e.ExecuteBatch(context.Background(), m, sel, items, Options{ContinueOnFailure: true})

	if len(obs.events) != 2 {
		t.Fatalf("observed %d events, want 2", len(obs.events))
	}
	if obs.events[0].State != StateSucceeded {
		t.Errorf("event 0 state = %q", obs.events[0].State)
	}
	if obs.events[1].State != StateFailed || obs.events[1].ErrorKind != model.ErrNotFound {
		t.Errorf("event 1 = %+v", obs.events[1])
	}
	if obs.events[1].Index != 1 {
		t.Errorf("event 1 index = %d", obs.events[1].Index)
	}
	if obs.events[0].Resource != "document" || obs.events[0].Operation != "get" {
		t.Errorf("event 0 selection = %s.%s", obs.events[0].Resource, obs.events[0].Operation)
	}
}

func TestExecuteBatchEmptyListProducesNoItems(t *testing.T) {
	m := store.NewMemory()
	m.Seed("users", store.Document{"_key": "a"})
	e := newExecutor()

	sel := model.Selection{Resource: "document", Operation: "getMany"}
	items := []map[string]any{
		{"collection": "users", "keys": []any{"ghost1", "ghost2"}},
	}

	out, err := e.ExecuteBatch(context.Background(), m, sel, items, Options{})
	if err != nil {
		t.Fatalf("ExecuteBatch error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d output items, want 0", len(out))
	}
}
