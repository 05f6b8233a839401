package store

import (
	"context"
	"testing"

	"github.com/kravuar/arangate/model"
)

func TestMemoryCreateThenGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	created, err := m.CreateDocument(ctx, "users", Document{"_key": "u1", "name": "neo"}, CreateOptions{})
	if err != nil {
		t.Fatalf("CreateDocument error: %v", err)
	}
	if created["_key"] != "u1" {
		t.Errorf("_key = %v, want u1", created["_key"])
	}
	if created["_id"] != "users/u1" {
		t.Errorf("_id = %v, want users/u1", created["_id"])
	}

	got, err := m.GetDocument(ctx, "users", "u1")
	if err != nil {
		t.Fatalf("GetDocument error: %v", err)
	}
	if got["name"] != "neo" {
		t.Errorf("name = %v, want neo", got["name"])
	}
}

func TestMemoryGetMissingDocument(t *testing.T) {
	m := NewMemory()
	m.Seed("users", Document{"_key": "u1"})

	_, err := m.GetDocument(context.Background(), "users", "ghost")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	ge := err.(*model.GatewayError)
	if ge.Kind != model.ErrNotFound {
		t.Errorf("Kind = %q, want %q", ge.Kind, model.ErrNotFound)
	}
}

func TestMemoryDuplicateKeyConflicts(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.CreateDocument(ctx, "users", Document{"_key": "u1"}, CreateOptions{}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := m.CreateDocument(ctx, "users", Document{"_key": "u1"}, CreateOptions{})
	if err == nil {
		t.Fatal("expected conflict")
	}
	if err.(*model.GatewayError).Kind != model.ErrConflict {
		t.Errorf("Kind = %q, want %q", err.(*model.GatewayError).Kind, model.ErrConflict)
	}
}

func TestMemoryAutoKeyAssignment(t *testing.T) {
	m := NewMemory()

	created, err := m.CreateDocument(context.Background(), "users", Document{"name": "x"}, CreateOptions{ReturnNew: true})
	if err != nil {
		t.Fatalf("CreateDocument error: %v", err)
	}
	if created["_key"] == "" || created["_key"] == nil {
		t.Error("auto key not assigned")
	}
	if created["name"] != "x" {
		t.Error("ReturnNew did not include document body")
	}
}

func TestMemoryUpdateRemovesNullsByDefault(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Seed("users", Document{"_key": "u1", "name": "neo", "email": "neo@zion.io"})

	_, err := m.UpdateDocument(ctx, "users", "u1", Document{"email": nil}, UpdateOptions{})
	if err != nil {
		t.Fatalf("UpdateDocument error: %v", err)
	}
	got, _ := m.GetDocument(ctx, "users", "u1")
	if _, present := got["email"]; present {
		t.Error("null field should have been removed without KeepNull")
	}

	_, err = m.UpdateDocument(ctx, "users", "u1", Document{"name": nil}, UpdateOptions{KeepNull: true})
	if err != nil {
		t.Fatalf("UpdateDocument error: %v", err)
	}
	got, _ = m.GetDocument(ctx, "users", "u1")
	if _, present := got["name"]; !present {
		t.Error("null field should survive with KeepNull")
	}
}

func TestMemoryDeleteReturnOld(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Seed("users", Document{"_key": "u1", "name": "neo"})

	removed, err := m.DeleteDocument(ctx, "users", "u1", DeleteOptions{ReturnOld: true})
	if err != nil {
		t.Fatalf("DeleteDocument error: %v", err)
	}
	if removed["name"] != "neo" {
		t.Error("ReturnOld did not include the removed body")
	}
	if _, err := m.GetDocument(ctx, "users", "u1"); err == nil {
		t.Error("document still present after delete")
	}
}

func TestMemoryQueryRecording(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.PushQueryResult([]Document{{"v": float64(1)}, {"v": float64(2)}}, 2)

	cur, err := m.RunQuery(ctx, "FOR d IN c RETURN d", map[string]any{"x": "y"}, QueryOptions{Count: true})
	if err != nil {
		t.Fatalf("RunQuery error: %v", err)
	}
	defer cur.Close()

	var got []Document
	for cur.HasMore() {
		doc, err := cur.Next(ctx)
		if err != nil {
			t.Fatalf("Next error: %v", err)
		}
		got = append(got, doc)
	}
	if len(got) != 2 {
		t.Fatalf("drained %d records, want 2", len(got))
	}
	if cur.Count() != 2 {
		t.Errorf("Count = %d, want 2", cur.Count())
	}

	queries := m.Queries()
	if len(queries) != 1 {
		t.Fatalf("recorded %d queries, want 1", len(queries))
	}
	if queries[0].BindVars["x"] != "y" {
		t.Error("bind vars not recorded")
	}
}

func TestMemoryForcedFailure(t *testing.T) {
	m := NewMemory()
	m.FailWith("CreateDocument", model.NewAdapterError(1205, "boom", nil))

	_, err := m.CreateDocument(context.Background(), "users", Document{}, CreateOptions{})
	if err == nil {
		t.Fatal("expected forced failure")
	}
	ge := err.(*model.GatewayError)
	if ge.StoreCode != 1205 {
		t.Errorf("StoreCode = %d, want 1205", ge.StoreCode)
	}
}

func TestMemoryGraphLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	defs := []EdgeDefinition{{Collection: "knows", From: []string{"users"}, To: []string{"users"}}}
	if err := m.CreateGraph(ctx, "social", defs); err != nil {
		t.Fatalf("CreateGraph error: %v", err)
	}
	if err := m.CreateGraph(ctx, "social", defs); err == nil {
		t.Error("duplicate graph should conflict")
	}

	if _, err := m.SaveVertex(ctx, "social", "users", Document{"_key": "u1"}, false); err != nil {
		t.Fatalf("SaveVertex error: %v", err)
	}
	if _, err := m.SaveEdge(ctx, "social", "knows", "users/u1", "users/u2", Document{}); err != nil {
		t.Fatalf("SaveEdge error: %v", err)
	}
	if _, err := m.SaveVertex(ctx, "ghost", "users", Document{}, false); err == nil {
		t.Error("SaveVertex into unknown graph should fail")
	}

	graphs, _ := m.ListGraphs(ctx)
	if len(graphs) != 1 || graphs[0] != "social" {
		t.Errorf("ListGraphs = %v, want [social]", graphs)
	}

	if err := m.DropGraph(ctx, "social", false); err != nil {
		t.Fatalf("DropGraph error: %v", err)
	}
	if err := m.DropGraph(ctx, "social", false); err == nil {
		t.Error("dropping a missing graph should fail")
	}
}
