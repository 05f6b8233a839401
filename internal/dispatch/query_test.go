package dispatch

import (
	"testing"

	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

func TestQueryExecuteCounted(t *testing.T) {
	m := store.NewMemory()
	m.PushQueryResult([]store.Document{{"v": float64(1)}, {"v": float64(2)}}, 42)

	res := mustExecute(t, m, "query", "execute", map[string]any{
		"query":    "FOR d IN docs LIMIT 2 RETURN d",
		"bindVars": map[string]any{},
		"count":    true,
	})
	if res.Kind != model.ResultList {
		t.Fatalf("Kind = %v, want list", res.Kind)
	}
	if len(res.Records) != 2 {
		t.Errorf("got %d records, want 2", len(res.Records))
	}
	if res.Count != 42 {
		t.Errorf("Count = %d, want 42", res.Count)
	}
}

func TestQueryExecuteUncountedHasNoAnnotation(t *testing.T) {
	m := store.NewMemory()
	m.PushQueryResult([]store.Document{{"v": float64(1)}}, 42)

	res := mustExecute(t, m, "query", "execute", map[string]any{
		"query": "FOR d IN docs RETURN d",
	})
	if res.Count != -1 {
		t.Errorf("Count = %d, want -1 without count option", res.Count)
	}
}

func TestQueryExecutePassesBindVarsAndOptions(t *testing.T) {
	m := store.NewMemory()
	m.PushQueryResult(nil, -1)

	mustExecute(t, m, "query", "execute", map[string]any{
		"query":     "FOR d IN docs FILTER d.name == @name RETURN d",
		"bindVars":  map[string]any{"name": "neo"},
		"batchSize": float64(50),
	})

	q := m.Queries()[0]
	if q.BindVars["name"] != "neo" {
		t.Errorf("bindVars = %v", q.BindVars)
	}
	if q.Options.BatchSize != 50 {
		t.Errorf("BatchSize = %d, want 50", q.Options.BatchSize)
	}
}

func TestQueryExecuteEmptyResult(t *testing.T) {
	m := store.NewMemory()

	res := mustExecute(t, m, "query", "execute", map[string]any{
		"query": "FOR d IN docs FILTER false RETURN d",
	})
	if len(res.Records) != 0 {
		t.Errorf("got %d records, want 0", len(res.Records))
	}
}
