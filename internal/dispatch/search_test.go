package dispatch

import (
	"strings"
	"testing"

	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

func TestSearchVectorQueryShape(t *testing.T) {
	m := store.NewMemory()
	m.PushQueryResult([]store.Document{{"_key": "d1", "score": 0.97}}, -1)

	res := mustExecute(t, m, "search", "vector", map[string]any{
		"collection": "embeddings",
		"field":      "vector",
		"vector":     []any{0.1, 0.2, 0.3},
		"limit":      float64(5),
	})
	if len(res.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(res.Records))
	}

	q := m.Queries()[0]
	if !strings.Contains(q.Query, "COSINE_SIMILARITY") {
		t.Errorf("query = %q", q.Query)
	}
	if !strings.Contains(q.Query, "embeddings") {
		t.Errorf("collection not interpolated: %q", q.Query)
	}
	vec, ok := q.BindVars["vector"].([]any)
	if !ok || len(vec) != 3 {
		t.Errorf("vector not bound: %v", q.BindVars)
	}
	if q.BindVars["limit"] != 5 {
		t.Errorf("limit not bound: %v", q.BindVars)
	}
}

func TestSearchVectorHostileFieldRejected(t *testing.T) {
	m := store.NewMemory()

	_, err := execute(t, m, "search", "vector", map[string]any{
		"collection": "embeddings",
		"field":      "v` , @x) RETURN 1 //",
		"vector":     []any{0.1},
	})
	if err == nil {
		t.Fatal("hostile field name accepted")
	}
	if err.(*model.GatewayError).Kind != model.ErrValidation {
		t.Errorf("Kind = %q", err.(*model.GatewayError).Kind)
	}
	if len(m.Queries()) != 0 {
		t.Error("query executed despite invalid field")
	}
}

func TestSearchFulltextBindsTerms(t *testing.T) {
	m := store.NewMemory()
	m.PushQueryResult(nil, -1)

	mustExecute(t, m, "search", "fulltext", map[string]any{
		"collection": "articles",
		"field":      "body",
		"query":      "prefix:graph,database",
	})

	q := m.Queries()[0]
	if !strings.Contains(q.Query, "FULLTEXT(articles") {
		t.Errorf("query = %q", q.Query)
	}
	if q.BindVars["query"] != "prefix:graph,database" {
		t.Errorf("search terms not bound: %v", q.BindVars)
	}
	if q.BindVars["limit"] != 100 {
		t.Errorf("default limit not applied: %v", q.BindVars)
	}
}
