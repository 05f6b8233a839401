package dispatch

import (
	"context"
	"fmt"

	"github.com/kravuar/arangate/internal/params"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

// searchVector ranks documents of a collection by cosine similarity between
// a stored vector field and the query vector. Collection and field names are
// validated identifiers interpolated into the template; the vector and limit
// are bound.
func searchVector(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	query := fmt.Sprintf(
		"FOR doc IN %s LET score = COSINE_SIMILARITY(doc.`%s`, @vector) "+
			"SORT score DESC LIMIT @limit RETURN MERGE(doc, {score: score})",
		p.String("collection"), p.String("field"),
	)
	return runListQuery(ctx, client, query, map[string]any{
		"vector": p.Array("vector"),
		"limit":  p.Int("limit"),
	})
}

// searchFulltext runs a full-text lookup against an indexed field. Only the
// collection name is interpolated; attribute, query, and limit are bound.
func searchFulltext(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	query := fmt.Sprintf(
		"FOR doc IN FULLTEXT(%s, @field, @query, @limit) RETURN doc",
		p.String("collection"),
	)
	return runListQuery(ctx, client, query, map[string]any{
		"field": p.String("field"),
		"query": p.String("query"),
		"limit": p.Int("limit"),
	})
}
