package dispatch

import (
	"context"

	"github.com/kravuar/arangate/internal/params"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

// queryExecute runs a caller-supplied AQL query. The query text is opaque to
// the gateway; all values travel as named bind parameters.
func queryExecute(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	opts := store.QueryOptions{
		BatchSize: p.Int("batchSize"),
		Count:     p.Bool("count"),
		FullCount: p.Bool("fullCount"),
	}

	cur, err := client.RunQuery(ctx, p.String("query"), p.Doc("bindVars"), opts)
	if err != nil {
		return model.ExecutionResult{}, err
	}

	records, count, err := drainCursor(ctx, cur)
	if err != nil {
		return model.ExecutionResult{}, err
	}
	if opts.Count {
		return model.CountedListResult(records, count), nil
	}
	return model.ListResult(records), nil
}
