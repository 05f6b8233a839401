package dispatch

import (
	"context"
	"sort"

	"github.com/kravuar/arangate/internal/params"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

func collectionCreate(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	name := p.String("name")
	err := client.CreateCollection(ctx, name, store.CollectionOptions{
		Edge:        p.Bool("edge"),
		WaitForSync: p.Bool("waitForSync"),
	})
	if err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(map[string]any{"name": name, "created": true}), nil
}

func collectionDrop(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	name := p.String("name")
	if err := client.DropCollection(ctx, name); err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(map[string]any{"name": name, "dropped": true}), nil
}

func collectionTruncate(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	name := p.String("name")
	if err := client.TruncateCollection(ctx, name); err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(map[string]any{"name": name, "truncated": true}), nil
}

func collectionList(ctx context.Context, client store.Client, _ params.Resolved) (model.ExecutionResult, error) {
	names, err := client.ListCollections(ctx)
	if err != nil {
		return model.ExecutionResult{}, err
	}
	sort.Strings(names)
	records := make([]map[string]any, len(names))
	for i, name := range names {
		records[i] = map[string]any{"name": name}
	}
	return model.ListResult(records), nil
}
