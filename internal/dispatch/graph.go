package dispatch

import (
	"context"
	"fmt"
	"sort"

	"github.com/kravuar/arangate/internal/params"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

func graphCreate(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	name := p.String("name")
	defs, err := edgeDefinitions(p.Array("edgeDefinitions"))
	if err != nil {
		return model.ExecutionResult{}, err
	}
	if err := client.CreateGraph(ctx, name, defs); err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(map[string]any{"name": name, "created": true}), nil
}

func graphDrop(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	name := p.String("name")
	if err := client.DropGraph(ctx, name, p.Bool("dropCollections")); err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(map[string]any{"name": name, "dropped": true}), nil
}

func graphList(ctx context.Context, client store.Client, _ params.Resolved) (model.ExecutionResult, error) {
	names, err := client.ListGraphs(ctx)
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

func graphAddVertex(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	doc, err := client.SaveVertex(ctx, p.String("graph"), p.String("collection"), p.Doc("data"), p.Bool("returnNew"))
	if err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(doc), nil
}

func graphRemoveVertex(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	key := p.String("key")
	if err := client.RemoveVertex(ctx, p.String("graph"), p.String("collection"), key); err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(map[string]any{"_key": key, "removed": true}), nil
}

func graphAddEdge(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	doc, err := client.SaveEdge(ctx, p.String("graph"), p.String("collection"), p.String("from"), p.String("to"), p.Doc("data"))
	if err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(doc), nil
}

func graphRemoveEdge(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	key := p.String("key")
	if err := client.RemoveEdge(ctx, p.String("graph"), p.String("collection"), key); err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(map[string]any{"_key": key, "removed": true}), nil
}

// Traversal queries are built from templates. The graph name and direction
// keyword cannot be bound as AQL parameters, so they are interpolated — but
// only after allow-list validation by the parameter resolver. Vertices and
// depths always travel as named bind parameters.

func graphTraverse(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	query := fmt.Sprintf(
		"FOR v IN @minDepth..@maxDepth %s @startVertex GRAPH %q RETURN v",
		p.String("direction"), p.String("graph"),
	)
	return runListQuery(ctx, client, query, map[string]any{
		"minDepth":    p.Int("minDepth"),
		"maxDepth":    p.Int("maxDepth"),
		"startVertex": p.String("startVertex"),
	})
}

func graphNeighbors(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	query := fmt.Sprintf(
		"FOR v IN 1..1 %s @startVertex GRAPH %q RETURN DISTINCT v",
		p.String("direction"), p.String("graph"),
	)
	return runListQuery(ctx, client, query, map[string]any{
		"startVertex": p.String("startVertex"),
	})
}

func graphShortestPath(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	query := fmt.Sprintf(
		"FOR v IN %s SHORTEST_PATH @startVertex TO @endVertex GRAPH %q RETURN v",
		p.String("direction"), p.String("graph"),
	)
	return runListQuery(ctx, client, query, map[string]any{
		"startVertex": p.String("startVertex"),
		"endVertex":   p.String("endVertex"),
	})
}

func runListQuery(ctx context.Context, client store.Client, query string, bindVars map[string]any) (model.ExecutionResult, error) {
	cur, err := client.RunQuery(ctx, query, bindVars, store.QueryOptions{})
	if err != nil {
		return model.ExecutionResult{}, err
	}
	records, _, err := drainCursor(ctx, cur)
	if err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ListResult(records), nil
}

// edgeDefinitions decodes the edgeDefinitions parameter. Collection names
// inside definitions are identifiers, so they get the same allow-list check
// as top-level identifier parameters.
func edgeDefinitions(raw []any) ([]store.EdgeDefinition, error) {
	if len(raw) == 0 {
		return nil, model.NewValidationError("parameter %q must not be empty", "edgeDefinitions")
	}
	defs := make([]store.EdgeDefinition, 0, len(raw))
	for i, el := range raw {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, model.NewValidationError(
				"parameter %q element %d must be an object", "edgeDefinitions", i)
		}
		col, _ := obj["collection"].(string)
		from, err := identifierList(fmt.Sprintf("edgeDefinitions[%d].from", i), obj["from"])
		if err != nil {
			return nil, err
		}
		to, err := identifierList(fmt.Sprintf("edgeDefinitions[%d].to", i), obj["to"])
		if err != nil {
			return nil, err
		}
		if err := params.ValidateIdentifier(fmt.Sprintf("edgeDefinitions[%d].collection", i), col); err != nil {
			return nil, err
		}
		defs = append(defs, store.EdgeDefinition{Collection: col, From: from, To: to})
	}
	return defs, nil
}

func identifierList(name string, raw any) ([]string, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) == 0 {
		return nil, model.NewValidationError("parameter %q must be a non-empty array", name)
	}
	out, err := stringSlice(name, arr)
	if err != nil {
		return nil, err
	}
	for _, id := range out {
		if err := params.ValidateIdentifier(name, id); err != nil {
			return nil, err
		}
	}
	return out, nil
}
