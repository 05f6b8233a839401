package dispatch

import (
	"context"

	"github.com/kravuar/arangate/internal/params"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

// Bulk handlers run their constituent operations in the order given. A
// failing constituent is reported as an element-level failure inside the
// result list; it never aborts the remaining constituents. Callers needing
// all-or-nothing semantics use transaction.execute instead.

func bulkInsertMany(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	collection := p.String("collection")
	returnNew := p.Bool("returnNew")
	items := p.Array("items")

	records := make([]map[string]any, len(items))
	for i, el := range items {
		doc, ok := el.(map[string]any)
		if !ok {
			records[i] = elementFailure(i, "element must be an object")
			continue
		}
		created, err := client.CreateDocument(ctx, collection, doc, store.CreateOptions{ReturnNew: returnNew})
		if err != nil {
			records[i] = elementFailure(i, err.Error())
			continue
		}
		records[i] = elementSuccess(i, created)
	}
	return model.ListResult(records), nil
}

func bulkUpdateMany(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	collection := p.String("collection")
	keepNull := p.Bool("keepNull")
	items := p.Array("items")

	records := make([]map[string]any, len(items))
	for i, el := range items {
		key, data, msg := bulkEntry(el)
		if msg != "" {
			records[i] = elementFailure(i, msg)
			continue
		}
		updated, err := client.UpdateDocument(ctx, collection, key, data, store.UpdateOptions{KeepNull: keepNull})
		if err != nil {
			records[i] = elementFailure(i, err.Error())
			continue
		}
		records[i] = elementSuccess(i, updated)
	}
	return model.ListResult(records), nil
}

func bulkReplaceMany(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	collection := p.String("collection")
	items := p.Array("items")

	records := make([]map[string]any, len(items))
	for i, el := range items {
		key, data, msg := bulkEntry(el)
		if msg != "" {
			records[i] = elementFailure(i, msg)
			continue
		}
		replaced, err := client.ReplaceDocument(ctx, collection, key, data, store.ReplaceOptions{})
		if err != nil {
			records[i] = elementFailure(i, err.Error())
			continue
		}
		records[i] = elementSuccess(i, replaced)
	}
	return model.ListResult(records), nil
}

func bulkRemoveMany(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	collection := p.String("collection")
	keys := p.Array("keys")

	records := make([]map[string]any, len(keys))
	for i, el := range keys {
		key, ok := el.(string)
		if !ok {
			records[i] = elementFailure(i, "element must be a string key")
			continue
		}
		removed, err := client.DeleteDocument(ctx, collection, key, store.DeleteOptions{})
		if err != nil {
			records[i] = elementFailure(i, err.Error())
			continue
		}
		records[i] = elementSuccess(i, removed)
	}
	return model.ListResult(records), nil
}

// bulkEntry decodes one update/replace constituent of shape {key, data}.
func bulkEntry(el any) (key string, data map[string]any, errMsg string) {
	obj, ok := el.(map[string]any)
	if !ok {
		return "", nil, "element must be an object"
	}
	key, ok = obj["key"].(string)
	if !ok || key == "" {
		return "", nil, `element is missing a "key" string`
	}
	data, ok = obj["data"].(map[string]any)
	if !ok {
		return "", nil, `element is missing a "data" object`
	}
	return key, data, ""
}

func elementSuccess(index int, doc map[string]any) map[string]any {
	out := map[string]any{"index": index, "success": true}
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func elementFailure(index int, msg string) map[string]any {
	return map[string]any{"index": index, "success": false, "error": msg}
}
