package dispatch

import (
	"context"

	"github.com/kravuar/arangate/internal/params"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

func documentGet(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	doc, err := client.GetDocument(ctx, p.String("collection"), p.String("key"))
	if err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(doc), nil
}

func documentGetMany(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	keys, err := stringSlice("keys", p.Array("keys"))
	if err != nil {
		return model.ExecutionResult{}, err
	}
	docs, err := client.GetDocuments(ctx, p.String("collection"), keys)
	if err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ListResult(docs), nil
}

func documentCreate(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	doc, err := client.CreateDocument(ctx, p.String("collection"), p.Doc("data"), store.CreateOptions{
		ReturnNew:   p.Bool("returnNew"),
		WaitForSync: p.Bool("waitForSync"),
	})
	if err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(doc), nil
}

func documentUpdate(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	doc, err := client.UpdateDocument(ctx, p.String("collection"), p.String("key"), p.Doc("data"), store.UpdateOptions{
		ReturnNew: p.Bool("returnNew"),
		KeepNull:  p.Bool("keepNull"),
	})
	if err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(doc), nil
}

func documentReplace(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	doc, err := client.ReplaceDocument(ctx, p.String("collection"), p.String("key"), p.Doc("data"), store.ReplaceOptions{
		ReturnNew: p.Bool("returnNew"),
	})
	if err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(doc), nil
}

func documentRemove(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	doc, err := client.DeleteDocument(ctx, p.String("collection"), p.String("key"), store.DeleteOptions{
		ReturnOld: p.Bool("returnOld"),
	})
	if err != nil {
		return model.ExecutionResult{}, err
	}
	return model.ScalarResult(doc), nil
}
