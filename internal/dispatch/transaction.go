package dispatch

import (
	"context"

	"github.com/kravuar/arangate/internal/params"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

// transactionExecute delegates to the store's server-side transaction: every
// statement in the action body commits, or none do. Collection lists are
// checked before the adapter call so an invalid declaration never reaches
// the store.
func transactionExecute(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error) {
	read, err := stringSlice("readCollections", p.Array("readCollections"))
	if err != nil {
		return model.ExecutionResult{}, err
	}
	write, err := stringSlice("writeCollections", p.Array("writeCollections"))
	if err != nil {
		return model.ExecutionResult{}, err
	}

	result, err := client.RunTransaction(ctx, store.TransactionCollections{
		Read:  read,
		Write: write,
	}, p.String("action"), p.Doc("params"))
	if err != nil {
		return model.ExecutionResult{}, err
	}

	if doc, ok := result.(map[string]any); ok {
		return model.ScalarResult(doc), nil
	}
	return model.ScalarResult(map[string]any{"result": result}), nil
}
