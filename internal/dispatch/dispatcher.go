// Package dispatch routes a resolved (resource, operation) invocation to
// exactly one handler and executes it against the store client. Routing is a
// pure table lookup; new operations are additive registrations.
package dispatch

import (
	"context"
	"fmt"

	"github.com/kravuar/arangate/internal/catalog"
	"github.com/kravuar/arangate/internal/params"
	"github.com/kravuar/arangate/internal/store"
	"github.com/kravuar/arangate/model"
)

// Handler executes one operation for one batch item against the store.
type Handler func(ctx context.Context, client store.Client, p params.Resolved) (model.ExecutionResult, error)

// Dispatcher maps "resource.operation" keys to handlers.
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher builds the dispatcher and verifies that every cataloged
// operation has exactly one handler. A mismatch is a wiring mistake at
// startup, so it panics.
func NewDispatcher(reg *catalog.Registry) *Dispatcher {
	d := &Dispatcher{handlers: make(map[string]Handler)}

	d.register("document.get", documentGet)
	d.register("document.getMany", documentGetMany)
	d.register("document.create", documentCreate)
	d.register("document.update", documentUpdate)
	d.register("document.replace", documentReplace)
	d.register("document.remove", documentRemove)

	d.register("collection.create", collectionCreate)
	d.register("collection.drop", collectionDrop)
	d.register("collection.truncate", collectionTruncate)
	d.register("collection.list", collectionList)

	d.register("query.execute", queryExecute)

	d.register("graph.create", graphCreate)
	d.register("graph.drop", graphDrop)
	d.register("graph.list", graphList)
	d.register("graph.addVertex", graphAddVertex)
	d.register("graph.removeVertex", graphRemoveVertex)
	d.register("graph.addEdge", graphAddEdge)
	d.register("graph.removeEdge", graphRemoveEdge)
	d.register("graph.traverse", graphTraverse)
	d.register("graph.neighbors", graphNeighbors)
	d.register("graph.shortestPath", graphShortestPath)

	d.register("search.vector", searchVector)
	d.register("search.fulltext", searchFulltext)

	d.register("bulk.insertMany", bulkInsertMany)
	d.register("bulk.updateMany", bulkUpdateMany)
	d.register("bulk.replaceMany", bulkReplaceMany)
	d.register("bulk.removeMany", bulkRemoveMany)

	d.register("transaction.execute", transactionExecute)

	for _, desc := range reg.All() {
		if _, ok := d.handlers[desc.Key()]; !ok {
			panic(fmt.Sprintf("dispatch: cataloged operation %q has no handler", desc.Key()))
		}
	}

	return d
}

func (d *Dispatcher) register(key string, h Handler) {
	if _, exists := d.handlers[key]; exists {
		panic(fmt.Sprintf("dispatch: handler %q already registered", key))
	}
	d.handlers[key] = h
}

// Dispatch runs the handler registered for the descriptor. The descriptor
// comes from the catalog, so a missing handler cannot happen after the
// NewDispatcher wiring check.
func (d *Dispatcher) Dispatch(ctx context.Context, client store.Client, desc catalog.OperationDescriptor, p params.Resolved) (model.ExecutionResult, error) {
	h, ok := d.handlers[desc.Key()]
	if !ok {
		return model.ExecutionResult{}, model.NewUnknownOperationError(desc.Resource, desc.Operation)
	}
	return h(ctx, client, p)
}

// drainCursor fully materializes a cursor into an ordered record slice.
// Partial or streamed results are never exposed to gateway callers.
func drainCursor(ctx context.Context, cur store.Cursor) ([]store.Document, int64, error) {
	defer cur.Close()

	var records []store.Document
	for cur.HasMore() {
		doc, err := cur.Next(ctx)
		if err != nil {
			return nil, -1, err
		}
		records = append(records, doc)
	}
	return records, cur.Count(), nil
}

// stringSlice converts a resolved JSON array parameter to []string, failing
// with a validation error naming the parameter and offending position.
func stringSlice(name string, raw []any) ([]string, error) {
	out := make([]string, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, model.NewValidationError(
				"parameter %q element %d must be a string, got %T", name, i, v)
		}
		out[i] = s
	}
	return out, nil
}
