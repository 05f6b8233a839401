// Package store defines the narrow seam between the gateway and the backing
// graph/document database, plus its production ArangoDB implementation and an
// in-memory fake for tests. The gateway depends only on the Client interface;
// connection lifecycle belongs to the caller of Dial.
package store

import "context"

// Document is a single record exchanged with the store.
type Document = map[string]any

// CreateOptions configures document creation.
type CreateOptions struct {
	ReturnNew   bool
	WaitForSync bool
}

// UpdateOptions configures partial document updates.
type UpdateOptions struct {
	ReturnNew bool
	KeepNull  bool
}

// ReplaceOptions configures document replacement.
type ReplaceOptions struct {
	ReturnNew bool
}

// DeleteOptions configures document removal.
type DeleteOptions struct {
	ReturnOld bool
}

// QueryOptions configures AQL query execution.
type QueryOptions struct {
	BatchSize int
	Count     bool
	FullCount bool
}

// CollectionOptions configures collection creation.
type CollectionOptions struct {
	Edge        bool
	WaitForSync bool
}

// EdgeDefinition declares one edge collection of a named graph together with
// the vertex collections it connects.
type EdgeDefinition struct {
	Collection string   `json:"collection"`
	From       []string `json:"from"`
	To         []string `json:"to"`
}

// TransactionCollections declares the collections a server-side transaction
// reads and writes.
type TransactionCollections struct {
	Read  []string
	Write []string
}

// Cursor is a paged result of a query. Callers drain it with Next until
// HasMore reports false, then Close it.
type Cursor interface {
	// HasMore reports whether another record can be read.
	HasMore() bool
	// Next reads the next record. Non-object results are wrapped as
	// {"value": ...} so every record is a Document.
	Next(ctx context.Context) (Document, error)
	// Count returns the store-reported total, or -1 when counting was not
	// requested.
	Count() int64
	Close() error
}

// Client is the gateway's view of the backing store. Every call may suspend
// on network I/O; failures surface as *model.GatewayError with kind
// ADAPTER_ERROR, NOT_FOUND, or CONFLICT.
type Client interface {
	GetDocument(ctx context.Context, collection, key string) (Document, error)
	GetDocuments(ctx context.Context, collection string, keys []string) ([]Document, error)
	CreateDocument(ctx context.Context, collection string, doc Document, opts CreateOptions) (Document, error)
	UpdateDocument(ctx context.Context, collection, key string, patch Document, opts UpdateOptions) (Document, error)
	ReplaceDocument(ctx context.Context, collection, key string, doc Document, opts ReplaceOptions) (Document, error)
	DeleteDocument(ctx context.Context, collection, key string, opts DeleteOptions) (Document, error)

	RunQuery(ctx context.Context, query string, bindVars map[string]any, opts QueryOptions) (Cursor, error)

	CreateCollection(ctx context.Context, name string, opts CollectionOptions) error
	DropCollection(ctx context.Context, name string) error
	TruncateCollection(ctx context.Context, name string) error
	ListCollections(ctx context.Context) ([]string, error)

	CreateGraph(ctx context.Context, name string, defs []EdgeDefinition) error
	DropGraph(ctx context.Context, name string, dropCollections bool) error
	ListGraphs(ctx context.Context) ([]string, error)
	SaveVertex(ctx context.Context, graph, collection string, doc Document, returnNew bool) (Document, error)
	RemoveVertex(ctx context.Context, graph, collection, key string) error
	SaveEdge(ctx context.Context, graph, collection, from, to string, doc Document) (Document, error)
	RemoveEdge(ctx context.Context, graph, collection, key string) error

	RunTransaction(ctx context.Context, cols TransactionCollections, action string, params map[string]any) (any, error)
}
