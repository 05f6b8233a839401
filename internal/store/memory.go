package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/kravuar/arangate/model"
)

// Memory is an in-memory implementation of Client used by unit tests to
// exercise dispatch and batch logic without a running database. Documents
// are really stored, so create-then-get round trips behave like the real
// store; queries return canned results pushed by the test.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memCollection
	graphs      map[string][]EdgeDefinition

	queryResults []cannedQuery
	queries      []ExecutedQuery
	transactions []ExecutedTransaction
	txResult     any

	errByOp map[string]*model.GatewayError
	keySeq  int
}

// ExecutedQuery captures one query the gateway ran against the store.
type ExecutedQuery struct {
	Query    string
	BindVars map[string]any
	Options  QueryOptions
}

// ExecutedTransaction captures one server-side transaction invocation.
type ExecutedTransaction struct {
	Collections TransactionCollections
	Action      string
	Params      map[string]any
}

type cannedQuery struct {
	records []Document
	count   int64
}

type memCollection struct {
	edge bool
	keys []string
	docs map[string]Document
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]*memCollection),
		graphs:      make(map[string][]EdgeDefinition),
		errByOp:     make(map[string]*model.GatewayError),
	}
}

// FailWith forces the named operation (e.g. "CreateDocument") to return the
// given error on every call until cleared.
func (m *Memory) FailWith(op string, err *model.GatewayError) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errByOp[op] = err
	return m
}

// PushQueryResult enqueues a canned result for the next RunQuery call.
func (m *Memory) PushQueryResult(records []Document, count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryResults = append(m.queryResults, cannedQuery{records: records, count: count})
}

// SetTransactionResult sets the value returned by RunTransaction.
func (m *Memory) SetTransactionResult(v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txResult = v
}

// Queries returns a snapshot of executed queries.
func (m *Memory) Queries() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.queries...)
}

// Transactions returns a snapshot of executed transactions.
func (m *Memory) Transactions() []ExecutedTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedTransaction(nil), m.transactions...)
}

// Seed creates a collection (if needed) and stores the given documents,
// which must carry _key.
func (m *Memory) Seed(collection string, docs ...Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	col := m.ensureCollection(collection, false)
	for _, d := range docs {
		key := d["_key"].(string)
		if _, exists := col.docs[key]; !exists {
			col.keys = append(col.keys, key)
		}
		col.docs[key] = cloneDoc(d)
	}
}

func (m *Memory) ensureCollection(name string, edge bool) *memCollection {
	col, ok := m.collections[name]
	if !ok {
		col = &memCollection{edge: edge, docs: make(map[string]Document)}
		m.collections[name] = col
	}
	return col
}

func (m *Memory) forced(op string) *model.GatewayError {
	if err, ok := m.errByOp[op]; ok {
		return err
	}
	return nil
}

func (m *Memory) GetDocument(_ context.Context, collection, key string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.forced("GetDocument"); err != nil {
		return nil, err
	}
	col, ok := m.collections[collection]
	if !ok {
		return nil, model.NewNotFoundError(fmt.Sprintf("collection %q not found", collection), nil)
	}
	doc, ok := col.docs[key]
	if !ok {
		return nil, model.NewNotFoundError("document not found", nil)
	}
	return cloneDoc(doc), nil
}

func (m *Memory) GetDocuments(_ context.Context, collection string, keys []string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.forced("GetDocuments"); err != nil {
		return nil, err
	}
	col, ok := m.collections[collection]
	if !ok {
		return nil, model.NewNotFoundError(fmt.Sprintf("collection %q not found", collection), nil)
	}
	out := make([]Document, 0, len(keys))
	for _, key := range keys {
		if doc, ok := col.docs[key]; ok {
			out = append(out, cloneDoc(doc))
		}
	}
	return out, nil
}

func (m *Memory) CreateDocument(_ context.Context, collection string, doc Document, opts CreateOptions) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.forced("CreateDocument"); err != nil {
		return nil, err
	}
	col := m.ensureCollection(collection, false)

	key, _ := doc["_key"].(string)
	if key == "" {
		m.keySeq++
		key = fmt.Sprintf("%d", 100000+m.keySeq)
	} else if _, exists := col.docs[key]; exists {
		return nil, model.NewConflictError(fmt.Sprintf("duplicate key %q", key), nil)
	}

	stored := cloneDoc(doc)
	stored["_key"] = key
	stored["_id"] = collection + "/" + key
	stored["_rev"] = "1"
	col.docs[key] = stored
	col.keys = append(col.keys, key)

	result := Document{"_id": stored["_id"], "_key": key, "_rev": "1"}
	if opts.ReturnNew {
		result = cloneDoc(stored)
	}
	return result, nil
}

func (m *Memory) UpdateDocument(_ context.Context, collection, key string, patch Document, opts UpdateOptions) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.forced("UpdateDocument"); err != nil {
		return nil, err
	}
	col, ok := m.collections[collection]
	if !ok {
		return nil, model.NewNotFoundError(fmt.Sprintf("collection %q not found", collection), nil)
	}
	doc, ok := col.docs[key]
	if !ok {
		return nil, model.NewNotFoundError("document not found", nil)
	}
	for k, v := range patch {
		if v == nil && !opts.KeepNull {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	result := Document{"_id": doc["_id"], "_key": key, "_rev": doc["_rev"]}
	if opts.ReturnNew {
		result = cloneDoc(doc)
	}
	return result, nil
}

func (m *Memory) ReplaceDocument(_ context.Context, collection, key string, doc Document, opts ReplaceOptions) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.forced("ReplaceDocument"); err != nil {
		return nil, err
	}
	col, ok := m.collections[collection]
	if !ok {
		return nil, model.NewNotFoundError(fmt.Sprintf("collection %q not found", collection), nil)
	}
	old, ok := col.docs[key]
	if !ok {
		return nil, model.NewNotFoundError("document not found", nil)
	}
	stored := cloneDoc(doc)
	stored["_key"] = key
	stored["_id"] = old["_id"]
	stored["_rev"] = "2"
	col.docs[key] = stored

	result := Document{"_id": stored["_id"], "_key": key, "_rev": "2"}
	if opts.ReturnNew {
		result = cloneDoc(stored)
	}
	return result, nil
}

func (m *Memory) DeleteDocument(_ context.Context, collection, key string, opts DeleteOptions) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.forced("DeleteDocument"); err != nil {
		return nil, err
	}
	col, ok := m.collections[collection]
	if !ok {
		return nil, model.NewNotFoundError(fmt.Sprintf("collection %q not found", collection), nil)
	}
	doc, ok := col.docs[key]
	if !ok {
		return nil, model.NewNotFoundError("document not found", nil)
	}
	delete(col.docs, key)
	for i, k := range col.keys {
		if k == key {
			col.keys = append(col.keys[:i], col.keys[i+1:]...)
			break
		}
	}
	if opts.ReturnOld {
		return cloneDoc(doc), nil
	}
	return Document{"_id": doc["_id"], "_key": key, "_rev": doc["_rev"]}, nil
}

func (m *Memory) RunQuery(_ context.Context, query string, bindVars map[string]any, opts QueryOptions) (Cursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.forced("RunQuery"); err != nil {
		return nil, err
	}
	m.queries = append(m.queries, ExecutedQuery{
		Query:    query,
		BindVars: cloneDoc(bindVars),
		Options:  opts,
	})
	if len(m.queryResults) == 0 {
		return &sliceCursor{count: -1}, nil
	}
	canned := m.queryResults[0]
	m.queryResults = m.queryResults[1:]
	count := canned.count
	if !opts.Count {
		count = -1
	}
	return &sliceCursor{records: canned.records, count: count}, nil
}

func (m *Memory) CreateCollection(_ context.Context, name string, opts CollectionOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.forced("CreateCollection"); err != nil {
		return err
	}
	if _, exists := m.collections[name]; exists {
		return model.NewConflictError(fmt.Sprintf("collection %q already exists", name), nil)
	}
	m.ensureCollection(name, opts.Edge)
	return nil
}

func (m *Memory) DropCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.forced("DropCollection"); err != nil {
		return err
	}
	if _, exists := m.collections[name]; !exists {
		return model.NewNotFoundError(fmt.Sprintf("collection %q not found", name), nil)
	}
	delete(m.collections, name)
	return nil
}

func (m *Memory) TruncateCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	col, exists := m.collections[name]
	if !exists {
		return model.NewNotFoundError(fmt.Sprintf("collection %q not found", name), nil)
	}
	col.docs = make(map[string]Document)
	col.keys = nil
	return nil
}

func (m *Memory) ListCollections(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	return names, nil
}

func (m *Memory) CreateGraph(_ context.Context, name string, defs []EdgeDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.forced("CreateGraph"); err != nil {
		return err
	}
	if _, exists := m.graphs[name]; exists {
		return model.NewConflictError(fmt.Sprintf("graph %q already exists", name), nil)
	}
	m.graphs[name] = defs
	for _, d := range defs {
		m.ensureCollection(d.Collection, true)
		for _, v := range append(d.From, d.To...) {
			m.ensureCollection(v, false)
		}
	}
	return nil
}

func (m *Memory) DropGraph(_ context.Context, name string, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.graphs[name]; !exists {
		return model.NewNotFoundError(fmt.Sprintf("graph %q not found", name), nil)
	}
	delete(m.graphs, name)
	return nil
}

func (m *Memory) ListGraphs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.graphs))
	for name := range m.graphs {
		names = append(names, name)
	}
	return names, nil
}

func (m *Memory) SaveVertex(ctx context.Context, graph, collection string, doc Document, returnNew bool) (Document, error) {
	m.mu.Lock()
	_, exists := m.graphs[graph]
	m.mu.Unlock()
	if !exists {
		return nil, model.NewNotFoundError(fmt.Sprintf("graph %q not found", graph), nil)
	}
	return m.CreateDocument(ctx, collection, doc, CreateOptions{ReturnNew: returnNew})
}

func (m *Memory) RemoveVertex(ctx context.Context, graph, collection, key string) error {
	m.mu.Lock()
	_, exists := m.graphs[graph]
	m.mu.Unlock()
	if !exists {
		return model.NewNotFoundError(fmt.Sprintf("graph %q not found", graph), nil)
	}
	_, err := m.DeleteDocument(ctx, collection, key, DeleteOptions{})
	return err
}

func (m *Memory) SaveEdge(ctx context.Context, graph, collection, from, to string, doc Document) (Document, error) {
	m.mu.Lock()
	_, exists := m.graphs[graph]
	m.mu.Unlock()
	if !exists {
		return nil, model.NewNotFoundError(fmt.Sprintf("graph %q not found", graph), nil)
	}
	edge := cloneDoc(doc)
	edge["_from"] = from
	edge["_to"] = to
	return m.CreateDocument(ctx, collection, edge, CreateOptions{})
}

func (m *Memory) RemoveEdge(ctx context.Context, graph, collection, key string) error {
	return m.RemoveVertex(ctx, graph, collection, key)
}

func (m *Memory) RunTransaction(_ context.Context, cols TransactionCollections, action string, params map[string]any) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.forced("RunTransaction"); err != nil {
		return nil, err
	}
	m.transactions = append(m.transactions, ExecutedTransaction{
		Collections: cols,
		Action:      action,
		Params:      cloneDoc(params),
	})
	return m.txResult, nil
}

// sliceCursor is a Cursor over an in-memory record slice.
type sliceCursor struct {
	records []Document
	pos     int
	count   int64
}

func (c *sliceCursor) HasMore() bool {
	return c.pos < len(c.records)
}

func (c *sliceCursor) Next(context.Context) (Document, error) {
	if c.pos >= len(c.records) {
		return nil, model.NewAdapterError(0, "cursor exhausted", nil)
	}
	doc := c.records[c.pos]
	c.pos++
	return doc, nil
}

func (c *sliceCursor) Count() int64 { return c.count }

func (c *sliceCursor) Close() error { return nil }

func cloneDoc(src Document) Document {
	if src == nil {
		return nil
	}
	dst := make(Document, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
