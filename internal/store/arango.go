package store

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	driver "github.com/arangodb/go-driver"
	driverhttp "github.com/arangodb/go-driver/http"

	"github.com/kravuar/arangate/model"
)

// arangoClient implements Client on the official ArangoDB Go driver.
type arangoClient struct {
	db driver.Database
}

// DialOptions bounds the two phases of a store conversation. A zero value
// means no bound for that phase.
type DialOptions struct {
	// ConnectTimeout limits establishing the TCP connection and the initial
	// database lookup.
	ConnectTimeout time.Duration
	// RequestTimeout limits waiting for the store's response headers on every
	// request sent over the connection.
	RequestTimeout time.Duration
}

// Dial opens a connection to the database named in cfg using basic
// authentication. The returned client is safe for concurrent reads and is
// expected to serve exactly one batch invocation.
func Dial(ctx context.Context, cfg model.ConnectionConfig, opts DialOptions) (Client, error) {
	port := cfg.Port
	if port == 0 {
		port = 8529
	}
	conn, err := driverhttp.NewConnection(driverhttp.ConnectionConfig{
		Endpoints: []string{fmt.Sprintf("http://%s:%d", cfg.Host, port)},
		Transport: dialTransport(opts),
	})
	if err != nil {
		return nil, model.NewAdapterError(0, fmt.Sprintf("connect: %v", err), err)
	}

	c, err := driver.NewClient(driver.ClientConfig{
		Connection:     conn,
		Authentication: driver.BasicAuthentication(cfg.Username, cfg.Password),
	})
	if err != nil {
		return nil, model.NewAdapterError(0, fmt.Sprintf("client: %v", err), err)
	}

	lookupCtx := ctx
	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}
	db, err := c.Database(lookupCtx, cfg.Database)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("database %q", cfg.Database))
	}

	return &arangoClient{db: db}, nil
}

// dialTransport builds the HTTP transport carrying the configured timeouts:
// the TCP dial is bounded by ConnectTimeout, every round trip over the
// connection by RequestTimeout.
func dialTransport(opts DialOptions) *http.Transport {
	return &http.Transport{
		DialContext:           (&net.Dialer{Timeout: opts.ConnectTimeout}).DialContext,
		ResponseHeaderTimeout: opts.RequestTimeout,
	}
}

func (a *arangoClient) collection(ctx context.Context, name string) (driver.Collection, error) {
	col, err := a.db.Collection(ctx, name)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("collection %q", name))
	}
	return col, nil
}

func (a *arangoClient) GetDocument(ctx context.Context, collection, key string) (Document, error) {
	col, err := a.collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	var doc Document
	if _, err := col.ReadDocument(ctx, key, &doc); err != nil {
		return nil, mapError(err, fmt.Sprintf("document %q", key))
	}
	return doc, nil
}

func (a *arangoClient) GetDocuments(ctx context.Context, collection string, keys []string) ([]Document, error) {
	col, err := a.collection(ctx, collection)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, len(keys))
	_, errSlice, err := col.ReadDocuments(ctx, keys, docs)
	if err != nil {
		return nil, mapError(err, "documents")
	}
	// Keep only the documents that were found, preserving key order.
	out := make([]Document, 0, len(keys))
	for i := range keys {
		if errSlice[i] != nil {
			continue
		}
		out = append(out, docs[i])
	}
	return out, nil
}

func (a *arangoClient) CreateDocument(ctx context.Context, collection string, doc Document, opts CreateOptions) (Document, error) {
	col, err := a.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	if opts.WaitForSync {
		callCtx = driver.WithWaitForSync(callCtx, true)
	}
	var newDoc Document
	if opts.ReturnNew {
		callCtx = driver.WithReturnNew(callCtx, &newDoc)
	}

	meta, err := col.CreateDocument(callCtx, doc)
	if err != nil {
		return nil, mapError(err, "document")
	}
	return metaResult(meta, newDoc), nil
}

func (a *arangoClient) UpdateDocument(ctx context.Context, collection, key string, patch Document, opts UpdateOptions) (Document, error) {
	col, err := a.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	callCtx := driver.WithKeepNull(ctx, opts.KeepNull)
	var newDoc Document
	if opts.ReturnNew {
		callCtx = driver.WithReturnNew(callCtx, &newDoc)
	}

	meta, err := col.UpdateDocument(callCtx, key, patch)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("document %q", key))
	}
	return metaResult(meta, newDoc), nil
}

func (a *arangoClient) ReplaceDocument(ctx context.Context, collection, key string, doc Document, opts ReplaceOptions) (Document, error) {
	col, err := a.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	var newDoc Document
	if opts.ReturnNew {
		callCtx = driver.WithReturnNew(callCtx, &newDoc)
	}

	meta, err := col.ReplaceDocument(callCtx, key, doc)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("document %q", key))
	}
	return metaResult(meta, newDoc), nil
}

func (a *arangoClient) DeleteDocument(ctx context.Context, collection, key string, opts DeleteOptions) (Document, error) {
	col, err := a.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	var oldDoc Document
	if opts.ReturnOld {
		callCtx = driver.WithReturnOld(callCtx, &oldDoc)
	}

	meta, err := col.RemoveDocument(callCtx, key)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("document %q", key))
	}
	if opts.ReturnOld {
		return metaResult(meta, oldDoc), nil
	}
	return metaResult(meta, nil), nil
}

func (a *arangoClient) RunQuery(ctx context.Context, query string, bindVars map[string]any, opts QueryOptions) (Cursor, error) {
	callCtx := driver.WithQueryCount(ctx, opts.Count)
	if opts.BatchSize > 0 {
		callCtx = driver.WithQueryBatchSize(callCtx, opts.BatchSize)
	}
	if opts.FullCount {
		callCtx = driver.WithQueryFullCount(callCtx)
	}

	cur, err := a.db.Query(callCtx, query, bindVars)
	if err != nil {
		return nil, mapError(err, "query")
	}
	return &arangoCursor{cur: cur, counted: opts.Count}, nil
}

func (a *arangoClient) CreateCollection(ctx context.Context, name string, opts CollectionOptions) error {
	colOpts := &driver.CreateCollectionOptions{WaitForSync: opts.WaitForSync}
	if opts.Edge {
		colOpts.Type = driver.CollectionTypeEdge
	}
	if _, err := a.db.CreateCollection(ctx, name, colOpts); err != nil {
		return mapError(err, fmt.Sprintf("collection %q", name))
	}
	return nil
}

func (a *arangoClient) DropCollection(ctx context.Context, name string) error {
	col, err := a.collection(ctx, name)
	if err != nil {
		return err
	}
	if err := col.Remove(ctx); err != nil {
		return mapError(err, fmt.Sprintf("collection %q", name))
	}
	return nil
}

func (a *arangoClient) TruncateCollection(ctx context.Context, name string) error {
	col, err := a.collection(ctx, name)
	if err != nil {
		return err
	}
	if err := col.Truncate(ctx); err != nil {
		return mapError(err, fmt.Sprintf("collection %q", name))
	}
	return nil
}

func (a *arangoClient) ListCollections(ctx context.Context) ([]string, error) {
	cols, err := a.db.Collections(ctx)
	if err != nil {
		return nil, mapError(err, "collections")
	}
	names := make([]string, 0, len(cols))
	for _, col := range cols {
		names = append(names, col.Name())
	}
	return names, nil
}

func (a *arangoClient) CreateGraph(ctx context.Context, name string, defs []EdgeDefinition) error {
	opts := &driver.CreateGraphOptions{}
	for _, d := range defs {
		opts.EdgeDefinitions = append(opts.EdgeDefinitions, driver.EdgeDefinition{
			Collection: d.Collection,
			From:       d.From,
			To:         d.To,
		})
	}
	if _, err := a.db.CreateGraphV2(ctx, name, opts); err != nil {
		return mapError(err, fmt.Sprintf("graph %q", name))
	}
	return nil
}

func (a *arangoClient) graph(ctx context.Context, name string) (driver.Graph, error) {
	g, err := a.db.Graph(ctx, name)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("graph %q", name))
	}
	return g, nil
}

func (a *arangoClient) DropGraph(ctx context.Context, name string, dropCollections bool) error {
	g, err := a.graph(ctx, name)
	if err != nil {
		return err
	}
	if dropCollections {
		err = g.RemoveWithOpts(ctx, &driver.RemoveGraphOptions{DropCollections: true})
	} else {
		err = g.Remove(ctx)
	}
	if err != nil {
		return mapError(err, fmt.Sprintf("graph %q", name))
	}
	return nil
}

func (a *arangoClient) ListGraphs(ctx context.Context) ([]string, error) {
	graphs, err := a.db.Graphs(ctx)
	if err != nil {
		return nil, mapError(err, "graphs")
	}
	names := make([]string, 0, len(graphs))
	for _, g := range graphs {
		names = append(names, g.Name())
	}
	return names, nil
}

func (a *arangoClient) SaveVertex(ctx context.Context, graph, collection string, doc Document, returnNew bool) (Document, error) {
	g, err := a.graph(ctx, graph)
	if err != nil {
		return nil, err
	}
	col, err := g.VertexCollection(ctx, collection)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("vertex collection %q", collection))
	}

	callCtx := ctx
	var newDoc Document
	if returnNew {
		callCtx = driver.WithReturnNew(callCtx, &newDoc)
	}
	meta, err := col.CreateDocument(callCtx, doc)
	if err != nil {
		return nil, mapError(err, "vertex")
	}
	return metaResult(meta, newDoc), nil
}

func (a *arangoClient) RemoveVertex(ctx context.Context, graph, collection, key string) error {
	g, err := a.graph(ctx, graph)
	if err != nil {
		return err
	}
	col, err := g.VertexCollection(ctx, collection)
	if err != nil {
		return mapError(err, fmt.Sprintf("vertex collection %q", collection))
	}
	if _, err := col.RemoveDocument(ctx, key); err != nil {
		return mapError(err, fmt.Sprintf("vertex %q", key))
	}
	return nil
}

func (a *arangoClient) SaveEdge(ctx context.Context, graph, collection, from, to string, doc Document) (Document, error) {
	g, err := a.graph(ctx, graph)
	if err != nil {
		return nil, err
	}
	col, _, err := g.EdgeCollection(ctx, collection)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("edge collection %q", collection))
	}

	edge := make(Document, len(doc)+2)
	for k, v := range doc {
		edge[k] = v
	}
	edge["_from"] = from
	edge["_to"] = to

	meta, err := col.CreateDocument(ctx, edge)
	if err != nil {
		return nil, mapError(err, "edge")
	}
	return metaResult(meta, nil), nil
}

func (a *arangoClient) RemoveEdge(ctx context.Context, graph, collection, key string) error {
	g, err := a.graph(ctx, graph)
	if err != nil {
		return err
	}
	col, _, err := g.EdgeCollection(ctx, collection)
	if err != nil {
		return mapError(err, fmt.Sprintf("edge collection %q", collection))
	}
	if _, err := col.RemoveDocument(ctx, key); err != nil {
		return mapError(err, fmt.Sprintf("edge %q", key))
	}
	return nil
}

// RunTransaction executes a server-side JavaScript transaction. The bound
// parameters are exposed to the action body as params[0].
func (a *arangoClient) RunTransaction(ctx context.Context, cols TransactionCollections, action string, params map[string]any) (any, error) {
	opts := &driver.TransactionOptions{
		ReadCollections:  cols.Read,
		WriteCollections: cols.Write,
	}
	if len(params) > 0 {
		opts.Params = []any{params}
	}
	result, err := a.db.Transaction(ctx, action, opts)
	if err != nil {
		return nil, mapError(err, "transaction")
	}
	return result, nil
}

// arangoCursor adapts driver.Cursor to the gateway's Cursor interface.
type arangoCursor struct {
	cur     driver.Cursor
	counted bool
}

func (c *arangoCursor) HasMore() bool {
	return c.cur.HasMore()
}

func (c *arangoCursor) Next(ctx context.Context) (Document, error) {
	var raw any
	if _, err := c.cur.ReadDocument(ctx, &raw); err != nil {
		return nil, mapError(err, "cursor")
	}
	if doc, ok := raw.(map[string]any); ok {
		return doc, nil
	}
	return Document{"value": raw}, nil
}

func (c *arangoCursor) Count() int64 {
	if !c.counted {
		return -1
	}
	return c.cur.Count()
}

func (c *arangoCursor) Close() error {
	return c.cur.Close()
}

// metaResult builds the returned record from write metadata, merged with the
// full document when the caller asked for it.
func metaResult(meta driver.DocumentMeta, full Document) Document {
	out := Document{
		"_id":  string(meta.ID),
		"_key": meta.Key,
		"_rev": meta.Rev,
	}
	for k, v := range full {
		out[k] = v
	}
	return out
}

// mapError translates driver errors into the gateway's uniform error
// taxonomy. NotFound and Conflict get their own kinds; everything else is an
// adapter error carrying the store's native error number unmodified.
func mapError(err error, what string) *model.GatewayError {
	if driver.IsNotFound(err) {
		return model.NewNotFoundError(fmt.Sprintf("%s not found", what), err)
	}
	if driver.IsConflict(err) {
		return model.NewConflictError(fmt.Sprintf("%s: %s", what, storeMessage(err)), err)
	}
	if ae, ok := driver.AsArangoError(err); ok {
		return model.NewAdapterError(ae.ErrorNum, ae.ErrorMessage, err)
	}
	return model.NewAdapterError(0, err.Error(), err)
}

func storeMessage(err error) string {
	if ae, ok := driver.AsArangoError(err); ok && ae.ErrorMessage != "" {
		return ae.ErrorMessage
	}
	return err.Error()
}
