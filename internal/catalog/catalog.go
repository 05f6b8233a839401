package catalog

// Shorthand constructors keep the operation table readable.

func str(name string, required bool) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindString, Required: required}
}

func strDef(name string, def string) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindString, Default: def}
}

func num(name string, required bool) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindNumber, Required: required}
}

func numDef(name string, def float64) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindNumber, Default: def}
}

func boolDef(name string, def bool) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindBoolean, Default: def}
}

func doc(name string, required bool) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindJSON, Required: required}
}

func docDef(name string) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindJSON, Default: map[string]any{}}
}

func arr(name string, required bool) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindJSONArray, Required: required}
}

func arrDef(name string) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindJSONArray, Default: []any{}}
}

func ident(name string) ParameterSpec {
	return ParameterSpec{Name: name, Kind: KindIdentifier, Required: true}
}

func dir(def string) ParameterSpec {
	return ParameterSpec{Name: "direction", Kind: KindDirection, Default: def}
}

// operations is the full capability catalog. Registration is static: the
// table is turned into an immutable Registry at process start and nothing is
// added or removed at runtime.
var operations = []OperationDescriptor{
	// --- document ---
	{
		Resource: "document", Operation: "get",
		Summary: "Fetch a single document by key",
		Params:  []ParameterSpec{ident("collection"), str("key", true)},
	},
	{
		Resource: "document", Operation: "getMany",
		Summary: "Fetch multiple documents by key, preserving key order",
		Params:  []ParameterSpec{ident("collection"), arr("keys", true)},
	},
	{
		Resource: "document", Operation: "create",
		Summary: "Create a document",
		Params: []ParameterSpec{
			ident("collection"), doc("data", true),
			boolDef("returnNew", false), boolDef("waitForSync", false),
		},
	},
	{
		Resource: "document", Operation: "update",
		Summary: "Partially update a document by key",
		Params: []ParameterSpec{
			ident("collection"), str("key", true), doc("data", true),
			boolDef("returnNew", false), boolDef("keepNull", true),
		},
	},
	{
		Resource: "document", Operation: "replace",
		Summary: "Replace a document by key",
		Params: []ParameterSpec{
			ident("collection"), str("key", true), doc("data", true),
			boolDef("returnNew", false),
		},
	},
	{
		Resource: "document", Operation: "remove",
		Summary: "Remove a document by key",
		Params: []ParameterSpec{
			ident("collection"), str("key", true), boolDef("returnOld", false),
		},
	},

	// --- collection ---
	{
		Resource: "collection", Operation: "create",
		Summary: "Create a document or edge collection",
		Params: []ParameterSpec{
			ident("name"), boolDef("edge", false), boolDef("waitForSync", false),
		},
	},
	{
		Resource: "collection", Operation: "drop",
		Summary: "Drop a collection",
		Params:  []ParameterSpec{ident("name")},
	},
	{
		Resource: "collection", Operation: "truncate",
		Summary: "Remove all documents from a collection",
		Params:  []ParameterSpec{ident("name")},
	},
	{
		Resource: "collection", Operation: "list",
		Summary: "List all collections in the database",
	},

	// --- query ---
	{
		Resource: "query", Operation: "execute",
		Summary: "Execute an AQL query with named bind parameters",
		Params: []ParameterSpec{
			str("query", true), docDef("bindVars"),
			numDef("batchSize", 0), boolDef("count", false), boolDef("fullCount", false),
		},
	},

	// --- graph ---
	{
		Resource: "graph", Operation: "create",
		Summary: "Create a named graph with edge definitions",
		Params:  []ParameterSpec{ident("name"), arr("edgeDefinitions", true)},
	},
	{
		Resource: "graph", Operation: "drop",
		Summary: "Drop a named graph",
		Params:  []ParameterSpec{ident("name"), boolDef("dropCollections", false)},
	},
	{
		Resource: "graph", Operation: "list",
		Summary: "List all named graphs in the database",
	},
	{
		Resource: "graph", Operation: "addVertex",
		Summary: "Save a vertex into a graph's vertex collection",
		Params: []ParameterSpec{
			ident("graph"), ident("collection"), doc("data", true),
			boolDef("returnNew", false),
		},
	},
	{
		Resource: "graph", Operation: "removeVertex",
		Summary: "Remove a vertex from a graph's vertex collection",
		Params:  []ParameterSpec{ident("graph"), ident("collection"), str("key", true)},
	},
	{
		Resource: "graph", Operation: "addEdge",
		Summary: "Save an edge between two vertices",
		Params: []ParameterSpec{
			ident("graph"), ident("collection"),
			str("from", true), str("to", true), docDef("data"),
		},
	},
	{
		Resource: "graph", Operation: "removeEdge",
		Summary: "Remove an edge from a graph's edge collection",
		Params:  []ParameterSpec{ident("graph"), ident("collection"), str("key", true)},
	},
	{
		Resource: "graph", Operation: "traverse",
		Summary: "Traverse the graph from a start vertex",
		Params: []ParameterSpec{
			ident("graph"), str("startVertex", true), dir("OUTBOUND"),
			numDef("minDepth", 1), numDef("maxDepth", 1),
		},
	},
	{
		Resource: "graph", Operation: "neighbors",
		Summary: "List the direct neighbors of a vertex",
		Params:  []ParameterSpec{ident("graph"), str("startVertex", true), dir("ANY")},
	},
	{
		Resource: "graph", Operation: "shortestPath",
		Summary: "Find the shortest path between two vertices",
		Params: []ParameterSpec{
			ident("graph"), str("startVertex", true), str("endVertex", true),
			dir("OUTBOUND"),
		},
	},

	// --- search ---
	{
		Resource: "search", Operation: "vector",
		Summary: "Rank documents by cosine similarity against a query vector",
		Params: []ParameterSpec{
			ident("collection"), ident("field"), arr("vector", true),
			numDef("limit", 10),
		},
	},
	{
		Resource: "search", Operation: "fulltext",
		Summary: "Full-text search over an indexed field",
		Params: []ParameterSpec{
			ident("collection"), ident("field"), str("query", true),
			numDef("limit", 100),
		},
	},

	// --- bulk ---
	{
		Resource: "bulk", Operation: "insertMany",
		Summary: "Insert a list of documents, reporting per-element outcomes",
		Params: []ParameterSpec{
			ident("collection"), arr("items", true), boolDef("returnNew", false),
		},
	},
	{
		Resource: "bulk", Operation: "updateMany",
		Summary: "Update a list of documents by key, reporting per-element outcomes",
		Params: []ParameterSpec{
			ident("collection"), arr("items", true), boolDef("keepNull", true),
		},
	},
	{
		Resource: "bulk", Operation: "replaceMany",
		Summary: "Replace a list of documents by key, reporting per-element outcomes",
		Params:  []ParameterSpec{ident("collection"), arr("items", true)},
	},
	{
		Resource: "bulk", Operation: "removeMany",
		Summary: "Remove a list of documents by key, reporting per-element outcomes",
		Params:  []ParameterSpec{ident("collection"), arr("keys", true)},
	},

	// --- transaction ---
	{
		Resource: "transaction", Operation: "execute",
		Summary: "Run a server-side transaction; all statements commit or none do",
		Params: []ParameterSpec{
			str("action", true),
			arrDef("readCollections"), arrDef("writeCollections"),
			docDef("params"),
		},
	},
}
