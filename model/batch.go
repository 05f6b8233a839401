package model

// ConnectionConfig is the caller-supplied configuration for the backing
// store connection. One connection is built per batch invocation and shared
// read-only across all items in that batch; the gateway never pools or
// reuses it across batches.
type ConnectionConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
}

// Selection identifies the (resource, operation) pair chosen once for an
// entire batch.
type Selection struct {
	Resource  string `json:"resource"`
	Operation string `json:"operation"`
}

// InvocationContext carries everything needed to process one batch item: its
// position in the batch, the raw parameter values supplied for it, and the
// selection shared across the whole batch.
type InvocationContext struct {
	Index     int
	Raw       map[string]any
	Selection Selection
}

// ResultKind discriminates the shape of an ExecutionResult.
type ResultKind int

const (
	// ResultScalar is a single record.
	ResultScalar ResultKind = iota
	// ResultList is an ordered list of records, possibly count-annotated.
	ResultList
)

// ExecutionResult is a handler's output for one batch item. It is created by
// the handler, consumed immediately by the normalizer, and discarded after
// flattening.
type ExecutionResult struct {
	Kind    ResultKind
	Record  map[string]any
	Records []map[string]any
	// Count is the store-reported total for count-annotated list results,
	// or -1 when the store did not report one.
	Count int64
}

// ScalarResult wraps a single record.
func ScalarResult(record map[string]any) ExecutionResult {
	return ExecutionResult{Kind: ResultScalar, Record: record, Count: -1}
}

// ListResult wraps an ordered list of records with no count annotation.
func ListResult(records []map[string]any) ExecutionResult {
	return ExecutionResult{Kind: ResultList, Records: records, Count: -1}
}

// CountedListResult wraps an ordered list of records annotated with the
// store-reported total count.
func CountedListResult(records []map[string]any, count int64) ExecutionResult {
	return ExecutionResult{Kind: ResultList, Records: records, Count: count}
}

// OutputItem is one element of the gateway's flattened output sequence. It
// carries either a payload or an error, never both, plus the index of the
// input item that produced it.
type OutputItem struct {
	Payload     map[string]any `json:"payload,omitempty"`
	Error       *GatewayError  `json:"error,omitempty"`
	OriginIndex int            `json:"origin_index"`
}

// ErrorItem builds an error OutputItem for the given origin index.
func ErrorItem(err *GatewayError, originIndex int) OutputItem {
	return OutputItem{Error: err.WithOrigin(originIndex), OriginIndex: originIndex}
}
