// Package catalog declares the static capability catalog of the gateway:
// every (resource, operation) pair it can execute, together with the ordered
// parameter specs consulted by both validation and the presentation layer.
package catalog

// ParamKind is the semantic type of a parameter.
type ParamKind string

const (
	KindString    ParamKind = "string"
	KindNumber    ParamKind = "number"
	KindBoolean   ParamKind = "boolean"
	KindJSON      ParamKind = "json"
	KindJSONArray ParamKind = "jsonArray"
	// KindIdentifier is a free-text identifier (collection, graph, or field
	// name) that may be interpolated into generated query text and is
	// therefore validated against an allow-list pattern.
	KindIdentifier ParamKind = "identifier"
	// KindDirection is a traversal direction keyword (OUTBOUND, INBOUND, ANY).
	KindDirection ParamKind = "direction"
)

// ParameterSpec describes one parameter of an operation. Name is unique
// within an OperationDescriptor.
type ParameterSpec struct {
	Name     string    `json:"name"`
	Kind     ParamKind `json:"kind"`
	Required bool      `json:"required"`
	Default  any       `json:"default,omitempty"`
}

// OperationDescriptor identifies a (resource, operation) pair and owns its
// ordered parameter specs. Descriptors are immutable once registered.
type OperationDescriptor struct {
	Resource  string          `json:"resource"`
	Operation string          `json:"operation"`
	Summary   string          `json:"summary"`
	Params    []ParameterSpec `json:"params"`
}

// Key returns the dispatch key "resource.operation".
func (d OperationDescriptor) Key() string {
	return d.Resource + "." + d.Operation
}
