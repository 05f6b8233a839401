package model

import "fmt"

// Error kinds produced by the gateway core.
const (
	ErrValidation       = "VALIDATION_ERROR"
	ErrUnknownOperation = "UNKNOWN_OPERATION"
	ErrAdapter          = "ADAPTER_ERROR"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
)

// Error kinds produced at the transport boundary.
const (
	ErrBadRequest   = "BAD_REQUEST"
	ErrUnauthorized = "UNAUTHORIZED"
	ErrInternal     = "INTERNAL_ERROR"
)

// GatewayError is the uniform error carried through the gateway pipeline and
// surfaced in error output items. It implements the error interface.
type GatewayError struct {
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	OriginIndex int    `json:"origin_index"`
	// StoreCode is the backing store's native error number, when the error
	// originated from an adapter call. Zero otherwise.
	StoreCode int   `json:"store_code,omitempty"`
	Cause     error `json:"-"`
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// WithOrigin returns a copy of the error tagged with the originating batch
// item index.
func (e *GatewayError) WithOrigin(index int) *GatewayError {
	dup := *e
	dup.OriginIndex = index
	return &dup
}

// NewValidationError reports a bad, missing, or malformed parameter. It is
// always raised before any adapter call.
func NewValidationError(format string, args ...any) *GatewayError {
	return &GatewayError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NewUnknownOperationError reports a resource/operation selection that is not
// present in the catalog.
func NewUnknownOperationError(resource, operation string) *GatewayError {
	return &GatewayError{
		Kind:    ErrUnknownOperation,
		Message: fmt.Sprintf("no operation %q registered for resource %q", operation, resource),
	}
}

// NewAdapterError wraps a backing-store failure, preserving the store's
// native error number and message.
func NewAdapterError(storeCode int, msg string, cause error) *GatewayError {
	return &GatewayError{Kind: ErrAdapter, Message: msg, StoreCode: storeCode, Cause: cause}
}

// NewNotFoundError reports a missing document, vertex, edge, graph, or
// collection.
func NewNotFoundError(msg string, cause error) *GatewayError {
	return &GatewayError{Kind: ErrNotFound, Message: msg, Cause: cause}
}

// NewConflictError reports a write conflict or duplicate key from the store.
func NewConflictError(msg string, cause error) *GatewayError {
	return &GatewayError{Kind: ErrConflict, Message: msg, Cause: cause}
}

// NewBadRequestError reports a malformed request at the transport boundary.
func NewBadRequestError(msg string) *GatewayError {
	return &GatewayError{Kind: ErrBadRequest, Message: msg}
}

// NewUnauthorizedError reports a failed authentication.
func NewUnauthorizedError(msg string) *GatewayError {
	return &GatewayError{Kind: ErrUnauthorized, Message: msg}
}

// NewInternalError reports an unexpected failure.
func NewInternalError() *GatewayError {
	return &GatewayError{Kind: ErrInternal, Message: "An unexpected error occurred"}
}
