// Package transport contains the HTTP router, middleware chain, and all
// request handlers for the gateway API.
package transport

import (
	"encoding/json"
	"net/http"

	"github.com/kravuar/arangate/model"
)

// statusForKind maps GatewayError kinds to HTTP status codes.
var statusForKind = map[string]int{
	model.ErrBadRequest:       http.StatusBadRequest,
	model.ErrUnauthorized:     http.StatusUnauthorized,
	model.ErrNotFound:         http.StatusNotFound,
	model.ErrConflict:         http.StatusConflict,
	model.ErrValidation:       http.StatusUnprocessableEntity,
	model.ErrUnknownOperation: http.StatusUnprocessableEntity,
	model.ErrAdapter:          http.StatusBadGateway,
	model.ErrInternal:         http.StatusInternalServerError,
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// WriteError writes a GatewayError as a JSON response with the correct HTTP
// status code. If err is not a *GatewayError, a generic 500 is returned.
func WriteError(w http.ResponseWriter, err error) {
	ge, ok := err.(*model.GatewayError)
	if !ok {
		ge = model.NewInternalError()
	}

	status := statusForKind[ge.Kind]
	if status == 0 {
		status = http.StatusInternalServerError
	}

	type errorResponse struct {
		Error *model.GatewayError `json:"error"`
	}
	WriteJSON(w, status, errorResponse{Error: ge})
}
