package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kravuar/arangate/internal/catalog"
	"github.com/kravuar/arangate/model"
)

// CatalogHandler serves read-only views of the operation catalog so clients
// can discover what the gateway supports without trial requests.
type CatalogHandler struct {
	registry *catalog.Registry
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(registry *catalog.Registry) *CatalogHandler {
	return &CatalogHandler{registry: registry}
}

// List serves GET /v1/operations: every descriptor grouped by resource.
func (h *CatalogHandler) List(w http.ResponseWriter, _ *http.Request) {
	type resourceView struct {
		Resource   string                        `json:"resource"`
		Operations []catalog.OperationDescriptor `json:"operations"`
	}

	resources := h.registry.Resources()
	out := make([]resourceView, 0, len(resources))
	for _, res := range resources {
		descs, _ := h.registry.Operations(res)
		out = append(out, resourceView{Resource: res, Operations: descs})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"resources": out})
}

// ByResource serves GET /v1/operations/{resource}: descriptors for one
// resource.
func (h *CatalogHandler) ByResource(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	descs, ok := h.registry.Operations(resource)
	if !ok {
		WriteError(w, model.NewNotFoundError("resource not found", nil))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"resource":   resource,
		"operations": descs,
	})
}
