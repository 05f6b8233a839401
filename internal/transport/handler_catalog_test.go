package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kravuar/arangate/internal/catalog"
)

func catalogRouter() chi.Router {
	h := NewCatalogHandler(catalog.NewRegistry())
	r := chi.NewRouter()
	r.Get("/v1/operations", h.List)
	r.Get("/v1/operations/{resource}", h.ByResource)
	return r
}

func TestCatalogList(t *testing.T) {
	r := catalogRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/operations", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Resources []struct {
			Resource   string `json:"resource"`
			Operations []struct {
				Operation string `json:"operation"`
			} `json:"operations"`
		} `json:"resources"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Resources) == 0 {
		t.Fatal("no resources listed")
	}
	found := false
	for _, res := range resp.Resources {
		if res.Resource == "document" && len(res.Operations) >= 6 {
			found = true
		}
	}
	if !found {
		t.Error("document resource missing or incomplete")
	}
}

func TestCatalogByResource(t *testing.T) {
	r := catalogRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/operations/graph", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/operations/nosuch", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
