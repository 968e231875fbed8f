package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/medsupply/internal/core/domain"
)

// GET v1/products (200 OK)
// GET v1/products/{id} (200 OK, 404 Not found)

type CatalogHandler struct {
	svc CatalogService
}

func RegisterCatalog(mux *http.ServeMux, svc CatalogService) {
	h := CatalogHandler{svc}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, productsFromDomain(h.svc.Products()))
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	p, ok := h.svc.Product(r.PathValue("id"))
	if !ok {
		writeError(w, log, domain.ErrProductNotFound)
		return
	}
	writeJSON(w, http.StatusOK, productFromDomain(p))
}
