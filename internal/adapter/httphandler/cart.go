package httphandler

import (
	"log/slog"
	"net/http"
)

// GET v1/cart (200 OK)
// POST v1/cart/items JSON {"product_id": string} (200 OK, 400, 404)
// PATCH v1/cart/items/{productID} JSON {"quantity": int} (200 OK, 400, 404)
// DELETE v1/cart/items/{productID} (200 OK)
// DELETE v1/cart (200 OK)

type CartHandler struct {
	svc CartService
}

func RegisterCart(mux *http.ServeMux, svc CartService) {
	h := CartHandler{svc}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("PATCH /v1/cart/items/{productID}", h.PatchItem)
	mux.HandleFunc("DELETE /v1/cart/items/{productID}", h.DeleteItem)
	mux.HandleFunc("DELETE /v1/cart", h.DeleteCart)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r)
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if err := h.svc.AddToCart(sessionFrom(r), req.ProductID); err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, r)
}

func (h CartHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PatchItem"
	log := slog.With("op", op)

	var req setQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	err := h.svc.SetCartQuantity(
		sessionFrom(r), r.PathValue("productID"), req.Quantity,
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, r)
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	h.svc.RemoveFromCart(sessionFrom(r), r.PathValue("productID"))
	h.writeCart(w, r)
}

func (h CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearCart(sessionFrom(r))
	h.writeCart(w, r)
}

func (h CartHandler) writeCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cartLinesFromDomain(h.svc.CartLines(sessionFrom(r))))
}
