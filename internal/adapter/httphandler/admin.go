package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/medsupply/internal/core/domain"
)

// Staff only, 401 Unauthorized with the login screen otherwise.
//
// PUT v1/admin/products JSON product (200 OK, 400 Bad request)
// DELETE v1/admin/products/{id} (204 No content)
// GET v1/admin/quotes (200 OK)
// PATCH v1/admin/quotes/{id} JSON {"status", "total_estimated"} (200 OK, 400, 404)
// GET v1/admin/archive/quotes/{id} (200 OK, 404, 503 archive disabled)
// GET v1/admin/customers/{email}/inquiries (200 OK, 503 streaming disabled)
// GET v1/admin/audit-log (200 OK) super admin
// POST v1/admin/audit-log JSON {"action", "details", "level"} (201 Created) super admin

type AdminService interface {
	CatalogService
	QuotesService
	AuditService
}

type AdminHandler struct {
	svc AdminService
}

func RegisterAdmin(mux *http.ServeMux, svc AdminService) {
	h := AdminHandler{svc}

	admin := func(hf http.HandlerFunc) http.Handler {
		return requireView(domain.ViewAdmin, hf)
	}
	superAdmin := func(hf http.HandlerFunc) http.Handler {
		return requireView(domain.ViewSuperAdmin, hf)
	}

	mux.Handle("PUT /v1/admin/products", admin(h.PutProduct))
	mux.Handle("DELETE /v1/admin/products/{id}", admin(h.DeleteProduct))
	mux.Handle("GET /v1/admin/quotes", admin(h.GetQuotes))
	mux.Handle("PATCH /v1/admin/quotes/{id}", admin(h.PatchQuote))
	mux.Handle("GET /v1/admin/archive/quotes/{id}", admin(h.GetArchivedQuote))
	mux.Handle("GET /v1/admin/customers/{email}/inquiries", admin(h.GetInquiries))
	mux.Handle("GET /v1/admin/audit-log", superAdmin(h.GetAuditLog))
	mux.Handle("POST /v1/admin/audit-log", superAdmin(h.PostAuditLog))
}

func (h AdminHandler) PutProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PutProduct"
	log := slog.With("op", op)

	var req updateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	res, err := h.svc.UpdateProduct(sessionFrom(r), req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}

	p, err := await(r.Context(), res)
	if err != nil {
		log.Warn("client left before product was stored", "err", err)
		return
	}
	writeJSON(w, http.StatusOK, productFromDomain(p))
	log.Info("product stored", "productID", p.ID)
}

func (h AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.DeleteProduct"
	log := slog.With("op", op)

	id := r.PathValue("id")
	if _, err := await(r.Context(), h.svc.DeleteProduct(sessionFrom(r), id)); err != nil {
		log.Warn("client left before product was deleted", "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	log.Info("product deleted", "productID", id)
}

func (h AdminHandler) GetQuotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, quotesFromDomain(h.svc.Quotes()))
}

func (h AdminHandler) PatchQuote(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PatchQuote"
	log := slog.With("op", op)

	var req updateQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	q, err := h.svc.UpdateQuoteStatus(
		sessionFrom(r),
		r.PathValue("id"),
		domain.QuoteStatus(req.Status),
		req.TotalEstimated,
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteFromDomain(q))
}

func (h AdminHandler) GetArchivedQuote(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.GetArchivedQuote"
	log := slog.With("op", op)

	q, err := h.svc.ArchivedQuote(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteFromDomain(q))
}

func (h AdminHandler) GetInquiries(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.GetInquiries"
	log := slog.With("op", op)

	email := r.PathValue("email")
	n, err := h.svc.Inquiries(r.Context(), email)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, Inquiries{Email: email, Count: n})
}

func (h AdminHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, auditEntriesFromDomain(h.svc.AuditLog()))
}

func (h AdminHandler) PostAuditLog(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PostAuditLog"
	log := slog.With("op", op)

	var req addLogRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if req.Action == "" {
		http.Error(w, "action is required", http.StatusBadRequest)
		return
	}

	e := h.svc.AddLog(sessionFrom(r), req.Action, req.Details, req.Level)
	writeJSON(w, http.StatusCreated, auditEntryFromDomain(e))
}
