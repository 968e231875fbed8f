package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/medsupply/internal/core/domain"
)

// POST v1/quotes JSON {"name", "email", "phone"} (201 Created, 400 Bad request)

type QuotesHandler struct {
	svc QuotesService
}

func RegisterQuotes(mux *http.ServeMux, svc QuotesService) {
	h := QuotesHandler{svc}
	mux.HandleFunc("POST /v1/quotes", h.PostQuote)
}

func (h QuotesHandler) PostQuote(w http.ResponseWriter, r *http.Request) {
	const op = "QuotesHandler.PostQuote"
	log := slog.With("op", op)

	var req submitQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	res, err := h.svc.SubmitQuote(sessionFrom(r), domain.Customer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(w, log, err)
		return
	}

	q, err := await(r.Context(), res)
	if err != nil {
		log.Warn("client left before quote was stored", "err", err)
		return
	}

	writeJSON(w, http.StatusCreated, quoteFromDomain(q))
	log.Info("quote submitted", "quoteID", q.ID, "nItems", len(q.Items))
}
