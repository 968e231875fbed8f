package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/medsupply/internal/core/domain"
)

// GET v1/session (200 OK)
// PUT v1/session/view JSON {"view": string} (200 OK)
// GET v1/session/screen (200 OK)
// POST v1/session/theme (200 OK, 500)

type SessionHandler struct {
	svc SessionService
}

func RegisterSession(mux *http.ServeMux, svc SessionService) {
	h := SessionHandler{svc}
	mux.HandleFunc("GET /v1/session", h.GetSession)
	mux.HandleFunc("PUT /v1/session/view", h.PutView)
	mux.HandleFunc("GET /v1/session/screen", h.GetScreen)
	mux.HandleFunc("POST /v1/session/theme", h.PostTheme)
}

func (h SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r).State()
	writeJSON(w, http.StatusOK, sessionStateFromDomain(st, h.svc.IsSyncing()))
}

func (h SessionHandler) PutView(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.PutView"
	log := slog.With("op", op)

	var req setViewRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	screen := h.svc.SetView(sessionFrom(r), domain.View(req.View))
	writeJSON(w, http.StatusOK, screenFromDomain(screen))
}

func (h SessionHandler) GetScreen(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, screenFromDomain(h.svc.Screen(sessionFrom(r))))
}

func (h SessionHandler) PostTheme(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.PostTheme"
	log := slog.With("op", op)

	v, err := h.svc.ToggleDarkMode(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{DarkMode: v})
}
