package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/medsupply/internal/core/domain"
)

// POST v1/auth/login JSON {"name", "role"} (200 OK, 400 Bad request)
// POST v1/auth/logout (200 OK)

type AuthHandler struct {
	svc AuthService
}

func RegisterAuth(mux *http.ServeMux, svc AuthService) {
	h := AuthHandler{svc}
	mux.HandleFunc("POST /v1/auth/login", h.PostLogin)
	mux.HandleFunc("POST /v1/auth/logout", h.PostLogout)
}

func (h AuthHandler) PostLogin(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.PostLogin"
	log := slog.With("op", op)

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	u, err := h.svc.Login(sessionFrom(r), req.Name, domain.Role(req.Role))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, userFromDomain(&u))
}

func (h AuthHandler) PostLogout(w http.ResponseWriter, r *http.Request) {
	h.svc.Logout(sessionFrom(r))
	w.WriteHeader(http.StatusNoContent)
}
