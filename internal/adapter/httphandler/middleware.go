package httphandler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/niksmo/medsupply/internal/core/service"
)

const (
	sessionCookieName = "medsupply_session"
	clientIDKey       = "cid"
	sessionMaxAge     = 30 * 24 * 60 * 60

	prefersColorSchemeHeader = "Sec-CH-Prefers-Color-Scheme"
)

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func AccessLog(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		const op = "AccessLog"

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.Info(
			"request",
			"op", op,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	}
	return http.HandlerFunc(hf)
}

type SessionProvider interface {
	Session(
		ctx context.Context, clientID, addr string, prefersDark bool,
	) *service.Session
}

type sessionCtxKey struct{}

// A Sessions binds every request to the [service.Session] of its client.
//
// The client id travels in a signed cookie.
type Sessions struct {
	cookies  sessions.Store
	provider SessionProvider
}

func NewSessions(cookies sessions.Store, provider SessionProvider) Sessions {
	if cookies == nil || provider == nil {
		panic("cookie store and session provider are required (develop mistake)")
	}
	return Sessions{cookies, provider}
}

// NewCookieStore returns the cookie store used for client ids.
func NewCookieStore(keyPairs ...[]byte) *sessions.CookieStore {
	cs := sessions.NewCookieStore(keyPairs...)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return cs
}

func (s Sessions) Middleware(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		const op = "Sessions.Middleware"
		log := slog.With("op", op)

		cookie, err := s.cookies.Get(r, sessionCookieName)
		if err != nil {
			log.Warn("invalid session cookie, issuing new", "err", err)
		}

		clientID, _ := cookie.Values[clientIDKey].(string)
		if clientID == "" {
			clientID = uuid.NewString()
			cookie.Values[clientIDKey] = clientID
			if err := cookie.Save(r, w); err != nil {
				log.Error("failed to save session cookie", "err", err)
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
		}

		sess := s.provider.Session(
			r.Context(),
			clientID,
			remoteIP(r),
			r.Header.Get(prefersColorSchemeHeader) == "dark",
		)

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hf)
}

func sessionFrom(r *http.Request) *service.Session {
	sess, ok := r.Context().Value(sessionCtxKey{}).(*service.Session)
	if !ok {
		panic("session middleware is not installed (develop mistake)")
	}
	return sess
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
