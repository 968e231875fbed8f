package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/medsupply/internal/core/domain"
	"github.com/niksmo/medsupply/internal/core/service"
	"github.com/shopspring/decimal"
)

type (
	CatalogService interface {
		Products() []domain.Product
		Product(id string) (domain.Product, bool)
		UpdateProduct(*service.Session, domain.Product) (<-chan domain.Product, error)
		DeleteProduct(sess *service.Session, id string) <-chan struct{}
	}

	CartService interface {
		CartLines(*service.Session) []domain.QuoteItem
		AddToCart(sess *service.Session, productID string) error
		SetCartQuantity(sess *service.Session, productID string, quantity int) error
		RemoveFromCart(sess *service.Session, productID string)
		ClearCart(*service.Session)
	}

	QuotesService interface {
		SubmitQuote(*service.Session, domain.Customer) (<-chan domain.QuoteRequest, error)
		Quotes() []domain.QuoteRequest
		UpdateQuoteStatus(
			sess *service.Session,
			id string,
			status domain.QuoteStatus,
			estimate *decimal.Decimal,
		) (domain.QuoteRequest, error)
		ArchivedQuote(ctx context.Context, id string) (domain.QuoteRequest, error)
		Inquiries(ctx context.Context, email string) (int64, error)
	}

	AuthService interface {
		Login(sess *service.Session, name string, role domain.Role) (domain.User, error)
		Logout(*service.Session)
	}

	SessionService interface {
		SetView(*service.Session, domain.View) domain.Screen
		Screen(*service.Session) domain.Screen
		ToggleDarkMode(context.Context, *service.Session) (bool, error)
		IsSyncing() bool
	}

	AuditService interface {
		AuditLog() []domain.AuditLogEntry
		AddLog(sess *service.Session, action, details, level string) domain.AuditLogEntry
	}

	Service interface {
		CatalogService
		CartService
		QuotesService
		AuthService
		SessionService
		AuditService
	}
)

// Register mounts the whole API on mux.
func Register(mux *http.ServeMux, svc Service) {
	RegisterCatalog(mux, svc)
	RegisterCart(mux, svc)
	RegisterQuotes(mux, svc)
	RegisterAuth(mux, svc)
	RegisterSession(mux, svc)
	RegisterAdmin(mux, svc)
}

// NewHandler returns mux wrapped with the middleware chain.
func NewHandler(mux *http.ServeMux, sessions Sessions) http.Handler {
	return AccessLog(sessions.Middleware(AllowJSON(mux)))
}

// requireView lets the request through when the session user may open view.
// Otherwise it answers 401 with the login screen.
func requireView(view domain.View, next http.HandlerFunc) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if !service.Authorize(view, sess.Role()) {
			st := sess.State()
			writeJSON(
				w,
				http.StatusUnauthorized,
				screenFromDomain(service.Route(view, st.User)),
			)
			return
		}
		next(w, r)
	}
	return http.HandlerFunc(hf)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrQuoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidEstimate),
		errors.Is(err, domain.ErrInvalidAvailability),
		errors.Is(err, domain.ErrInvalidCustomer):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrArchiveDisabled),
		errors.Is(err, domain.ErrInquiriesDisabled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError answers with the status of err. Client errors carry the
// error text, server errors are logged and hidden.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "err", err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	log.Warn("request rejected", "err", err)
	http.Error(w, rootMessage(err), status)
}

// rootMessage returns the text of the innermost wrapped error.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// await waits for the result of a simulated write.
// The write itself completes even if the client has gone.
func await[T any](ctx context.Context, res <-chan T) (T, error) {
	select {
	case v := <-res:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
