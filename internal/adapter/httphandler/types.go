package httphandler

import (
	"time"

	"github.com/niksmo/medsupply/internal/core/domain"
	"github.com/niksmo/medsupply/internal/core/service"
	"github.com/shopspring/decimal"
)

type (
	Product struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Category     string    `json:"category"`
		Description  string    `json:"description"`
		Image        string    `json:"image"`
		Availability string    `json:"availability"`
		LastUpdated  time.Time `json:"last_updated"`
	}

	CartLine struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Name      string `json:"name"`
	}

	Quote struct {
		ID             string           `json:"id"`
		CustomerName   string           `json:"customer_name"`
		CustomerEmail  string           `json:"customer_email"`
		CustomerPhone  string           `json:"customer_phone"`
		Items          []CartLine       `json:"items"`
		Status         string           `json:"status"`
		Timestamp      time.Time        `json:"timestamp"`
		TotalEstimated *decimal.Decimal `json:"total_estimated,omitempty"`
	}

	AuditEntry struct {
		ID        string    `json:"id"`
		UserID    string    `json:"user_id"`
		Action    string    `json:"action"`
		Details   string    `json:"details"`
		Timestamp time.Time `json:"timestamp"`
		IPAddress string    `json:"ip_address"`
	}

	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	}

	SessionState struct {
		User     *User  `json:"user"`
		View     string `json:"view"`
		DarkMode bool   `json:"dark_mode"`
		Syncing  bool   `json:"syncing"`
	}

	Screen struct {
		Name         string `json:"name"`
		Layout       string `json:"layout"`
		Section      string `json:"section,omitempty"`
		RedirectFrom string `json:"redirect_from,omitempty"`
	}

	Inquiries struct {
		Email string `json:"email"`
		Count int64  `json:"count"`
	}
)

type (
	addToCartRequest struct {
		ProductID string `json:"product_id"`
	}

	setQuantityRequest struct {
		Quantity int `json:"quantity"`
	}

	submitQuoteRequest struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}

	loginRequest struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}

	setViewRequest struct {
		View string `json:"view"`
	}

	updateProductRequest struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Category     string `json:"category"`
		Description  string `json:"description"`
		Image        string `json:"image"`
		Availability string `json:"availability"`
	}

	updateQuoteRequest struct {
		Status         string           `json:"status"`
		TotalEstimated *decimal.Decimal `json:"total_estimated"`
	}

	addLogRequest struct {
		Action  string `json:"action"`
		Details string `json:"details"`
		Level   string `json:"level"`
	}

	themeResponse struct {
		DarkMode bool `json:"dark_mode"`
	}
)

func productFromDomain(v domain.Product) Product {
	return Product{
		ID:           v.ID,
		Name:         v.Name,
		Category:     v.Category,
		Description:  v.Description,
		Image:        v.Image,
		Availability: string(v.Availability),
		LastUpdated:  v.LastUpdated,
	}
}

func productsFromDomain(vs []domain.Product) []Product {
	ps := make([]Product, len(vs))
	for i, v := range vs {
		ps[i] = productFromDomain(v)
	}
	return ps
}

func (req updateProductRequest) toDomain() domain.Product {
	return domain.Product{
		ID:           req.ID,
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		Image:        req.Image,
		Availability: domain.Availability(req.Availability),
	}
}

func cartLinesFromDomain(vs []domain.QuoteItem) []CartLine {
	ls := make([]CartLine, len(vs))
	for i, v := range vs {
		ls[i] = CartLine{
			ProductID: v.ProductID,
			Quantity:  v.Quantity,
			Name:      v.Name,
		}
	}
	return ls
}

func quoteFromDomain(v domain.QuoteRequest) Quote {
	return Quote{
		ID:             v.ID,
		CustomerName:   v.CustomerName,
		CustomerEmail:  v.CustomerEmail,
		CustomerPhone:  v.CustomerPhone,
		Items:          cartLinesFromDomain(v.Items),
		Status:         string(v.Status),
		Timestamp:      v.Timestamp,
		TotalEstimated: v.TotalEstimated,
	}
}

func quotesFromDomain(vs []domain.QuoteRequest) []Quote {
	qs := make([]Quote, len(vs))
	for i, v := range vs {
		qs[i] = quoteFromDomain(v)
	}
	return qs
}

func auditEntriesFromDomain(vs []domain.AuditLogEntry) []AuditEntry {
	es := make([]AuditEntry, len(vs))
	for i, v := range vs {
		es[i] = auditEntryFromDomain(v)
	}
	return es
}

func auditEntryFromDomain(v domain.AuditLogEntry) AuditEntry {
	return AuditEntry{
		ID:        v.ID,
		UserID:    v.UserID,
		Action:    v.Action,
		Details:   v.Details,
		Timestamp: v.Timestamp,
		IPAddress: v.IPAddress,
	}
}

func userFromDomain(v *domain.User) *User {
	if v == nil {
		return nil
	}
	return &User{
		ID:    v.ID,
		Email: v.Email,
		Name:  v.Name,
		Role:  string(v.Role),
	}
}

func sessionStateFromDomain(st service.SessionState, syncing bool) SessionState {
	return SessionState{
		User:     userFromDomain(st.User),
		View:     string(st.View),
		DarkMode: st.DarkMode,
		Syncing:  syncing,
	}
}

func screenFromDomain(v domain.Screen) Screen {
	return Screen{
		Name:         string(v.Name),
		Layout:       string(v.Layout),
		Section:      string(v.Section),
		RedirectFrom: string(v.RedirectFrom),
	}
}
