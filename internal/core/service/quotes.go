package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/niksmo/medsupply/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Quotes returns the quote requests, newest first.
func (s *Store) Quotes() []domain.QuoteRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	vs := make([]domain.QuoteRequest, len(s.quotes))
	for i, q := range s.quotes {
		vs[i] = q.Clone()
	}
	return vs
}

// SubmitQuote turns the session cart into a pending quote request.
//
// Item names are taken from the catalog at call time and the cart is
// emptied right away. The quote is stored after the quote write delay,
// the returned channel yields it.
func (s *Store) SubmitQuote(
	sess *Session, c domain.Customer,
) (<-chan domain.QuoteRequest, error) {
	const op = "Store.SubmitQuote"

	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	if c.Name == "" || c.Email == "" {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidCustomer)
	}

	sess.mu.Lock()
	items := sess.cart.Items()
	sess.cart.Clear()
	sess.mu.Unlock()

	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}

	actor, addr := sess.actor()
	q := domain.QuoteRequest{
		ID:            s.newQuoteID(),
		CustomerName:  c.Name,
		CustomerEmail: c.Email,
		CustomerPhone: c.Phone,
		Items:         s.resolveItems(items),
		Status:        domain.QuotePending,
	}

	return simulate(s.sync, s.quoteDelay, func() domain.QuoteRequest {
		s.mu.Lock()
		q.Timestamp = s.now().UTC()
		s.quotes = slices.Insert(s.quotes, 0, q)
		s.mu.Unlock()

		s.appendLog(actor, addr, "QUOTE", "New inquiry from "+c.Name, "INBOUND")
		s.publishQuote(q.Clone())
		return q.Clone()
	}), nil
}

// UpdateQuoteStatus records the staff review of a quote.
// A nil estimate keeps the current one.
func (s *Store) UpdateQuoteStatus(
	sess *Session,
	id string,
	status domain.QuoteStatus,
	estimate *decimal.Decimal,
) (domain.QuoteRequest, error) {
	const op = "Store.UpdateQuoteStatus"

	if !status.Valid() {
		return domain.QuoteRequest{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidStatus)
	}
	if estimate != nil && estimate.IsNegative() {
		return domain.QuoteRequest{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidEstimate)
	}

	s.mu.Lock()
	i := slices.IndexFunc(s.quotes, func(q domain.QuoteRequest) bool {
		return q.ID == id
	})
	if i < 0 {
		s.mu.Unlock()
		return domain.QuoteRequest{}, fmt.Errorf("%s: %w", op, domain.ErrQuoteNotFound)
	}
	s.quotes[i].Status = status
	if estimate != nil {
		v := estimate.Round(2)
		s.quotes[i].TotalEstimated = &v
	}
	q := s.quotes[i].Clone()
	s.mu.Unlock()

	s.AddLog(sess, "QUOTE", fmt.Sprintf("Quote %s marked %s", q.ID, q.Status), "REVIEW")
	s.publishQuote(q.Clone())
	return q, nil
}
