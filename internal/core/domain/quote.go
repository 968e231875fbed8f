package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	QuotePending  QuoteStatus = "Pending"
	QuoteApproved QuoteStatus = "Approved"
	QuoteRejected QuoteStatus = "Rejected"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuotePending, QuoteApproved, QuoteRejected:
		return true
	}
	return false
}

// UnknownProductName names a quote line whose product left the catalog
// before the quote was built.
const UnknownProductName = "Medical Supply"

type (
	Customer struct {
		Name  string
		Email string
		Phone string
	}

	QuoteItem struct {
		ProductID string
		Quantity  int
		Name      string
	}

	QuoteRequest struct {
		ID             string
		CustomerName   string
		CustomerEmail  string
		CustomerPhone  string
		Items          []QuoteItem
		Status         QuoteStatus
		Timestamp      time.Time
		TotalEstimated *decimal.Decimal
	}
)

// Clone returns a deep copy, so callers can't reach the stored items.
func (q QuoteRequest) Clone() QuoteRequest {
	c := q
	c.Items = make([]QuoteItem, len(q.Items))
	copy(c.Items, q.Items)
	if q.TotalEstimated != nil {
		v := *q.TotalEstimated
		c.TotalEstimated = &v
	}
	return c
}
