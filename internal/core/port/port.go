package port

import (
	"context"
	"sync"

	"github.com/niksmo/medsupply/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

type AuditLogProducer interface {
	ProduceAuditEntries(context.Context, []domain.AuditLogEntry) error
}

type QuotesProducer interface {
	ProduceQuotes(context.Context, []domain.QuoteRequest) error
}

type QuotesSaver interface {
	SaveQuotes(context.Context, []domain.QuoteRequest) error
}

type QuotesStorage interface {
	StoreQuotes(context.Context, []domain.QuoteRequest) error
	ReadQuote(ctx context.Context, id string) (domain.QuoteRequest, error)
}

type PreferenceStorage interface {
	DarkMode(ctx context.Context, clientID string) (value bool, found bool, err error)
	SetDarkMode(ctx context.Context, clientID string, value bool) error
}

type InquiryCounter interface {
	Inquiries(ctx context.Context, customerEmail string) (int64, error)
}

type InquiryCounterProcessor interface {
	runnerContextWg
	closer
}
