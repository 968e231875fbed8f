package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/medsupply/internal/core/domain"
	"github.com/niksmo/medsupply/internal/core/port"
)

const (
	defaultCatalogDelay = 300 * time.Millisecond
	defaultQuoteDelay   = 500 * time.Millisecond
	defaultMaxSessions  = 10000
)

// A Store is the application state store.
//
// Catalog, quotes and audit log are shared by every client,
// cart and login state live in per-client [Session] values.
type Store struct {
	mu       sync.Mutex
	products []domain.Product
	quotes   []domain.QuoteRequest
	auditLog auditLog

	sessMu      sync.Mutex
	sessions    map[string]*Session
	maxSessions int

	sync       *syncer
	publishing sync.WaitGroup

	catalogDelay time.Duration
	quoteDelay   time.Duration
	now          func() time.Time
	newID        func() string

	auditProducer  port.AuditLogProducer
	quotesProducer port.QuotesProducer
	quotesStorage  port.QuotesStorage
	preferences    port.PreferenceStorage
	inquiries      port.InquiryCounter
	inquiryProc    port.InquiryCounterProcessor
}

type Opt func(*Store)

func SyncDelaysOpt(catalog, quote time.Duration) Opt {
	return func(s *Store) {
		s.catalogDelay = catalog
		s.quoteDelay = quote
	}
}

func ClockOpt(now func() time.Time) Opt {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// MaxSessionsOpt bounds the number of live sessions. Non-positive n
// keeps the default.
func MaxSessionsOpt(n int) Opt {
	return func(s *Store) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

func CatalogOpt(ps []domain.Product) Opt {
	return func(s *Store) {
		s.products = append([]domain.Product(nil), ps...)
	}
}

func AuditLogProducerOpt(p port.AuditLogProducer) Opt {
	return func(s *Store) { s.auditProducer = p }
}

func QuotesProducerOpt(p port.QuotesProducer) Opt {
	return func(s *Store) { s.quotesProducer = p }
}

func QuotesStorageOpt(qs port.QuotesStorage) Opt {
	return func(s *Store) { s.quotesStorage = qs }
}

func PreferenceStorageOpt(ps port.PreferenceStorage) Opt {
	return func(s *Store) { s.preferences = ps }
}

func InquiryCounterOpt(
	c port.InquiryCounter, proc port.InquiryCounterProcessor,
) Opt {
	return func(s *Store) {
		s.inquiries = c
		s.inquiryProc = proc
	}
}

// New returns a store seeded with [domain.SeedCatalog]
// unless [CatalogOpt] is given.
func New(opts ...Opt) *Store {
	s := &Store{
		sessions:     make(map[string]*Session),
		maxSessions:  defaultMaxSessions,
		auditLog:     auditLog{limit: domain.AuditLogLimit},
		sync:         new(syncer),
		catalogDelay: defaultCatalogDelay,
		quoteDelay:   defaultQuoteDelay,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.products == nil {
		s.products = domain.SeedCatalog(s.now().UTC())
	}
	return s
}

// Run runs the inquiry counter processor when configured.
//
// Blocks current goroutine while the processor is preparing to ready state.
func (s *Store) Run(ctx context.Context, stopFn context.CancelFunc) {
	if s.inquiryProc == nil {
		return
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go s.inquiryProc.Run(ctx, stopFn, &wg)
	wg.Wait()
}

// Wait blocks until simulated writes and event publishing are done.
func (s *Store) Wait(ctx context.Context) error {
	const op = "Store.Wait"

	done := make(chan struct{})
	go func() {
		s.sync.wg.Wait()
		s.publishing.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

func (s *Store) Close() {
	if s.inquiryProc != nil {
		s.inquiryProc.Close()
	}
}

// IsSyncing reports whether a simulated write is in flight.
func (s *Store) IsSyncing() bool {
	return s.sync.syncing()
}

func (s *Store) SaveQuotes(ctx context.Context, qs []domain.QuoteRequest) error {
	const op = "Store.SaveQuotes"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.quotesStorage == nil {
		return fmt.Errorf("%s: %w", op, domain.ErrArchiveDisabled)
	}

	err := s.quotesStorage.StoreQuotes(ctx, qs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) ArchivedQuote(
	ctx context.Context, id string,
) (domain.QuoteRequest, error) {
	const op = "Store.ArchivedQuote"

	if s.quotesStorage == nil {
		return domain.QuoteRequest{}, fmt.Errorf("%s: %w", op, domain.ErrArchiveDisabled)
	}

	q, err := s.quotesStorage.ReadQuote(ctx, id)
	if err != nil {
		return domain.QuoteRequest{}, fmt.Errorf("%s: %w", op, err)
	}
	return q, nil
}

func (s *Store) Inquiries(ctx context.Context, email string) (int64, error) {
	const op = "Store.Inquiries"

	if s.inquiries == nil {
		return 0, fmt.Errorf("%s: %w", op, domain.ErrInquiriesDisabled)
	}

	n, err := s.inquiries.Inquiries(ctx, strings.ToLower(email))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *Store) newQuoteID() string {
	id := strings.ReplaceAll(s.newID(), "-", "")
	return "QT-" + strings.ToUpper(id[:6])
}
