package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/niksmo/medsupply/internal/core/domain"
	"github.com/niksmo/medsupply/pkg/retry"
)

const publishTimeout = 5 * time.Second

var publishRetry = retry.RetryConfig{
	MaxAttempts: 3,
	Backoff:     retry.ExponentialBackoff(100 * time.Millisecond),
}

// An auditLog keeps the newest entries first, at most limit of them.
type auditLog struct {
	entries []domain.AuditLogEntry
	limit   int
}

func (l *auditLog) prepend(e domain.AuditLogEntry) {
	l.entries = append([]domain.AuditLogEntry{e}, l.entries...)
	if len(l.entries) > l.limit {
		l.entries = l.entries[:l.limit]
	}
}

func (l *auditLog) snapshot() []domain.AuditLogEntry {
	vs := make([]domain.AuditLogEntry, len(l.entries))
	copy(vs, l.entries)
	return vs
}

// AuditLog returns the entries, newest first.
func (s *Store) AuditLog() []domain.AuditLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auditLog.snapshot()
}

// AddLog records an action of the session user. Empty level means INFO.
func (s *Store) AddLog(
	sess *Session, action, details, level string,
) domain.AuditLogEntry {
	name, addr := sess.actor()
	return s.appendLog(name, addr, action, details, level)
}

func (s *Store) appendLog(
	actor, addr, action, details, level string,
) domain.AuditLogEntry {
	e := domain.AuditLogEntry{
		ID:        s.newID(),
		UserID:    actor,
		Action:    domain.ActionCode(level, action),
		Details:   details,
		Timestamp: s.now().UTC(),
		IPAddress: addr,
	}

	s.mu.Lock()
	s.auditLog.prepend(e)
	s.mu.Unlock()

	s.publishAuditEntry(e)
	return e
}

func (s *Store) publishAuditEntry(e domain.AuditLogEntry) {
	if s.auditProducer == nil {
		return
	}
	s.publish("Store.publishAuditEntry", func(ctx context.Context) error {
		return s.auditProducer.ProduceAuditEntries(
			ctx, []domain.AuditLogEntry{e},
		)
	})
}

func (s *Store) publishQuote(q domain.QuoteRequest) {
	if s.quotesProducer == nil {
		return
	}
	s.publish("Store.publishQuote", func(ctx context.Context) error {
		return s.quotesProducer.ProduceQuotes(
			ctx, []domain.QuoteRequest{q},
		)
	})
}

// publish runs fn in background. Failures are logged only,
// the user operation has already succeeded.
func (s *Store) publish(op string, fn func(context.Context) error) {
	s.publishing.Add(1)
	go func() {
		defer s.publishing.Done()

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		err := retry.Do(ctx, publishRetry, func() error {
			return fn(ctx)
		})
		if err != nil {
			slog.Error("failed to publish", "op", op, "err", err)
		}
	}()
}
