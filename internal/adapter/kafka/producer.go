package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/medsupply/internal/core/domain"
	"github.com/niksmo/medsupply/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	_ port.AuditLogProducer = AuditLogProducer{}
	_ port.QuotesProducer   = QuotesProducer{}
)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
	encoder  Encoder
}

func newProducer(opPrefix string, opts []ProducerOpt) (producer, error) {
	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, "New"+opPrefix)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return producer{}, err
		}
	}

	return producer{
		opPrefix: opPrefix,
		cl:       options.cl,
		encoder:  options.encoder,
	}, nil
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p producer) record(key string, s any) (*kgo.Record, error) {
	const op = "record"
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(key), Value: b}, nil
}

// An AuditLogProducer streams [domain.AuditLogEntry] to the audit topic.
type AuditLogProducer struct {
	producer producer
}

func NewAuditLogProducer(opts ...ProducerOpt) (AuditLogProducer, error) {
	const op = "NewAuditLogProducer"

	p, err := newProducer("AuditLogProducer", opts)
	if err != nil {
		return AuditLogProducer{}, opErr(err, op)
	}
	return AuditLogProducer{p}, nil
}

func (p AuditLogProducer) Close() {
	p.producer.close()
}

func (p AuditLogProducer) ProduceAuditEntries(
	ctx context.Context, vs []domain.AuditLogEntry,
) error {
	const op = "ProduceAuditEntries"
	opPrefix := p.producer.opPrefix

	if err := ctx.Err(); err != nil {
		return opErr(err, opPrefix, op)
	}

	rs := make([]*kgo.Record, 0, len(vs))
	for _, v := range vs {
		r, err := p.producer.record(v.UserID, auditEntryToSchemaV1(v))
		if err != nil {
			return opErr(err, opPrefix, op)
		}
		rs = append(rs, r)
	}

	if err := p.producer.produce(ctx, rs...); err != nil {
		return opErr(err, opPrefix, op)
	}
	return nil
}

// A QuotesProducer streams every state of [domain.QuoteRequest]
// to the quotes topic.
type QuotesProducer struct {
	producer producer
}

func NewQuotesProducer(opts ...ProducerOpt) (QuotesProducer, error) {
	const op = "NewQuotesProducer"

	p, err := newProducer("QuotesProducer", opts)
	if err != nil {
		return QuotesProducer{}, opErr(err, op)
	}
	return QuotesProducer{p}, nil
}

func (p QuotesProducer) Close() {
	p.producer.close()
}

func (p QuotesProducer) ProduceQuotes(
	ctx context.Context, vs []domain.QuoteRequest,
) error {
	const op = "ProduceQuotes"
	opPrefix := p.producer.opPrefix

	if err := ctx.Err(); err != nil {
		return opErr(err, opPrefix, op)
	}

	rs := make([]*kgo.Record, 0, len(vs))
	for _, v := range vs {
		r, err := p.producer.record(
			quoteKey(v.CustomerEmail), quoteToSchemaV1(v),
		)
		if err != nil {
			return opErr(err, opPrefix, op)
		}
		rs = append(rs, r)
	}

	if err := p.producer.produce(ctx, rs...); err != nil {
		return opErr(err, opPrefix, op)
	}
	return nil
}
