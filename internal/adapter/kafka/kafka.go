package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lovoo/goka"
	"github.com/niksmo/medsupply/internal/core/domain"
	"github.com/niksmo/medsupply/pkg/schema"
	"github.com/shopspring/decimal"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string,
) ProducerOpt {
	return func(opts *producerOpts) error {
		cl, err := kgo.NewClient(
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.RecordPartitioner(keyPartitioner()),
		)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerTestClientOpt sets a prepared client.
func ProducerTestClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type ConsumerClient interface {
	PollFetches(context.Context) kgo.Fetches
	CommitUncommittedOffsets(context.Context) error
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

// keyHasher is shared by produced records and goka views, so a view
// finds the value in the partition the processor wrote it to.
var keyHasher = goka.DefaultHasher()

func keyPartitioner() kgo.Partitioner {
	return kgo.StickyKeyPartitioner(kgo.SaramaCompatHasher(
		func(key []byte) uint32 {
			h := keyHasher()
			h.Write(key)
			return h.Sum32()
		},
	))
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

// quoteKey partitions quotes by customer, so inquiries of one
// customer land in one partition.
func quoteKey(email string) string {
	return strings.ToLower(email)
}

func auditEntryToSchemaV1(v domain.AuditLogEntry) schema.AuditEntryV1 {
	return schema.AuditEntryV1{
		ID:        v.ID,
		UserID:    v.UserID,
		Action:    v.Action,
		Details:   v.Details,
		Timestamp: v.Timestamp,
		IPAddress: v.IPAddress,
	}
}

func quoteToSchemaV1(v domain.QuoteRequest) (s schema.QuoteV1) {
	s.ID = v.ID
	s.CustomerName = v.CustomerName
	s.CustomerEmail = v.CustomerEmail
	s.CustomerPhone = v.CustomerPhone
	s.Status = string(v.Status)
	s.Timestamp = v.Timestamp

	s.Items = make([]schema.QuoteItemV1, len(v.Items))
	for i, item := range v.Items {
		s.Items[i] = schema.QuoteItemV1{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Name:      item.Name,
		}
	}

	if v.TotalEstimated != nil {
		total := v.TotalEstimated.StringFixed(2)
		s.EstimatedTotal = &total
	}
	return
}

func schemaV1ToQuote(s schema.QuoteV1) (v domain.QuoteRequest, err error) {
	v.ID = s.ID
	v.CustomerName = s.CustomerName
	v.CustomerEmail = s.CustomerEmail
	v.CustomerPhone = s.CustomerPhone
	v.Status = domain.QuoteStatus(s.Status)
	v.Timestamp = s.Timestamp

	v.Items = make([]domain.QuoteItem, len(s.Items))
	for i, item := range s.Items {
		v.Items[i] = domain.QuoteItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Name:      item.Name,
		}
	}

	if s.EstimatedTotal != nil {
		total, err := decimal.NewFromString(*s.EstimatedTotal)
		if err != nil {
			return domain.QuoteRequest{}, err
		}
		v.TotalEstimated = &total
	}
	return v, nil
}
