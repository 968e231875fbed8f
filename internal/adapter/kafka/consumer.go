package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/niksmo/medsupply/internal/core/domain"
	"github.com/niksmo/medsupply/internal/core/port"
	"github.com/niksmo/medsupply/pkg/retry"
	"github.com/niksmo/medsupply/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

const slowDownInterval = time.Second

type ConsumerOpt func(*consumerOpts) error

func ConsumerClientOpt(
	seedBrokers []string, topic, group string,
) ConsumerOpt {
	return func(co *consumerOpts) error {
		cl, err := kgo.NewClient(
			kgo.SeedBrokers(seedBrokers...),
			kgo.ConsumeTopics(topic),
			kgo.ConsumerGroup(group),
			kgo.DisableAutoCommit(),
		)
		if err != nil {
			return err
		}
		co.cl = cl
		return nil
	}
}

// ConsumerTestClientOpt sets a prepared client.
func ConsumerTestClientOpt(cl ConsumerClient) ConsumerOpt {
	return func(co *consumerOpts) error {
		if cl == nil {
			return errors.New("client is nil")
		}
		co.cl = cl
		return nil
	}
}

func ConsumerDecoderOpt(decoder Decoder) ConsumerOpt {
	return func(co *consumerOpts) error {
		if decoder == nil {
			return errors.New("decoder is nil")
		}
		co.decoder = decoder
		return nil
	}
}

func QuotesConsumerSaverOpt(qs port.QuotesSaver) ConsumerOpt {
	return func(co *consumerOpts) error {
		if qs == nil {
			return errors.New("quotes saver is nil")
		}
		co.quotesSaver = qs
		return nil
	}
}

type consumerOpts struct {
	cl          ConsumerClient
	decoder     Decoder
	quotesSaver port.QuotesSaver
}

func (co *consumerOpts) apply(opts ...ConsumerOpt) error {
	for _, opt := range opts {
		if err := opt(co); err != nil {
			return err
		}
	}
	return nil
}

type consumerParent interface {
	processFetches(context.Context, kgo.Fetches) error
}

// A consumer is used for composition.
//
// Fetching records from kafka broker and closing underlying [kgo.Client].
type consumer struct {
	opPrefix   string
	parent     consumerParent
	cl         ConsumerClient
	retryDelay time.Duration
}

func (c consumer) run(ctx context.Context) {
	const op = "run"
	log := slog.With("op", makeOp(c.opPrefix, op))

	log.Info("running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				log.Error("failed to consume", "err", err)
				c.slowDown(ctx)
			}
		}
	}
}

func (c consumer) consume(ctx context.Context) error {
	const op = "consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	if fetches.Empty() {
		return nil
	}

	err = c.process(ctx, fetches)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	err = c.commit(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

// process repeats processing of the same fetches until it succeeds or
// ctx is done. The client has already moved past these records, so
// polling again would let the next commit skip them.
func (c consumer) process(ctx context.Context, fetches kgo.Fetches) error {
	const op = "process"
	log := slog.With("op", makeOp(c.opPrefix, op))

	cfg := retry.RetryConfig{
		MaxAttempts: math.MaxInt,
		Backoff:     retry.LinearBackoff(c.retryDelay),
	}
	return retry.Do(ctx, cfg, func() error {
		err := c.parent.processFetches(ctx, fetches)
		if err != nil {
			log.Error("failed to process fetches, retrying", "err", err)
		}
		return err
	})
}

func (c consumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	err := c.handleFetchesErrs(fetches)
	if err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	return fetches, nil
}

func (c consumer) handleFetchesErrs(fetches kgo.Fetches) error {
	var errsMessages []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errMsg := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsMessages = append(errsMessages, errMsg)
		}
	})

	if len(errsMessages) != 0 {
		return errors.New(strings.Join(errsMessages, "; "))
	}
	return nil
}

func (c consumer) slowDown(ctx context.Context) {
	t := time.NewTimer(slowDownInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (c consumer) commit(ctx context.Context) error {
	const op = "commit"

	err := ctx.Err()
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	err = c.cl.CommitUncommittedOffsets(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c consumer) close() {
	const op = "close"
	log := slog.With("op", makeOp(c.opPrefix, op))

	log.Info("closing consumer...")
	c.cl.Close()
	log.Info("consumer is closed")
}

// A QuotesConsumer consumes quote states from the quotes topic
// then sends them to the core service for archiving.
type QuotesConsumer struct {
	opPrefix string
	consumer consumer
	saver    port.QuotesSaver
	decoder  Decoder
}

func NewQuotesConsumer(opts ...ConsumerOpt) (qc QuotesConsumer, err error) {
	const op = "NewQuotesConsumer"

	if len(opts) != 3 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options consumerOpts
	if err := options.apply(opts...); err != nil {
		return qc, opErr(err, op)
	}

	opPrefix := "QuotesConsumer"

	qc.opPrefix = opPrefix
	qc.saver = options.quotesSaver
	qc.decoder = options.decoder

	qc.consumer = consumer{
		opPrefix:   opPrefix,
		parent:     qc,
		cl:         options.cl,
		retryDelay: slowDownInterval,
	}

	return qc, nil
}

func (c QuotesConsumer) Run(ctx context.Context) {
	c.consumer.run(ctx)
}

func (c QuotesConsumer) Close() {
	c.consumer.close()
}

func (c QuotesConsumer) processFetches(
	ctx context.Context, fetches kgo.Fetches,
) error {
	const op = "processFetches"

	values := c.toDomain(fetches)
	if len(values) == 0 {
		return nil
	}

	err := c.saver.SaveQuotes(ctx, values)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c QuotesConsumer) toDomain(
	fetches kgo.Fetches,
) (vs []domain.QuoteRequest) {
	const op = "toDomain"
	log := slog.With("op", makeOp(c.opPrefix, op))

	fetches.EachRecord(func(r *kgo.Record) {
		v, err := c.decodeRecValue(r)
		if err != nil {
			log.Error(
				"failed to decode value",
				"err", opErr(err, c.opPrefix, op),
			)
			return
		}
		vs = append(vs, v)
	})
	return vs
}

func (c QuotesConsumer) decodeRecValue(
	r *kgo.Record,
) (domain.QuoteRequest, error) {
	var s schema.QuoteV1
	err := c.decoder.Decode(r.Value, &s)
	if err != nil {
		return domain.QuoteRequest{}, err
	}
	return schemaV1ToQuote(s)
}
