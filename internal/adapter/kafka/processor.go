package kafka

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/hamba/avro/v2"
	"github.com/lovoo/goka"
	"github.com/niksmo/medsupply/internal/core/port"
	"github.com/niksmo/medsupply/pkg/schema"
)

var _ port.InquiryCounterProcessor = (*InquiryCounterProcessor)(nil)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A quoteEventCodec used for serde [schema.QuoteV1]
type quoteEventCodec struct {
	serde Serde
}

func (c quoteEventCodec) Encode(v any) ([]byte, error) {
	const op = "quoteEventCodec.Encode"
	if _, ok := v.(schema.QuoteV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c quoteEventCodec) Decode(data []byte) (any, error) {
	const op = "quoteEventCodec.Decode"
	var s schema.QuoteV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// An inquiriesCodec used for the group table values.
// Plain avro, the table is private to the group.
type inquiriesCodec struct {
	encode func(any) ([]byte, error)
	decode func([]byte, any) error
}

func newInquiriesCodec() inquiriesCodec {
	s := avro.MustParse(schema.InquiriesSchemaTextV1)
	return inquiriesCodec{
		encode: schema.AvroEncodeFn(s),
		decode: schema.AvroDecodeFn(s),
	}
}

func (c inquiriesCodec) Encode(v any) ([]byte, error) {
	const op = "inquiriesCodec.Encode"
	if _, ok := v.(schema.InquiriesV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.encode(v)
}

func (c inquiriesCodec) Decode(data []byte) (any, error) {
	const op = "inquiriesCodec.Decode"
	var s schema.InquiriesV1
	if err := c.decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// addInquiry adds the quote id to v once.
func addInquiry(v schema.InquiriesV1, quoteID string) (schema.InquiriesV1, bool) {
	if slices.Contains(v.QuoteIDs, quoteID) {
		return v, false
	}
	v.QuoteIDs = append(v.QuoteIDs, quoteID)
	return v, true
}

// An InquiryCounterProcessor collects quote ids per customer email
// from the quotes stream into the group table.
type InquiryCounterProcessor struct {
	opPrefix string
	proc     processor
}

func NewInquiryCounterProc(
	seedBrokers []string,
	inputStream string,
	groupTable string,
	quoteSerde Serde,
) (*InquiryCounterProcessor, error) {
	const op = "NewInquiryCounterProc"

	p := InquiryCounterProcessor{opPrefix: "InquiryCounterProcessor"}

	gg := goka.DefineGroup(goka.Group(groupTable),
		goka.Input(
			goka.Stream(inputStream),
			quoteEventCodec{quoteSerde},
			p.processFn,
		),
		goka.Persist(newInquiriesCodec()),
	)

	gp, err := goka.NewProcessor(
		seedBrokers, gg, withNonlogProcOpt(), goka.WithHasher(keyHasher),
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}

	return &p, nil
}

func (p *InquiryCounterProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *InquiryCounterProcessor) Close() {
	p.proc.close()
}

func (p *InquiryCounterProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"
	log := slog.With("op", makeOp(p.opPrefix, op))

	quote, ok := msg.(schema.QuoteV1)
	if !ok {
		log.Error("unexpected message", "err", ErrInvalidValueType)
		return
	}

	current, _ := ctx.Value().(schema.InquiriesV1)
	v, added := addInquiry(current, quote.ID)
	if !added {
		return
	}
	ctx.SetValue(v)
	log.Info(
		"inquiry counted",
		"customer", ctx.Key(),
		"inquiries", len(v.QuoteIDs),
	)
}
