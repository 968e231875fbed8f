package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/medsupply/internal/core/port"
	"github.com/niksmo/medsupply/pkg/schema"
)

var _ port.InquiryCounter = (*InquiryView)(nil)

// An InquiryView reads the inquiry counter group table.
type InquiryView struct {
	gv *goka.View
}

func NewInquiryView(
	seedBrokers []string, groupTable string,
) (*InquiryView, error) {
	const op = "NewInquiryView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(groupTable)),
		newInquiriesCodec(),
		goka.WithViewHasher(keyHasher),
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &InquiryView{gv}, nil
}

func (v *InquiryView) Run(ctx context.Context) {
	const op = "InquiryView.Run"
	log := slog.With("op", op)

	log.Info("running")
	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
		return
	}
	log.Info("stopped")
}

func (v *InquiryView) Inquiries(
	ctx context.Context, customerEmail string,
) (int64, error) {
	const op = "InquiryView.Inquiries"

	if err := ctx.Err(); err != nil {
		return 0, opErr(err, op)
	}

	value, err := v.gv.Get(quoteKey(customerEmail))
	if err != nil {
		return 0, opErr(err, op)
	}

	if value == nil {
		return 0, nil
	}

	inquiries, ok := value.(schema.InquiriesV1)
	if !ok {
		return 0, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, value), op,
		)
	}
	return int64(len(inquiries.QuoteIDs)), nil
}
