package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

var ErrTooFewOpts = errors.New("too few options")

// A Serde frames Avro payloads with the registry wire header.
type Serde interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

var _ Serde = (*sr.Serde)(nil)

type Opt func(*registration) error

type registration struct {
	subject string
	si      SchemaIdentifier
}

func SubjectOpt(subject string) Opt {
	return func(r *registration) error {
		if subject == "" {
			return errors.New("subject is empty string")
		}
		r.subject = subject
		return nil
	}
}

func SchemaIdentifierOpt(si SchemaIdentifier) Opt {
	return func(r *registration) error {
		if si == nil {
			return errors.New("schema identifier is nil")
		}
		r.si = si
		return nil
	}
}

func NewSerdeAuditEntryV1(ctx context.Context, opts ...Opt) (Serde, error) {
	s, err := register(ctx, AuditEntrySchemaTextV1, AuditEntryV1{}, opts)
	if err != nil {
		return nil, fmt.Errorf("NewSerdeAuditEntryV1: %w", err)
	}
	return s, nil
}

func NewSerdeQuoteV1(ctx context.Context, opts ...Opt) (Serde, error) {
	s, err := register(ctx, QuoteSchemaTextV1, QuoteV1{}, opts)
	if err != nil {
		return nil, fmt.Errorf("NewSerdeQuoteV1: %w", err)
	}
	return s, nil
}

// register resolves the registry id of schemaText and binds record
// type of v to it.
func register(
	ctx context.Context, schemaText string, v any, opts []Opt,
) (*sr.Serde, error) {
	if len(opts) != 2 {
		return nil, ErrTooFewOpts
	}

	var r registration
	for _, opt := range opts {
		if err := opt(&r); err != nil {
			return nil, err
		}
	}

	s, err := avro.Parse(schemaText)
	if err != nil {
		return nil, err
	}

	id, err := r.si.DetermineID(ctx, r.subject, schemaText)
	if err != nil {
		return nil, err
	}

	var serde sr.Serde
	serde.Register(
		id, v,
		sr.EncodeFn(AvroEncodeFn(s)),
		sr.DecodeFn(AvroDecodeFn(s)),
	)
	return &serde, nil
}
