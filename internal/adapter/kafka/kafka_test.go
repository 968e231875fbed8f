package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/lovoo/goka"
	"github.com/niksmo/medsupply/internal/core/domain"
	"github.com/niksmo/medsupply/pkg/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type avroSerde struct {
	encode func(any) ([]byte, error)
	decode func([]byte, any) error
}

func newAvroSerde(t *testing.T, text string) avroSerde {
	t.Helper()
	s, err := avro.Parse(text)
	require.NoError(t, err)
	return avroSerde{schema.AvroEncodeFn(s), schema.AvroDecodeFn(s)}
}

func (s avroSerde) Encode(v any) ([]byte, error) { return s.encode(v) }

func (s avroSerde) Decode(b []byte, v any) error { return s.decode(b, v) }

type MockProducerClient struct {
	mock.Mock
}

func (m *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (m *MockProducerClient) Close() {
	m.Called()
}

type MockConsumerClient struct {
	mock.Mock
}

func (m *MockConsumerClient) PollFetches(ctx context.Context) kgo.Fetches {
	args := m.Called(ctx)
	return args.Get(0).(kgo.Fetches)
}

func (m *MockConsumerClient) CommitUncommittedOffsets(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockConsumerClient) Close() {
	m.Called()
}

type MockQuotesSaver struct {
	mock.Mock
}

func (m *MockQuotesSaver) SaveQuotes(
	ctx context.Context, qs []domain.QuoteRequest,
) error {
	args := m.Called(ctx, qs)
	return args.Error(0)
}

func testQuote() domain.QuoteRequest {
	total := decimal.RequireFromString("99.5")
	return domain.QuoteRequest{
		ID:            "QT-ABCDEF",
		CustomerName:  "Jane",
		CustomerEmail: "Jane@X.com",
		CustomerPhone: "123",
		Items: []domain.QuoteItem{
			{ProductID: "1", Quantity: 2, Name: "Normal Saline"},
		},
		Status:         domain.QuoteApproved,
		Timestamp:      time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
		TotalEstimated: &total,
	}
}

func TestQuoteConversion(t *testing.T) {
	q := testQuote()

	s := quoteToSchemaV1(q)
	require.NotNil(t, s.EstimatedTotal)
	assert.Equal(t, "99.50", *s.EstimatedTotal)
	assert.Equal(t, "Approved", s.Status)

	got, err := schemaV1ToQuote(s)
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)
	assert.Equal(t, q.Items, got.Items)
	assert.True(t, q.TotalEstimated.Equal(*got.TotalEstimated))

	bad := "n/a"
	s.EstimatedTotal = &bad
	_, err = schemaV1ToQuote(s)
	assert.Error(t, err)
}

func TestQuotesProducer(t *testing.T) {
	t.Run("TooFewOpts", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = NewQuotesProducer()
		})
	})

	t.Run("Produce", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.MatchedBy(
			func(rs []*kgo.Record) bool {
				return len(rs) == 1 && string(rs[0].Key) == "jane@x.com"
			},
		)).Return(kgo.ProduceResults{{}}).Once()

		p, err := NewQuotesProducer(
			ProducerTestClientOpt(cl),
			ProducerEncoderOpt(newAvroSerde(t, schema.QuoteSchemaTextV1)),
		)
		require.NoError(t, err)

		err = p.ProduceQuotes(t.Context(), []domain.QuoteRequest{testQuote()})
		require.NoError(t, err)
		cl.AssertExpectations(t)
	})

	t.Run("BrokerError", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{Err: assert.AnError}})

		p, err := NewQuotesProducer(
			ProducerTestClientOpt(cl),
			ProducerEncoderOpt(newAvroSerde(t, schema.QuoteSchemaTextV1)),
		)
		require.NoError(t, err)

		err = p.ProduceQuotes(t.Context(), []domain.QuoteRequest{testQuote()})
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cl := new(MockProducerClient)
		p, err := NewQuotesProducer(
			ProducerTestClientOpt(cl),
			ProducerEncoderOpt(newAvroSerde(t, schema.QuoteSchemaTextV1)),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		err = p.ProduceQuotes(ctx, []domain.QuoteRequest{testQuote()})
		assert.ErrorIs(t, err, context.Canceled)
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})
}

func TestAuditLogProducer(t *testing.T) {
	cl := new(MockProducerClient)
	cl.On("ProduceSync", mock.Anything, mock.MatchedBy(
		func(rs []*kgo.Record) bool {
			return len(rs) == 2 && string(rs[1].Key) == "Grace"
		},
	)).Return(kgo.ProduceResults{{}, {}}).Once()
	cl.On("Close").Once()

	p, err := NewAuditLogProducer(
		ProducerTestClientOpt(cl),
		ProducerEncoderOpt(newAvroSerde(t, schema.AuditEntrySchemaTextV1)),
	)
	require.NoError(t, err)

	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	err = p.ProduceAuditEntries(t.Context(), []domain.AuditLogEntry{
		{ID: "1", UserID: "GUEST", Action: "INFO_VISIT", Timestamp: now},
		{ID: "2", UserID: "Grace", Action: "SECURE_AUTH", Timestamp: now},
	})
	require.NoError(t, err)

	p.Close()
	cl.AssertExpectations(t)
}

func TestQuotesConsumerProcessFetches(t *testing.T) {
	serde := newAvroSerde(t, schema.QuoteSchemaTextV1)
	value, err := serde.Encode(quoteToSchemaV1(testQuote()))
	require.NoError(t, err)

	fetches := kgo.Fetches{{
		Topics: []kgo.FetchTopic{{
			Topic: "quotes",
			Partitions: []kgo.FetchPartition{{
				Records: []*kgo.Record{
					{Value: value},
					{Value: []byte("garbage")},
				},
			}},
		}},
	}}

	saver := new(MockQuotesSaver)
	saver.On("SaveQuotes", mock.Anything, mock.MatchedBy(
		func(qs []domain.QuoteRequest) bool {
			return len(qs) == 1 && qs[0].ID == "QT-ABCDEF"
		},
	)).Return(nil).Once()

	c := QuotesConsumer{
		opPrefix: "QuotesConsumer",
		saver:    saver,
		decoder:  serde,
	}

	require.NoError(t, c.processFetches(t.Context(), fetches))
	saver.AssertExpectations(t)
}

func TestInquiries(t *testing.T) {
	t.Run("AddOnce", func(t *testing.T) {
		var v schema.InquiriesV1
		v, added := addInquiry(v, "QT-000001")
		require.True(t, added)
		v, added = addInquiry(v, "QT-000001")
		require.False(t, added)
		v, added = addInquiry(v, "QT-000002")
		require.True(t, added)
		assert.Len(t, v.QuoteIDs, 2)
	})

	t.Run("Codec", func(t *testing.T) {
		c := newInquiriesCodec()

		_, err := c.Encode(42)
		require.ErrorIs(t, err, ErrInvalidValueType)

		data, err := c.Encode(schema.InquiriesV1{QuoteIDs: []string{"QT-000001"}})
		require.NoError(t, err)

		v, err := c.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, schema.InquiriesV1{QuoteIDs: []string{"QT-000001"}}, v)
	})

	t.Run("QuoteCodec", func(t *testing.T) {
		c := quoteEventCodec{newAvroSerde(t, schema.QuoteSchemaTextV1)}

		_, err := c.Encode("x")
		require.ErrorIs(t, err, ErrInvalidValueType)

		data, err := c.Encode(quoteToSchemaV1(testQuote()))
		require.NoError(t, err)
		v, err := c.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, "QT-ABCDEF", v.(schema.QuoteV1).ID)
	})
}

func quoteFetches(t *testing.T, serde avroSerde) kgo.Fetches {
	t.Helper()
	value, err := serde.Encode(quoteToSchemaV1(testQuote()))
	require.NoError(t, err)
	return kgo.Fetches{{
		Topics: []kgo.FetchTopic{{
			Topic: "quotes",
			Partitions: []kgo.FetchPartition{{
				Records: []*kgo.Record{{Value: value, Offset: 0}},
			}},
		}},
	}}
}

func TestQuotesConsumerConsume(t *testing.T) {
	serde := newAvroSerde(t, schema.QuoteSchemaTextV1)
	sameQuote := mock.MatchedBy(func(qs []domain.QuoteRequest) bool {
		return len(qs) == 1 && qs[0].ID == "QT-ABCDEF"
	})

	newConsumer := func(
		t *testing.T, cl *MockConsumerClient, saver *MockQuotesSaver,
	) QuotesConsumer {
		t.Helper()
		qc, err := NewQuotesConsumer(
			ConsumerTestClientOpt(cl),
			ConsumerDecoderOpt(serde),
			QuotesConsumerSaverOpt(saver),
		)
		require.NoError(t, err)
		qc.consumer.retryDelay = time.Millisecond
		return qc
	}

	t.Run("SaveRetriedBeforeCommit", func(t *testing.T) {
		cl := new(MockConsumerClient)
		cl.On("PollFetches", mock.Anything).
			Return(quoteFetches(t, serde)).Once()
		cl.On("CommitUncommittedOffsets", mock.Anything).Return(nil).Once()

		saver := new(MockQuotesSaver)
		saver.On("SaveQuotes", mock.Anything, sameQuote).
			Return(assert.AnError).Once()
		saver.On("SaveQuotes", mock.Anything, sameQuote).
			Return(nil).Once()

		qc := newConsumer(t, cl, saver)
		require.NoError(t, qc.consumer.consume(t.Context()))

		saver.AssertNumberOfCalls(t, "SaveQuotes", 2)
		cl.AssertNumberOfCalls(t, "PollFetches", 1)
		cl.AssertExpectations(t)
	})

	t.Run("NoCommitWhenCanceled", func(t *testing.T) {
		cl := new(MockConsumerClient)
		cl.On("PollFetches", mock.Anything).
			Return(quoteFetches(t, serde)).Once()

		saver := new(MockQuotesSaver)
		saver.On("SaveQuotes", mock.Anything, sameQuote).
			Return(assert.AnError)

		qc := newConsumer(t, cl, saver)
		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()

		err := qc.consumer.consume(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.ErrorIs(t, err, assert.AnError)
		cl.AssertNotCalled(t, "CommitUncommittedOffsets", mock.Anything)
	})
}

func TestKeyPartitioner(t *testing.T) {
	viewPartition := func(key string, n int) int {
		h := goka.DefaultHasher()()
		h.Write([]byte(key))
		p := int32(h.Sum32())
		if p < 0 {
			p = -p
		}
		return int(p % int32(n))
	}

	keys := []string{
		"a@x.com",
		"buyer@clinic.org",
		"ops@pharma.io",
		"z@y.com",
		quoteKey("Jane@X.com"),
		quoteKey("PROCUREMENT@Hospital.example"),
	}

	tp := keyPartitioner().ForTopic("quotes")
	for _, n := range []int{1, 3, 6, 12} {
		for _, key := range keys {
			got := tp.Partition(&kgo.Record{Key: []byte(key)}, n)
			assert.Equal(t, viewPartition(key, n), got, "key %q n %d", key, n)
		}
	}
}
