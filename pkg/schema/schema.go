package schema

import (
	"context"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

// A SchemaIdentifier returns the registry id of a schema text
// under subject, registering it when needed.
type SchemaIdentifier interface {
	DetermineID(
		ctx context.Context, subject string, avroSchemaText string,
	) (id int, err error)
}

type schemaCreater struct {
	client *sr.Client
}

func NewSchemaCreater(client *sr.Client) SchemaIdentifier {
	if client == nil {
		panic("schema registry client is nil (develop mistake)")
	}
	return schemaCreater{client}
}

func (sc schemaCreater) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (int, error) {
	ss, err := sc.client.CreateSchema(
		ctx,
		subject,
		sr.Schema{Schema: avroSchemaText, Type: sr.TypeAvro},
	)
	if err != nil {
		return 0, err
	}
	return ss.ID, nil
}

// SubjectName follows the topic name strategy of the registry.
func SubjectName(topic string) string {
	return topic + "-value"
}

func AvroEncodeFn(s avro.Schema) func(v any) ([]byte, error) {
	return func(v any) ([]byte, error) {
		return avro.Marshal(s, v)
	}
}

func AvroDecodeFn(s avro.Schema) func([]byte, any) error {
	return func(data []byte, v any) error {
		return avro.Unmarshal(s, data, v)
	}
}
