package schema

import "time"

const QuoteSchemaTextV1 = `{
	"type": "record",
	"namespace": "medsupply",
	"name": "quote",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "customer_name", "type": "string"},
		{"name": "customer_email", "type": "string"},
		{"name": "customer_phone", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "quote_item",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "quantity", "type": "int"},
					{"name": "name", "type": "string"}
				]
			}
		}},
		{"name": "status", "type": "string"},
		{"name": "timestamp", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "estimated_total", "type": ["null", "string"], "default": null}
	]
}`

type (
	QuoteV1 struct {
		ID             string        `avro:"id"`
		CustomerName   string        `avro:"customer_name"`
		CustomerEmail  string        `avro:"customer_email"`
		CustomerPhone  string        `avro:"customer_phone"`
		Items          []QuoteItemV1 `avro:"items"`
		Status         string        `avro:"status"`
		Timestamp      time.Time     `avro:"timestamp"`
		EstimatedTotal *string       `avro:"estimated_total"`
	}

	QuoteItemV1 struct {
		ProductID string `avro:"product_id"`
		Quantity  int    `avro:"quantity"`
		Name      string `avro:"name"`
	}
)

// InquiriesSchemaTextV1 is the value of the inquiry counter table.
// The quote ids make counting idempotent across status updates.
const InquiriesSchemaTextV1 = `{
	"type": "record",
	"namespace": "medsupply",
	"name": "inquiries",
	"fields": [
		{"name": "quote_ids", "type": {"type": "array", "items": "string"}}
	]
}`

type InquiriesV1 struct {
	QuoteIDs []string `avro:"quote_ids"`
}
