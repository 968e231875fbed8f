package schema

import "time"

const AuditEntrySchemaTextV1 = `{
	"type": "record",
	"namespace": "medsupply",
	"name": "audit_entry",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "user_id", "type": "string"},
		{"name": "action", "type": "string"},
		{"name": "details", "type": "string"},
		{"name": "timestamp", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "ip_address", "type": "string"}
	]
}`

type AuditEntryV1 struct {
	ID        string    `avro:"id"`
	UserID    string    `avro:"user_id"`
	Action    string    `avro:"action"`
	Details   string    `avro:"details"`
	Timestamp time.Time `avro:"timestamp"`
	IPAddress string    `avro:"ip_address"`
}
