package domain

import "time"

const (
	AuditLogLimit = 50
	GuestActor    = "GUEST"
	DefaultLevel  = "INFO"
)

type AuditLogEntry struct {
	ID        string
	UserID    string
	Action    string
	Details   string
	Timestamp time.Time
	IPAddress string
}

// ActionCode composes the stored action code, e.g. "WRITE_CATALOG".
func ActionCode(level, action string) string {
	if level == "" {
		level = DefaultLevel
	}
	return level + "_" + action
}
