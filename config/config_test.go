package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/niksmo/medsupply/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := config.LoadFile(writeConfig(t, "http_server_addr: :9000\n"))
		require.NoError(t, err)

		assert.Equal(t, ":9000", cfg.HTTPServerAddr)
		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
		assert.Equal(t, 300*time.Millisecond, cfg.SyncDelay.Catalog)
		assert.Equal(t, 500*time.Millisecond, cfg.SyncDelay.Quote)
		assert.Equal(t, 10000, cfg.MaxSessions)
		assert.Equal(t, "quotes", cfg.Broker.Topics.Quotes)
		assert.Equal(t, "quote_inquiry_counter", cfg.Broker.Consumers.InquiryCounterGroup)
		assert.False(t, cfg.Broker.Enabled())
	})

	t.Run("Full", func(t *testing.T) {
		cfg, err := config.LoadFile(writeConfig(t, `
log_level: debug
session_key: secret
max_sessions: 50
sync_delay:
  catalog: 1s
  quote: 50ms
broker:
  seed_brokers:
    - localhost:9094
  topics:
    audit_log: audit
`))
		require.NoError(t, err)

		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.Equal(t, "secret", cfg.SessionKey)
		assert.Equal(t, 50, cfg.MaxSessions)
		assert.Equal(t, time.Second, cfg.SyncDelay.Catalog)
		assert.Equal(t, 50*time.Millisecond, cfg.SyncDelay.Quote)
		assert.Equal(t, []string{"localhost:9094"}, cfg.Broker.SeedBrokers)
		assert.Equal(t, "audit", cfg.Broker.Topics.AuditLog)
		assert.True(t, cfg.Broker.Enabled())
	})

	t.Run("UnknownKey", func(t *testing.T) {
		_, err := config.LoadFile(writeConfig(t, "unknown_key: 1\n"))
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := config.LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
		assert.Error(t, err)
	})
}
