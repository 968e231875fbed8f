package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "MEDSUPPLY_CONFIG_FILE"

type consumers struct {
	QuoteArchiveGroup   string `mapstructure:"quote_archive_group"`
	InquiryCounterGroup string `mapstructure:"inquiry_counter_group"`
}

type topics struct {
	AuditLog string `mapstructure:"audit_log"`
	Quotes   string `mapstructure:"quotes"`
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

// Enabled reports whether streaming is configured.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type syncDelay struct {
	Catalog time.Duration `mapstructure:"catalog"`
	Quote   time.Duration `mapstructure:"quote"`
}

type Config struct {
	LogLevel        slog.Level `mapstructure:"log_level"`
	HTTPServerAddr  string     `mapstructure:"http_server_addr"`
	SessionKey      string     `mapstructure:"session_key"`
	PreferencesPath string     `mapstructure:"preferences_path"`
	MaxSessions     int        `mapstructure:"max_sessions"`
	SQLDB           string     `mapstructure:"sql_db"`
	SyncDelay       syncDelay  `mapstructure:"sync_delay"`
	Broker          broker     `mapstructure:"broker"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", "127.0.0.1:8000")
	v.SetDefault("session_key", "")
	v.SetDefault("preferences_path", "")
	v.SetDefault("max_sessions", 10000)
	v.SetDefault("sql_db", "")
	v.SetDefault("sync_delay.catalog", 300*time.Millisecond)
	v.SetDefault("sync_delay.quote", 500*time.Millisecond)
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.audit_log", "audit_log")
	v.SetDefault("broker.topics.quotes", "quotes")
	v.SetDefault("broker.consumers.quote_archive_group", "quote_archive_group")
	v.SetDefault("broker.consumers.inquiry_counter_group", "quote_inquiry_counter")
}

func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SessionKeySet=%t
	PreferencesPath=%q
	MaxSessions=%d
	SQLDB=%q
	SyncDelay:
		Catalog=%s
		Quote=%s

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		AuditLog=%q
		Quotes=%q
	Consumers:
		QuoteArchiveGroup=%q
		InquiryCounterGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.SessionKey != "",
		c.PreferencesPath,
		c.MaxSessions,
		c.SQLDB,
		c.SyncDelay.Catalog,
		c.SyncDelay.Quote,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.AuditLog,
		c.Broker.Topics.Quotes,
		c.Broker.Consumers.QuoteArchiveGroup,
		c.Broker.Consumers.InquiryCounterGroup,
	)
}
