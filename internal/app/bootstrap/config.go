package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the contract lifecycle
// service. It merges file defaults and environment overrides to support
// both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	KafkaBrokers []string

	JWTSecret     string
	JWTIssuer     string
	WebhookSecret string

	ProcessorBaseURL string
	ProcessorAPIKey  string
	StorageBaseURL   string
	StorageBucket    string
	StorageAPIKey    string
	DocgenBaseURL    string
	DocgenAPIKey     string
	NotifierBaseURL  string
	NotifierAPIKey   string

	DefaultCurrency          string
	DefaultCommissionPercent int64
	ChecklistDeadline        time.Duration
	KeyHandoverLeadTime      time.Duration
	KeyHandoverHour          int

	MaxDBConns         int32
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Gateways struct {
		Processor struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"processor"`
		Storage struct {
			BaseURL string `yaml:"base_url"`
			Bucket  string `yaml:"bucket"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"storage"`
		Docgen struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"docgen"`
		Notifier struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"notifier"`
	} `yaml:"gateways"`
	Lifecycle struct {
		DefaultCurrency          string `yaml:"default_currency"`
		DefaultCommissionPercent int64  `yaml:"default_commission_percent"`
		ChecklistDeadlineDays    int    `yaml:"checklist_deadline_days"`
		KeyHandoverLeadHours     int    `yaml:"key_handover_lead_hours"`
		KeyHandoverHour          int    `yaml:"key_handover_hour"`
	} `yaml:"lifecycle"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:                "contract-lifecycle-service",
		HTTPPort:                 8080,
		GRPCPort:                 9090,
		DefaultCurrency:          "USD",
		DefaultCommissionPercent: 5,
		ChecklistDeadline:        7 * 24 * time.Hour,
		KeyHandoverLeadTime:      24 * time.Hour,
		KeyHandoverHour:          12,
		MaxDBConns:               20,
		OutboxPollInterval:       2 * time.Second,
		OutboxBatchSize:          100,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
		}
		if f.Gateways.Processor.BaseURL != "" {
			cfg.ProcessorBaseURL = f.Gateways.Processor.BaseURL
		}
		if f.Gateways.Processor.APIKey != "" {
			cfg.ProcessorAPIKey = f.Gateways.Processor.APIKey
		}
		if f.Gateways.Storage.BaseURL != "" {
			cfg.StorageBaseURL = f.Gateways.Storage.BaseURL
		}
		if f.Gateways.Storage.Bucket != "" {
			cfg.StorageBucket = f.Gateways.Storage.Bucket
		}
		if f.Gateways.Storage.APIKey != "" {
			cfg.StorageAPIKey = f.Gateways.Storage.APIKey
		}
		if f.Gateways.Docgen.BaseURL != "" {
			cfg.DocgenBaseURL = f.Gateways.Docgen.BaseURL
		}
		if f.Gateways.Docgen.APIKey != "" {
			cfg.DocgenAPIKey = f.Gateways.Docgen.APIKey
		}
		if f.Gateways.Notifier.BaseURL != "" {
			cfg.NotifierBaseURL = f.Gateways.Notifier.BaseURL
		}
		if f.Gateways.Notifier.APIKey != "" {
			cfg.NotifierAPIKey = f.Gateways.Notifier.APIKey
		}
		if f.Lifecycle.DefaultCurrency != "" {
			cfg.DefaultCurrency = f.Lifecycle.DefaultCurrency
		}
		if f.Lifecycle.DefaultCommissionPercent > 0 {
			cfg.DefaultCommissionPercent = f.Lifecycle.DefaultCommissionPercent
		}
		if f.Lifecycle.ChecklistDeadlineDays > 0 {
			cfg.ChecklistDeadline = time.Duration(f.Lifecycle.ChecklistDeadlineDays) * 24 * time.Hour
		}
		if f.Lifecycle.KeyHandoverLeadHours > 0 {
			cfg.KeyHandoverLeadTime = time.Duration(f.Lifecycle.KeyHandoverLeadHours) * time.Hour
		}
		if f.Lifecycle.KeyHandoverHour > 0 {
			cfg.KeyHandoverHour = f.Lifecycle.KeyHandoverHour
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = envOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.WebhookSecret = envOrDefault("PROCESSOR_WEBHOOK_SECRET", cfg.WebhookSecret)
	cfg.ProcessorBaseURL = envOrDefault("PROCESSOR_BASE_URL", cfg.ProcessorBaseURL)
	cfg.ProcessorAPIKey = envOrDefault("PROCESSOR_API_KEY", cfg.ProcessorAPIKey)
	cfg.StorageBaseURL = envOrDefault("STORAGE_BASE_URL", cfg.StorageBaseURL)
	cfg.StorageBucket = envOrDefault("STORAGE_BUCKET", cfg.StorageBucket)
	cfg.StorageAPIKey = envOrDefault("STORAGE_API_KEY", cfg.StorageAPIKey)
	cfg.DocgenBaseURL = envOrDefault("DOCGEN_BASE_URL", cfg.DocgenBaseURL)
	cfg.DocgenAPIKey = envOrDefault("DOCGEN_API_KEY", cfg.DocgenAPIKey)
	cfg.NotifierBaseURL = envOrDefault("NOTIFIER_BASE_URL", cfg.NotifierBaseURL)
	cfg.NotifierAPIKey = envOrDefault("NOTIFIER_API_KEY", cfg.NotifierAPIKey)
	cfg.DefaultCurrency = strings.ToUpper(envOrDefault("DEFAULT_CURRENCY", cfg.DefaultCurrency))

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.DefaultCommissionPercent = int64(envInt("DEFAULT_COMMISSION_PERCENT", int(cfg.DefaultCommissionPercent)))
	cfg.ChecklistDeadline = time.Duration(envInt("CHECKLIST_DEADLINE_DAYS", int(cfg.ChecklistDeadline.Hours()/24))) * 24 * time.Hour
	cfg.KeyHandoverLeadTime = time.Duration(envInt("KEY_HANDOVER_LEAD_HOURS", int(cfg.KeyHandoverLeadTime.Hours()))) * time.Hour
	cfg.KeyHandoverHour = envInt("KEY_HANDOVER_HOUR", cfg.KeyHandoverHour)
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
