package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "concierge.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "CONCIERGE_PORT")
	setString(&cfg.Server.CORSOrigin, "CONCIERGE_CORS_ORIGIN")
	setString(&cfg.Logging.Level, "CONCIERGE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "CONCIERGE_LOG_SERVICE")

	setString(&cfg.LLM.BaseURL, "GROQ_BASE_URL")
	setString(&cfg.LLM.APIKey, "GROQ_API_KEY")
	setString(&cfg.LLM.Model, "GROQ_MODEL")
	setFloat32(&cfg.LLM.Temperature, "CONCIERGE_LLM_TEMPERATURE")
	setInt(&cfg.LLM.MaxTokens, "CONCIERGE_LLM_MAX_TOKENS")

	setString(&cfg.Embedding.Provider, "CONCIERGE_EMBED_PROVIDER")
	setString(&cfg.Embedding.BaseURL, "CONCIERGE_EMBED_BASE_URL")
	// OPENAI_API_KEY is the conventional fallback; the CONCIERGE_ variable wins.
	setString(&cfg.Embedding.APIKey, "OPENAI_API_KEY")
	setString(&cfg.Embedding.APIKey, "CONCIERGE_EMBED_API_KEY")
	setString(&cfg.Embedding.Model, "CONCIERGE_EMBED_MODEL")
	setInt(&cfg.Embedding.Dimensions, "CONCIERGE_EMBED_DIM")
	setInt64(&cfg.Embedding.CacheMB, "CONCIERGE_EMBED_CACHE_MB")

	setString(&cfg.Memory.Backend, "CONCIERGE_MEMORY_BACKEND")
	setString(&cfg.Memory.Collection, "CONCIERGE_COLLECTION")
	setInt(&cfg.Memory.SearchLimit, "CONCIERGE_SEARCH_LIMIT")
	setInt(&cfg.Memory.HistoryWindow, "CONCIERGE_HISTORY_WINDOW")

	setString(&cfg.Qdrant.URL, "QDRANT_URL")
	setString(&cfg.Qdrant.APIKey, "QDRANT_API_KEY")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "CONCIERGE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "CONCIERGE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "CONCIERGE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "CONCIERGE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "CONCIERGE_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")

	setInt(&cfg.Breaker.MaxFailures, "CONCIERGE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "CONCIERGE_BREAKER_TIMEOUT")
	setUint64(&cfg.Retry.Attempts, "CONCIERGE_RETRY_ATTEMPTS")
	setDuration(&cfg.Retry.BaseDelay, "CONCIERGE_RETRY_BASE_DELAY")

	setString(&cfg.Telemetry.OTLPEndpoint, "CONCIERGE_OTLP_ENDPOINT")
}

// validate rejects configurations that cannot produce a working service.
// A missing completion credential is a startup failure, not a runtime one.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required")
	}
	if cfg.LLM.APIKey == "" {
		return errors.New("completion API key is required (set GROQ_API_KEY)")
	}
	switch cfg.Memory.Backend {
	case "qdrant":
		if cfg.Qdrant.URL == "" {
			return errors.New("qdrant backend requires QDRANT_URL")
		}
	case "postgres":
		if cfg.Postgres.DSN == "" {
			return errors.New("postgres backend requires DATABASE_URL")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown memory backend %q (want qdrant, postgres or memory)", cfg.Memory.Backend)
	}
	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.Embedding.APIKey == "" {
			return errors.New("embedding API key is required (set CONCIERGE_EMBED_API_KEY or OPENAI_API_KEY)")
		}
	case "dev":
	default:
		return fmt.Errorf("unknown embedding provider %q (want openai or dev)", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Dimensions <= 0 {
		return errors.New("embedding dimensions must be positive")
	}
	if cfg.Memory.SearchLimit <= 0 {
		return errors.New("memory search limit must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setUint64(dst *uint64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat32(dst *float32, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			*dst = float32(f)
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
