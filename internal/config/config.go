package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Host        string
	Port        int
	Environment string
	// Debug exposes technical error details in error responses
	Debug bool

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// storage
	Backend          string
	Namespace        string
	MemoryQuotaBytes int  `toml:"memory_quota_bytes"`
	CacheEnabled     bool `toml:"cache_enabled"`
	CacheSizeBytes   int  `toml:"cache_size_bytes"`
	CacheTTLSeconds  int  `toml:"cache_ttl_seconds"`
	CascadeDeletes   bool `toml:"cascade_deletes"`

	// seeding
	SeedEnabled  bool  `toml:"seed_enabled"`
	SeedCount    int   `toml:"seed_count"`
	SeedRandSeed int64 `toml:"seed_rand_seed"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// origins allowed on top of the local dev ones
	AllowedOrigins []string `toml:"allowed_origins"`

	// auth routes limit, applied only when redis is configured
	AuthRateLimitAllowedPerMin int `toml:"auth_rate_limit_allowed_per_min"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: no [%s] section in %s", ErrInvalidConfig, env, path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.Namespace == "" {
		c.Namespace = "localblog"
	}
	if c.CacheEnabled && c.CacheSizeBytes == 0 {
		c.CacheSizeBytes = 10 * 1024 * 1024
	}
	if c.CacheEnabled && c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 30
	}
	if c.SeedEnabled && c.SeedCount == 0 {
		c.SeedCount = 6
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisHost == "" || c.RedisPort == "" {
			return fmt.Errorf("%w: redis backend needs redis_host and redis_port", ErrInvalidConfig)
		}
	case BackendPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return fmt.Errorf("%w: postgres backend needs postgres_host, postgres_port and postgres_db_name", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend [%s]", ErrInvalidConfig, c.Backend)
	}

	if c.Port <= 0 {
		return fmt.Errorf("%w: port must be set", ErrInvalidConfig)
	}
	if c.MemoryQuotaBytes < 0 {
		return fmt.Errorf("%w: memory_quota_bytes cannot be negative", ErrInvalidConfig)
	}

	return nil
}
