package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Activities  ActivitiesConfig
	Logging     LoggingConfig
	Metrics     MetricsConfig
	RateLimit   RateLimitConfig
	Idempotency IdempotencyConfig
	Tracing     TracingConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// ActivitiesConfig holds directory settings
type ActivitiesConfig struct {
	SeedFile          string // empty selects the embedded catalog
	EnforceCapacity   bool
	HeartbeatInterval time.Duration
}

// LoggingConfig holds zap settings
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// RateLimitConfig holds per-client rate limiting settings
type RateLimitConfig struct {
	Rate   int
	Window time.Duration
	Burst  int
}

// IdempotencyConfig holds Idempotency-Key replay settings
type IdempotencyConfig struct {
	TTL     time.Duration
	Cleanup time.Duration
}

// TracingConfig holds OpenTelemetry settings
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	SampleRatio float64
}

// Load reads configuration from a .env file (if present), an optional
// CONFIG_FILE and environment variables, in increasing precedence.
func Load() (*Config, error) {
	loadEnvFile(".env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8000")
	v.SetDefault("server_env", "development")
	v.SetDefault("server_read_timeout", 15*time.Second)
	v.SetDefault("server_write_timeout", 15*time.Second)
	v.SetDefault("cors_allowed_origins", "*")

	v.SetDefault("seed_file", "")
	v.SetDefault("activities_enforce_capacity", false)
	v.SetDefault("events_heartbeat_interval", 30*time.Second)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("metrics_enabled", true)
	v.SetDefault("metrics_path", "/metrics")

	v.SetDefault("rate_limit_rate", 100)
	v.SetDefault("rate_limit_window", time.Minute)
	v.SetDefault("rate_limit_burst", 20)

	v.SetDefault("idempotency_ttl", 24*time.Hour)
	v.SetDefault("idempotency_cleanup", time.Hour)

	v.SetDefault("tracing_enabled", false)
	v.SetDefault("service_name", "mergington-activities")
	v.SetDefault("tracing_sample_ratio", 1.0)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("server_port"),
			Env:            v.GetString("server_env"),
			ReadTimeout:    v.GetDuration("server_read_timeout"),
			WriteTimeout:   v.GetDuration("server_write_timeout"),
			AllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		},
		Activities: ActivitiesConfig{
			SeedFile:          v.GetString("seed_file"),
			EnforceCapacity:   v.GetBool("activities_enforce_capacity"),
			HeartbeatInterval: v.GetDuration("events_heartbeat_interval"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics_enabled"),
			Path:    v.GetString("metrics_path"),
		},
		RateLimit: RateLimitConfig{
			Rate:   v.GetInt("rate_limit_rate"),
			Window: v.GetDuration("rate_limit_window"),
			Burst:  v.GetInt("rate_limit_burst"),
		},
		Idempotency: IdempotencyConfig{
			TTL:     v.GetDuration("idempotency_ttl"),
			Cleanup: v.GetDuration("idempotency_cleanup"),
		},
		Tracing: TracingConfig{
			Enabled:     v.GetBool("tracing_enabled"),
			ServiceName: v.GetString("service_name"),
			SampleRatio: v.GetFloat64("tracing_sample_ratio"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, errors.New("SERVER_READ_TIMEOUT must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("SERVER_WRITE_TIMEOUT must be positive"))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Logging validation
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got '%s'", c.Logging.Format))
	}

	// Metrics validation
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, errors.New("METRICS_PATH must start with '/'"))
	}

	// Rate limit validation
	if c.RateLimit.Rate <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RATE must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must not be negative"))
	}

	// Idempotency validation
	if c.Idempotency.TTL <= 0 {
		errs = append(errs, errors.New("IDEMPOTENCY_TTL must be positive"))
	}

	// Tracing validation
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("TRACING_SAMPLE_RATIO must be between 0 and 1, got %v", c.Tracing.SampleRatio))
	}
	if c.Tracing.Enabled && c.Tracing.ServiceName == "" {
		errs = append(errs, errors.New("SERVICE_NAME is required when TRACING_ENABLED is true"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
