// Package config loads and validates healthd configuration from a YAML file
// and HEALTHD_ environment overrides.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonwraymond/healthkit/health"
	"github.com/jonwraymond/healthkit/observe"
	"github.com/jonwraymond/healthkit/secret"
)

// EnvPrefix is prepended to environment overrides, e.g. HEALTHD_SERVER_ADDR.
const EnvPrefix = "HEALTHD"

// Indicator kinds.
const (
	KindPostgres = "postgres"
	KindPgx      = "pgx"
	KindMySQL    = "mysql"
	KindSQLite   = "sqlite"
	KindRedis    = "redis"
	KindMemory   = "memory"
	KindStatic   = "static"
)

// Component visibility modes.
const (
	ShowAlways         = "always"
	ShowWhenAuthorized = "when_authorized"
	ShowNever          = "never"
)

// Routers.
const (
	RouterMux = "mux"
	RouterGin = "gin"
)

const (
	// DefaultIndicatorTimeout bounds each check when no timeout is configured.
	DefaultIndicatorTimeout = 5 * time.Second

	minJWTSecretLength = 32
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the complete healthd configuration.
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Auth       AuthConfig        `mapstructure:"auth"`
	Telemetry  TelemetryConfig   `mapstructure:"telemetry"`
	Indicators []IndicatorConfig `mapstructure:"indicators"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Path            string        `mapstructure:"path"`
	MetricsPath     string        `mapstructure:"metrics_path"`
	Router          string        `mapstructure:"router"` // mux|gin
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AuthConfig controls who may see component results.
type AuthConfig struct {
	// APIKeys are accepted in the X-API-Key header. An entry of the form
	// "id:key" names the caller; a bare key is its own id.
	APIKeys        []string      `mapstructure:"api_keys"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTIssuer      string        `mapstructure:"jwt_issuer"`
	JWTLeeway      time.Duration `mapstructure:"jwt_leeway"`
	ShowComponents string        `mapstructure:"show_components"`
}

// Enabled reports whether any credential source is configured.
func (a AuthConfig) Enabled() bool {
	return len(a.APIKeys) > 0 || a.JWTSecret != ""
}

// TelemetryConfig mirrors observe.Config.
type TelemetryConfig struct {
	ServiceName string                `mapstructure:"service_name"`
	Tracing     observe.TracingConfig `mapstructure:"tracing"`
	Metrics     observe.MetricsConfig `mapstructure:"metrics"`
	Logging     observe.LoggingConfig `mapstructure:"logging"`
}

// Observe converts t into an observe.Config.
func (t TelemetryConfig) Observe(version string) observe.Config {
	return observe.Config{
		ServiceName: t.ServiceName,
		Version:     version,
		Tracing:     t.Tracing,
		Metrics:     t.Metrics,
		Logging:     t.Logging,
	}
}

// IndicatorConfig describes one health indicator.
type IndicatorConfig struct {
	Name string `mapstructure:"name"`
	Kind string `mapstructure:"kind"`

	// DSN is the connection string for SQL kinds.
	DSN string `mapstructure:"dsn"`

	// Addr, Password and DB configure the redis kind.
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`

	// Status and Details configure the static kind.
	Status  string            `mapstructure:"status"`
	Details map[string]string `mapstructure:"details"`

	// WarningThreshold and CriticalThreshold configure the memory kind.
	WarningThreshold  float64 `mapstructure:"warning_threshold"`
	CriticalThreshold float64 `mapstructure:"critical_threshold"`
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return decode(v)
}

// LoadReader reads YAML configuration from r and the environment.
func LoadReader(r io.Reader) (*Config, error) {
	v := newViper()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.path", "/health")
	v.SetDefault("server.metrics_path", "/metrics")
	v.SetDefault("server.router", RouterMux)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("auth.api_keys", []string{})
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_issuer", "")
	v.SetDefault("auth.jwt_leeway", 30*time.Second)
	v.SetDefault("auth.show_components", ShowAlways)

	v.SetDefault("telemetry.service_name", "healthd")
	v.SetDefault("telemetry.tracing.enabled", false)
	v.SetDefault("telemetry.tracing.exporter", "none")
	v.SetDefault("telemetry.tracing.sample_pct", 1.0)
	v.SetDefault("telemetry.metrics.enabled", true)
	v.SetDefault("telemetry.metrics.exporter", "prometheus")
	v.SetDefault("telemetry.logging.enabled", true)
	v.SetDefault("telemetry.logging.level", "info")
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.ResolveSecrets(context.Background(), secret.DefaultResolver()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	for i := range c.Indicators {
		if c.Indicators[i].Timeout == 0 {
			c.Indicators[i].Timeout = DefaultIndicatorTimeout
		}
	}
}

// ResolveSecrets replaces ${VAR} and secretref: references in credential
// fields: auth.jwt_secret, auth.api_keys and each indicator's dsn, addr and
// password. Errors name the field, never the value.
func (c *Config) ResolveSecrets(ctx context.Context, r *secret.Resolver) error {
	if err := r.ResolveInPlace(ctx, &c.Auth.JWTSecret); err != nil {
		return fmt.Errorf("config: auth.jwt_secret: %w", err)
	}
	keys, err := r.ResolveSlice(ctx, c.Auth.APIKeys)
	if err != nil {
		return fmt.Errorf("config: auth.api_keys%w", err)
	}
	c.Auth.APIKeys = keys

	for i := range c.Indicators {
		ind := &c.Indicators[i]
		if err := r.ResolveInPlace(ctx, &ind.DSN, &ind.Addr, &ind.Password); err != nil {
			return fmt.Errorf("config: indicator %q: %w", ind.Name, err)
		}
	}
	return nil
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Server.Addr == "" {
		fail("server.addr is required")
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		fail("server.path must start with /, got %q", c.Server.Path)
	}
	if c.Server.MetricsPath != "" && c.Server.MetricsPath == c.Server.Path {
		fail("server.metrics_path must differ from server.path")
	}
	switch c.Server.Router {
	case RouterMux, RouterGin:
	default:
		fail("server.router must be %s or %s, got %q", RouterMux, RouterGin, c.Server.Router)
	}

	switch c.Auth.ShowComponents {
	case ShowAlways, ShowNever:
	case ShowWhenAuthorized:
		if !c.Auth.Enabled() {
			fail("auth.show_components %q requires auth.api_keys or auth.jwt_secret", ShowWhenAuthorized)
		}
	default:
		fail("auth.show_components must be one of %s, %s, %s, got %q",
			ShowAlways, ShowWhenAuthorized, ShowNever, c.Auth.ShowComponents)
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < minJWTSecretLength {
		fail("auth.jwt_secret must be at least %d characters", minJWTSecretLength)
	}
	for i, key := range c.Auth.APIKeys {
		if _, k := SplitAPIKey(key); k == "" {
			fail("auth.api_keys[%d] is empty", i)
		}
	}

	if c.Telemetry.ServiceName == "" {
		fail("telemetry.service_name is required")
	}

	seen := make(map[string]bool, len(c.Indicators))
	for i, ind := range c.Indicators {
		label := fmt.Sprintf("indicators[%d]", i)
		if ind.Name == "" {
			fail("%s: name is required", label)
		} else {
			label = fmt.Sprintf("indicator %q", ind.Name)
			if seen[ind.Name] {
				fail("%s: duplicate name", label)
			}
			seen[ind.Name] = true
		}

		switch ind.Kind {
		case KindPostgres, KindPgx, KindMySQL, KindSQLite:
			if ind.DSN == "" {
				fail("%s: dsn is required for kind %s", label, ind.Kind)
			}
		case KindRedis:
			if ind.Addr == "" {
				fail("%s: addr is required for kind %s", label, ind.Kind)
			}
		case KindStatic:
			if _, err := health.ParseStatus(ind.Status); err != nil {
				fail("%s: status: %v", label, err)
			}
		case KindMemory:
		default:
			fail("%s: unknown kind %q", label, ind.Kind)
		}

		if ind.Timeout < 0 {
			fail("%s: timeout must not be negative", label)
		}
		if ind.MaxConcurrent < 0 {
			fail("%s: max_concurrent must not be negative", label)
		}
	}

	return errors.Join(errs...)
}

// SplitAPIKey splits an auth.api_keys entry into its id and key.
func SplitAPIKey(entry string) (id, key string) {
	if i, k, ok := strings.Cut(entry, ":"); ok {
		return i, k
	}
	return entry, entry
}
