package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/healthkit/cmd/healthd/config"
	"github.com/jonwraymond/healthkit/health"
	"github.com/jonwraymond/healthkit/observe"
)

const redacted = "[REDACTED]"

var checkFlags struct {
	run bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and print the effective settings",
	Long: `Load and validate the configuration, resolve secret references, and print
the effective settings as YAML. Credentials are redacted.

With --run, every indicator is opened and checked once and the results are
appended. The command fails when the aggregated status is Down or
OutOfService.

Examples:
  # Validate a configuration file
  healthd check --config /etc/healthd/healthd.yaml

  # Validate and run every indicator once
  healthd check -c healthd.yaml --run`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkFlags.run, "run", false, "open and check every indicator once")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()

	if err := enc.Encode(effective(cfg)); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if !checkFlags.run {
		return nil
	}
	return checkOnce(cmd.Context(), cfg, enc)
}

// checkOnce runs every configured indicator once and writes the results as a
// second YAML document. Only warnings and errors are logged, to stderr.
func checkOnce(ctx context.Context, cfg *config.Config, enc *yaml.Encoder) error {
	if ctx == nil {
		ctx = context.Background()
	}
	obsCfg := observe.DefaultConfig(cfg.Telemetry.ServiceName)
	obsCfg.Logging.Level = "warn"
	obs, err := observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return err
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(ctx, cfg.Indicators, mw)
	if err != nil {
		return err
	}
	defer func() { _ = reg.Close() }()

	h, err := health.NewBuilder().WithIndicators(reg.indicators...).BuildStrict()
	if err != nil {
		return err
	}

	details := h.Details(ctx)
	if err := enc.Encode(newResultView(details)); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if details.HTTPStatusCode() != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrUnhealthy, details.Status)
	}
	return nil
}

type effectiveConfig struct {
	Server     serverView      `yaml:"server"`
	Auth       authView        `yaml:"auth"`
	Telemetry  telemetryView   `yaml:"telemetry"`
	Indicators []indicatorView `yaml:"indicators"`
}

type serverView struct {
	Addr            string `yaml:"addr"`
	Path            string `yaml:"path"`
	MetricsPath     string `yaml:"metrics_path"`
	Router          string `yaml:"router"`
	ReadTimeout     string `yaml:"read_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type authView struct {
	APIKeys        []string `yaml:"api_keys,omitempty"`
	JWTSecret      string   `yaml:"jwt_secret,omitempty"`
	JWTIssuer      string   `yaml:"jwt_issuer,omitempty"`
	JWTLeeway      string   `yaml:"jwt_leeway"`
	ShowComponents string   `yaml:"show_components"`
}

type telemetryView struct {
	ServiceName string `yaml:"service_name"`
	Tracing     string `yaml:"tracing"`
	Metrics     string `yaml:"metrics"`
	Logging     string `yaml:"logging"`
}

type indicatorView struct {
	Name          string            `yaml:"name"`
	Kind          string            `yaml:"kind"`
	DSN           string            `yaml:"dsn,omitempty"`
	Addr          string            `yaml:"addr,omitempty"`
	Password      string            `yaml:"password,omitempty"`
	Timeout       string            `yaml:"timeout"`
	MaxConcurrent int               `yaml:"max_concurrent,omitempty"`
	Status        string            `yaml:"status,omitempty"`
	Details       map[string]string `yaml:"details,omitempty"`
}

type resultView struct {
	Status     string                   `yaml:"status"`
	Components map[string]componentView `yaml:"components"`
}

type componentView struct {
	Status  string            `yaml:"status"`
	Details map[string]string `yaml:"details,omitempty"`
}

func effective(cfg *config.Config) effectiveConfig {
	out := effectiveConfig{
		Server: serverView{
			Addr:            cfg.Server.Addr,
			Path:            cfg.Server.Path,
			MetricsPath:     cfg.Server.MetricsPath,
			Router:          cfg.Server.Router,
			ReadTimeout:     cfg.Server.ReadTimeout.String(),
			ShutdownTimeout: cfg.Server.ShutdownTimeout.String(),
		},
		Auth: authView{
			JWTSecret:      mask(cfg.Auth.JWTSecret),
			JWTIssuer:      cfg.Auth.JWTIssuer,
			JWTLeeway:      cfg.Auth.JWTLeeway.String(),
			ShowComponents: cfg.Auth.ShowComponents,
		},
		Telemetry: telemetryView{
			ServiceName: cfg.Telemetry.ServiceName,
			Tracing:     subsystem(cfg.Telemetry.Tracing.Enabled, cfg.Telemetry.Tracing.Exporter),
			Metrics:     subsystem(cfg.Telemetry.Metrics.Enabled, cfg.Telemetry.Metrics.Exporter),
			Logging:     subsystem(cfg.Telemetry.Logging.Enabled, cfg.Telemetry.Logging.Level),
		},
	}
	for _, entry := range cfg.Auth.APIKeys {
		id, _ := config.SplitAPIKey(entry)
		out.Auth.APIKeys = append(out.Auth.APIKeys, id+":"+redacted)
	}
	for _, ic := range cfg.Indicators {
		out.Indicators = append(out.Indicators, indicatorView{
			Name:          ic.Name,
			Kind:          ic.Kind,
			DSN:           mask(ic.DSN),
			Addr:          ic.Addr,
			Password:      mask(ic.Password),
			Timeout:       ic.Timeout.String(),
			MaxConcurrent: ic.MaxConcurrent,
			Status:        ic.Status,
			Details:       ic.Details,
		})
	}
	return out
}

func newResultView(d health.Details) resultView {
	out := resultView{
		Status:     d.Status.String(),
		Components: make(map[string]componentView, len(d.Components)),
	}
	for name, c := range d.Components {
		out.Components[name] = componentView{Status: c.Status.String(), Details: c.Details}
	}
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return redacted
}

func subsystem(enabled bool, setting string) string {
	if !enabled {
		return "disabled"
	}
	if setting == "" {
		return "enabled"
	}
	return setting
}
