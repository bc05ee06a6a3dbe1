package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthkit/auth"
	"github.com/jonwraymond/healthkit/cmd/healthd/config"
	"github.com/jonwraymond/healthkit/ginhealth"
	"github.com/jonwraymond/healthkit/health"
	"github.com/jonwraymond/healthkit/observe"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the health endpoint",
	Long: `Start the health endpoint with the specified configuration.

Every request to the health path runs all configured indicators concurrently.
Results are never cached.

Examples:
  # Start with defaults and HEALTHD_* environment overrides
  healthd serve

  # Start with a configuration file
  healthd serve --config /etc/healthd/healthd.yaml

  # Override listen address
  healthd serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "override listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if serveFlags.addr != "" {
		cfg.Server.Addr = serveFlags.addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		_ = srv.Close(context.Background())
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}
	return srv.Serve(ctx, ln)
}

// server owns the health handle, its resources and telemetry.
type server struct {
	cfg      *config.Config
	obs      observe.Observer
	logger   observe.Logger
	registry *registry
	health   *health.Health
	handler  http.Handler
}

func newServer(ctx context.Context, cfg *config.Config) (*server, error) {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obsCfg := cfg.Telemetry.Observe(Version)
	obsCfg.Metrics.Registerer = promRegistry
	obs, err := observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	reg, err := buildRegistry(ctx, cfg.Indicators, mw)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	h, err := health.NewBuilder().
		WithIndicators(reg.indicators...).
		WithHooks(mw.Hooks()).
		BuildStrict()
	if err != nil {
		_ = reg.Close()
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	s := &server{
		cfg:      cfg,
		obs:      obs,
		logger:   mw.Logger(),
		registry: reg,
		health:   h,
	}

	var metrics http.Handler
	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.Exporter == "prometheus" {
		metrics = promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})
	}
	s.handler = newRouter(cfg, h, newAuthenticator(cfg.Auth), metrics)
	return s, nil
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// within the configured shutdown timeout and releases all resources.
func (s *server) Serve(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info(ctx, "healthd listening",
		observe.Field{Key: "addr", Value: ln.Addr().String()},
		observe.Field{Key: "path", Value: s.cfg.Server.Path},
		observe.Field{Key: "router", Value: s.cfg.Server.Router},
		observe.Field{Key: "indicators", Value: s.health.Names()},
	)

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		s.logger.Info(context.Background(), "healthd shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if serveErr != nil {
		errs = append(errs, fmt.Errorf("serve: %w", serveErr))
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown: %w", err))
	}
	if err := s.Close(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Close releases indicator resources and flushes telemetry.
func (s *server) Close(ctx context.Context) error {
	return errors.Join(s.registry.Close(), s.obs.Shutdown(ctx))
}

// newRouter serves the health endpoints on the configured router. metrics
// may be nil.
func newRouter(cfg *config.Config, h *health.Health, authn auth.Authenticator, metrics http.Handler) http.Handler {
	show := componentVisibility(cfg.Auth.ShowComponents, authn)

	if cfg.Server.Router == config.RouterGin {
		gin.SetMode(gin.ReleaseMode)
		r := gin.New()
		r.Use(gin.Recovery())

		var opts []ginhealth.Option
		if show != nil {
			opts = append(opts, ginhealth.WithComponentVisibility(show))
		}
		ginhealth.Register(r, h, cfg.Server.Path, opts...)
		if metrics != nil {
			r.GET(cfg.Server.MetricsPath, gin.WrapH(metrics))
		}
		return r
	}

	var opts []health.HandlerOption
	if show != nil {
		opts = append(opts, health.WithComponentVisibility(show))
	}
	mux := http.NewServeMux()
	health.RegisterHandlers(mux, h, cfg.Server.Path, opts...)
	if metrics != nil {
		mux.Handle("GET "+cfg.Server.MetricsPath, metrics)
	}
	return health.Middleware(h)(mux)
}

// componentVisibility returns nil when components are always shown.
func componentVisibility(mode string, authn auth.Authenticator) func(*http.Request) bool {
	switch mode {
	case config.ShowNever:
		return func(*http.Request) bool { return false }
	case config.ShowWhenAuthorized:
		return auth.Authorized(authn)
	default:
		return nil
	}
}

// newAuthenticator returns nil when no credentials are configured.
func newAuthenticator(cfg config.AuthConfig) auth.Authenticator {
	var authns []auth.Authenticator

	if len(cfg.APIKeys) > 0 {
		keys := auth.NewAPIKeys("")
		for _, entry := range cfg.APIKeys {
			keys.Add(config.SplitAPIKey(entry))
		}
		authns = append(authns, keys)
	}

	if cfg.JWTSecret != "" {
		authns = append(authns, auth.NewJWT(auth.JWTConfig{
			Secret: []byte(cfg.JWTSecret),
			Issuer: cfg.JWTIssuer,
			Leeway: cfg.JWTLeeway,
		}))
	}

	if len(authns) == 0 {
		return nil
	}
	return auth.Chain(authns...)
}
