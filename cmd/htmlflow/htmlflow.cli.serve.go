package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/itsatony/go-htmlflow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveConfig holds parsed serve command configuration
type serveConfig struct {
	addr       string
	configPath string
	compact    bool
}

func serveCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   CmdNameServe,
		Short: "Serve the sample views over HTTP",
		Long: `Serve every sample view under /views/<name>. A model can be passed as
YAML or JSON in the "model" query parameter. Prometheus metrics are
exposed under /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, FlagAddr, FlagDefaultAddr, "listen address")
	cmd.Flags().StringVarP(&cfg.configPath, FlagConfig, FlagConfigShort, "", "view configuration file")
	cmd.Flags().BoolVar(&cfg.compact, FlagCompact, false, "disable indentation")

	return cmd
}

func runServe(ctx context.Context, cfg *serveConfig) error {
	viewCfg, err := loadViewConfig(cfg.configPath)
	if err != nil {
		return err
	}
	logger, err := viewCfg.Logger()
	if err != nil {
		return newExitError(ExitCodeConfigError, ErrMsgLoadConfigFailed, err)
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	router, err := newRouter(viewCfg, cfg.compact, reg, logger)
	if err != nil {
		return newExitError(ExitCodeError, ErrMsgBuildViewsFailed, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           router,
		ReadHeaderTimeout: ReadTimeout,
	}
	errs := make(chan error, 1)
	go func() {
		logger.Info(LogMsgServing, zap.String(LogFieldAddr, cfg.addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return newExitError(ExitCodeError, ErrMsgServeFailed, err)
		}
		return nil
	case <-ctx.Done():
		logger.Info(LogMsgShuttingDown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newRouter builds the views and mounts a page handler for each of them.
func newRouter(viewCfg *htmlflow.Config, compact bool, reg *prometheus.Registry, logger *zap.Logger) (http.Handler, error) {
	opts := append(viewCfg.Options(nil),
		htmlflow.WithLogger(logger),
		htmlflow.WithMetrics(htmlflow.NewMetrics(reg)))
	if compact {
		opts = append(opts, htmlflow.WithIndented(false))
	}

	cache := viewCfg.NewCache()
	engineOpts := []htmlflow.EngineOption{htmlflow.WithEngineLogger(logger)}
	if cache != nil {
		engineOpts = append(engineOpts, htmlflow.WithRenderCache(cache))
	}
	engine := htmlflow.NewEngine(engineOpts...)
	c, err := newCatalog(engine, opts...)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	index, err := newIndexView(opts...)
	if err != nil {
		return nil, err
	}
	names := engine.List()
	indexHandler, err := htmlflow.NewHandler(index, func(*http.Request) (any, error) {
		return names, nil
	}, htmlflow.WithHandlerLogger(logger))
	if err != nil {
		return nil, err
	}
	r.Method(http.MethodGet, RouteIndex, indexHandler)
	r.Method(http.MethodGet, RouteMetrics, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	for _, s := range c.samples {
		handlerOpts := []htmlflow.HandlerOption{htmlflow.WithHandlerLogger(logger)}
		if cache != nil {
			handlerOpts = append(handlerOpts, htmlflow.WithHandlerCache(cache))
		}
		h, err := htmlflow.NewHandler(s.view, s.modelFunc(), handlerOpts...)
		if err != nil {
			return nil, err
		}
		r.Method(http.MethodGet, RouteViewPrefix+s.name, h)
	}
	logger.Debug(LogMsgServing, zap.Strings(LogFieldViews, names))
	return r, nil
}
