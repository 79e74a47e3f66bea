// Command server runs the molecule HTTP pipeline.
//
// Configuration is read from a YAML file and MOLECULE_* environment
// variables (see pkg/config). The most common overrides:
//
//	MOLECULE_CONFIG            - Path to the YAML config file
//	MOLECULE_PORT              - Listen port (default: 8080)
//	MOLECULE_SUPPORTED_LOCALES - Comma-separated locales (default: en)
//	MOLECULE_AUTH_TYPE         - "none", "apikey" or "jwt" (default: "none")
//	MOLECULE_LOG_LEVEL         - trace, debug, info, warn or error (default: info)
//	MOLECULE_DEBUG             - Debug categories, e.g. "routing,auth" or "all"
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"io"
	"os"

	"github.com/aamyot/molecule/pkg/config"
	"github.com/aamyot/molecule/pkg/debug"
	"github.com/aamyot/molecule/pkg/observability"
	transporthttp "github.com/aamyot/molecule/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)
	debug.Init(cfg.Log.Debug)
	if cats := debug.Categories(); len(cats) > 0 {
		logger.Info("debug categories enabled", slog.Any("categories", cats))
	}

	app, err := newApplication(cfg, logger)
	if err != nil {
		return fmt.Errorf("building application: %w", err)
	}

	mux := http.NewServeMux()
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, observability.Handler())
		logger.Info("metrics enabled", slog.String("path", cfg.Observability.Metrics.Path))
	}

	srv := transporthttp.NewServer(app, mux,
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithLogger(logger),
	)

	logger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("auth", cfg.Auth.Type),
		slog.Any("locales", cfg.Locales.Supported),
		slog.Bool("rate_limit", cfg.RateLimit.Enabled),
	)
	return srv.ListenAndServe()
}

func newLogger(cfg config.LogConfig, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: debug.ParseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}
