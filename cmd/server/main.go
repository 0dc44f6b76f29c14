// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

// Package main is the entry point for the ReadNext server.
//
// ReadNext serves top-N book recommendations computed with user-based
// collaborative filtering over the Book-Crossing rating dumps.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered settings via Koanf v2 (defaults, config.yaml,
//     READNEXT_ environment variables)
//  2. Logging: zerolog global logger
//  3. Ingestion: CSV provider over the rating and catalog dumps
//  4. Engine: recommendation engine plus the initial snapshot build
//  5. HTTP server: Chi router with the REST API and /metrics
//  6. Supervision: Suture tree running the HTTP server and the periodic
//     snapshot refresh
//
// The initial snapshot build runs in the foreground. A failure is not
// fatal: the server starts anyway, readiness stays false, and the
// refresh service retries on its schedule.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM, draining
// in-flight HTTP requests within the configured shutdown timeout.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/readnext/readnext/internal/api"
	"github.com/readnext/readnext/internal/config"
	"github.com/readnext/readnext/internal/ingest"
	"github.com/readnext/readnext/internal/logging"
	"github.com/readnext/readnext/internal/recommend"
	"github.com/readnext/readnext/internal/supervisor"
	"github.com/readnext/readnext/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("addr", cfg.Server.Addr).
		Str("ratings", cfg.Data.RatingsPath).
		Str("books", cfg.Data.BooksPath).
		Msg("starting readnext")

	delimiter := ';'
	if cfg.Data.Delimiter != "" {
		delimiter = []rune(cfg.Data.Delimiter)[0]
	}
	provider := ingest.NewCSVProvider(ingest.Config{
		RatingsPath:    cfg.Data.RatingsPath,
		BooksPath:      cfg.Data.BooksPath,
		Delimiter:      delimiter,
		MinUserRatings: cfg.Data.MinUserRatings,
		MinItemRatings: cfg.Data.MinItemRatings,
	}, logger)

	engine := recommend.NewEngine(recommend.Config{
		K:       cfg.Recommend.K,
		TopN:    cfg.Recommend.TopN,
		Workers: cfg.Recommend.Workers,
	}, provider, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial build in the foreground so the server is usually ready by
	// the time it accepts traffic. Not fatal: the refresh service
	// retries and readiness reflects the state.
	buildCtx, cancel := context.WithTimeout(ctx, cfg.Data.RebuildTimeout)
	if err := engine.Rebuild(buildCtx); err != nil {
		logger.Warn().Err(err).Msg("initial snapshot build failed, starting without data")
	}
	cancel()

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Server.RateLimitRequests
	mwConfig.RateLimitWindow = cfg.Server.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Server.RateLimitDisabled

	router := api.NewRouter(
		api.NewHandler(engine, cfg.Data.RebuildTimeout),
		api.NewChiMiddleware(mwConfig),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeConfig)

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddDataService(services.NewRefreshService(engine, services.RefreshServiceConfig{
		RebuildOnStartup: !engine.Ready(),
		Interval:         cfg.Data.RefreshInterval,
		RebuildTimeout:   cfg.Data.RebuildTimeout,
	}, logger))

	logger.Info().Str("addr", cfg.Server.Addr).Msg("readnext listening")

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		for _, svc := range report {
			logger.Warn().Str("service", svc.Name).Msg("service did not stop in time")
		}
	}

	logger.Info().Msg("readnext stopped")
	return nil
}
