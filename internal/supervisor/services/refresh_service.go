// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SnapshotRebuilder is the part of the recommendation engine the refresh
// loop needs. Declared here to avoid importing the engine package.
type SnapshotRebuilder interface {
	Rebuild(ctx context.Context) error
	Ready() bool
}

// RefreshServiceConfig holds configuration for the snapshot refresh
// service.
type RefreshServiceConfig struct {
	// RebuildOnStartup triggers a build when the service starts. Used
	// when the initial foreground build was skipped or failed.
	RebuildOnStartup bool

	// Interval is how often to rebuild the snapshot from the source
	// files. Zero or negative disables the periodic loop; the service
	// then only handles the startup build and waits for shutdown.
	Interval time.Duration

	// RebuildTimeout bounds a single rebuild.
	RebuildTimeout time.Duration
}

// RefreshService periodically rebuilds the recommendation snapshot so a
// refreshed dump on disk is picked up without a restart. A failed
// rebuild is logged and retried on the next tick; the engine keeps
// serving the previous snapshot throughout.
type RefreshService struct {
	engine SnapshotRebuilder
	config RefreshServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRefreshService creates a new snapshot refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(engine SnapshotRebuilder, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	if cfg.RebuildTimeout <= 0 {
		cfg.RebuildTimeout = 10 * time.Minute
	}
	return &RefreshService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "refresh").Logger(),
		name:   "snapshot-refresh",
	}
}

// Serve implements the suture.Service interface.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("rebuild_on_startup", s.config.RebuildOnStartup).
		Dur("interval", s.config.Interval).
		Msg("snapshot refresh service starting")

	if s.config.RebuildOnStartup && !s.engine.Ready() {
		if err := s.rebuild(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("startup rebuild failed (will retry on schedule)")
		}
	}

	if s.config.Interval <= 0 {
		s.logger.Info().Msg("periodic refresh disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.rebuild(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled rebuild failed")
			}
		}
	}
}

// rebuild runs one rebuild with its own deadline.
func (s *RefreshService) rebuild(ctx context.Context) error {
	rebuildCtx, cancel := context.WithTimeout(ctx, s.config.RebuildTimeout)
	defer cancel()

	start := time.Now()
	if err := s.engine.Rebuild(rebuildCtx); err != nil {
		return err
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("snapshot rebuild complete")
	return nil
}

// String returns the service name for logging.
func (s *RefreshService) String() string {
	return s.name
}
