// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/readnext/readnext/internal/metrics"
)

// Config holds engine defaults.
type Config struct {
	// K is the default neighborhood size.
	K int

	// TopN is the default result list length.
	TopN int

	// Workers is the parallelism of the batch similarity computation.
	Workers int
}

// DefaultConfig returns the documented defaults: k=10, top_n=5.
func DefaultConfig() Config {
	return Config{K: 10, TopN: 5, Workers: 4}
}

// DataProvider supplies the source sequences for a snapshot build.
// Implemented by the ingestion layer; a provider error means the snapshot
// cannot be produced and surfaces as ErrDataUnavailable.
type DataProvider interface {
	// Ratings returns all rating records of the current source data.
	Ratings(ctx context.Context) ([]Rating, error)

	// Catalog returns the item id to title pairs. Not required to cover
	// every rated item.
	Catalog(ctx context.Context) ([]CatalogEntry, error)
}

// Engine owns the current snapshot and serves recommendation queries
// against it. Queries are pure reads over an immutable snapshot and are
// safe for unlimited concurrency; Rebuild swaps in a new snapshot with a
// single atomic pointer store.
type Engine struct {
	config   Config
	provider DataProvider
	logger   zerolog.Logger

	snapshot atomic.Pointer[Snapshot]
}

// NewEngine creates an engine. Zero config values fall back to defaults,
// except K and TopN which may validly be zero only per request; the
// configured defaults must be usable.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, provider DataProvider, logger zerolog.Logger) *Engine {
	if cfg.K <= 0 {
		cfg.K = 10
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Engine{
		config:   cfg,
		provider: provider,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}
}

// Defaults returns the configured default k and top_n, applied by the
// boundary when a query omits them.
func (e *Engine) Defaults() (k, topN int) {
	return e.config.K, e.config.TopN
}

// Ready reports whether a snapshot has been built.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}

// Snapshot returns the currently served snapshot, or ErrDataUnavailable
// before the first successful build.
func (e *Engine) Snapshot() (*Snapshot, error) {
	s := e.snapshot.Load()
	if s == nil {
		return nil, ErrDataUnavailable
	}
	return s, nil
}

// Rebuild produces a new snapshot from the data provider and atomically
// replaces the current one. On failure the previous snapshot, if any,
// stays in service.
func (e *Engine) Rebuild(ctx context.Context) error {
	start := time.Now()

	ratings, err := e.provider.Ratings(ctx)
	if err != nil {
		metrics.RecordSnapshotBuild(0, 0, 0, 0, err)
		return fmt.Errorf("%w: ratings source: %v", ErrDataUnavailable, err)
	}
	catalog, err := e.provider.Catalog(ctx)
	if err != nil {
		metrics.RecordSnapshotBuild(0, 0, 0, 0, err)
		return fmt.Errorf("%w: catalog source: %v", ErrDataUnavailable, err)
	}

	snap, err := BuildSnapshot(ctx, ratings, catalog, e.config.Workers)
	if err != nil {
		metrics.RecordSnapshotBuild(0, 0, 0, 0, err)
		return err
	}

	e.snapshot.Store(snap)
	metrics.RecordSnapshotBuild(snap.BuildDuration, snap.Users.Len(), snap.Items.Len(), snap.Ratings.NNZ(), nil)

	e.logger.Info().
		Str("generation", snap.Generation).
		Int("users", snap.Users.Len()).
		Int("items", snap.Items.Len()).
		Int("ratings", snap.Ratings.NNZ()).
		Dur("build_duration", snap.BuildDuration).
		Dur("total_duration", time.Since(start)).
		Msg("snapshot rebuilt")

	return nil
}

// Recommend resolves the external user id against the current snapshot
// and returns the top-N predicted items, decorated with external ids and
// catalog titles. An empty item list is a normal outcome; ErrNotFound
// and ErrDataUnavailable are the only failure modes.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	snap := e.snapshot.Load()
	if snap == nil {
		metrics.RecordRecommendation("unavailable", time.Since(start), 0)
		return nil, ErrDataUnavailable
	}

	userIdx, ok := snap.Users.IndexOf(req.UserID)
	if !ok {
		metrics.RecordRecommendation("not_found", time.Since(start), 0)
		return nil, fmt.Errorf("user %q: %w", req.UserID, ErrNotFound)
	}

	scored := recommendForUser(snap, userIdx, req.K, req.TopN)

	items := make([]ScoredItem, len(scored))
	for i, s := range scored {
		id, _ := snap.Items.IDOf(s.item)
		items[i] = ScoredItem{
			ItemID: id,
			Title:  snap.Catalog.TitleOf(id),
			Score:  s.score,
		}
	}

	outcome := "ok"
	if len(items) == 0 {
		outcome = "empty"
	}
	metrics.RecordRecommendation(outcome, time.Since(start), len(items))

	e.logger.Debug().
		Str("user_id", req.UserID).
		Int("user_idx", userIdx).
		Int("k", req.K).
		Int("top_n", req.TopN).
		Int("results", len(items)).
		Msg("recommendation served")

	return &Response{
		UserID:     req.UserID,
		Items:      items,
		Generation: snap.Generation,
	}, nil
}

// neighbor is one member of a user's neighborhood.
type neighbor struct {
	idx int
	sim float64
}

// scoredItem is an internally indexed prediction.
type scoredItem struct {
	item  int
	score float64
}

// recommendForUser runs the k-NN prediction over one snapshot.
//
// Users with zero similarity are left out of the neighborhood up front:
// they contribute nothing to either the numerator or the weight sum, so
// the scores are identical to ranking them in, and the candidate items
// only they rated would be dropped by the zero-denominator rule anyway.
//
// Complexity is O(k x neighbor ratings): each neighbor's row is walked
// once, accumulating numerator and weight per candidate.
func recommendForUser(snap *Snapshot, userIdx, k, topN int) []scoredItem {
	if k <= 0 || topN <= 0 {
		return nil
	}

	simRow := snap.Similarity.Row(userIdx)
	if len(simRow) == 0 {
		// Cold start: the user has no ratings, hence no neighborhood.
		return nil
	}

	neighbors := make([]neighbor, 0, len(simRow))
	for v, sim := range simRow {
		if v == userIdx || sim <= 0 {
			continue
		}
		neighbors = append(neighbors, neighbor{idx: v, sim: sim})
	}
	// Similarity descending, ties by ascending user index for determinism.
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].sim != neighbors[j].sim {
			return neighbors[i].sim > neighbors[j].sim
		}
		return neighbors[i].idx < neighbors[j].idx
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}

	alreadyRead := snap.Ratings.Row(userIdx)

	// Accumulate weighted sums per candidate item.
	numer := make(map[int]float64)
	denom := make(map[int]float64)
	for _, n := range neighbors {
		for item, rating := range snap.Ratings.Row(n.idx) {
			if _, seen := alreadyRead[item]; seen {
				continue
			}
			numer[item] += n.sim * rating
			denom[item] += n.sim
		}
	}

	scored := make([]scoredItem, 0, len(numer))
	for item, num := range numer {
		if d := denom[item]; d > 0 {
			scored = append(scored, scoredItem{item: item, score: num / d})
		}
	}
	// Score descending, ties by ascending item index for determinism.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].item < scored[j].item
	})
	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}
