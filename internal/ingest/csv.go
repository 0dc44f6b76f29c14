// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/readnext/readnext/internal/recommend"
)

// ctxCheckInterval bounds how many rows are read between context checks.
const ctxCheckInterval = 10000

// Config controls where and how the CSV dumps are read.
type Config struct {
	// RatingsPath is the ratings dump: UserID;ItemID;Rating.
	RatingsPath string

	// BooksPath is the catalog dump: ItemID;Title[;...]. Extra columns
	// are ignored.
	BooksPath string

	// Delimiter is the field separator; defaults to ';'.
	Delimiter rune

	// MinUserRatings drops users with fewer positive ratings. Zero
	// disables pruning.
	MinUserRatings int

	// MinItemRatings drops items with fewer positive ratings. Zero
	// disables pruning.
	MinItemRatings int
}

// CSVProvider loads rating and catalog records from CSV dumps. It
// implements recommend.DataProvider and re-reads the files on every
// call, so a refreshed dump is picked up by the next snapshot rebuild.
type CSVProvider struct {
	config Config
	logger zerolog.Logger
}

// NewCSVProvider creates a provider over the configured dump files.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCSVProvider(cfg Config, logger zerolog.Logger) *CSVProvider {
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ';'
	}
	return &CSVProvider{
		config: cfg,
		logger: logger.With().Str("component", "ingest").Logger(),
	}
}

// Ratings reads the ratings dump, keeps positive ratings, and applies
// minimum-count pruning when configured.
func (p *CSVProvider) Ratings(ctx context.Context) ([]recommend.Rating, error) {
	f, err := os.Open(p.config.RatingsPath)
	if err != nil {
		return nil, fmt.Errorf("open ratings dump: %w", err)
	}
	defer f.Close()

	ratings, skipped, err := p.readRatings(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read ratings dump %s: %w", p.config.RatingsPath, err)
	}

	before := len(ratings)
	ratings = p.prune(ratings)

	p.logger.Info().
		Str("path", p.config.RatingsPath).
		Int("ratings", len(ratings)).
		Int("pruned", before-len(ratings)).
		Int("skipped_rows", skipped).
		Msg("ratings dump loaded")

	return ratings, nil
}

// Catalog reads the catalog dump. Rows beyond two columns are tolerated;
// only id and title are used.
func (p *CSVProvider) Catalog(ctx context.Context) ([]recommend.CatalogEntry, error) {
	f, err := os.Open(p.config.BooksPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog dump: %w", err)
	}
	defer f.Close()

	entries, skipped, err := p.readCatalog(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read catalog dump %s: %w", p.config.BooksPath, err)
	}

	p.logger.Info().
		Str("path", p.config.BooksPath).
		Int("entries", len(entries)).
		Int("skipped_rows", skipped).
		Msg("catalog dump loaded")

	return entries, nil
}

func (p *CSVProvider) newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = p.config.Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

func (p *CSVProvider) readRatings(ctx context.Context, r io.Reader) ([]recommend.Rating, int, error) {
	cr := p.newReader(r)

	var (
		ratings []recommend.Rating
		skipped int
		line    int
	)
	for {
		if line%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				p.logger.Warn().Int("line", parseErr.Line).Err(err).Msg("malformed ratings row skipped")
				continue
			}
			return nil, 0, err
		}
		if line == 1 {
			// Header row.
			continue
		}
		if len(record) < 3 {
			skipped++
			p.logger.Warn().Int("line", line).Int("fields", len(record)).Msg("short ratings row skipped")
			continue
		}

		userID := strings.TrimSpace(record[0])
		itemID := strings.TrimSpace(record[1])
		value, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil || userID == "" || itemID == "" {
			skipped++
			p.logger.Warn().Int("line", line).Msg("unparseable ratings row skipped")
			continue
		}
		if value <= 0 {
			// Zero means "no explicit rating" in the dump.
			continue
		}
		ratings = append(ratings, recommend.Rating{UserID: userID, ItemID: itemID, Value: value})
	}
	return ratings, skipped, nil
}

func (p *CSVProvider) readCatalog(ctx context.Context, r io.Reader) ([]recommend.CatalogEntry, int, error) {
	cr := p.newReader(r)

	var (
		entries []recommend.CatalogEntry
		skipped int
		line    int
	)
	for {
		if line%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				p.logger.Warn().Int("line", parseErr.Line).Err(err).Msg("malformed catalog row skipped")
				continue
			}
			return nil, 0, err
		}
		if line == 1 {
			continue
		}
		if len(record) < 2 {
			skipped++
			p.logger.Warn().Int("line", line).Int("fields", len(record)).Msg("short catalog row skipped")
			continue
		}

		itemID := strings.TrimSpace(record[0])
		if itemID == "" {
			skipped++
			continue
		}
		entries = append(entries, recommend.CatalogEntry{
			ItemID: itemID,
			Title:  strings.TrimSpace(record[1]),
		})
	}
	return entries, skipped, nil
}

// prune applies the minimum-count thresholds in one pass each over user
// and item counts. Pruning is independent per axis: user counts are
// taken before items are dropped and vice versa, so the result does not
// depend on evaluation order.
func (p *CSVProvider) prune(ratings []recommend.Rating) []recommend.Rating {
	minUsers := p.config.MinUserRatings
	minItems := p.config.MinItemRatings
	if minUsers <= 0 && minItems <= 0 {
		return ratings
	}

	userCounts := make(map[string]int)
	itemCounts := make(map[string]int)
	for _, r := range ratings {
		userCounts[r.UserID]++
		itemCounts[r.ItemID]++
	}

	kept := ratings[:0]
	for _, r := range ratings {
		if minUsers > 0 && userCounts[r.UserID] < minUsers {
			continue
		}
		if minItems > 0 && itemCounts[r.ItemID] < minItems {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
