// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable bundle of everything one data load produced:
// identifier maps, rating matrix, similarity matrix, and catalog. All
// fields are read-only after construction; the Engine replaces snapshots
// wholesale, never field by field.
type Snapshot struct {
	Generation    string
	BuiltAt       time.Time
	BuildDuration time.Duration

	Users      *IdentifierMap
	Items      *IdentifierMap
	Ratings    *RatingMatrix
	Similarity *SimilarityMatrix
	Catalog    *Catalog
}

// BuildSnapshot constructs a snapshot from raw rating records and catalog
// entries. Records with non-positive values are excluded before any
// structure is built; index assignment follows first-seen order of the
// remaining records. The batch similarity computation honors ctx
// cancellation.
func BuildSnapshot(ctx context.Context, ratings []Rating, catalog []CatalogEntry, workers int) (*Snapshot, error) {
	start := time.Now()

	filtered := make([]Rating, 0, len(ratings))
	userIDs := make([]string, 0, len(ratings))
	itemIDs := make([]string, 0, len(ratings))
	for _, r := range ratings {
		if r.Value <= 0 {
			continue
		}
		filtered = append(filtered, r)
		userIDs = append(userIDs, r.UserID)
		itemIDs = append(itemIDs, r.ItemID)
	}

	users := NewIdentifierMap(userIDs)
	items := NewIdentifierMap(itemIDs)
	matrix := NewRatingMatrix(filtered, users, items)

	similarity, err := ComputeSimilarity(ctx, matrix, workers)
	if err != nil {
		return nil, fmt.Errorf("similarity computation: %w", err)
	}

	return &Snapshot{
		Generation:    uuid.New().String(),
		BuiltAt:       time.Now(),
		BuildDuration: time.Since(start),
		Users:         users,
		Items:         items,
		Ratings:       matrix,
		Similarity:    similarity,
		Catalog:       NewCatalog(catalog),
	}, nil
}
