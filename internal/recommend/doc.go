// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

// Package recommend implements user-based collaborative filtering over a
// sparse user-item rating matrix.
//
// # Data Flow
//
// Rating records flow through a one-time batch build:
//
//	records -> IdentifierMap -> RatingMatrix -> SimilarityMatrix -> Snapshot
//
// A Snapshot is an immutable bundle of identifier maps, rating matrix,
// similarity matrix, and catalog. The Engine holds the current snapshot
// behind an atomic pointer: queries are pure reads and may run
// concurrently without coordination, and a rebuild swaps in a wholly new
// snapshot so readers never observe a mix of generations.
//
// # Prediction
//
// For a target user u, the k most similar other users (cosine similarity
// of rating rows) form the neighborhood. Candidate items are the union of
// the neighborhood's rated items minus the items u has already rated.
// Each candidate is scored as a similarity-weighted average of the
// neighbors' ratings; candidates with a zero weight sum are dropped.
// Ranking is total: similarity ties break by ascending user index and
// score ties by ascending item index, so a fixed snapshot and query
// always produce the same list.
//
// An empty result is a normal outcome (cold-start users, exhausted
// candidates, k or topN of zero), distinct from ErrNotFound (unknown
// user id) and ErrDataUnavailable (no snapshot built yet).
package recommend
