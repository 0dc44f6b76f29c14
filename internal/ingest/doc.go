// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

// Package ingest reads the rating and catalog CSV dumps and turns them
// into the record slices the recommendation engine builds snapshots
// from.
//
// The dumps are semicolon-delimited with a header row. Malformed rows
// are logged and skipped rather than failing the whole load; a missing
// or unreadable file fails the load as a whole. Optional minimum-count
// pruning drops sparse users and items before the matrix is built.
package ingest
