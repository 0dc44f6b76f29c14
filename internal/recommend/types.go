// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package recommend

import (
	"errors"
)

// Sentinel errors of the recommendation core. The HTTP boundary maps them
// to distinct response codes; they must never be conflated.
var (
	// ErrDataUnavailable indicates that no snapshot has been built yet or
	// that the source data could not be produced. Queries fail loudly with
	// this error instead of returning stale or empty results.
	ErrDataUnavailable = errors.New("recommend: data unavailable")

	// ErrNotFound indicates an external user id that was never observed in
	// the mapped rating records. Expected and recoverable.
	ErrNotFound = errors.New("recommend: user not found")
)

// Rating is one observed rating record with external identifiers.
// Records with Value <= 0 mean "no rating" and are excluded before any
// structure is built.
type Rating struct {
	UserID string
	ItemID string
	Value  float64
}

// CatalogEntry maps an external item id to its display title.
type CatalogEntry struct {
	ItemID string
	Title  string
}

// Request is one recommendation query. K is the neighborhood size and
// TopN the maximum result length; values <= 0 are valid and yield an
// empty list. The boundary fills in configured defaults before calling
// the engine.
type Request struct {
	UserID string
	K      int
	TopN   int
}

// ScoredItem is one recommended item with its predicted score, decorated
// with the external id and catalog title.
type ScoredItem struct {
	ItemID string  `json:"item_id"`
	Title  string  `json:"title"`
	Score  float64 `json:"score"`
}

// Response is the result of one recommendation query. Items is ordered by
// descending score and possibly empty.
type Response struct {
	UserID     string       `json:"user_id"`
	Items      []ScoredItem `json:"items"`
	Generation string       `json:"generation"`
}
