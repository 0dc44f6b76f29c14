// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package recommend

import (
	"sort"
)

// RatingMatrix is a sparse user x item matrix of positive rating values,
// stored as one map per user row. Row access is O(1) and point lookup is
// O(1) amortized. Built once per snapshot and never mutated afterward; a
// new snapshot replaces it wholesale.
type RatingMatrix struct {
	rows     []map[int]float64
	numItems int
	nnz      int
}

// NewRatingMatrix builds the matrix from mapped rating records. Records
// whose ids are absent from the maps are skipped (ingestion maps records
// before this step, so this only drops records filtered upstream).
// Multiple records for the same (user, item) pair resolve as
// last-write-wins, matching table-replace semantics of the source dump.
func NewRatingMatrix(records []Rating, users, items *IdentifierMap) *RatingMatrix {
	m := &RatingMatrix{
		rows:     make([]map[int]float64, users.Len()),
		numItems: items.Len(),
	}
	for i := range m.rows {
		m.rows[i] = make(map[int]float64)
	}

	for _, r := range records {
		u, ok := users.IndexOf(r.UserID)
		if !ok {
			continue
		}
		i, ok := items.IndexOf(r.ItemID)
		if !ok {
			continue
		}
		if _, exists := m.rows[u][i]; !exists {
			m.nnz++
		}
		m.rows[u][i] = r.Value
	}
	return m
}

// NumUsers returns the number of user rows.
func (m *RatingMatrix) NumUsers() int {
	return len(m.rows)
}

// NumItems returns the number of item columns.
func (m *RatingMatrix) NumItems() int {
	return m.numItems
}

// NNZ returns the number of stored ratings.
func (m *RatingMatrix) NNZ() int {
	return m.nnz
}

// Row returns user u's sparse rating vector keyed by item index.
// The returned map is shared storage; callers must not modify it.
func (m *RatingMatrix) Row(u int) map[int]float64 {
	if u < 0 || u >= len(m.rows) {
		return nil
	}
	return m.rows[u]
}

// Cell returns the rating user u gave item i, or 0 when unrated.
func (m *RatingMatrix) Cell(u, i int) float64 {
	if u < 0 || u >= len(m.rows) {
		return 0
	}
	return m.rows[u][i]
}

// RatedItems returns the item indices user u has rated, in ascending
// order.
func (m *RatingMatrix) RatedItems(u int) []int {
	row := m.Row(u)
	items := make([]int, 0, len(row))
	for i := range row {
		items = append(items, i)
	}
	sort.Ints(items)
	return items
}
