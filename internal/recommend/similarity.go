// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package recommend

import (
	"context"
	"math"
	"sync"
)

// SimilarityMatrix holds pairwise cosine similarities between user rows,
// one sparse row per user. Zero similarities are not stored. Derived
// entirely from a RatingMatrix and recomputed from scratch whenever the
// matrix changes; read-only afterward.
type SimilarityMatrix struct {
	rows []map[int]float64
}

// ComputeSimilarity computes cosine similarity between every pair of user
// rows as a single batch operation. Users with no ratings participate in
// no similarity. Each worker owns a contiguous chunk of target rows, so
// rows are written lock-free; the result is symmetric and Sim(u, u) == 1
// for every non-zero row.
//
// The computation checks ctx between rows and returns ctx.Err() when
// cancelled; recompute time scales with users squared times average
// ratings per user.
func ComputeSimilarity(ctx context.Context, m *RatingMatrix, workers int) (*SimilarityMatrix, error) {
	n := m.NumUsers()
	s := &SimilarityMatrix{rows: make([]map[int]float64, n)}
	if n == 0 {
		return s, nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	// Precompute row norms once.
	norms := make([]float64, n)
	for u := 0; u < n; u++ {
		var sum float64
		for _, v := range m.Row(u) {
			sum += v * v
		}
		norms[u] = math.Sqrt(sum)
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for u := start; u < end; u++ {
				if ctx.Err() != nil {
					return
				}
				s.rows[u] = similarityRow(m, norms, u)
			}
		}(start, end)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// similarityRow computes user u's full similarity row.
func similarityRow(m *RatingMatrix, norms []float64, u int) map[int]float64 {
	row := make(map[int]float64)
	if norms[u] == 0 {
		return row
	}
	row[u] = 1

	userRow := m.Row(u)
	for v := 0; v < m.NumUsers(); v++ {
		if v == u || norms[v] == 0 {
			continue
		}
		if d := dot(userRow, m.Row(v)); d != 0 {
			row[v] = d / (norms[u] * norms[v])
		}
	}
	return row
}

// dot computes the sparse dot product, iterating the smaller row.
func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for i, av := range a {
		if bv, ok := b[i]; ok {
			sum += av * bv
		}
	}
	return sum
}

// NumUsers returns the number of user rows.
func (s *SimilarityMatrix) NumUsers() int {
	return len(s.rows)
}

// Sim returns the cosine similarity between users u and v, 0 when either
// row has zero norm or the pair shares no rated item.
func (s *SimilarityMatrix) Sim(u, v int) float64 {
	if u < 0 || u >= len(s.rows) || s.rows[u] == nil {
		return 0
	}
	return s.rows[u][v]
}

// Row returns user u's sparse similarity row keyed by user index,
// including the self entry. The returned map is shared storage; callers
// must not modify it.
func (s *SimilarityMatrix) Row(u int) map[int]float64 {
	if u < 0 || u >= len(s.rows) {
		return nil
	}
	return s.rows[u]
}
