// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package recommend

import (
	"context"
	"fmt"
	"math"
	"testing"
)

const simEpsilon = 1e-12

func TestComputeSimilarity(t *testing.T) {
	// u1 = (5, 3, 0), u2 = (4, 0, 5), u3 = (0, 5, 4)
	records := []Rating{
		{UserID: "u1", ItemID: "i1", Value: 5},
		{UserID: "u1", ItemID: "i2", Value: 3},
		{UserID: "u2", ItemID: "i1", Value: 4},
		{UserID: "u2", ItemID: "i3", Value: 5},
		{UserID: "u3", ItemID: "i2", Value: 5},
		{UserID: "u3", ItemID: "i3", Value: 4},
	}
	m, users, _ := buildTestMatrix(t, records)

	s, err := ComputeSimilarity(context.Background(), m, 2)
	if err != nil {
		t.Fatalf("ComputeSimilarity: %v", err)
	}

	u1, _ := users.IndexOf("u1")
	u2, _ := users.IndexOf("u2")
	u3, _ := users.IndexOf("u3")

	// cos(u1, u2) = 20 / (sqrt(34) * sqrt(41))
	want12 := 20 / (math.Sqrt(34) * math.Sqrt(41))
	// cos(u1, u3) = 15 / (sqrt(34) * sqrt(41))
	want13 := 15 / (math.Sqrt(34) * math.Sqrt(41))
	// cos(u2, u3) = 20 / 41
	want23 := 20.0 / 41

	tests := []struct {
		name string
		u, v int
		want float64
	}{
		{"u1 vs u2", u1, u2, want12},
		{"u1 vs u3", u1, u3, want13},
		{"u2 vs u3", u2, u3, want23},
		{"self similarity u1", u1, u1, 1},
		{"self similarity u2", u2, u2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sim(tt.u, tt.v); math.Abs(got-tt.want) > simEpsilon {
				t.Errorf("Sim(%d, %d) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestComputeSimilaritySymmetry(t *testing.T) {
	records := []Rating{
		{UserID: "u1", ItemID: "i1", Value: 5},
		{UserID: "u1", ItemID: "i2", Value: 1},
		{UserID: "u2", ItemID: "i1", Value: 2},
		{UserID: "u2", ItemID: "i3", Value: 4},
		{UserID: "u3", ItemID: "i2", Value: 3},
		{UserID: "u4", ItemID: "i3", Value: 5},
	}
	m, _, _ := buildTestMatrix(t, records)

	s, err := ComputeSimilarity(context.Background(), m, 3)
	if err != nil {
		t.Fatalf("ComputeSimilarity: %v", err)
	}

	n := s.NumUsers()
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if math.Abs(s.Sim(u, v)-s.Sim(v, u)) > simEpsilon {
				t.Errorf("Sim(%d, %d) = %v, Sim(%d, %d) = %v, want symmetric",
					u, v, s.Sim(u, v), v, u, s.Sim(v, u))
			}
		}
	}
}

func TestComputeSimilarityDisjointUsers(t *testing.T) {
	records := []Rating{
		{UserID: "u1", ItemID: "i1", Value: 5},
		{UserID: "u2", ItemID: "i2", Value: 4},
	}
	m, users, _ := buildTestMatrix(t, records)

	s, err := ComputeSimilarity(context.Background(), m, 1)
	if err != nil {
		t.Fatalf("ComputeSimilarity: %v", err)
	}

	u1, _ := users.IndexOf("u1")
	u2, _ := users.IndexOf("u2")
	if got := s.Sim(u1, u2); got != 0 {
		t.Errorf("Sim of users with no shared items = %v, want 0", got)
	}
}

func TestComputeSimilarityEmptyMatrix(t *testing.T) {
	m := NewRatingMatrix(nil, NewIdentifierMap(nil), NewIdentifierMap(nil))

	s, err := ComputeSimilarity(context.Background(), m, 4)
	if err != nil {
		t.Fatalf("ComputeSimilarity: %v", err)
	}
	if s.NumUsers() != 0 {
		t.Errorf("NumUsers() = %d, want 0", s.NumUsers())
	}
}

func TestComputeSimilarityCancellation(t *testing.T) {
	records := make([]Rating, 0, 200)
	for i := 0; i < 100; i++ {
		records = append(records,
			Rating{UserID: fmt.Sprintf("user-%d", i), ItemID: "shared", Value: 5},
			Rating{UserID: fmt.Sprintf("user-%d", i), ItemID: fmt.Sprintf("item-%d", i), Value: 3},
		)
	}
	m, _, _ := buildTestMatrix(t, records)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ComputeSimilarity(ctx, m, 2); err == nil {
		t.Fatal("ComputeSimilarity with cancelled context should fail")
	}
}
