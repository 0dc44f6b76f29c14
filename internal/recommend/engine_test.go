// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package recommend

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/readnext/readnext/internal/logging"
)

// stubProvider serves fixed slices, or fails on demand.
type stubProvider struct {
	ratings []Rating
	catalog []CatalogEntry
	err     error
}

func (p *stubProvider) Ratings(_ context.Context) ([]Rating, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.ratings, nil
}

func (p *stubProvider) Catalog(_ context.Context) ([]CatalogEntry, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.catalog, nil
}

// threeUserRatings is the shared scenario:
//
//	u1: i1=5, i2=3
//	u2: i1=4, i3=5
//	u3: i2=5, i3=4
func threeUserRatings() []Rating {
	return []Rating{
		{UserID: "u1", ItemID: "i1", Value: 5},
		{UserID: "u1", ItemID: "i2", Value: 3},
		{UserID: "u2", ItemID: "i1", Value: 4},
		{UserID: "u2", ItemID: "i3", Value: 5},
		{UserID: "u3", ItemID: "i2", Value: 5},
		{UserID: "u3", ItemID: "i3", Value: 4},
	}
}

func newTestEngine(t *testing.T, provider DataProvider) *Engine {
	t.Helper()
	return NewEngine(Config{K: 10, TopN: 5, Workers: 2}, provider, logging.NewTestLogger(io.Discard))
}

func rebuiltEngine(t *testing.T, provider DataProvider) *Engine {
	t.Helper()
	e := newTestEngine(t, provider)
	if err := e.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	return e
}

func TestEngineNotReadyBeforeRebuild(t *testing.T) {
	e := newTestEngine(t, &stubProvider{})

	if e.Ready() {
		t.Error("Ready() = true before first rebuild")
	}
	if _, err := e.Snapshot(); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("Snapshot() error = %v, want ErrDataUnavailable", err)
	}
	_, err := e.Recommend(context.Background(), Request{UserID: "u1", K: 10, TopN: 5})
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("Recommend() error = %v, want ErrDataUnavailable", err)
	}
}

func TestEngineRebuildProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("disk gone")}
	e := newTestEngine(t, provider)

	err := e.Rebuild(context.Background())
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("Rebuild() error = %v, want ErrDataUnavailable", err)
	}
	if e.Ready() {
		t.Error("Ready() = true after failed rebuild")
	}
}

func TestEngineRebuildKeepsOldSnapshotOnFailure(t *testing.T) {
	provider := &stubProvider{ratings: threeUserRatings()}
	e := rebuiltEngine(t, provider)

	before, err := e.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	provider.err = errors.New("source went away")
	if err := e.Rebuild(context.Background()); err == nil {
		t.Fatal("Rebuild should fail when the provider fails")
	}

	after, err := e.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot after failed rebuild: %v", err)
	}
	if after.Generation != before.Generation {
		t.Errorf("failed rebuild replaced snapshot: %q -> %q", before.Generation, after.Generation)
	}
}

func TestEngineRebuildSwapsGeneration(t *testing.T) {
	provider := &stubProvider{ratings: threeUserRatings()}
	e := rebuiltEngine(t, provider)

	first, _ := e.Snapshot()
	if err := e.Rebuild(context.Background()); err != nil {
		t.Fatalf("second Rebuild: %v", err)
	}
	second, _ := e.Snapshot()

	if first.Generation == second.Generation {
		t.Error("rebuild did not produce a new generation")
	}
}

func TestEngineRecommendUnknownUser(t *testing.T) {
	e := rebuiltEngine(t, &stubProvider{ratings: threeUserRatings()})

	_, err := e.Recommend(context.Background(), Request{UserID: "nobody", K: 10, TopN: 5})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Recommend(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestEngineRecommendScenario(t *testing.T) {
	// For u1 with k=2 the neighborhood is u2 then u3; i1 and i2 are
	// excluded as already rated, leaving i3 with the weighted score
	// (s2*5 + s3*4) / (s2 + s3) where s2 and s3 share the factor
	// 1/(sqrt(34)*sqrt(41)), so the score reduces to 160/35.
	e := rebuiltEngine(t, &stubProvider{
		ratings: threeUserRatings(),
		catalog: []CatalogEntry{{ItemID: "i3", Title: "The Hobbit"}},
	})

	resp, err := e.Recommend(context.Background(), Request{UserID: "u1", K: 2, TopN: 2})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if resp.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", resp.UserID)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("got %d items, want exactly 1: %+v", len(resp.Items), resp.Items)
	}

	item := resp.Items[0]
	if item.ItemID != "i3" {
		t.Errorf("ItemID = %q, want i3", item.ItemID)
	}
	if item.Title != "The Hobbit" {
		t.Errorf("Title = %q, want The Hobbit", item.Title)
	}
	if want := 160.0 / 35; math.Abs(item.Score-want) > 1e-12 {
		t.Errorf("Score = %v, want %v", item.Score, want)
	}
}

func TestEngineRecommendNeighborhoodOfOne(t *testing.T) {
	e := rebuiltEngine(t, &stubProvider{ratings: threeUserRatings()})

	// With k=1 only u2 (the closest neighbor) contributes, so i3's
	// score is exactly u2's rating.
	resp, err := e.Recommend(context.Background(), Request{UserID: "u1", K: 1, TopN: 5})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ItemID != "i3" {
		t.Fatalf("items = %+v, want single i3", resp.Items)
	}
	if got := resp.Items[0].Score; math.Abs(got-5) > 1e-12 {
		t.Errorf("Score = %v, want 5 (single neighbor's rating)", got)
	}
}

func TestEngineRecommendExcludesOwnItems(t *testing.T) {
	e := rebuiltEngine(t, &stubProvider{ratings: threeUserRatings()})

	resp, err := e.Recommend(context.Background(), Request{UserID: "u1", K: 10, TopN: 10})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, item := range resp.Items {
		if item.ItemID == "i1" || item.ItemID == "i2" {
			t.Errorf("recommended %q, which u1 already rated", item.ItemID)
		}
	}
}

func TestEngineRecommendZeroLimits(t *testing.T) {
	e := rebuiltEngine(t, &stubProvider{ratings: threeUserRatings()})

	tests := []struct {
		name string
		req  Request
	}{
		{"zero k", Request{UserID: "u1", K: 0, TopN: 5}},
		{"zero top_n", Request{UserID: "u1", K: 10, TopN: 0}},
		{"negative k", Request{UserID: "u1", K: -3, TopN: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := e.Recommend(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Recommend: %v", err)
			}
			if len(resp.Items) != 0 {
				t.Errorf("got %d items, want 0", len(resp.Items))
			}
		})
	}
}

func TestEngineRecommendColdStartUser(t *testing.T) {
	// u4 shares no items with anyone, so every similarity is zero and
	// the result is empty rather than an error.
	ratings := append(threeUserRatings(), Rating{UserID: "u4", ItemID: "i9", Value: 5})
	e := rebuiltEngine(t, &stubProvider{ratings: ratings})

	resp, err := e.Recommend(context.Background(), Request{UserID: "u4", K: 10, TopN: 5})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("cold start user got %d items, want 0", len(resp.Items))
	}
}

func TestEngineRecommendUnknownTitleFallback(t *testing.T) {
	e := rebuiltEngine(t, &stubProvider{ratings: threeUserRatings()})

	resp, err := e.Recommend(context.Background(), Request{UserID: "u1", K: 2, TopN: 2})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(resp.Items))
	}
	if got := resp.Items[0].Title; got != UnknownTitle {
		t.Errorf("Title = %q, want %q without a catalog entry", got, UnknownTitle)
	}
}

func TestEngineRecommendDeterministicOrder(t *testing.T) {
	// i2 and i3 both end up with the identical single-neighbor score,
	// so order must fall back to ascending item index (first-seen i2).
	ratings := []Rating{
		{UserID: "a", ItemID: "i1", Value: 4},
		{UserID: "b", ItemID: "i1", Value: 4},
		{UserID: "b", ItemID: "i2", Value: 3},
		{UserID: "b", ItemID: "i3", Value: 3},
	}
	e := rebuiltEngine(t, &stubProvider{ratings: ratings})

	for i := 0; i < 10; i++ {
		resp, err := e.Recommend(context.Background(), Request{UserID: "a", K: 5, TopN: 5})
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if len(resp.Items) != 2 {
			t.Fatalf("got %d items, want 2", len(resp.Items))
		}
		if resp.Items[0].ItemID != "i2" || resp.Items[1].ItemID != "i3" {
			t.Fatalf("order = [%s, %s], want [i2, i3]",
				resp.Items[0].ItemID, resp.Items[1].ItemID)
		}
	}
}

func TestEngineDefaults(t *testing.T) {
	e := NewEngine(Config{}, &stubProvider{}, logging.NewTestLogger(io.Discard))
	k, topN := e.Defaults()
	if k != 10 || topN != 5 {
		t.Errorf("Defaults() = (%d, %d), want (10, 5)", k, topN)
	}
}
