// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestAPIResponseErrorOmitted(t *testing.T) {
	resp := APIResponse{
		Status:   "success",
		Data:     RecommendationList{UserID: "42", Items: []RecommendationItem{}, Count: 0},
		Metadata: Metadata{Timestamp: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)},
	}

	data, err := json.Marshal(&resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	s := string(data)
	if strings.Contains(s, `"error"`) {
		t.Errorf("success response serialized an error field: %s", s)
	}
	if !strings.Contains(s, `"items":[]`) {
		t.Errorf("empty items must serialize as [], not null: %s", s)
	}
}

func TestAPIErrorDetailsOmitted(t *testing.T) {
	apiErr := APIError{Code: "USER_NOT_FOUND", Message: "User ID not found"}

	data, err := json.Marshal(&apiErr)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "details") {
		t.Errorf("empty details should be omitted: %s", data)
	}
}

func TestRecommendationItemFields(t *testing.T) {
	item := RecommendationItem{ItemID: "0439136369", Title: "Harry Potter", Score: 4.75}

	data, err := json.Marshal(&item)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"item_id", "title", "score"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing field %q in %s", key, data)
		}
	}
}
