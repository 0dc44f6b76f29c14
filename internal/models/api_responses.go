// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

// Package models defines the JSON types shared between the HTTP boundary
// and its clients.
package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints. It provides a consistent structure for both successful and
// error responses.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"user_id": "276729", "items": [...], "count": 5},
//	  "metadata": {"timestamp": "2026-08-31T12:00:00Z", "query_time_ms": 3}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "USER_NOT_FOUND", "message": "User ID not found"},
//	  "metadata": {"timestamp": "2026-08-31T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError carries structured error details.
//
// Error codes used by this service:
//   - INVALID_USER_ID: malformed user identifier in the request
//   - VALIDATION_ERROR: invalid query parameters
//   - USER_NOT_FOUND: user id never observed in the rating data
//   - DATA_UNAVAILABLE: no recommendation snapshot has been built
//   - INTERNAL_ERROR: unexpected failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendationItem is one entry of a recommendation list as served to
// clients: the external item id, its display title, and the predicted score.
type RecommendationItem struct {
	ItemID string  `json:"item_id"`
	Title  string  `json:"title"`
	Score  float64 `json:"score"`
}

// RecommendationList is the payload of a successful recommendation query.
// Items is always present, possibly empty: a user with no qualifying
// candidates gets an empty list, not an error.
type RecommendationList struct {
	UserID string               `json:"user_id"`
	Items  []RecommendationItem `json:"items"`
	Count  int                  `json:"count"`
}

// SnapshotStatus describes the currently served snapshot.
type SnapshotStatus struct {
	Generation string    `json:"generation"`
	Users      int       `json:"users"`
	Items      int       `json:"items"`
	Ratings    int       `json:"ratings"`
	BuiltAt    time.Time `json:"built_at"`
	BuildMS    int64     `json:"build_ms"`
}
