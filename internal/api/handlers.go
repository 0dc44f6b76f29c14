// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"

	"github.com/readnext/readnext/internal/logging"
	"github.com/readnext/readnext/internal/models"
	"github.com/readnext/readnext/internal/recommend"
)

// defaultRebuildTimeout bounds a rebuild triggered over HTTP when no
// timeout is configured.
const defaultRebuildTimeout = 10 * time.Minute

// Handler serves the recommendation endpoints.
type Handler struct {
	engine         *recommend.Engine
	rebuildTimeout time.Duration
}

// NewHandler creates a handler around the engine. A non-positive
// rebuildTimeout falls back to the default.
func NewHandler(engine *recommend.Engine, rebuildTimeout time.Duration) *Handler {
	if rebuildTimeout <= 0 {
		rebuildTimeout = defaultRebuildTimeout
	}
	return &Handler{
		engine:         engine,
		rebuildTimeout: rebuildTimeout,
	}
}

// recommendationQuery validates the optional query parameters.
type recommendationQuery struct {
	K    int `validate:"gte=0,lte=10000"`
	TopN int `validate:"gte=0,lte=10000"`
}

// HealthLive handles GET /api/v1/health/live.
// Liveness means the process serves HTTP; it never depends on data.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]interface{}{"alive": true},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles GET /api/v1/health/ready.
// Ready means a recommendation snapshot has been built.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.engine.Ready() {
		respondError(w, http.StatusServiceUnavailable, "DATA_UNAVAILABLE",
			"Recommendation data has not been loaded yet", nil)
		return
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]interface{}{"ready": true},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// GetRecommendations handles GET /api/v1/recommendations/user/{userID}.
// Optional query parameters k and top_n override the configured
// defaults; explicit zero yields an empty list.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if !isValidUserID(userID) {
		respondError(w, http.StatusBadRequest, "INVALID_USER_ID",
			"User ID must be a non-empty numeric identifier", nil)
		return
	}

	defaultK, defaultTopN := h.engine.Defaults()
	k, ok := getIntParam(r, "k", defaultK)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Parameter k must be an integer", nil)
		return
	}
	topN, ok := getIntParam(r, "top_n", defaultTopN)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Parameter top_n must be an integer", nil)
		return
	}
	if apiErr := validateRequest(&recommendationQuery{K: k, TopN: topN}); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		UserID: userID,
		K:      k,
		TopN:   topN,
	})
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	items := make([]models.RecommendationItem, len(resp.Items))
	for i, item := range resp.Items {
		items[i] = models.RecommendationItem{
			ItemID: item.ItemID,
			Title:  item.Title,
			Score:  item.Score,
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.RecommendationList{
			UserID: resp.UserID,
			Items:  items,
			Count:  len(items),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// GetStatus handles GET /api/v1/recommendations/status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.Snapshot()
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.SnapshotStatus{
			Generation: snap.Generation,
			Users:      snap.Users.Len(),
			Items:      snap.Items.Len(),
			Ratings:    snap.Ratings.NNZ(),
			BuiltAt:    snap.BuiltAt,
			BuildMS:    snap.BuildDuration.Milliseconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// PostRebuild handles POST /api/v1/recommendations/rebuild. The rebuild
// runs synchronously; the previous snapshot keeps serving queries until
// the swap.
func (h *Handler) PostRebuild(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.rebuildTimeout)
	defer cancel()

	if err := h.engine.Rebuild(ctx); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("rebuild over HTTP failed")
		h.respondEngineError(w, r, err)
		return
	}

	snap, err := h.engine.Snapshot()
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.SnapshotStatus{
			Generation: snap.Generation,
			Users:      snap.Users.Len(),
			Items:      snap.Items.Len(),
			Ratings:    snap.Ratings.NNZ(),
			BuiltAt:    snap.BuiltAt,
			BuildMS:    snap.BuildDuration.Milliseconds(),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondEngineError maps engine sentinel errors to status codes.
func (h *Handler) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		respondError(w, http.StatusNotFound, "USER_NOT_FOUND",
			"User ID not found in the rating data", nil)
	case errors.Is(err, recommend.ErrDataUnavailable):
		respondError(w, http.StatusServiceUnavailable, "DATA_UNAVAILABLE",
			"Recommendation data is not available", err)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to process request", err)
	}
}

// isValidUserID accepts the numeric external identifiers used by the
// rating dumps. Anything else is rejected before touching the engine.
func isValidUserID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
