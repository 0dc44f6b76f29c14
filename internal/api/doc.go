// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

// Package api provides the HTTP boundary of ReadNext using the Chi
// router: route setup, middleware (request ids, CORS, rate limiting,
// Prometheus instrumentation), and the handlers that translate between
// HTTP and the recommendation engine.
//
// All endpoints respond with the models.APIResponse envelope. Engine
// sentinel errors map to distinct status codes: ErrNotFound to 404,
// ErrDataUnavailable to 503; malformed request input is rejected with
// 400 before the engine is called.
package api
