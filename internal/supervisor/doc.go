// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

// Package supervisor builds the Suture supervision tree for ReadNext.
//
// The tree has two layers under the root: a data layer running the
// periodic snapshot refresh and an api layer running the HTTP server.
// A crash in the refresh loop does not take down the API, which keeps
// serving the last good snapshot.
package supervisor
