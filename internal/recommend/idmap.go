// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package recommend

// IdentifierMap is a bidirectional mapping between external identifiers
// and dense zero-based indices. Indices are assigned in first-seen order;
// duplicates are ignored. Built once per snapshot and immutable afterward.
type IdentifierMap struct {
	index map[string]int
	ids   []string
}

// NewIdentifierMap builds a map over the given ids, deduplicating while
// preserving first-seen order.
func NewIdentifierMap(ids []string) *IdentifierMap {
	m := &IdentifierMap{
		index: make(map[string]int, len(ids)),
		ids:   make([]string, 0, len(ids)),
	}
	for _, id := range ids {
		if _, seen := m.index[id]; seen {
			continue
		}
		m.index[id] = len(m.ids)
		m.ids = append(m.ids, id)
	}
	return m
}

// IndexOf returns the internal index for an external id.
// The second return value is false for ids never observed.
func (m *IdentifierMap) IndexOf(id string) (int, bool) {
	idx, ok := m.index[id]
	return idx, ok
}

// IDOf returns the external id for an internal index.
// The second return value is false for indices outside [0, Len).
func (m *IdentifierMap) IDOf(idx int) (string, bool) {
	if idx < 0 || idx >= len(m.ids) {
		return "", false
	}
	return m.ids[idx], true
}

// Len returns the number of mapped identifiers.
func (m *IdentifierMap) Len() int {
	return len(m.ids)
}
