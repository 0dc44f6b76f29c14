// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

package recommend

// UnknownTitle is returned for items absent from the catalog.
const UnknownTitle = "Unknown Title"

// Catalog maps external item ids to display titles. It decorates
// recommendation output and need not cover every rated item.
type Catalog struct {
	titles map[string]string
}

// NewCatalog builds a catalog from entries; later entries for the same
// item id win.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{titles: make(map[string]string, len(entries))}
	for _, e := range entries {
		c.titles[e.ItemID] = e.Title
	}
	return c
}

// TitleOf returns the display title for an item id, or UnknownTitle when
// the id is absent.
func (c *Catalog) TitleOf(itemID string) string {
	if title, ok := c.titles[itemID]; ok {
		return title
	}
	return UnknownTitle
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.titles)
}
