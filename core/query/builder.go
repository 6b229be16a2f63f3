// Package query turns raw list-request parameters into a bounded, validated
// query descriptor. Building is total: bad input degrades to safe defaults
// instead of failing, because the track list is a public best-effort search
// surface.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the page size when none is requested.
	DefaultLimit = 10
	// MaxLimit caps the page size regardless of what was requested.
	MaxLimit = 50
)

// Sort keys produced by Build.
const (
	SortTitle   = "title"
	SortArtist  = "artist"
	SortCreated = "createdAt"
)

// Descriptor is the validated representation of a list request. It is
// request-scoped and never persisted.
type Descriptor struct {
	// ArtistContains and TitleContains are case-insensitive substring
	// matchers; empty means no filter.
	ArtistContains string
	TitleContains  string
	// GenreEquals is an exact matcher; empty means no filter.
	GenreEquals string

	// SortKey is one of the Sort* constants, or empty for natural order.
	SortKey  string
	SortDesc bool

	Page  int
	Limit int

	// Fields is the requested projection; empty means full records.
	// "id" and "createdBy" are always force-included when set.
	Fields []string
}

// Skip returns the row offset implied by the page and limit.
func (d *Descriptor) Skip() int {
	return (d.Page - 1) * d.Limit
}

// Build constructs a Descriptor from raw query parameters. It never fails.
func Build(params url.Values) Descriptor {
	d := Descriptor{
		ArtistContains: strings.TrimSpace(params.Get("artist")),
		TitleContains:  strings.TrimSpace(params.Get("title")),
		GenreEquals:    strings.TrimSpace(params.Get("genre")),
		Page:           clampInt(params.Get("page"), 1, 1, 0),
		Limit:          clampInt(params.Get("limit"), DefaultLimit, 1, MaxLimit),
	}

	switch params.Get("sortBy") {
	case "title":
		d.SortKey = SortTitle
	case "artist":
		d.SortKey = SortArtist
	case "date":
		d.SortKey = SortCreated
		d.SortDesc = true
	}

	if fields := params.Get("fields"); fields != "" {
		d.Fields = parseFields(fields)
	}

	return d
}

// parseFields splits the comma-separated projection list and force-includes
// the id and owner fields, which the consumer always needs to render
// ownership affordances.
func parseFields(raw string) []string {
	seen := map[string]bool{}
	fields := make([]string, 0, 4)

	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			fields = append(fields, name)
		}
	}

	add("id")
	add("createdBy")
	for _, f := range strings.Split(raw, ",") {
		add(strings.TrimSpace(f))
	}

	return fields
}

// clampInt parses raw as an integer and clamps it to [min, max]. A max of 0
// means unbounded above. Unparseable input yields the fallback.
func clampInt(raw string, fallback, min, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		n = fallback
	}
	if n < min {
		n = min
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}

// Pagination describes the page window of a result set. Total is counted
// against the filtered set, not the whole collection.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Paginate computes the pagination envelope for a filtered total.
func (d *Descriptor) Paginate(total int64) Pagination {
	totalPages := int((total + int64(d.Limit) - 1) / int64(d.Limit))
	return Pagination{
		Page:       d.Page,
		Limit:      d.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    d.Page < totalPages,
		HasPrev:    d.Page > 1,
	}
}
