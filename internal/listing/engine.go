// Package listing filters, orders and paginates listing collections.
// Everything here is pure: no I/O, no errors, inputs are never mutated.
package listing

import (
	"sort"
	"strings"
	"time"

	"editor-board/internal/models"
)

const DefaultPageSize = 10

// View is one page of a filtered collection.
type View struct {
	Items      []models.Listing
	Page       int
	TotalPages int
	Total      int
}

// ComputeView applies filters, orders the survivors newest first and returns
// the requested page. A page past the end yields no items.
func ComputeView(records []models.Listing, filters models.FilterState, pageSize int) View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}

	filtered := Filter(records, filters)
	SortNewestFirst(filtered)

	total := len(filtered)
	view := View{
		Page:       page,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
		Items:      []models.Listing{},
	}

	start := (page - 1) * pageSize
	if start >= total {
		return view
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	view.Items = append(view.Items, filtered[start:end]...)

	return view
}

// Filter returns a new slice with the records matching every predicate.
func Filter(records []models.Listing, filters models.FilterState) []models.Listing {
	m := newMatcher(filters)

	out := make([]models.Listing, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortNewestFirst orders by publication time descending, keeping input order on ties.
func SortNewestFirst(records []models.Listing) {
	keys := make([]sortKey, len(records))
	for i, r := range records {
		keys[i] = newSortKey(r.PublishedAt)
	}

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[b]].before(keys[idx[a]])
	})

	sorted := make([]models.Listing, len(records))
	for i, j := range idx {
		sorted[i] = records[j]
	}
	copy(records, sorted)
}

type matcher struct {
	query     string
	skills    []string
	types     []string
	platforms map[string]struct{}
}

func newMatcher(filters models.FilterState) *matcher {
	m := &matcher{
		query:  strings.ToLower(strings.TrimSpace(filters.Query)),
		skills: normalizeAll(filters.Skills),
		types:  normalizeAll(filters.Types),
	}
	if len(filters.Platforms) > 0 {
		m.platforms = make(map[string]struct{}, len(filters.Platforms))
		for _, p := range filters.Platforms {
			m.platforms[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
		}
	}
	return m
}

func (m *matcher) match(r models.Listing) bool {
	return m.matchQuery(r) &&
		containsAll(r.Skills, m.skills) &&
		containsAll(r.VideoTypes, m.types) &&
		m.matchPlatform(r)
}

func (m *matcher) matchQuery(r models.Listing) bool {
	if m.query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Title), m.query) ||
		strings.Contains(strings.ToLower(r.Content), m.query)
}

// platforms are "any of", unlike skills and types
func (m *matcher) matchPlatform(r models.Listing) bool {
	if len(m.platforms) == 0 {
		return true
	}
	_, ok := m.platforms[strings.ToLower(strings.TrimSpace(r.Platform))]
	return ok
}

// containsAll reports whether every wanted tag is among have. wanted is already normalized.
func containsAll(have []string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	if len(have) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[NormalizeTag(h)] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

// NormalizeTag trims whitespace and leading '#' markers and lower-cases the tag.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimLeft(tag, "#")
	return strings.ToLower(strings.TrimSpace(tag))
}

func normalizeAll(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := NormalizeTag(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type sortKey struct {
	raw    string
	t      time.Time
	parsed bool
}

func newSortKey(raw string) sortKey {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return sortKey{raw: raw, t: t, parsed: true}
		}
	}
	return sortKey{raw: raw}
}

// before reports whether k is strictly older than other.
func (k sortKey) before(other sortKey) bool {
	if k.parsed && other.parsed {
		return k.t.Before(other.t)
	}
	return k.raw < other.raw
}
