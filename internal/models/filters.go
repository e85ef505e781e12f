package models

import (
	"encoding/json"
	"sort"
	"time"
)

type UserFilter struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	FilterType  string    `db:"filter_type"`  // query, skills, types, platforms
	FilterValue string    `db:"filter_value"` // JSON array or plain string
	CreatedAt   time.Time `db:"created_at"`
}

const (
	FilterTypeQuery     = "query"
	FilterTypeSkills    = "skills"
	FilterTypeTypes     = "types"
	FilterTypePlatforms = "platforms"
)

// FilterState is the user's current selection over a listing collection.
// Any change to a facet or to the query moves the cursor back to page 1.
type FilterState struct {
	Skills    []string `json:"skills,omitempty"`
	Types     []string `json:"types,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
	Query     string   `json:"query,omitempty"`
	Page      int      `json:"page"`
}

func NewFilterState() FilterState {
	return FilterState{Page: 1}
}

func (f *FilterState) ToggleSkill(skill string) {
	f.Skills = toggle(f.Skills, skill)
	f.Page = 1
}

func (f *FilterState) ToggleType(videoType string) {
	f.Types = toggle(f.Types, videoType)
	f.Page = 1
}

func (f *FilterState) TogglePlatform(platform string) {
	f.Platforms = toggle(f.Platforms, platform)
	f.Page = 1
}

func (f *FilterState) SetQuery(query string) {
	f.Query = query
	f.Page = 1
}

func (f *FilterState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	f.Page = page
}

func (f *FilterState) Reset() {
	*f = NewFilterState()
}

func (f FilterState) IsEmpty() bool {
	return len(f.Skills) == 0 && len(f.Types) == 0 && len(f.Platforms) == 0 && f.Query == ""
}

func (f FilterState) HasSkill(skill string) bool { return contains(f.Skills, skill) }
func (f FilterState) HasType(t string) bool      { return contains(f.Types, t) }
func (f FilterState) HasPlatform(p string) bool  { return contains(f.Platforms, p) }

// ToUserFilters flattens the state into storable rows. Empty facets produce no row.
func (f FilterState) ToUserFilters(userID int64) []UserFilter {
	var out []UserFilter

	if f.Query != "" {
		out = append(out, UserFilter{UserID: userID, FilterType: FilterTypeQuery, FilterValue: f.Query})
	}

	sets := []struct {
		filterType string
		values     []string
	}{
		{FilterTypeSkills, f.Skills},
		{FilterTypeTypes, f.Types},
		{FilterTypePlatforms, f.Platforms},
	}
	for _, s := range sets {
		if len(s.values) == 0 {
			continue
		}
		sorted := append([]string(nil), s.values...)
		sort.Strings(sorted)
		data, _ := json.Marshal(sorted)
		out = append(out, UserFilter{UserID: userID, FilterType: s.filterType, FilterValue: string(data)})
	}

	return out
}

// FilterStateFromMap rebuilds a state from filter_type -> filter_value rows.
// Unparseable set values are skipped.
func FilterStateFromMap(filters map[string]string) FilterState {
	state := NewFilterState()

	state.Query = filters[FilterTypeQuery]
	state.Skills = decodeSet(filters[FilterTypeSkills])
	state.Types = decodeSet(filters[FilterTypeTypes])
	state.Platforms = decodeSet(filters[FilterTypePlatforms])

	return state
}

func decodeSet(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func toggle(values []string, v string) []string {
	for i, existing := range values {
		if existing == v {
			out := make([]string, 0, len(values)-1)
			out = append(out, values[:i]...)
			return append(out, values[i+1:]...)
		}
	}
	out := make([]string, 0, len(values)+1)
	out = append(out, values...)
	return append(out, v)
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
