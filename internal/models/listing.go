package models

import (
	"encoding/json"
	"strings"
)

type ListingKind string

const (
	KindJob  ListingKind = "job"
	KindPost ListingKind = "post"
)

// Listing is a job offer or a community post as served by the listing document.
// Records are read-only snapshots; edits go through the backend.
type Listing struct {
	ID          int64       `json:"id"`
	Kind        ListingKind `json:"kind,omitempty"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	PublishedAt string      `json:"publishedAt"`
	Skills      []string    `json:"skills,omitempty"`
	VideoTypes  Tags        `json:"videoType,omitempty"`
	Platform    string      `json:"platform,omitempty"`
	Role        string      `json:"role,omitempty"`
	Budget      string      `json:"budget,omitempty"`
	Deadline    string      `json:"deadline,omitempty"`
	Author      Author      `json:"author"`
}

type Author struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Tags accepts either a single JSON string or an array of strings.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*t = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*t = values
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*t = nil
		return nil
	}
	*t = Tags{single}
	return nil
}

// ListingIDs returns ids in the given order
func ListingIDs(listings []Listing) []int64 {
	ids := make([]int64, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	return ids
}
