package models

import (
	"regexp"
	"strings"
	"time"
)

// SearchResult is one hit of a v1 CQL search.
type SearchResult struct {
	Content      SearchContent `json:"content"`
	Title        string        `json:"title"`
	Excerpt      string        `json:"excerpt,omitempty"`
	URL          string        `json:"url,omitempty"`
	EntityType   string        `json:"entityType,omitempty"`
	LastModified string        `json:"lastModified,omitempty"`
	Space        *SpaceRef     `json:"space,omitempty"`
	Container    struct {
		Title      string `json:"title"`
		DisplayURL string `json:"displayUrl"`
	} `json:"resultGlobalContainer,omitempty"`
}

// SpaceRef is the space block of a space hit.
type SpaceRef struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// SearchContent is the content block of a search hit.
type SearchContent struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
	Space  struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"space,omitempty"`
	Links Links `json:"_links,omitempty"`
}

var highlightMarkers = regexp.MustCompile(`@@@(end)?hl@@@`)

// CleanExcerpt strips the highlight markers and collapses whitespace.
func (r *SearchResult) CleanExcerpt() string {
	s := highlightMarkers.ReplaceAllString(r.Excerpt, "")
	return strings.Join(strings.Fields(s), " ")
}

// DisplayTitle returns the content title, falling back to the hit title.
func (r *SearchResult) DisplayTitle() string {
	if r.Content.Title != "" {
		return r.Content.Title
	}
	return highlightMarkers.ReplaceAllString(r.Title, "")
}

// Modified parses LastModified.
func (r *SearchResult) Modified() (time.Time, error) {
	return parseTime(r.LastModified)
}
