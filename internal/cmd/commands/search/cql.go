package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp-forge/wikicli/pkg/models"
)

var (
	cqlKeywordRE = regexp.MustCompile(`\b(AND|OR|NOT|IN)\b`)
	cqlFieldOpRE = regexp.MustCompile(`\w+\s*[=~!<>]`)
)

// toCQL passes queries that already look like CQL through unchanged and
// turns anything else into a text search.
func toCQL(query string) string {
	if cqlKeywordRE.MatchString(query) || cqlFieldOpRE.MatchString(query) ||
		(strings.Contains(query, "(") && strings.Contains(query, ")")) {
		return query
	}
	return fmt.Sprintf(`text ~ "%s"`, escapeCQL(query))
}

// inSpace restricts cql to one space.
func inSpace(cql, space string) string {
	return fmt.Sprintf(`space = "%s" AND (%s)`, escapeCQL(space), cql)
}

func escapeCQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s)
}

// spaceOf returns the space key of a hit. Personal spaces are shown by the
// container title.
func spaceOf(r models.SearchResult) string {
	if r.Content.Space.Key != "" {
		return r.Content.Space.Key
	}
	display := r.Container.DisplayURL
	key := display[strings.LastIndex(display, "/")+1:]
	if key == "" || strings.HasPrefix(key, "~") {
		return r.Container.Title
	}
	return key
}
