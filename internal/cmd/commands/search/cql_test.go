package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hashicorp-forge/wikicli/pkg/models"
)

func TestToCQL(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"release checklist", `text ~ "release checklist"`},
		{`say "hi"`, `text ~ "say \"hi\""`},
		{"type = page", "type = page"},
		{"foo AND bar", "foo AND bar"},
		{"title ~ runbook", "title ~ runbook"},
		{"(a)", "(a)"},
		{"android", `text ~ "android"`},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.want, toCQL(tc.query))
		})
	}
}

func TestInSpaceEscapesKey(t *testing.T) {
	assert.Equal(t, `space = "~a\"b" AND (type = page)`, inSpace("type = page", `~a"b`))
}

func TestSpaceOf(t *testing.T) {
	var r models.SearchResult
	r.Content.Space.Key = "ENG"
	assert.Equal(t, "ENG", spaceOf(r))

	r = models.SearchResult{}
	r.Container.DisplayURL = "/spaces/OPS"
	r.Container.Title = "Operations"
	assert.Equal(t, "OPS", spaceOf(r))

	r.Container.DisplayURL = "/spaces/~5b1234"
	r.Container.Title = "Jane Doe"
	assert.Equal(t, "Jane Doe", spaceOf(r))
}
