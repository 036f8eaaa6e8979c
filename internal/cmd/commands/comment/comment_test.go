package comment

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/internal/config"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type fakeSite struct {
	mu      sync.Mutex
	queries []url.Values
	posts   []models.CommentCreate
	deletes []string
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/wiki/rest/api/content/1/descendant/comment":
		f.queries = append(f.queries, r.URL.Query())
		_, _ = io.WriteString(w, `{"results":[
			{"id":"400","extensions":{"location":"footer"},
			 "history":{"createdDate":"2024-03-05T10:20:30Z","createdBy":{"displayName":"Ada"}},
			 "ancestors":[{"id":"1","type":"page"}]},
			{"id":"401","extensions":{"location":{"value":"inline"}},
			 "history":{"createdBy":{"displayName":"Grace"}},
			 "ancestors":[{"id":"1","type":"page"},{"id":"400","type":"comment"}]}
		],"_links":{}}`)
	case r.Method == http.MethodPost && r.URL.Path == "/wiki/rest/api/content":
		var in models.CommentCreate
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.posts = append(f.posts, in)
		_, _ = io.WriteString(w, `{"id":900,"type":"comment","status":"current"}`)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/wiki/rest/api/content/"):
		f.deletes = append(f.deletes, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func newTestCommand(t *testing.T, site http.Handler) (*base.Command, *cli.MockUi) {
	t.Helper()
	srv := httptest.NewServer(site)
	t.Cleanup(srv.Close)

	env := map[string]string{
		config.EnvBaseURL:     srv.URL,
		config.EnvBearerToken: "secret",
	}
	ui := cli.NewMockUi()
	b := base.NewCommand(hclog.NewNullLogger(), ui)
	b.Fs = afero.NewMemMapFs()
	b.HTTPClient = srv.Client()
	b.Store = config.NewStoreWithFs(b.Fs, "/cfg/config.hcl", func(k string) string { return env[k] })
	return b, ui
}

func TestListShowsRepliesWithParent(t *testing.T) {
	site := &fakeSite{}
	b, ui := newTestCommand(t, site)

	code := (&ListCommand{Command: b}).Run([]string{"-location", "footer, inline", "1"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	require.Len(t, site.queries, 1)
	q := site.queries[0]
	assert.Equal(t, []string{"footer", "inline"}, q["location"])
	assert.Equal(t, defaultExpand, q.Get("expand"))
	assert.Equal(t, "25", q.Get("limit"))

	out := ui.OutputWriter.String()
	assert.Regexp(t, `400\s+footer\s+Ada\s+2024-03-0\d`, out)
	assert.Regexp(t, `401\s+inline\s+Grace\s+400`, out)
}

func TestAddConvertsMarkdown(t *testing.T) {
	site := &fakeSite{}
	b, ui := newTestCommand(t, site)

	code := (&AddCommand{Command: b}).Run([]string{"-body", "**ship it**", "-body-format", "markdown", "-parent", "400", "1"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	require.Len(t, site.posts, 1)
	post := site.posts[0]
	assert.Equal(t, "comment", post.Type)
	assert.Equal(t, models.ContentRef{ID: "1", Type: "page"}, post.Container)
	assert.Equal(t, "<p><strong>ship it</strong></p>", post.Body.Storage.Value)
	assert.Equal(t, "storage", post.Body.Storage.Representation)
	assert.Equal(t, []models.ContentRef{{ID: "400"}}, post.Ancestors)
	assert.Nil(t, post.Extensions)
	assert.Regexp(t, `ID:\s+900`, ui.OutputWriter.String())
}

func TestAddInlinePropertiesImplyInline(t *testing.T) {
	site := &fakeSite{}
	b, ui := newTestCommand(t, site)
	require.NoError(t, afero.WriteFile(b.Fs, "/c.html", []byte("<p>typo</p>"), 0o644))

	code := (&AddCommand{Command: b}).Run([]string{"-body-file", "/c.html", "-inline-properties", `{"originalSelection":"teh"}`, "1"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	require.Len(t, site.posts, 1)
	post := site.posts[0]
	assert.Equal(t, "<p>typo</p>", post.Body.Storage.Value)
	assert.Equal(t, "inline", post.Extensions["location"])
	assert.Equal(t, map[string]any{"originalSelection": "teh"}, post.Extensions["inlineProperties"])
}

func TestAddRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "format", args: []string{"-body", "x", "-body-format", "wiki", "1"}, want: "invalid body format"},
		{name: "inline json", args: []string{"-body", "x", "-inline-properties", "{", "1"}, want: "invalid -inline-properties"},
		{name: "no body", args: []string{"1"}, want: "provide -body or -body-file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site := &fakeSite{}
			b, ui := newTestCommand(t, site)

			assert.Equal(t, 1, (&AddCommand{Command: b}).Run(tt.args))
			assert.Contains(t, ui.ErrorWriter.String(), tt.want)
			assert.Empty(t, site.posts)
		})
	}
}

func TestAddDryRun(t *testing.T) {
	site := &fakeSite{}
	b, ui := newTestCommand(t, site)

	code := (&AddCommand{Command: b}).Run([]string{"-dry-run", "1"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Equal(t, "Would add comment on page 1\n", ui.OutputWriter.String())
	assert.Empty(t, site.posts)
}

func TestDelete(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		site := &fakeSite{}
		b, ui := newTestCommand(t, site)
		ui.InputReader = strings.NewReader("n\n")

		require.Equal(t, 0, (&DeleteCommand{Command: b}).Run([]string{"400"}))
		assert.Contains(t, ui.OutputWriter.String(), "Cancelled.")
		assert.Empty(t, site.deletes)
	})

	t.Run("confirmed", func(t *testing.T) {
		site := &fakeSite{}
		b, ui := newTestCommand(t, site)

		code := (&DeleteCommand{Command: b}).Run([]string{"-yes", "400"})
		require.Equal(t, 0, code, ui.ErrorWriter.String())
		assert.Equal(t, []string{"/wiki/rest/api/content/400"}, site.deletes)
		assert.Contains(t, ui.OutputWriter.String(), "Deleted comment 400")
	})

	t.Run("dry run json", func(t *testing.T) {
		site := &fakeSite{}
		b, ui := newTestCommand(t, site)

		code := (&DeleteCommand{Command: b}).Run([]string{"-dry-run", "-json", "400"})
		require.Equal(t, 0, code, ui.ErrorWriter.String())
		assert.JSONEq(t, `{"dryRun":true,"deleted":false,"id":"400"}`, ui.OutputWriter.String())
		assert.Empty(t, site.deletes)
	})
}
