package space

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
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
	created []models.SpaceCreate
	deletes []string
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/wiki/api/v2/spaces/98304":
		_, _ = io.WriteString(w, `{"id":"98304","key":"~5f1a2b","name":"Ada Lovelace","type":"personal"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/wiki/rest/api/space":
		var in models.SpaceCreate
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.created = append(f.created, in)
		_, _ = io.WriteString(w, `{"id":131073,"key":"`+in.Key+`","name":"`+in.Name+`","_links":{"webui":"/spaces/`+in.Key+`"}}`)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/wiki/rest/api/space/"):
		f.deletes = append(f.deletes, strings.TrimPrefix(r.URL.Path, "/wiki/rest/api/space/"))
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"id":"task-1"}`)
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

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "PROJ"},
		{key: "A1"},
		{key: "", want: "cannot be empty"},
		{key: "P", want: "2-32 characters"},
		{key: strings.Repeat("A", 33), want: "2-32 characters"},
		{key: "1ABC", want: "start with A-Z"},
		{key: "proj", want: "start with A-Z"},
		{key: "PR-J", want: "start with A-Z"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := validateKey(tt.key)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCreate(t *testing.T) {
	site := &fakeSite{}
	b, ui := newTestCommand(t, site)

	code := (&CreateCommand{Command: b}).Run([]string{"-key", "PROJ", "-name", "Project X", "-description", "All about X"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	require.Len(t, site.created, 1)
	created := site.created[0]
	assert.Equal(t, "PROJ", created.Key)
	assert.Equal(t, "Project X", created.Name)
	require.NotNil(t, created.Description)
	assert.Equal(t, models.BodyValue{Representation: "plain", Value: "All about X"}, created.Description.Plain)

	out := ui.OutputWriter.String()
	assert.Regexp(t, `ID:\s+131073`, out)
	assert.Regexp(t, `URL:\s+http://127.0.0.1:\d+/wiki/spaces/PROJ`, out)
}

func TestCreateRejectsInvalidKey(t *testing.T) {
	site := &fakeSite{}
	b, ui := newTestCommand(t, site)

	assert.Equal(t, 1, (&CreateCommand{Command: b}).Run([]string{"-key", "proj", "-name", "X"}))
	assert.Contains(t, ui.ErrorWriter.String(), "space key must start with A-Z")
	assert.Empty(t, site.created)
}

func TestCreateDryRun(t *testing.T) {
	site := &fakeSite{}
	b, ui := newTestCommand(t, site)

	code := (&CreateCommand{Command: b}).Run([]string{"-key", "PROJ", "-name", "Project X", "-dry-run"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Equal(t, "Would create space PROJ 'Project X'\n", ui.OutputWriter.String())
	assert.Empty(t, site.created)
}

func TestDeleteByIDUsesRawKey(t *testing.T) {
	site := &fakeSite{}
	b, ui := newTestCommand(t, site)
	ui.InputReader = strings.NewReader("y\n")

	code := (&DeleteCommand{Command: b}).Run([]string{"98304"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Equal(t, []string{"~5f1a2b"}, site.deletes)
	assert.Contains(t, ui.OutputWriter.String(), "Deleted space ~5f1a2b")
}

func TestDeleteCancelled(t *testing.T) {
	site := &fakeSite{}
	b, ui := newTestCommand(t, site)
	ui.InputReader = strings.NewReader("\n")

	require.Equal(t, 0, (&DeleteCommand{Command: b}).Run([]string{"PROJ"}))
	assert.Contains(t, ui.OutputWriter.String(), "Cancelled.")
	assert.Empty(t, site.deletes)
}
