package attachment

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/internal/config"
)

func newTestCommand(t *testing.T, h http.Handler) (*base.Command, *cli.MockUi) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	env := map[string]string{config.EnvBaseURL: srv.URL, config.EnvBearerToken: "secret"}
	ui := cli.NewMockUi()
	b := base.NewCommand(hclog.NewNullLogger(), ui)
	b.Fs = afero.NewMemMapFs()
	b.HTTPClient = srv.Client()
	b.Store = config.NewStoreWithFs(b.Fs, "/cfg/config.hcl", func(k string) string { return env[k] })
	return b, ui
}

func attachmentSite() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/api/v2/pages/5/attachments", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"results":[
			{"id":"a1","title":"diagram.png","fileSize":3,"mediaType":"image/png","downloadLink":"/download/attachments/5/diagram.png"},
			{"id":"a2","title":"notes.txt","fileSize":5,"downloadLink":"/download/attachments/5/notes.txt"},
			{"id":"a3","title":"Diagram.PNG","fileSize":3,"downloadLink":"/download/attachments/5/Diagram.PNG"}
		]}`)
	})
	mux.HandleFunc("/wiki/api/v2/attachments/a1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"a1","title":"diagram.png","fileSize":2048,"mediaType":"image/png","pageId":"5",
			"downloadLink":"/download/attachments/5/diagram.png"}`)
	})
	mux.HandleFunc("/wiki/download/attachments/5/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "png")
	})
	return mux
}

func TestDownloadFiltersAndKeepsExistingFiles(t *testing.T) {
	b, ui := newTestCommand(t, attachmentSite())
	require.NoError(t, afero.WriteFile(b.Fs, "/out/diagram.png", []byte("old"), 0o644))

	code := (&DownloadCommand{Command: b}).Run([]string{"-dest", "/out", "-pattern", "*.png", "5"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	old, err := afero.ReadFile(b.Fs, "/out/diagram.png")
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))

	for _, name := range []string{"/out/diagram (1).png", "/out/Diagram.PNG"} {
		got, err := afero.ReadFile(b.Fs, name)
		require.NoError(t, err, name)
		assert.Equal(t, "png", string(got))
	}
	exists, err := afero.Exists(b.Fs, "/out/notes.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListShowsHumanSizes(t *testing.T) {
	b, ui := newTestCommand(t, attachmentSite())

	code := (&ListCommand{Command: b}).Run([]string{"5"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	out := ui.OutputWriter.String()
	assert.Contains(t, out, "diagram.png")
	assert.Contains(t, out, "3 B")
}

func TestDeleteDryRun(t *testing.T) {
	b, ui := newTestCommand(t, http.NotFoundHandler())

	code := (&DeleteCommand{Command: b}).Run([]string{"-purge", "-dry-run", "a1"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Equal(t, "Would purge attachment a1\n", ui.OutputWriter.String())
}

func TestUploadNeedsFiles(t *testing.T) {
	b, ui := newTestCommand(t, http.NotFoundHandler())

	assert.Equal(t, 1, (&UploadCommand{Command: b}).Run([]string{"5"}))
	assert.Contains(t, ui.ErrorWriter.String(), "at least one file")
}

func TestGetShowsMetadata(t *testing.T) {
	b, ui := newTestCommand(t, attachmentSite())

	code := (&GetCommand{Command: b}).Run([]string{"a1"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	out := ui.OutputWriter.String()
	assert.Regexp(t, `Title:\s+diagram.png`, out)
	assert.Regexp(t, `Size:\s+2.0 kB`, out)
	assert.Regexp(t, `Page:\s+5`, out)
	assert.Regexp(t, `Download:\s+http://127.0.0.1:\d+/wiki/download/attachments/5/diagram.png`, out)
}
