package config

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/wikicli/pkg/auth"
)

const testPath = "/home/me/.config/wikicli/config.hcl"

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStoreWithFs(fs, testPath, nil)
	assert.False(t, store.IsConfigured())

	cfg, err := New("example.atlassian.net", auth.Basic("me@example.com", "s3cret"))
	require.NoError(t, err)
	require.NoError(t, store.Save(cfg))
	assert.True(t, store.IsConfigured())

	info, err := fs.Stat(testPath)
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	e, err := loaded.Endpoints()
	require.NoError(t, err)
	assert.Equal(t, auth.Endpoints{
		SiteURL: "https://example.atlassian.net/wiki",
		APIv1:   "https://example.atlassian.net/wiki/rest/api",
		APIv2:   "https://example.atlassian.net/wiki/api/v2",
	}, e)

	cred, err := loaded.Credential()
	require.NoError(t, err)
	assert.Equal(t, auth.MethodBasic, cred.Method())
	assert.Equal(t, "me@example.com", cred.Identity())

	require.NoError(t, store.Clear())
	assert.False(t, store.IsConfigured())
	require.NoError(t, store.Clear())

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLoadHandWrittenFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte(`
site_url   = "https://wiki.internal.example.com/wiki"
api_v1_url = "https://wiki.internal.example.com/wiki/rest/api"
api_v2_url = "https://api.internal.example.com/wiki/v2"

auth {
  type  = "bearer"
  token = "pat-123"
}
`), 0o600))

	cfg, err := NewStoreWithFs(fs, testPath, nil).Load()
	require.NoError(t, err)

	e, err := cfg.Endpoints()
	require.NoError(t, err)
	assert.Equal(t, "https://wiki.internal.example.com/wiki/rest/api", e.APIv1)
	assert.Equal(t, "https://api.internal.example.com/wiki/v2", e.APIv2, "stored endpoints are used as written")

	cred, err := cfg.Credential()
	require.NoError(t, err)
	assert.Equal(t, auth.MethodBearer, cred.Method())
	assert.Equal(t, "pat-123", cred.Secret())
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte(`
site_url   = "not a url"
api_v1_url = "https://example.com/wiki/rest/api"
api_v2_url = "https://example.com/wiki/api/v2"

auth {
  type  = "basic"
  token = "x"
}
`), 0o600))

	_, err := NewStoreWithFs(fs, testPath, nil).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site_url")
	assert.Contains(t, err.Error(), "auth: email")
}

func TestLoadRequiresAPIEndpoints(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte(`
site_url = "https://wiki.internal.example.com/wiki"

auth {
  type  = "bearer"
  token = "pat-123"
}
`), 0o600))

	_, err := NewStoreWithFs(fs, testPath, nil).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_v1_url")
	assert.Contains(t, err.Error(), "api_v2_url")
}

func TestValidateRequiresAPIEndpoints(t *testing.T) {
	cfg, err := New("example.atlassian.net", auth.Bearer("t"))
	require.NoError(t, err)

	cfg.APIv2URL = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_v2_url: cannot be blank")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	fileCfg, err := New("file.example.com", auth.Bearer("from-file"))
	require.NoError(t, err)
	require.NoError(t, NewStoreWithFs(fs, testPath, nil).Save(fileCfg))

	tests := []struct {
		name     string
		vars     map[string]string
		wantSite string
		method   auth.Method
	}{
		{
			name:     "bearer from domain",
			vars:     map[string]string{EnvDomain: "env.example.com", EnvBearerToken: "t"},
			wantSite: "https://env.example.com/wiki",
			method:   auth.MethodBearer,
		},
		{
			name:     "basic from base url",
			vars:     map[string]string{EnvBaseURL: "https://env.example.com/wiki/", EnvEmail: "a@example.com", EnvToken: "t"},
			wantSite: "https://env.example.com/wiki",
			method:   auth.MethodBasic,
		},
		{
			name:     "base url wins over url",
			vars:     map[string]string{EnvBaseURL: "https://one.example.com", EnvURL: "https://two.example.com", EnvBearerToken: "t"},
			wantSite: "https://one.example.com/wiki",
			method:   auth.MethodBearer,
		},
		{
			name:     "incomplete environment falls back to file",
			vars:     map[string]string{EnvURL: "https://env.example.com", EnvEmail: "a@example.com"},
			wantSite: "https://file.example.com/wiki",
			method:   auth.MethodBearer,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewStoreWithFs(fs, testPath, env(tt.vars)).Load()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSite, cfg.SiteURL)
			cred, err := cfg.Credential()
			require.NoError(t, err)
			assert.Equal(t, tt.method, cred.Method())
		})
	}
}

func TestEnvironmentOnly(t *testing.T) {
	store := NewStoreWithFs(afero.NewMemMapFs(), testPath,
		env(map[string]string{EnvDomain: "env.example.com", EnvBearerToken: "t"}))
	assert.True(t, store.IsConfigured())
	assert.True(t, store.FromEnv())

	_, err := NewStoreWithFs(afero.NewMemMapFs(), testPath,
		env(map[string]string{EnvDomain: "ftp://env.example.com", EnvBearerToken: "t"})).Load()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotConfigured))
}

func TestValidateAccumulatesErrors(t *testing.T) {
	err := (&Config{Auth: &Auth{Type: "oauth"}}).Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "5 errors occurred")
	assert.Contains(t, msg, "site_url: cannot be blank")
	assert.Contains(t, msg, "api_v1_url: cannot be blank")
	assert.Contains(t, msg, "api_v2_url: cannot be blank")
	assert.Contains(t, msg, "auth: token: cannot be blank")
	assert.Contains(t, msg, "auth: type: must be a valid value")
}
