package auth

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveEndpoints(t *testing.T) {
	tests := []struct {
		name      string
		domain    string
		want      Endpoints
		wantError string
	}{
		{
			name:   "bare domain",
			domain: "acme.atlassian.net",
			want: Endpoints{
				SiteURL: "https://acme.atlassian.net/wiki",
				APIv1:   "https://acme.atlassian.net/wiki/rest/api",
				APIv2:   "https://acme.atlassian.net/wiki/api/v2",
			},
		},
		{
			name:   "trailing slash and existing wiki",
			domain: "https://acme.atlassian.net/wiki/",
			want: Endpoints{
				SiteURL: "https://acme.atlassian.net/wiki",
				APIv1:   "https://acme.atlassian.net/wiki/rest/api",
				APIv2:   "https://acme.atlassian.net/wiki/api/v2",
			},
		},
		{
			name:   "http with port",
			domain: "http://localhost:8090",
			want: Endpoints{
				SiteURL: "http://localhost:8090/wiki",
				APIv1:   "http://localhost:8090/wiki/rest/api",
				APIv2:   "http://localhost:8090/wiki/api/v2",
			},
		},
		{name: "empty", domain: "  ", wantError: "required"},
		{name: "bad scheme", domain: "ftp://acme.example.com", wantError: "scheme"},
		{name: "no host", domain: "https://", wantError: "host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveEndpoints(tt.domain)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.SiteURL+"/pages/1", got.Site("/pages/1"))
		})
	}
}

func TestEndpointsNormalize(t *testing.T) {
	e, err := Endpoints{
		SiteURL: "https://acme.atlassian.net/wiki/",
		APIv1:   "https://acme.atlassian.net/wiki/rest/api//",
		APIv2:   "https://acme.atlassian.net/wiki/api/v2/",
	}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "https://acme.atlassian.net/wiki", e.SiteURL)
	assert.Equal(t, "https://acme.atlassian.net/wiki/api/v2/pages", e.V2("/pages"))
	assert.Equal(t, "https://acme.atlassian.net", e.Origin())

	_, err = Endpoints{SiteURL: "ftp://x", APIv1: "https://x", APIv2: "https://x"}.Normalize()
	assert.Error(t, err)
}

func TestCredentialHeader(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://example.com", nil)
	require.NoError(t, err)

	require.NoError(t, Basic("me@example.com", "s3cret").Apply(req))
	// base64("me@example.com:s3cret")
	assert.Equal(t, "Basic bWVAZXhhbXBsZS5jb206czNjcmV0", req.Header.Get("Authorization"))

	require.NoError(t, Bearer("tok").Apply(req))
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))

	assert.Error(t, Credential{}.Apply(req))
}

func TestCredentialNeverPrintsSecret(t *testing.T) {
	for _, c := range []Credential{Basic("me", "s3cret"), Bearer("s3cret")} {
		assert.NotContains(t, fmt.Sprintf("%v %+v %#v %s", c, c, c, c), "s3cret")
	}
}
