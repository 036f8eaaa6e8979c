package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/wikicli/pkg/auth"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

// fakeSite records every request path+query it serves.
type fakeSite struct {
	mu       sync.Mutex
	requests []string
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path+"?"+r.URL.RawQuery)
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeSite) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func newResolver(t *testing.T, site *fakeSite) *Resolver {
	t.Helper()
	srv := httptest.NewServer(site)
	t.Cleanup(srv.Close)

	c, err := client.New(client.Config{
		Endpoints: auth.Endpoints{
			SiteURL: srv.URL + "/wiki",
			APIv1:   srv.URL + "/wiki/rest/api",
			APIv2:   srv.URL + "/wiki/api/v2",
		},
		Credential: auth.Bearer("t"),
	})
	require.NoError(t, err)
	return New(c, NewCache(DefaultCacheSize))
}

func TestResolvePageSpaceTitle(t *testing.T) {
	site := &fakeSite{handler: func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/wiki/api/v2/spaces":
			if q.Get("keys") == "ENG" {
				fmt.Fprint(w, `{"results":[{"id":"10","key":"ENG","name":"Engineering"}]}`)
				return
			}
			fmt.Fprint(w, `{"results":[]}`)
		case "/wiki/api/v2/pages":
			if q.Get("space-id") == "10" && q.Get("title") == "Overview" {
				fmt.Fprint(w, `{"results":[{"id":"99","title":"Overview"}]}`)
				return
			}
			fmt.Fprint(w, `{"results":[]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}}
	r := newResolver(t, site)
	ctx := context.Background()

	id, err := r.ResolvePage(ctx, "ENG:Overview")
	require.NoError(t, err)
	assert.Equal(t, "99", id)

	id, err = r.ResolvePage(ctx, "ENG:Overview")
	require.NoError(t, err)
	assert.Equal(t, "99", id)

	assert.Equal(t, 1, site.count("/wiki/api/v2/spaces?"))
	assert.Equal(t, 2, site.count("/wiki/api/v2/pages?"))

	key, err := r.ResolveSpaceKey(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, "ENG", key)
	assert.Equal(t, 1, site.count("/wiki/api/v2/spaces"))

	_, err = r.ResolvePage(ctx, "ENG:Missing")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Page 'Missing' not found in space ENG", err.Error())

	_, err = r.ResolvePage(ctx, "NOPE:Anything")
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Space 'NOPE' not found", err.Error())
}

func TestResolvePageWithoutNetwork(t *testing.T) {
	site := &fakeSite{handler: func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}}
	r := newResolver(t, site)

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "numeric", ref: "12345", want: "12345"},
		{name: "padded numeric", ref: "  42 ", want: "42"},
		{name: "page url", ref: "https://acme.atlassian.net/wiki/spaces/ENG/pages/777/Some+Title", want: "777"},
		{name: "page url trailing", ref: "https://acme.atlassian.net/wiki/spaces/ENG/pages/778", want: "778"},
		{name: "pageId query", ref: "https://acme.atlassian.net/wiki/pages/viewpage.action?pageId=555", want: "555"},
		{name: "url without id", ref: "https://acme.atlassian.net/wiki/spaces/ENG", wantErr: true},
		{name: "bare word", ref: "Overview", wantErr: true},
		{name: "empty title", ref: "ENG:", wantErr: true},
		{name: "empty", ref: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolvePage(context.Background(), tt.ref)
			if tt.wantErr {
				var refErr *ReferenceError
				require.True(t, errors.As(err, &refErr), "got %v", err)
				assert.Contains(t, err.Error(), "Use a page id, URL, or SPACE:Title.")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Empty(t, site.requests)
}

func TestResolveSpaceKeys(t *testing.T) {
	site := &fakeSite{handler: func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		var items []string
		for _, id := range ids {
			switch id {
			case "3":
				items = append(items, `{"id":"3","key":"~abc123","name":"Jane Doe"}`)
			case "404":
				// unknown to the site
			default:
				items = append(items, fmt.Sprintf(`{"id":"%s","key":"K%s"}`, id, id))
			}
		}
		fmt.Fprintf(w, `{"results":[%s]}`, strings.Join(items, ","))
	}}
	r := newResolver(t, site)
	r.Cache().AddSpace(models.Space{ID: "1", Key: "ONE"})

	got, err := r.ResolveSpaceKeys(context.Background(), []string{"1", "2", "2", "3", "404", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "ONE", "2": "K2", "3": "Jane Doe"}, got)

	require.Len(t, site.requests, 1)
	assert.Contains(t, site.requests[0], "ids=2,3,404")
	assert.Contains(t, site.requests[0], "limit=3")

	// Everything found is now cached.
	got, err = r.ResolveSpaceKeys(context.Background(), []string{"2", "3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2": "K2", "3": "Jane Doe"}, got)
	assert.Len(t, site.requests, 1)
}

func TestResolveSpaceKeysChunks(t *testing.T) {
	var sizes []int
	var mu sync.Mutex
	site := &fakeSite{}
	site.handler = func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		mu.Lock()
		sizes = append(sizes, len(ids))
		mu.Unlock()
		fmt.Fprint(w, `{"results":[]}`)
	}
	r := newResolver(t, site)

	ids := make([]string, 0, 300)
	for i := 0; i < 300; i++ {
		ids = append(ids, fmt.Sprint(i+1))
	}
	got, err := r.ResolveSpaceKeys(context.Background(), ids)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, []int{250, 50}, sizes)
}

func TestResolveSpaceKeyFallsBackToID(t *testing.T) {
	site := &fakeSite{handler: func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"77","name":"No key"}`)
	}}
	r := newResolver(t, site)

	key, err := r.ResolveSpaceKey(context.Background(), "77")
	require.NoError(t, err)
	assert.Equal(t, "77", key)
}

func TestCacheEvicts(t *testing.T) {
	c := NewCache(2)
	c.AddSpace(models.Space{ID: "1", Key: "A"})
	c.AddSpace(models.Space{ID: "2", Key: "B"})
	c.AddSpace(models.Space{ID: "3", Key: "C"})

	_, ok := c.SpaceKey("1")
	assert.False(t, ok)
	key, ok := c.SpaceKey("3")
	assert.True(t, ok)
	assert.Equal(t, "C", key)
	assert.Equal(t, 2, c.Len())
}
