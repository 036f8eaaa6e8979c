package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/wikicli/pkg/auth"
)

func ids(items []map[string]any) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, Str(it, "id"))
	}
	return out
}

func TestCollectFollowsBodyNextLinks(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"results":[{"id":"1"},{"id":"2"}],"_links":{"next":"/wiki/api/v2/pages?cursor=abc"}}`)
		case "abc":
			fmt.Fprint(w, `{"results":[{"id":"3"}],"_links":{"next":"?cursor=def"}}`)
		case "def":
			fmt.Fprint(w, `{"results":[{"id":4}]}`)
		}
	}))
	defer srv.Close()
	srvURL = srv.URL

	c, _ := newTestClient(t, srvURL)

	items, err := c.Collect(context.Background(), srvURL+"/wiki/api/v2/pages?limit=2", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(items))

	first, err := c.Collect(context.Background(), srvURL+"/wiki/api/v2/pages?limit=2", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(first))
}

func TestCollectPrefersLinkHeader(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.RequestURI())
		if r.URL.Query().Get("cursor") == "" {
			w.Header().Set("Link", `</wiki/api/v2/spaces?cursor=hdr>; rel="next", </wiki/api/v2/spaces>; rel="first"`)
			fmt.Fprint(w, `{"results":[{"id":"a"}],"_links":{"next":"/wiki/api/v2/spaces?cursor=body"}}`)
			return
		}
		fmt.Fprint(w, `{"results":[{"id":"b"}]}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	items, err := c.Collect(context.Background(), srv.URL+"/wiki/api/v2/spaces", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(items))
	assert.Equal(t, []string{"/wiki/api/v2/spaces", "/wiki/api/v2/spaces?cursor=hdr"}, requested)
}

func TestCollectJoinsV1BasePath(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "" {
			fmt.Fprintf(w, `{"results":[{"id":"1"}],"_links":{"base":"%s/wiki","next":"/rest/api/search?cql=x&start=1"}}`, srvURL)
			return
		}
		assert.Equal(t, "/wiki/rest/api/search", r.URL.Path)
		fmt.Fprint(w, `{"results":[{"id":"2"}],"_links":{}}`)
	}))
	defer srv.Close()
	srvURL = srv.URL

	c, _ := newTestClient(t, srvURL)
	items, err := c.Collect(context.Background(), srvURL+"/wiki/rest/api/search?cql=x", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(items))
}

func TestCollectDetectsLoop(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		// Every page points back at the first one.
		fmt.Fprint(w, `{"results":[{"id":"1"}],"_links":{"next":"/wiki/api/v2/pages"}}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	_, err := c.Collect(context.Background(), srv.URL+"/wiki/api/v2/pages", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaginationLoop)
	assert.True(t, IsProtocol(err))
	assert.Contains(t, err.Error(), "Pagination loop detected")
	assert.Equal(t, int32(1), hits.Load())
}

func TestCollectPageCeiling(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		fmt.Fprintf(w, `{"results":[],"_links":{"next":"/wiki/api/v2/pages?cursor=%d"}}`, n)
	}))
	defer srv.Close()

	c, err := New(Config{
		Endpoints:  testEndpoints(srv.URL),
		Credential: auth.Bearer("t"),
		MaxPages:   5,
	})
	require.NoError(t, err)

	_, err = c.Collect(context.Background(), srv.URL+"/wiki/api/v2/pages", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaginationAborted)
	assert.Equal(t, int32(5), hits.Load())
}

func TestCollectShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []string
		wantErr error
	}{
		{name: "results", body: `{"results":[{"id":"1"}]}`, want: []string{"1"}},
		{name: "items", body: `{"items":[{"id":"2"}]}`, want: []string{"2"}},
		{name: "bare array", body: `[{"id":"3"},{"id":"4"}]`, want: []string{"3", "4"}},
		{name: "empty results", body: `{"results":[]}`, want: []string{}},
		{name: "missing list", body: `{"id":"5"}`, wantErr: ErrUnexpectedShape},
		{name: "scalar elements", body: `[1,2]`, wantErr: ErrUnexpectedShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			c, _ := newTestClient(t, srv.URL)
			items, err := c.Collect(context.Background(), srv.URL, true)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(items))
		})
	}
}

func TestResolveNextRelativeQuery(t *testing.T) {
	got, err := resolveNext("https://acme.atlassian.net/wiki/api/v2/pages?limit=25", "?cursor=abc")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.atlassian.net/wiki/api/v2/pages?cursor=abc", got)

	got, err = resolveNext("https://acme.atlassian.net/wiki/api/v2/pages", "https://other.example.com/next")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com/next", got)
}

func TestNextLinkFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: `</a?cursor=1>; rel="next"`, want: "/a?cursor=1"},
		{header: `</a?cursor=1>; rel=next`, want: "/a?cursor=1"},
		{header: `</prev>; rel="prev", </next>; rel="next"`, want: "/next"},
		{header: `</base>; rel="base"`, want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextLinkFromHeader(tt.header), tt.header)
	}
}

type testPage struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ChildPosition int    `json:"childPosition"`
}

func TestCollectInto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":12,"title":"A","childPosition":3},{"id":"13","title":"B","childPosition":"1"}]}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	pages, err := CollectInto[testPage](context.Background(), c, srv.URL, false)
	require.NoError(t, err)
	assert.Equal(t, []testPage{
		{ID: "12", Title: "A", ChildPosition: 3},
		{ID: "13", Title: "B", ChildPosition: 1},
	}, pages)
}
