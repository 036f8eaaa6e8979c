package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Collect walks a paginated list endpoint starting at initialURL. It returns
// the items of the first page only unless all is true, in which case it
// follows next links until none remain.
//
// The next link is taken from the Link header (rel="next") when present and
// from the body's _links.next otherwise. Relative links are resolved against
// the URL of the page that produced them. A link that was already visited
// during this walk fails with ErrPaginationLoop, and walks longer than the
// configured page ceiling fail with ErrPaginationAborted.
func (c *Client) Collect(ctx context.Context, initialURL string, all bool) ([]map[string]any, error) {
	var items []map[string]any
	err := c.Walk(ctx, initialURL, all, func(page []map[string]any) error {
		items = append(items, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []map[string]any{}
	}
	return items, nil
}

// Walk is like Collect but hands each page to fn as it arrives. Returning an
// error from fn stops the walk.
func (c *Client) Walk(ctx context.Context, initialURL string, all bool, fn func(page []map[string]any) error) error {
	visited := map[string]struct{}{initialURL: {}}
	current := initialURL

	for pages := 1; ; pages++ {
		if pages > c.cfg.MaxPages {
			return protocolError(current, ErrPaginationAborted)
		}

		page, next, err := c.fetchPage(ctx, current)
		if err != nil {
			return err
		}
		if err := fn(page); err != nil {
			return err
		}

		if !all || next == "" {
			return nil
		}

		resolved, err := resolveNext(current, next)
		if err != nil {
			return protocolError(current, fmt.Errorf("invalid next link %q: %w", next, err))
		}
		if _, seen := visited[resolved]; seen {
			return protocolError(resolved, ErrPaginationLoop)
		}
		visited[resolved] = struct{}{}

		c.log.Trace("following next link", "url", resolved, "page", pages+1)
		current = resolved
	}
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]map[string]any, string, error) {
	resp, err := c.Send(ctx, http.MethodGet, pageURL)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Kind: KindTransient, Method: http.MethodGet, URL: pageURL, Attempts: 1, Err: err}
	}

	var body any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, "", protocolError(pageURL, fmt.Errorf("error decoding list response: %w", err))
	}

	items, err := pageItems(body)
	if err != nil {
		return nil, "", protocolError(pageURL, err)
	}

	next := NextLinkFromHeader(resp.Header.Get("Link"))
	if next == "" {
		next = nextLinkFromBody(body)
	}
	return items, next, nil
}

// pageItems extracts the list from a response: a "results" or "items" array
// on an object, or the body itself when it is an array.
func pageItems(body any) ([]map[string]any, error) {
	var list []any
	switch v := body.(type) {
	case []any:
		list = v
	case map[string]any:
		found := false
		for _, key := range []string{"results", "items"} {
			if arr, ok := v[key].([]any); ok {
				list = arr
				found = true
				break
			}
		}
		if !found {
			return nil, ErrUnexpectedShape
		}
	default:
		return nil, ErrUnexpectedShape
	}

	items := make([]map[string]any, 0, len(list))
	for _, raw := range list {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: list element is %T, not an object", ErrUnexpectedShape, raw)
		}
		items = append(items, item)
	}
	return items, nil
}

// NextLinkFromHeader returns the rel="next" target of an RFC 8288 Link header.
func NextLinkFromHeader(header string) string {
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range segments[1:] {
			param = strings.TrimSpace(param)
			if param == `rel="next"` || param == "rel=next" {
				return strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")
			}
		}
	}
	return ""
}

// nextLinkFromBody reads _links.next. The v1 generation returns next links
// relative to _links.base, which carries the site path prefix.
func nextLinkFromBody(body any) string {
	obj, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	links, ok := obj["_links"].(map[string]any)
	if !ok {
		return ""
	}
	next, _ := links["next"].(string)
	next = strings.TrimSpace(next)
	if next == "" {
		return ""
	}

	base, _ := links["base"].(string)
	if base == "" || !strings.HasPrefix(next, "/") {
		return next
	}
	bu, err := url.Parse(base)
	if err != nil || bu.Path == "" || strings.HasPrefix(next, bu.Path+"/") {
		return next
	}
	return strings.TrimRight(base, "/") + next
}

func resolveNext(current, next string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(next)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
