package resolve

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

// spaceKeyBatch is the maximum number of ids sent in one batched space lookup.
const spaceKeyBatch = 250

var (
	numericRE  = regexp.MustCompile(`^[0-9]+$`)
	pagePathRE = regexp.MustCompile(`/pages/([0-9]+)(?:/|$)`)
)

// NotFoundError is returned when a page or space reference is well formed
// but names nothing on the remote site.
type NotFoundError struct {
	// Kind is "page" or "space".
	Kind string

	// Ref is the title or key that was looked up.
	Ref string

	// Space is the space a page title was looked up in.
	Space string
}

func (e *NotFoundError) Error() string {
	if e.Kind == "page" {
		return fmt.Sprintf("Page '%s' not found in space %s", e.Ref, e.Space)
	}
	return fmt.Sprintf("Space '%s' not found", e.Ref)
}

// ReferenceError is returned when a page reference has none of the accepted
// shapes.
type ReferenceError struct {
	Ref string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("Unable to resolve page reference '%s'. Use a page id, URL, or SPACE:Title.", e.Ref)
}

// Resolver turns human references into ids.
type Resolver struct {
	client *client.Client
	cache  *Cache
	log    hclog.Logger
}

// New creates a Resolver. A nil cache gets a fresh one.
func New(c *client.Client, cache *Cache) *Resolver {
	if cache == nil {
		cache = NewCache(DefaultCacheSize)
	}
	return &Resolver{
		client: c,
		cache:  cache,
		log:    c.Logger().Named("resolver"),
	}
}

// Cache returns the cache the resolver reads and fills.
func (r *Resolver) Cache() *Cache { return r.cache }

// ResolvePage resolves a page id, a page URL or a SPACE:Title reference to a
// page id.
func (r *Resolver) ResolvePage(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", &ReferenceError{Ref: ref}
	}
	if numericRE.MatchString(ref) {
		return ref, nil
	}
	if isURL(ref) {
		if id, ok := ExtractPageIDFromURL(ref); ok {
			return id, nil
		}
		return "", &ReferenceError{Ref: ref}
	}

	spaceRef, title, ok := strings.Cut(ref, ":")
	spaceRef, title = strings.TrimSpace(spaceRef), strings.TrimSpace(title)
	if !ok || spaceRef == "" || title == "" {
		return "", &ReferenceError{Ref: ref}
	}

	spaceID, err := r.ResolveSpace(ctx, spaceRef)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("space-id", spaceID)
	q.Set("title", title)
	q.Set("limit", "1")
	pages, err := client.CollectInto[models.Page](ctx, r.client, r.client.Endpoints().V2("/pages?"+q.Encode()), false)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 || pages[0].ID == "" {
		return "", &NotFoundError{Kind: "page", Ref: title, Space: spaceRef}
	}
	r.log.Debug("resolved page", "ref", ref, "id", pages[0].ID)
	return pages[0].ID, nil
}

// ResolveSpace resolves a space key or id to a space id.
func (r *Resolver) ResolveSpace(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("space reference is required")
	}
	if numericRE.MatchString(ref) {
		return ref, nil
	}
	if id, ok := r.cache.SpaceID(ref); ok {
		return id, nil
	}

	q := url.Values{}
	q.Set("keys", ref)
	q.Set("limit", "1")
	spaces, err := client.CollectInto[models.Space](ctx, r.client, r.client.Endpoints().V2("/spaces?"+q.Encode()), false)
	if err != nil {
		return "", err
	}
	if len(spaces) == 0 || spaces[0].ID == "" {
		return "", &NotFoundError{Kind: "space", Ref: ref}
	}

	r.cache.AddSpace(spaces[0])
	r.log.Debug("resolved space", "key", ref, "id", spaces[0].ID)
	return spaces[0].ID, nil
}

// ResolveSpaceKey returns the display key for a space id. A space without a
// key resolves to its id.
func (r *Resolver) ResolveSpaceKey(ctx context.Context, id string) (string, error) {
	if key, ok := r.cache.SpaceKey(id); ok {
		return key, nil
	}

	var space models.Space
	var raw map[string]any
	if err := r.client.GetJSON(ctx, r.client.Endpoints().V2("/spaces/"+url.PathEscape(id)), &raw); err != nil {
		return "", err
	}
	if err := client.Decode(raw, &space); err != nil {
		return "", err
	}
	if space.ID == "" {
		space.ID = id
	}

	r.cache.AddSpace(space)
	return space.DisplayKey(), nil
}

// ResolveSpaceKeys returns display keys for many space ids. Cached ids are
// served locally; the rest are looked up in batches. Ids the site does not
// know are absent from the result.
func (r *Resolver) ResolveSpaceKeys(ctx context.Context, ids []string) (map[string]string, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return map[string]string{}, nil
	}

	out, misses := r.cache.partition(unique)
	if len(misses) == 0 {
		return out, nil
	}

	r.log.Debug("looking up space keys", "cached", len(out), "missing", len(misses))
	for start := 0; start < len(misses); start += spaceKeyBatch {
		end := min(start+spaceKeyBatch, len(misses))
		chunk := misses[start:end]

		u := r.client.Endpoints().V2(fmt.Sprintf("/spaces?ids=%s&limit=%d", strings.Join(chunk, ","), len(chunk)))
		spaces, err := client.CollectInto[models.Space](ctx, r.client, u, false)
		if err != nil {
			return nil, err
		}
		for _, s := range spaces {
			if s.ID == "" || s.Key == "" {
				continue
			}
			r.cache.AddSpace(s)
			out[s.ID] = s.DisplayKey()
		}
	}
	return out, nil
}

// ExtractPageIDFromURL returns the page id in a /pages/<digits> path segment
// or a pageId query parameter.
func ExtractPageIDFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if m := pagePathRE.FindStringSubmatch(u.Path); m != nil {
		return m[1], true
	}
	if id := u.Query().Get("pageId"); numericRE.MatchString(id) {
		return id, true
	}
	return "", false
}

func isURL(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
