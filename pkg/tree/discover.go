package tree

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

// DefaultPageSize is the page size used for direct-children listings.
const DefaultPageSize = 50

// DiscoverOptions bound a discovery walk.
type DiscoverOptions struct {
	// MaxDepth stops expanding nodes at this depth. Zero means unlimited.
	MaxDepth int

	// Limit caps the number of nodes returned. Zero means unlimited.
	Limit int

	// PageSize is the listing page size, DefaultPageSize if zero.
	PageSize int
}

// Discover walks the descendants of rootID breadth first using only the
// direct-children listing. Each id is returned once, in discovery order.
func Discover(ctx context.Context, c *client.Client, rootID string, opts DiscoverOptions) ([]Node, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	type item struct {
		id    string
		depth int
	}
	queue := []item{{id: rootID}}
	seen := map[string]bool{rootID: true}
	var out []Node

	log := c.Logger().Named("tree")
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if opts.MaxDepth > 0 && cur.depth >= opts.MaxDepth {
			continue
		}
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}

		q := url.Values{}
		q.Set("limit", strconv.Itoa(pageSize))
		listURL := c.Endpoints().V2("/pages/" + url.PathEscape(cur.id) + "/direct-children?" + q.Encode())
		children, err := client.CollectInto[models.Page](ctx, c, listURL, true)
		if err != nil {
			return out, fmt.Errorf("error listing children of page %s: %w", cur.id, err)
		}
		log.Trace("listed children", "parent", cur.id, "depth", cur.depth, "count", len(children))

		for _, child := range children {
			if child.ID == "" || seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			out = append(out, Node{
				ID:       child.ID,
				ParentID: cur.id,
				Title:    child.Title,
				Position: child.ChildPosition,
				Depth:    cur.depth + 1,
			})
			queue = append(queue, item{id: child.ID, depth: cur.depth + 1})
			if opts.Limit > 0 && len(out) >= opts.Limit {
				break
			}
		}
	}

	log.Debug("discovered descendants", "root", rootID, "count", len(out))
	return out, nil
}
