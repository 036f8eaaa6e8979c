package tree

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

// FetchPage gets a page with its body in the given representation
// ("storage", "view" or "atlas_doc_format"). An empty representation fetches
// the page without a body.
func FetchPage(ctx context.Context, c *client.Client, id, representation string) (models.Page, error) {
	u := c.Endpoints().V2("/pages/" + url.PathEscape(id))
	if representation != "" {
		u += "?" + url.Values{"body-format": {representation}}.Encode()
	}

	var page models.Page
	if err := c.GetJSON(ctx, u, &page); err != nil {
		if representation == "" {
			return models.Page{}, fmt.Errorf("error fetching page %s: %w", id, err)
		}
		return models.Page{}, fmt.Errorf("error fetching page %s (body-format=%s): %w", id, representation, err)
	}
	if page.ID == "" {
		page.ID = id
	}
	return page, nil
}
