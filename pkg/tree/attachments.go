package tree

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/spf13/afero"

	"github.com/hashicorp-forge/wikicli/pkg/auth"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
	"github.com/hashicorp-forge/wikicli/pkg/transfer"
)

// ListAttachments returns every attachment of a page.
func ListAttachments(ctx context.Context, c *client.Client, pageID string) ([]models.Attachment, error) {
	listURL := c.Endpoints().V2("/pages/" + url.PathEscape(pageID) + "/attachments?limit=" + strconv.Itoa(DefaultPageSize))
	items, err := client.CollectInto[models.Attachment](ctx, c, listURL, true)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments of page %s: %w", pageID, err)
	}
	return items, nil
}

// PlanDownloads maps attachments whose title matches filter to files in dir.
// A nil filter matches everything. Names already on disk or taken earlier in
// the batch get a " (n)" suffix.
func PlanDownloads(e auth.Endpoints, fs afero.Fs, items []models.Attachment, dir string, filter *regexp.Regexp) ([]transfer.Download, error) {
	reserved := make(map[string]bool)
	var downloads []transfer.Download
	for _, a := range items {
		if filter != nil && !filter.MatchString(a.Title) {
			continue
		}
		name := transfer.SanitizeFilename(a.Title, "")
		if name == "" {
			return nil, fmt.Errorf("unsafe attachment title: %q", a.Title)
		}
		src, err := transfer.AttachmentDownloadURL(e, a.DownloadPath())
		if err != nil {
			return nil, err
		}
		dest, err := transfer.UniquePathFunc(filepath.Join(dir, name), func(p string) (bool, error) {
			if reserved[p] {
				return true, nil
			}
			return afero.Exists(fs, p)
		})
		if err != nil {
			return nil, err
		}
		reserved[dest] = true
		downloads = append(downloads, transfer.Download{URL: src, Dest: dest, Label: a.Title})
	}
	return downloads, nil
}
