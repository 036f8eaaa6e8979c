package tree

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"regexp"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/wikicli/pkg/bodyformat"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/markdown"
	"github.com/hashicorp-forge/wikicli/pkg/models"
	"github.com/hashicorp-forge/wikicli/pkg/resolve"
	"github.com/hashicorp-forge/wikicli/pkg/transfer"
)

// ExportOptions configure an export.
type ExportOptions struct {
	PageID string
	Dest   string
	Format bodyformat.Format

	SkipAttachments bool

	// Attachments is a glob matched against attachment titles. Empty
	// selects every attachment.
	Attachments string

	// Recursive exports descendants into nested folders.
	Recursive bool
	MaxDepth  int

	Concurrency int
}

// Exported describes the files written for one page.
type Exported struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Dir         string   `json:"dir"`
	Meta        string   `json:"meta"`
	Content     string   `json:"content"`
	Attachments []string `json:"attachments"`
}

// Meta is the content of meta.json.
type Meta struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	SpaceID  string `json:"spaceId"`
	SpaceKey string `json:"spaceKey"`
	SiteURL  string `json:"siteUrl"`
}

type frontmatter struct {
	Title   string `yaml:"title"`
	ID      string `yaml:"id"`
	Space   string `yaml:"space,omitempty"`
	Version int    `yaml:"version,omitempty"`
	Source  string `yaml:"source,omitempty"`
}

// Exporter writes pages, and optionally their subtrees, to disk.
type Exporter struct {
	client    *client.Client
	resolver  *resolve.Resolver
	fs        afero.Fs
	downloads *transfer.Downloader
	markdown  *markdown.Converter
	log       hclog.Logger
}

// NewExporter creates an Exporter writing through fs.
func NewExporter(c *client.Client, r *resolve.Resolver, fs afero.Fs) *Exporter {
	return &Exporter{
		client:    c,
		resolver:  r,
		fs:        fs,
		downloads: transfer.NewDownloader(c, fs),
		markdown:  markdown.NewConverter(c.Logger(), markdown.Options{}),
		log:       c.Logger().Named("export"),
	}
}

// Export writes the page to <Dest>/<title>--<id>/. Descendants, when
// requested, go in nested folders under their parent's folder. Bodies are
// fetched concurrently; pages are written parent first.
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) ([]Exported, error) {
	if opts.Format == 0 {
		opts.Format = bodyformat.Markdown
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	var attachments *regexp.Regexp
	if opts.Attachments != "" {
		re, err := CompileGlob(opts.Attachments)
		if err != nil {
			return nil, err
		}
		attachments = re
	}

	ids := []string{opts.PageID}
	var nodes []Node
	if opts.Recursive {
		var err error
		nodes, err = Discover(ctx, e.client, opts.PageID, DiscoverOptions{MaxDepth: opts.MaxDepth})
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			ids = append(ids, n.ID)
		}
	}

	tasks := make([]transfer.Task[models.Page], 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, func(ctx context.Context) (models.Page, error) {
			return FetchPage(ctx, e.client, id, opts.Format.APIValue())
		})
	}
	results, err := transfer.Run(ctx, opts.Concurrency, tasks)
	if err != nil {
		return nil, err
	}
	pages := transfer.Values(results)

	spaceIDs := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.SpaceID != "" {
			spaceIDs = append(spaceIDs, p.SpaceID)
		}
	}
	spaceKeys, err := e.resolver.ResolveSpaceKeys(ctx, spaceIDs)
	if err != nil {
		e.log.Warn("unable to resolve space keys", "error", err)
		spaceKeys = map[string]string{}
	}

	// Discovery order puts parents before children.
	dirs := map[string]string{opts.PageID: opts.Dest}
	parents := make(map[string]string, len(nodes))
	for _, n := range nodes {
		parents[n.ID] = n.ParentID
	}

	out := make([]Exported, 0, len(pages))
	for _, page := range pages {
		parentDir := opts.Dest
		if parent, ok := parents[page.ID]; ok {
			parentDir = dirs[parent]
		}
		dir := filepath.Join(parentDir, transfer.SanitizeFilename(page.Title, "untitled")+"--"+page.ID)
		dirs[page.ID] = dir

		exported, err := e.writePage(ctx, page, dir, spaceKeys[page.SpaceID], opts, attachments)
		if err != nil {
			return out, err
		}
		out = append(out, exported)
	}
	return out, nil
}

func (e *Exporter) writePage(ctx context.Context, page models.Page, dir, spaceKey string, opts ExportOptions, attachments *regexp.Regexp) (Exported, error) {
	if err := e.fs.MkdirAll(dir, 0o755); err != nil {
		return Exported{}, client.LocalError("create directory", dir, err)
	}

	siteURL := e.client.Endpoints().SiteURL
	meta := Meta{
		ID:       page.ID,
		Title:    page.Title,
		SpaceID:  page.SpaceID,
		SpaceKey: spaceKey,
		SiteURL:  siteURL,
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Exported{}, err
	}
	metaPath := filepath.Join(dir, "meta.json")
	if err := afero.WriteFile(e.fs, metaPath, metaJSON, 0o644); err != nil {
		return Exported{}, client.LocalError("write", metaPath, err)
	}

	content, err := e.render(page, spaceKey, opts.Format)
	if err != nil {
		return Exported{}, err
	}
	contentPath := filepath.Join(dir, opts.Format.FileName())
	if err := afero.WriteFile(e.fs, contentPath, content, 0o644); err != nil {
		return Exported{}, client.LocalError("write", contentPath, err)
	}

	exported := Exported{
		ID:          page.ID,
		Title:       page.Title,
		Dir:         dir,
		Meta:        metaPath,
		Content:     contentPath,
		Attachments: []string{},
	}
	if opts.SkipAttachments {
		return exported, nil
	}

	written, err := e.writeAttachments(ctx, page.ID, filepath.Join(dir, "attachments"), attachments, opts.Concurrency)
	if err != nil {
		return exported, err
	}
	exported.Attachments = written
	e.log.Debug("exported page", "id", page.ID, "dir", dir, "attachments", len(written))
	return exported, nil
}

// render produces the content file for page in the requested format.
func (e *Exporter) render(page models.Page, spaceKey string, format bodyformat.Format) ([]byte, error) {
	body := page.BodyValue(format.APIValue())
	switch format {
	case bodyformat.Markdown:
		md, err := e.markdown.Convert(body, e.client.Endpoints().SiteURL)
		if err != nil {
			return nil, err
		}
		head, err := yaml.Marshal(frontmatter{
			Title:   page.Title,
			ID:      page.ID,
			Space:   spaceKey,
			Version: page.VersionNumber(),
			Source:  page.WebURL(e.client.Endpoints().SiteURL),
		})
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		buf.WriteString("---\n")
		buf.Write(head)
		buf.WriteString("---\n\n")
		buf.WriteString(md)
		buf.WriteString("\n")
		return buf.Bytes(), nil
	case bodyformat.ADF:
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, []byte(body), "", "  "); err != nil {
			return []byte(body), nil
		}
		return pretty.Bytes(), nil
	default:
		return []byte(body), nil
	}
}

func (e *Exporter) writeAttachments(ctx context.Context, pageID, dir string, filter *regexp.Regexp, concurrency int) ([]string, error) {
	if err := e.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, client.LocalError("create directory", dir, err)
	}

	items, err := ListAttachments(ctx, e.client, pageID)
	if err != nil {
		return nil, err
	}
	downloads, err := PlanDownloads(e.client.Endpoints(), e.fs, items, dir, filter)
	if err != nil {
		return nil, err
	}

	done, err := e.downloads.DownloadAll(ctx, downloads, concurrency)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(done))
	for _, d := range done {
		paths = append(paths, d.Dest)
	}
	return paths, nil
}
