package page

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/bodyformat"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type CreateCommand struct {
	*base.Command

	flagSpace      string
	flagTitle      string
	flagParent     string
	flagBody       string
	flagBodyFile   string
	flagBodyFormat string
	bodyFormat     bodyformat.Format
	flagStatus     string
	flagDryRun     bool

	stdin io.Reader
}

func (c *CreateCommand) Synopsis() string {
	return "Create a page"
}

func (c *CreateCommand) Help() string {
	return `Usage: wikicli page create [options]

  Creates a page in a space. The title defaults to the name of -body-file
  without its extension.` + c.Flags().Help()
}

func (c *CreateCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("page create")

	f.StringVar(&c.flagSpace, "space", "", "Space key or id. Required.")
	f.StringVar(&c.flagTitle, "title", "", "Page title.")
	f.StringVar(&c.flagParent, "parent", "", "Parent page id or URL.")
	f.StringVar(&c.flagBody, "body", "", "Page body.")
	f.StringVar(&c.flagBodyFile, "body-file", "", "Read the body from a file, or '-' for standard input.")
	f.StringVar(&c.flagBodyFormat, "body-format", "storage", "Representation of the body: storage or adf.")
	f.StringVar(&c.flagStatus, "status", "current", "Page status, current or draft.")
	f.BoolVar(&c.flagDryRun, "dry-run", false, "Print what would be created.")

	return f
}

func (c *CreateCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 0 {
		c.UI.Error("unexpected arguments")
		return 1
	}
	if c.flagSpace == "" {
		c.UI.Error("-space is required")
		return 1
	}
	format, err := bodyformat.ParseWritable(c.flagBodyFormat)
	if err != nil {
		return c.Fail(err)
	}
	c.bodyFormat = format

	title := c.flagTitle
	if title == "" {
		title = titleFromFile(c.flagBodyFile)
	}
	if title == "" {
		return c.Fail(errors.New("missing -title (or provide -body-file to derive it)"))
	}
	body, err := base.ReadBody(c.Fs, c.stdin, c.flagBody, c.flagBodyFile)
	if err != nil {
		return c.Fail(err)
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	spaceID, err := s.Resolver.ResolveSpace(c.Context(), c.flagSpace)
	if err != nil {
		return c.Fail(err)
	}
	var parentID string
	if c.flagParent != "" {
		if parentID, err = s.Resolver.ResolvePage(c.Context(), c.flagParent); err != nil {
			return c.Fail(err)
		}
	}

	if c.flagDryRun {
		c.UI.Output(fmt.Sprintf("Would create page '%s' in space %s", title, c.flagSpace))
		return 0
	}

	payload := models.PageCreate{
		SpaceID:  spaceID,
		Status:   c.flagStatus,
		Title:    title,
		ParentID: parentID,
		Body:     models.BodyRepresents{Representation: c.bodyFormat.APIValue(), Value: body},
	}
	var page models.Page
	if err := s.Client.PostJSON(c.Context(), s.Client.Endpoints().V2("/pages"), payload, &page); err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(page)
	}
	c.PrintKV([][2]string{
		{"ID", page.ID},
		{"Title", page.Title},
		{"Status", page.Status},
		{"URL", page.WebURL(s.Client.Endpoints().SiteURL)},
	})
	return 0
}
