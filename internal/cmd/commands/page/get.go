package page

import (
	"net/url"
	"strconv"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/bodyformat"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type GetCommand struct {
	*base.Command

	flagBodyFormat string
	flagShowBody   bool
	flagVersion    int
}

func (c *GetCommand) Synopsis() string {
	return "Show a page"
}

func (c *GetCommand) Help() string {
	return `Usage: wikicli page get [options] <page>

  Shows the metadata of a page. With -show-body the body in -body-format is
  printed after the metadata.` + c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("page get")

	f.StringVar(&c.flagBodyFormat, "body-format", "storage", "Body format to request: storage, view or adf.")
	f.BoolVar(&c.flagShowBody, "show-body", false, "Print the page body.")
	f.IntVar(&c.flagVersion, "version", 0, "Fetch a historical version instead of the current one.")

	return f
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one page id or URL")
		return 1
	}

	format := bodyformat.Storage
	if err := format.Set(c.flagBodyFormat); err != nil {
		return c.Fail(err)
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	id, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	q := url.Values{}
	if c.flagShowBody || c.JSON() {
		q.Set("body-format", format.APIValue())
	}
	if c.flagVersion > 0 {
		q.Set("version", strconv.Itoa(c.flagVersion))
	}
	u := s.Client.Endpoints().V2("/pages/" + url.PathEscape(id))
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var page models.Page
	if err := s.Client.GetJSON(c.Context(), u, &page); err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(page)
	}

	spaceKey := page.SpaceID
	if page.SpaceID != "" {
		key, err := s.Resolver.ResolveSpaceKey(c.Context(), page.SpaceID)
		if err != nil {
			c.Log.Debug("error resolving space key", "space_id", page.SpaceID, "error", err)
		} else {
			spaceKey = key
		}
	}

	c.PrintKV([][2]string{
		{"ID", page.ID},
		{"Title", page.Title},
		{"Space", spaceKey},
		{"Status", page.Status},
		{"Version", strconv.Itoa(page.VersionNumber())},
		{"Parent", page.ParentID},
		{"URL", page.WebURL(s.Client.Endpoints().SiteURL)},
	})
	if c.flagShowBody {
		c.UI.Output("")
		c.UI.Output(page.BodyValue(format.APIValue()))
	}
	return 0
}
