package page

import (
	"fmt"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/bodyformat"
	"github.com/hashicorp-forge/wikicli/pkg/markdown"
	"github.com/hashicorp-forge/wikicli/pkg/tree"
)

type BodyCommand struct {
	*base.Command

	flagFormat          bodyformat.Format
	flagKeepEmptyItems  bool
	flagNoSourceComment bool
}

func (c *BodyCommand) Synopsis() string {
	return "Print the body of a page"
}

func (c *BodyCommand) Help() string {
	return `Usage: wikicli page body [options] <page>

  Prints the body of a page. The default format is markdown, converted
  locally from the rendered view and preceded by a comment naming the
  source page.` + c.Flags().Help()
}

func (c *BodyCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("page body")

	c.flagFormat = bodyformat.Markdown
	f.Var(&c.flagFormat, "format", "Body format: markdown, view, storage or adf.")
	f.BoolVar(&c.flagKeepEmptyItems, "keep-empty-list-items", false, "Keep list items without text in markdown output.")
	f.BoolVar(&c.flagNoSourceComment, "no-source-comment", false, "Omit the source comment in markdown output.")

	return f
}

func (c *BodyCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one page id or URL")
		return 1
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	id, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	page, err := tree.FetchPage(c.Context(), s.Client, id, c.flagFormat.APIValue())
	if err != nil {
		return c.Fail(err)
	}
	body := page.BodyValue(c.flagFormat.APIValue())

	if c.flagFormat != bodyformat.Markdown {
		if c.JSON() {
			return c.PrintJSON(map[string]string{"id": page.ID, "format": c.flagFormat.String(), "body": body})
		}
		c.UI.Output(body)
		return 0
	}

	siteURL := s.Client.Endpoints().SiteURL
	conv := markdown.NewConverter(c.Log, markdown.Options{KeepEmptyListItems: c.flagKeepEmptyItems})
	md, err := conv.Convert(body, siteURL)
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(map[string]string{"id": page.ID, "format": c.flagFormat.String(), "body": md})
	}
	if !c.flagNoSourceComment && page.Links.WebUI != "" {
		md = fmt.Sprintf("<!-- Source: %s -->\n\n%s", page.WebURL(siteURL), md)
	}
	c.UI.Output(md)
	return 0
}
