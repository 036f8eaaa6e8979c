package page

import (
	"errors"

	"github.com/pkg/browser"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/tree"
)

type OpenCommand struct {
	*base.Command

	flagDryRun bool

	// open is replaced in tests.
	open func(url string) error
}

func (c *OpenCommand) Synopsis() string {
	return "Open a page in the browser"
}

func (c *OpenCommand) Help() string {
	return `Usage: wikicli page open [options] <page>

  Opens the page in the default web browser.` + c.Flags().Help()
}

func (c *OpenCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("page open")

	f.BoolVar(&c.flagDryRun, "dry-run", false, "Print the URL instead of opening it.")

	return f
}

func (c *OpenCommand) Run(args []string) int {
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
	page, err := tree.FetchPage(c.Context(), s.Client, id, "")
	if err != nil {
		return c.Fail(err)
	}
	u := page.WebURL(s.Client.Endpoints().SiteURL)
	if u == "" {
		return c.Fail(errors.New("page has no web link"))
	}

	if c.flagDryRun {
		c.UI.Output("Would open " + u)
		return 0
	}
	open := c.open
	if open == nil {
		open = browser.OpenURL
	}
	if err := open(u); err != nil {
		return c.Failf("error opening browser: %w", err)
	}
	c.Info("Opened " + u)
	return 0
}
