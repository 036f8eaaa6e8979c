package space

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
	"github.com/hashicorp-forge/wikicli/pkg/tree"
)

type PagesCommand struct {
	*base.Command

	flagDepth  string
	flagTree   bool
	flagStatus string
	flagTitle  string
	flagLimit  int
	flagAll    bool
}

func (c *PagesCommand) Synopsis() string {
	return "List the pages of a space"
}

func (c *PagesCommand) Help() string {
	return `Usage: wikicli space pages [options] <space>

  Lists the pages of a space. With -tree the pages are printed as an
  indented outline ordered by their position among siblings.` + c.Flags().Help()
}

func (c *PagesCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("space pages")

	f.StringVar(&c.flagDepth, "depth", "all", "Either all or root.")
	f.BoolVar(&c.flagTree, "tree", false, "Print an indented outline.")
	f.StringVar(&c.flagStatus, "status", "", "Filter by page status.")
	f.StringVar(&c.flagTitle, "title", "", "Filter by exact title.")
	f.IntVar(&c.flagLimit, "limit", 50, "Results per request.")
	f.BoolVar(&c.flagAll, "all", false, "Follow pagination and fetch every result.")

	return f
}

func (c *PagesCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one space key or id")
		return 1
	}
	if c.flagDepth != "all" && c.flagDepth != "root" {
		c.UI.Error("-depth must be all or root")
		return 1
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	spaceID, err := s.Resolver.ResolveSpace(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(max(c.flagLimit, 1)))
	q.Set("depth", c.flagDepth)
	if c.flagStatus != "" {
		q.Set("status", c.flagStatus)
	}
	if c.flagTitle != "" {
		q.Set("title", c.flagTitle)
	}
	u := s.Client.Endpoints().V2("/spaces/" + url.PathEscape(spaceID) + "/pages?" + q.Encode())
	pages, err := client.CollectInto[models.Page](c.Context(), s.Client, u, c.flagAll)
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(pages)
	}

	if c.flagTree {
		nodes := make([]tree.Node, 0, len(pages))
		for _, p := range pages {
			nodes = append(nodes, tree.Node{ID: p.ID, ParentID: p.ParentID, Title: p.Title, Position: p.ChildPosition})
		}
		var b strings.Builder
		for _, line := range tree.Outline(nodes) {
			fmt.Fprintf(&b, "%s- %s (%s)\n", strings.Repeat("  ", line.Indent), line.Title, line.ID)
		}
		c.UI.Output(strings.TrimRight(b.String(), "\n"))
		return 0
	}

	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		rows = append(rows, []string{p.ID, p.Title, p.Status, p.ParentID})
	}
	c.PrintTable([]string{"ID", "Title", "Status", "Parent"}, rows)
	return 0
}
