package page

import (
	"net/url"
	"strconv"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
	"github.com/hashicorp-forge/wikicli/pkg/tree"
)

type ChildrenCommand struct {
	*base.Command

	flagRecursive bool
	flagMaxDepth  int
	flagLimit     int
	flagAll       bool
}

func (c *ChildrenCommand) Synopsis() string {
	return "List the children of a page"
}

func (c *ChildrenCommand) Help() string {
	return `Usage: wikicli page children [options] <page>

  Lists the direct children of a page. With -recursive every descendant is
  listed along with its depth below the page.` + c.Flags().Help()
}

func (c *ChildrenCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("page children")

	f.BoolVar(&c.flagRecursive, "recursive", false, "List all descendants.")
	f.IntVar(&c.flagMaxDepth, "max-depth", 0, "With -recursive, stop descending at this depth. 0 means unlimited.")
	f.IntVar(&c.flagLimit, "limit", tree.DefaultPageSize, "Results per request, or with -recursive the total number of pages.")
	f.BoolVar(&c.flagAll, "all", false, "Follow pagination and fetch every result.")

	return f
}

func (c *ChildrenCommand) Run(args []string) int {
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

	if c.flagRecursive {
		opts := tree.DiscoverOptions{MaxDepth: c.flagMaxDepth}
		if !c.flagAll {
			opts.Limit = max(c.flagLimit, 1)
		}
		nodes, err := tree.Discover(c.Context(), s.Client, id, opts)
		if err != nil {
			return c.Fail(err)
		}
		if c.JSON() {
			return c.PrintJSON(nodes)
		}
		rows := make([][]string, 0, len(nodes))
		for _, n := range nodes {
			rows = append(rows, []string{n.ID, n.Title, n.ParentID, strconv.Itoa(n.Depth)})
		}
		c.PrintTable([]string{"ID", "Title", "Parent", "Depth"}, rows)
		return 0
	}

	u := s.Client.Endpoints().V2("/pages/" + url.PathEscape(id) + "/direct-children?limit=" + strconv.Itoa(max(c.flagLimit, 1)))
	children, err := client.CollectInto[models.Page](c.Context(), s.Client, u, c.flagAll)
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(children)
	}
	rows := make([][]string, 0, len(children))
	for _, p := range children {
		rows = append(rows, []string{p.ID, p.Title, p.Status, strconv.Itoa(p.ChildPosition)})
	}
	c.PrintTable([]string{"ID", "Title", "Status", "Position"}, rows)
	return 0
}
