package page

import (
	"fmt"
	"strings"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/tree"
)

type TreeCommand struct {
	*base.Command

	flagMaxDepth int
}

func (c *TreeCommand) Synopsis() string {
	return "Print the page hierarchy below a page"
}

func (c *TreeCommand) Help() string {
	return `Usage: wikicli page tree [options] <page>

  Prints a page and its descendants as an indented outline.` + c.Flags().Help()
}

func (c *TreeCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("page tree")

	f.IntVar(&c.flagMaxDepth, "max-depth", 0, "Stop descending at this depth. 0 means unlimited.")

	return f
}

func (c *TreeCommand) Run(args []string) int {
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

	root, err := tree.FetchPage(c.Context(), s.Client, id, "")
	if err != nil {
		return c.Fail(err)
	}
	nodes, err := tree.Discover(c.Context(), s.Client, id, tree.DiscoverOptions{MaxDepth: c.flagMaxDepth})
	if err != nil {
		return c.Fail(err)
	}
	nodes = append([]tree.Node{{ID: root.ID, Title: root.Title}}, nodes...)
	if c.JSON() {
		return c.PrintJSON(nodes)
	}

	var b strings.Builder
	for _, line := range tree.Outline(nodes) {
		fmt.Fprintf(&b, "%s- %s (%s)\n", strings.Repeat("  ", line.Indent), line.Title, line.ID)
	}
	c.UI.Output(strings.TrimRight(b.String(), "\n"))
	return 0
}
