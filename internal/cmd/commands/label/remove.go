package label

import (
	"fmt"
	"net/url"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
)

type RemoveCommand struct {
	*base.Command

	flagDryRun bool
}

func (c *RemoveCommand) Synopsis() string {
	return "Remove a label from a page"
}

func (c *RemoveCommand) Help() string {
	return `Usage: wikicli label remove [options] <page> <label>

  Removes a global label from a page.` + c.Flags().Help()
}

func (c *RemoveCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("label remove")

	f.BoolVar(&c.flagDryRun, "dry-run", false, "Print what would be removed.")

	return f
}

func (c *RemoveCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 2 {
		c.UI.Error("expected a page and a label")
		return 1
	}
	names, err := labelNames(f.Args()[1:])
	if err != nil {
		return c.Fail(err)
	}
	name := names[0]

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	id, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	if c.flagDryRun {
		c.UI.Output(fmt.Sprintf("Would remove label '%s' from page %s", name, id))
		return 0
	}

	q := url.Values{}
	q.Set("name", name)
	q.Set("prefix", "global")
	u := s.Client.Endpoints().V1("/content/" + url.PathEscape(id) + "/label?" + q.Encode())
	if err := s.Client.Delete(c.Context(), u); err != nil {
		return c.Fail(err)
	}
	c.UI.Output(fmt.Sprintf("Removed label '%s' from page %s", name, id))
	return 0
}
