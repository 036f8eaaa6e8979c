package page

import (
	"fmt"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/tree"
)

type DeleteCommand struct {
	*base.Command

	flagPurge  bool
	flagForce  bool
	flagYes    bool
	flagDryRun bool
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete a page"
}

func (c *DeleteCommand) Help() string {
	return `Usage: wikicli page delete [options] <page>

  Moves a page to the trash. With -purge a trashed page is removed
  permanently; add -force to trash and purge a live page in one step.` + c.Flags().Help()
}

func (c *DeleteCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("page delete")

	f.BoolVar(&c.flagPurge, "purge", false, "Permanently purge the page.")
	f.BoolVar(&c.flagForce, "force", false, "With -purge, trash the page first if needed.")
	f.BoolVar(&c.flagYes, "yes", false, "Do not ask for confirmation.")
	f.BoolVar(&c.flagDryRun, "dry-run", false, "Print what would be deleted.")

	return f
}

func (c *DeleteCommand) Run(args []string) int {
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

	action := "delete"
	if c.flagPurge {
		action = "purge"
	}
	if c.flagDryRun {
		c.UI.Output(fmt.Sprintf("Would %s page %s", action, id))
		return 0
	}

	if !c.flagYes {
		ok, err := c.Confirmer().Confirm(fmt.Sprintf("Delete page %s?", id))
		if err != nil {
			return c.Failf("%v. Use -yes to skip confirmation in non-interactive shells", err)
		}
		if !ok {
			c.UI.Output("Cancelled.")
			return 0
		}
	}

	u := s.Client.Endpoints().V2(pagePath(id))
	if c.flagPurge {
		page, err := tree.FetchPage(c.Context(), s.Client, id, "")
		if err != nil {
			return c.Fail(err)
		}
		if page.Status != "trashed" {
			if !c.flagForce {
				return c.Failf("page %s is not trashed. Delete it first or use -force to trash then purge", id)
			}
			if err := s.Client.Delete(c.Context(), u); err != nil {
				return c.Fail(err)
			}
		}
		u += "?purge=true"
	}
	if err := s.Client.Delete(c.Context(), u); err != nil {
		return c.Fail(err)
	}

	if c.JSON() {
		return c.PrintJSON(map[string]any{"action": action, "deleted": true, "id": id})
	}
	if c.flagPurge {
		c.UI.Output("Purged page " + id)
	} else {
		c.UI.Output("Deleted page " + id)
	}
	return 0
}
