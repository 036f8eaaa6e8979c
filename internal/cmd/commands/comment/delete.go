package comment

import (
	"fmt"
	"net/url"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
)

type DeleteCommand struct {
	*base.Command

	flagYes    bool
	flagDryRun bool
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete a comment"
}

func (c *DeleteCommand) Help() string {
	return `Usage: wikicli comment delete [options] <comment-id>

  Deletes a comment.` + c.Flags().Help()
}

func (c *DeleteCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("comment delete")

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
		c.UI.Error("expected exactly one comment id")
		return 1
	}
	id := f.Arg(0)

	if c.flagDryRun {
		if c.JSON() {
			return c.PrintJSON(map[string]any{"dryRun": true, "deleted": false, "id": id})
		}
		c.UI.Output("Would delete comment " + id)
		return 0
	}
	if !c.flagYes {
		ok, err := c.Confirmer().Confirm(fmt.Sprintf("Delete comment %s?", id))
		if err != nil {
			return c.Failf("%v. Use -yes to skip confirmation in non-interactive shells", err)
		}
		if !ok {
			c.UI.Output("Cancelled.")
			return 0
		}
	}

	cl, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}
	if err := cl.Delete(c.Context(), cl.Endpoints().V1("/content/"+url.PathEscape(id))); err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(map[string]any{"deleted": true, "id": id})
	}
	c.UI.Output("Deleted comment " + id)
	return 0
}
