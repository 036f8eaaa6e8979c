package attachment

import (
	"fmt"
	"net/url"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
)

type DeleteCommand struct {
	*base.Command

	flagPurge  bool
	flagYes    bool
	flagDryRun bool
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete an attachment"
}

func (c *DeleteCommand) Help() string {
	return `Usage: wikicli attachment delete [options] <attachment-id>

  Moves an attachment to the trash, or removes it permanently with -purge.` + c.Flags().Help()
}

func (c *DeleteCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("attachment delete")

	f.BoolVar(&c.flagPurge, "purge", false, "Permanently purge the attachment.")
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
		c.UI.Error("expected exactly one attachment id")
		return 1
	}
	id := f.Arg(0)

	if c.flagDryRun {
		action := "delete"
		if c.flagPurge {
			action = "purge"
		}
		c.UI.Output(fmt.Sprintf("Would %s attachment %s", action, id))
		return 0
	}
	if !c.flagYes {
		ok, err := c.Confirmer().Confirm(fmt.Sprintf("Delete attachment %s?", id))
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
	u := cl.Endpoints().V2("/attachments/" + url.PathEscape(id))
	if c.flagPurge {
		u += "?purge=true"
	}
	if err := cl.Delete(c.Context(), u); err != nil {
		return c.Fail(err)
	}
	c.UI.Output("Deleted attachment " + id)
	return 0
}
