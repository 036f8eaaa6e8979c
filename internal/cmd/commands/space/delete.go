package space

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type DeleteCommand struct {
	*base.Command

	flagYes    bool
	flagDryRun bool
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete a space"
}

func (c *DeleteCommand) Help() string {
	return `Usage: wikicli space delete [options] <space>

  Deletes a space and everything in it. The site removes the content in the
  background after the request is accepted.` + c.Flags().Help()
}

func (c *DeleteCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("space delete")

	f.BoolVar(&c.flagYes, "yes", false, "Do not ask for confirmation.")
	f.BoolVar(&c.flagDryRun, "dry-run", false, "Print what would be deleted.")

	return f
}

func (c *DeleteCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 || strings.TrimSpace(f.Arg(0)) == "" {
		c.UI.Error("expected exactly one space key or id")
		return 1
	}

	cl, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}
	key, err := c.spaceKey(cl, strings.TrimSpace(f.Arg(0)))
	if err != nil {
		return c.Fail(err)
	}

	if c.flagDryRun {
		c.UI.Output("Would delete space " + key)
		return 0
	}
	if !c.flagYes {
		ok, err := c.Confirmer().Confirm(fmt.Sprintf("Delete space %s and all of its content?", key))
		if err != nil {
			return c.Failf("%v. Use -yes to skip confirmation in non-interactive shells", err)
		}
		if !ok {
			c.UI.Output("Cancelled.")
			return 0
		}
	}

	if err := cl.Delete(c.Context(), cl.Endpoints().V1("/space/"+url.PathEscape(key))); err != nil {
		return c.Fail(err)
	}
	c.UI.Output("Deleted space " + key)
	return 0
}

// spaceKey returns the raw key of ref, which the v1 endpoint addresses spaces
// by. Numeric refs are ids and are looked up.
func (c *DeleteCommand) spaceKey(cl *client.Client, ref string) (string, error) {
	if strings.Trim(ref, "0123456789") != "" {
		return ref, nil
	}
	var raw map[string]any
	if err := cl.GetJSON(c.Context(), cl.Endpoints().V2("/spaces/"+url.PathEscape(ref)), &raw); err != nil {
		return "", err
	}
	var space models.Space
	if err := client.Decode(raw, &space); err != nil {
		return "", err
	}
	if space.Key == "" {
		return "", fmt.Errorf("space %s has no key", ref)
	}
	return space.Key, nil
}
