package auth

import (
	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
)

type LogoutCommand struct {
	*base.Command
}

func (c *LogoutCommand) Synopsis() string {
	return "Remove stored credentials"
}

func (c *LogoutCommand) Help() string {
	return `Usage: wikicli auth logout

  Deletes the config file. Credentials in the environment are not affected.` +
		c.Flags().Help()
}

func (c *LogoutCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("auth logout")
}

func (c *LogoutCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}

	store, err := c.ConfigStore()
	if err != nil {
		return c.Fail(err)
	}
	if err := store.Clear(); err != nil {
		return c.Fail(err)
	}
	c.Info("Logged out.")
	return 0
}
