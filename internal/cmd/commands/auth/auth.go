package auth

import (
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Manage stored credentials"
}

func (c *Command) Help() string {
	return `Usage: wikicli auth <subcommand> [options]

  This command groups subcommands for logging in to a site, checking the
  stored credentials and logging out.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
