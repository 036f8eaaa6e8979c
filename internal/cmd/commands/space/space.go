package space

import (
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "List, inspect, create and delete spaces"
}

func (c *Command) Help() string {
	return `Usage: wikicli space <subcommand> [options] [args]

  This command groups subcommands for working with spaces. A space may be
  given by key (ENG) or by numeric id.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
