package label

import (
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "List, add and remove labels"
}

func (c *Command) Help() string {
	return `Usage: wikicli label <subcommand> [options] [args]

  This command groups subcommands for labels.

  Find pages carrying a label:

      $ wikicli label pages runbook`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
