package comment

import (
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "List, add and delete page comments"
}

func (c *Command) Help() string {
	return `Usage: wikicli comment <subcommand> [options] [args]

  This command groups subcommands for page comments. Pages may be given by
  id, URL or SPACE:Title.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
