package version

import (
	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: wikicli version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output("wikicli " + version.Version)
	return 0
}
