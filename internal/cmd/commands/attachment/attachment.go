package attachment

import (
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Manage page attachments"
}

func (c *Command) Help() string {
	return `Usage: wikicli attachment <subcommand> [options] [args]

  This command groups subcommands for listing, downloading, uploading and
  deleting the files attached to a page.

  Download every PNG attached to a page:

      $ wikicli attachment download -pattern '*.png' -dest ./images 12345

  Upload two files:

      $ wikicli attachment upload 12345 diagram.png notes.pdf

  For more information, run "wikicli attachment <subcommand> -help".`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
