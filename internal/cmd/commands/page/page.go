package page

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Read and write pages"
}

func (c *Command) Help() string {
	return `Usage: wikicli page <subcommand> [options] [args]

  This command groups subcommands for reading and writing pages. Pages may be
  given as a numeric id or as a page URL.

  Show a page:

      $ wikicli page get 12345

  Print a page as markdown:

      $ wikicli page body https://example.atlassian.net/wiki/spaces/ENG/pages/12345

  Create a page from a file:

      $ wikicli page create -space ENG -body-file notes.html

  For more information, run "wikicli page <subcommand> -help".`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// titleFromFile derives a page title from the body file name.
func titleFromFile(bodyFile string) string {
	if bodyFile == "" || bodyFile == "-" {
		return ""
	}
	name := filepath.Base(bodyFile)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func pagePath(id string) string {
	return "/pages/" + url.PathEscape(id)
}
