package page

import (
	"strconv"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type HistoryCommand struct {
	*base.Command

	flagLimit int
}

func (c *HistoryCommand) Synopsis() string {
	return "Show the version history of a page"
}

func (c *HistoryCommand) Help() string {
	return `Usage: wikicli page history [options] <page>

  Lists the most recent versions of a page, newest first.` + c.Flags().Help()
}

func (c *HistoryCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("page history")

	f.IntVar(&c.flagLimit, "limit", 25, "Number of versions to show.")

	return f
}

func (c *HistoryCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one page id or URL")
		return 1
	}
	if c.flagLimit < 1 {
		c.UI.Error("-limit must be positive")
		return 1
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	id, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	u := s.Client.Endpoints().V2(pagePath(id) + "/versions?limit=" + strconv.Itoa(c.flagLimit))
	versions, err := client.CollectInto[models.Version](c.Context(), s.Client, u, false)
	if err != nil {
		return c.Fail(err)
	}
	if len(versions) > c.flagLimit {
		versions = versions[:c.flagLimit]
	}
	if c.JSON() {
		return c.PrintJSON(versions)
	}

	rows := make([][]string, 0, len(versions))
	for _, v := range versions {
		minor := "no"
		if v.MinorEdit {
			minor = "yes"
		}
		rows = append(rows, []string{strconv.Itoa(v.Number), v.Message, base.FormatTime(v.Created()), minor})
	}
	c.PrintTable([]string{"Version", "Message", "Created", "Minor"}, rows)
	return 0
}
