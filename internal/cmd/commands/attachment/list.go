package attachment

import (
	"net/url"
	"strconv"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type ListCommand struct {
	*base.Command

	flagLimit int
	flagAll   bool
}

func (c *ListCommand) Synopsis() string {
	return "List the attachments of a page"
}

func (c *ListCommand) Help() string {
	return `Usage: wikicli attachment list [options] <page>

  Lists the files attached to a page.` + c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("attachment list")

	f.IntVar(&c.flagLimit, "limit", 50, "Results per request.")
	f.BoolVar(&c.flagAll, "all", false, "Follow pagination and fetch every result.")

	return f
}

func (c *ListCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one page id or URL")
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

	u := s.Client.Endpoints().V2("/pages/" + url.PathEscape(id) + "/attachments?limit=" + strconv.Itoa(max(c.flagLimit, 1)))
	items, err := client.CollectInto[models.Attachment](c.Context(), s.Client, u, c.flagAll)
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(items)
	}

	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{a.ID, a.Title, a.MediaType, a.HumanSize()})
	}
	c.PrintTable([]string{"ID", "Title", "Type", "Size"}, rows)
	return 0
}
