package label

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
	return "List labels"
}

func (c *ListCommand) Help() string {
	return `Usage: wikicli label list [options] [page]

  Lists the labels of the site, or of one page when a page is given.` + c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("label list")

	f.IntVar(&c.flagLimit, "limit", 25, "Results per request.")
	f.BoolVar(&c.flagAll, "all", false, "Follow pagination and fetch every result.")

	return f
}

func (c *ListCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() > 1 {
		c.UI.Error("expected at most one page id or URL")
		return 1
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	path := "/labels"
	if f.NArg() == 1 {
		id, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
		if err != nil {
			return c.Fail(err)
		}
		path = "/pages/" + url.PathEscape(id) + "/labels"
	}

	u := s.Client.Endpoints().V2(path + "?limit=" + strconv.Itoa(max(c.flagLimit, 1)))
	labels, err := client.CollectInto[models.Label](c.Context(), s.Client, u, c.flagAll)
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(labels)
	}

	rows := make([][]string, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, []string{l.ID, l.Name, l.Prefix})
	}
	c.PrintTable([]string{"ID", "Name", "Prefix"}, rows)
	return 0
}
