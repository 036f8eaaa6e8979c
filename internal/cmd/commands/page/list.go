package page

import (
	"net/url"
	"strconv"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type ListCommand struct {
	*base.Command

	flagSpace  string
	flagStatus string
	flagTitle  string
	flagLimit  int
	flagAll    bool
}

func (c *ListCommand) Synopsis() string {
	return "List pages"
}

func (c *ListCommand) Help() string {
	return `Usage: wikicli page list [options]

  Lists pages, optionally restricted to one space.` + c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("page list")

	f.StringVar(&c.flagSpace, "space", "", "Space key or id to list pages from.")
	f.StringVar(&c.flagStatus, "status", "", "Filter by status, e.g. current or draft.")
	f.StringVar(&c.flagTitle, "title", "", "Filter by exact title.")
	f.IntVar(&c.flagLimit, "limit", 25, "Results per request.")
	f.BoolVar(&c.flagAll, "all", false, "Follow pagination and fetch every result.")

	return f
}

func (c *ListCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(max(c.flagLimit, 1)))
	if c.flagSpace != "" {
		spaceID, err := s.Resolver.ResolveSpace(c.Context(), c.flagSpace)
		if err != nil {
			return c.Fail(err)
		}
		q.Set("space-id", spaceID)
	}
	if c.flagStatus != "" {
		q.Set("status", c.flagStatus)
	}
	if c.flagTitle != "" {
		q.Set("title", c.flagTitle)
	}

	pages, err := client.CollectInto[models.Page](c.Context(), s.Client, s.Client.Endpoints().V2("/pages?"+q.Encode()), c.flagAll)
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(pages)
	}

	ids := make([]string, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.SpaceID)
	}
	keys, err := s.Resolver.ResolveSpaceKeys(c.Context(), ids)
	if err != nil {
		c.Log.Warn("error resolving space keys", "error", err)
		keys = map[string]string{}
	}

	rows := make([][]string, 0, len(pages))
	for _, p := range pages {
		space, ok := keys[p.SpaceID]
		if !ok {
			space = p.SpaceID
		}
		rows = append(rows, []string{p.ID, p.Title, space, p.Status})
	}
	c.PrintTable([]string{"ID", "Title", "Space", "Status"}, rows)
	return 0
}
