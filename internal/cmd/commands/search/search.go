package search

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type Command struct {
	*base.Command

	flagSpace   string
	flagLimit   int
	flagAll     bool
	flagExcerpt bool
}

func (c *Command) Synopsis() string {
	return "Search content"
}

func (c *Command) Help() string {
	return `Usage: wikicli search [options] <query>

  Searches content. A query containing CQL operators or keywords is sent as
  is, anything else is searched as text.

      $ wikicli search "release checklist"
      $ wikicli search 'type = page AND label = "runbook"'` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := c.NewFlagSet("search")

	f.StringVar(&c.flagSpace, "space", "", "Restrict results to one space key.")
	f.IntVar(&c.flagLimit, "limit", 25, "Results per request.")
	f.BoolVar(&c.flagAll, "all", false, "Follow pagination and fetch every result.")
	f.BoolVar(&c.flagExcerpt, "excerpt", false, "Include the matching excerpt.")

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	query := strings.TrimSpace(strings.Join(f.Args(), " "))
	if query == "" {
		return c.Fail(errors.New("search query cannot be empty"))
	}

	cql := toCQL(query)
	if c.flagSpace != "" {
		cql = inSpace(cql, c.flagSpace)
	}
	c.Log.Debug("searching", "cql", cql)

	cl, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}
	q := url.Values{}
	q.Set("cql", cql)
	q.Set("limit", strconv.Itoa(max(c.flagLimit, 1)))
	results, err := client.CollectInto[models.SearchResult](c.Context(), cl, cl.Endpoints().V1("/search?"+q.Encode()), c.flagAll)
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(results)
	}

	headers := []string{"ID", "Type", "Space", "Title"}
	if c.flagExcerpt {
		headers = append(headers, "Excerpt")
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := []string{r.Content.ID, r.Content.Type, spaceOf(r), r.DisplayTitle()}
		if c.flagExcerpt {
			row = append(row, r.CleanExcerpt())
		}
		rows = append(rows, row)
	}
	c.PrintTable(headers, rows)
	return 0
}
