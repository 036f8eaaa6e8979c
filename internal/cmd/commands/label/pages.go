package label

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type PagesCommand struct {
	*base.Command

	flagLimit int
	flagAll   bool
}

func (c *PagesCommand) Synopsis() string {
	return "List content carrying a label"
}

func (c *PagesCommand) Help() string {
	return `Usage: wikicli label pages [options] <label>

  Lists content carrying a label. A label without a prefix also matches the
  team: and my: prefixed labels of the same name.` + c.Flags().Help()
}

func (c *PagesCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("label pages")

	f.IntVar(&c.flagLimit, "limit", 25, "Results per request.")
	f.BoolVar(&c.flagAll, "all", false, "Follow pagination and fetch every result.")

	return f
}

func (c *PagesCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 || strings.TrimSpace(f.Arg(0)) == "" {
		c.UI.Error("expected exactly one label")
		return 1
	}

	cl, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}
	q := url.Values{}
	q.Set("cql", labelCQL(strings.TrimSpace(f.Arg(0))))
	q.Set("limit", strconv.Itoa(max(c.flagLimit, 1)))
	results, err := client.CollectInto[models.SearchResult](c.Context(), cl, cl.Endpoints().V1("/search?"+q.Encode()), c.flagAll)
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(results)
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, resultRow(r))
	}
	c.PrintTable([]string{"ID", "Type", "Title"}, rows)
	return 0
}

var cqlEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", " ", "\r", " ", "\t", " ")

func labelCQL(label string) string {
	label = cqlEscaper.Replace(label)
	if strings.Contains(label, ":") {
		return `label = "` + label + `"`
	}
	return `label in ("` + label + `", "team:` + label + `", "my:` + label + `")`
}

func resultRow(r models.SearchResult) []string {
	if r.Content.ID != "" {
		return []string{r.Content.ID, r.Content.Type, r.DisplayTitle()}
	}
	if r.EntityType == "space" && r.Space != nil {
		return []string{r.Space.Key, "space", r.DisplayTitle()}
	}
	return []string{"", r.EntityType, r.DisplayTitle()}
}
