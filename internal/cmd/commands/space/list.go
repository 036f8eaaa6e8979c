package space

import (
	"net/url"
	"strconv"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type ListCommand struct {
	*base.Command

	flagKeys   string
	flagType   string
	flagStatus string
	flagLabels string
	flagLimit  int
	flagAll    bool
}

func (c *ListCommand) Synopsis() string {
	return "List spaces"
}

func (c *ListCommand) Help() string {
	return `Usage: wikicli space list [options]

  Lists spaces visible to the current credential.` + c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("space list")

	f.StringVar(&c.flagKeys, "keys", "", "Comma separated space keys to include.")
	f.StringVar(&c.flagType, "type", "", "Filter by space type, e.g. global or personal.")
	f.StringVar(&c.flagStatus, "status", "", "Filter by status, e.g. current or archived.")
	f.StringVar(&c.flagLabels, "labels", "", "Comma separated labels to filter by.")
	f.IntVar(&c.flagLimit, "limit", 50, "Results per request.")
	f.BoolVar(&c.flagAll, "all", false, "Follow pagination and fetch every result.")

	return f
}

func (c *ListCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}

	cl, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(max(c.flagLimit, 1)))
	for key, v := range map[string]string{
		"keys":   c.flagKeys,
		"type":   c.flagType,
		"status": c.flagStatus,
		"labels": c.flagLabels,
	} {
		if v != "" {
			q.Set(key, v)
		}
	}

	spaces, err := client.CollectInto[models.Space](c.Context(), cl, cl.Endpoints().V2("/spaces?"+q.Encode()), c.flagAll)
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(spaces)
	}

	rows := make([][]string, 0, len(spaces))
	for _, s := range spaces {
		rows = append(rows, []string{s.ID, s.DisplayKey(), s.Name, s.Type, s.Status})
	}
	c.PrintTable([]string{"ID", "Key", "Name", "Type", "Status"}, rows)
	return 0
}
