package comment

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

const defaultExpand = "history,extensions,ancestors"

type ListCommand struct {
	*base.Command

	flagLocation string
	flagExpand   string
	flagLimit    int
	flagAll      bool
}

func (c *ListCommand) Synopsis() string {
	return "List the comments of a page"
}

func (c *ListCommand) Help() string {
	return `Usage: wikicli comment list [options] <page>

  Lists top level comments and replies of a page in one pass. Replies show
  the id of the comment they answer in the Parent column.` + c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("comment list")

	f.StringVar(&c.flagLocation, "location", "", "Comma separated locations to include: footer, inline, resolved.")
	f.StringVar(&c.flagExpand, "expand", defaultExpand, "Expansions to request.")
	f.IntVar(&c.flagLimit, "limit", 25, "Results per request.")
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

	q := url.Values{}
	q.Set("limit", strconv.Itoa(max(c.flagLimit, 1)))
	if c.flagExpand != "" {
		q.Set("expand", c.flagExpand)
	}
	for _, loc := range strings.Split(c.flagLocation, ",") {
		if loc = strings.TrimSpace(loc); loc != "" {
			q.Add("location", loc)
		}
	}
	u := s.Client.Endpoints().V1("/content/" + url.PathEscape(id) + "/descendant/comment?" + q.Encode())
	comments, err := client.CollectInto[models.Comment](c.Context(), s.Client, u, c.flagAll)
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(comments)
	}

	rows := make([][]string, 0, len(comments))
	for _, cm := range comments {
		rows = append(rows, []string{
			cm.ID,
			cm.Location(),
			cm.Author(),
			base.FormatTime(cm.Created()),
			cm.ParentCommentID(),
		})
	}
	c.PrintTable([]string{"ID", "Location", "Author", "Created", "Parent"}, rows)
	return 0
}
