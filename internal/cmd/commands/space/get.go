package space

import (
	"net/url"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type GetCommand struct {
	*base.Command
}

func (c *GetCommand) Synopsis() string {
	return "Show a space"
}

func (c *GetCommand) Help() string {
	return `Usage: wikicli space get [options] <space>

  Shows one space, given by key or id.` + c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("space get")
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one space key or id")
		return 1
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	id, err := s.Resolver.ResolveSpace(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	var space models.Space
	if err := s.Client.GetJSON(c.Context(), s.Client.Endpoints().V2("/spaces/"+url.PathEscape(id)), &space); err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(space)
	}

	c.PrintKV([][2]string{
		{"ID", space.ID},
		{"Key", space.Key},
		{"Name", space.Name},
		{"Type", space.Type},
		{"Status", space.Status},
		{"Homepage", space.HomepageID},
		{"URL", space.WebURL(s.Client.Endpoints().SiteURL)},
	})
	return 0
}
