package label

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type AddCommand struct {
	*base.Command

	flagDryRun bool
}

func (c *AddCommand) Synopsis() string {
	return "Add labels to a page"
}

func (c *AddCommand) Help() string {
	return `Usage: wikicli label add [options] <page> <label>...

  Adds one or more global labels to a page.` + c.Flags().Help()
}

func (c *AddCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("label add")

	f.BoolVar(&c.flagDryRun, "dry-run", false, "Print what would be added.")

	return f
}

func (c *AddCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() < 2 {
		c.UI.Error("expected a page and at least one label")
		return 1
	}
	names, err := labelNames(f.Args()[1:])
	if err != nil {
		return c.Fail(err)
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	id, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	if c.flagDryRun {
		for _, name := range names {
			c.UI.Output(fmt.Sprintf("Would add label '%s' to page %s", name, id))
		}
		return 0
	}

	payload := make([]models.LabelCreate, 0, len(names))
	for _, name := range names {
		payload = append(payload, models.LabelCreate{Prefix: "global", Name: name})
	}
	u := s.Client.Endpoints().V1("/content/" + url.PathEscape(id) + "/label")
	if err := s.Client.PostJSON(c.Context(), u, payload, nil); err != nil {
		return c.Fail(err)
	}
	c.UI.Output(fmt.Sprintf("Added %d label(s) to page %s", len(names), id))
	return 0
}

// labelNames trims the given labels. Labels cannot contain spaces.
func labelNames(args []string) ([]string, error) {
	names := make([]string, 0, len(args))
	for _, a := range args {
		name := strings.TrimSpace(a)
		if name == "" {
			return nil, errors.New("label cannot be empty")
		}
		if strings.ContainsAny(name, " \t\n") {
			return nil, fmt.Errorf("label %q cannot contain whitespace", name)
		}
		names = append(names, name)
	}
	return names, nil
}
