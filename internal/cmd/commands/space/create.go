package space

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

var spaceKeyRE = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)

type CreateCommand struct {
	*base.Command

	flagKey         string
	flagName        string
	flagDescription string
	flagDryRun      bool
}

func (c *CreateCommand) Synopsis() string {
	return "Create a space"
}

func (c *CreateCommand) Help() string {
	return `Usage: wikicli space create [options]

  Creates a global space.

      $ wikicli space create -key PROJ -name "Project X"` + c.Flags().Help()
}

func (c *CreateCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("space create")

	f.StringVar(&c.flagKey, "key", "", "Space key: 2-32 characters, A-Z and 0-9, starting with a letter. Required.")
	f.StringVar(&c.flagName, "name", "", "Space name. Required.")
	f.StringVar(&c.flagDescription, "description", "", "Plain text description.")
	f.BoolVar(&c.flagDryRun, "dry-run", false, "Print what would be created.")

	return f
}

// validateKey checks a space key the way the site does.
func validateKey(key string) error {
	return validation.Validate(key,
		validation.Required.Error("space key cannot be empty"),
		validation.Length(2, 32).Error("space key must be 2-32 characters"),
		validation.Match(spaceKeyRE).Error("space key must start with A-Z and contain only A-Z and 0-9"),
	)
}

func (c *CreateCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 0 {
		c.UI.Error("unexpected arguments")
		return 1
	}
	key := strings.TrimSpace(c.flagKey)
	if err := validateKey(key); err != nil {
		return c.Fail(err)
	}
	name := strings.TrimSpace(c.flagName)
	if name == "" {
		c.UI.Error("-name is required")
		return 1
	}

	if c.flagDryRun {
		c.UI.Output(fmt.Sprintf("Would create space %s '%s'", key, name))
		return 0
	}

	payload := models.SpaceCreate{Key: key, Name: name}
	if c.flagDescription != "" {
		payload.Description = &models.SpaceDescription{
			Plain: models.BodyValue{Representation: "plain", Value: c.flagDescription},
		}
	}

	cl, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}
	var raw map[string]any
	if err := cl.PostJSON(c.Context(), cl.Endpoints().V1("/space"), payload, &raw); err != nil {
		return c.Fail(err)
	}
	var space models.Space
	if err := client.Decode(raw, &space); err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(space)
	}
	c.PrintKV([][2]string{
		{"ID", space.ID},
		{"Key", space.Key},
		{"Name", space.Name},
		{"URL", space.WebURL(cl.Endpoints().SiteURL)},
	})
	return 0
}
