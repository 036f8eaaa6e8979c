package auth

import (
	"errors"
	"fmt"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/internal/config"
)

type StatusCommand struct {
	*base.Command
}

func (c *StatusCommand) Synopsis() string {
	return "Show the current authentication status"
}

func (c *StatusCommand) Help() string {
	return `Usage: wikicli auth status [options]

  Loads the credential from the environment or the config file and checks
  it against the site.` + c.Flags().Help()
}

func (c *StatusCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("auth status")
}

type status struct {
	LoggedIn bool   `json:"loggedIn"`
	SiteURL  string `json:"siteUrl,omitempty"`
	Method   string `json:"method,omitempty"`
	Identity string `json:"identity,omitempty"`
	Source   string `json:"source,omitempty"`
}

func (c *StatusCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}

	store, err := c.ConfigStore()
	if err != nil {
		return c.Fail(err)
	}
	cfg, err := store.Load()
	if errors.Is(err, config.ErrNotConfigured) {
		if c.JSON() {
			return c.PrintJSON(status{})
		}
		c.UI.Output("Not logged in.")
		return 0
	}
	if err != nil {
		return c.Fail(err)
	}

	if err := checkCredentials(c.Command, cfg); err != nil {
		return c.Fail(fmt.Errorf("failed to validate auth: %w", err))
	}

	source := "config: " + store.Path()
	if store.FromEnv() {
		source = "env"
	}
	st := status{
		LoggedIn: true,
		SiteURL:  cfg.SiteURL,
		Method:   cfg.Auth.Type,
		Identity: cfg.Auth.Email,
		Source:   source,
	}
	if c.JSON() {
		return c.PrintJSON(st)
	}
	c.UI.Output(fmt.Sprintf("Logged in to %s using %s auth (%s)", st.SiteURL, st.Method, st.Source))
	return 0
}
