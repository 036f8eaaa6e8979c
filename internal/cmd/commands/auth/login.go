package auth

import (
	"fmt"
	"strings"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/internal/config"
	"github.com/hashicorp-forge/wikicli/pkg/auth"
)

type LoginCommand struct {
	*base.Command

	flagDomain    string
	flagEmail     string
	flagToken     string
	flagBearer    string
	flagAPIv1Path string
	flagAPIv2Path string
}

func (c *LoginCommand) Synopsis() string {
	return "Log in and store credentials"
}

func (c *LoginCommand) Help() string {
	return `Usage: wikicli auth login [options]

  Derives the site and API base URLs from a domain, checks the credential
  against the site and stores both in the config file. Missing values are
  prompted for.` + c.Flags().Help()
}

func (c *LoginCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("auth login")

	f.StringVar(&c.flagDomain, "domain", "",
		"Site URL or domain, e.g. example.atlassian.net.")
	f.StringVar(&c.flagEmail, "email", "", "Email address for basic auth.")
	f.StringVar(&c.flagToken, "token", "", "API token for basic auth.")
	f.StringVar(&c.flagBearer, "bearer", "", "Bearer token. Takes precedence over -email and -token.")
	f.StringVar(&c.flagAPIv1Path, "api-v1-path", "",
		"Override the v1 API path, e.g. /rest/api.")
	f.StringVar(&c.flagAPIv2Path, "api-v2-path", "",
		"Override the v2 API path, e.g. /api/v2.")

	return f
}

func (c *LoginCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}

	domain, err := c.value(c.flagDomain, "Site domain (e.g. example.atlassian.net):", false)
	if err != nil {
		return c.Fail(err)
	}

	var cred auth.Credential
	if c.flagBearer != "" {
		cred = auth.Bearer(c.flagBearer)
	} else {
		email, err := c.value(c.flagEmail, "Email:", false)
		if err != nil {
			return c.Fail(err)
		}
		token, err := c.value(c.flagToken, "API token:", true)
		if err != nil {
			return c.Fail(err)
		}
		cred = auth.Basic(email, token)
	}

	cfg, err := config.New(domain, cred)
	if err != nil {
		return c.Fail(err)
	}
	e, err := cfg.Endpoints()
	if err != nil {
		return c.Fail(err)
	}
	if c.flagAPIv1Path != "" {
		cfg.APIv1URL = e.Origin() + "/" + strings.Trim(c.flagAPIv1Path, "/")
	}
	if c.flagAPIv2Path != "" {
		cfg.APIv2URL = e.Origin() + "/" + strings.Trim(c.flagAPIv2Path, "/")
	}

	if err := checkCredentials(c.Command, cfg); err != nil {
		return c.Fail(fmt.Errorf("failed to validate credentials: %w", err))
	}

	store, err := c.ConfigStore()
	if err != nil {
		return c.Fail(err)
	}
	if err := store.Save(cfg); err != nil {
		return c.Fail(err)
	}

	c.Info(fmt.Sprintf("Saved credentials for %s to %s", cfg.SiteURL, store.Path()))
	return 0
}

// value returns flag if set, otherwise asks for it.
func (c *LoginCommand) value(flag, prompt string, secret bool) (string, error) {
	if flag != "" {
		return flag, nil
	}
	var answer string
	var err error
	if secret {
		answer, err = c.UI.AskSecret(prompt)
	} else {
		answer, err = c.UI.Ask(prompt)
	}
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%s is required", strings.TrimSuffix(prompt, ":"))
	}
	return answer, nil
}

// checkCredentials makes one cheap authenticated request.
func checkCredentials(b *base.Command, cfg *config.Config) error {
	cl, err := b.ClientFor(cfg)
	if err != nil {
		return err
	}
	var out map[string]any
	return cl.GetJSON(b.Context(), cl.Endpoints().V2("/spaces?limit=1"), &out)
}
