// Package config persists the site endpoints and credential between runs.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/wikicli/pkg/auth"
)

// Config is the persisted CLI configuration.
type Config struct {
	// SiteURL is the human facing site base, e.g.
	// https://example.atlassian.net/wiki.
	SiteURL string `hcl:"site_url" json:"site_url"`

	// APIv1URL is the v1 REST base.
	APIv1URL string `hcl:"api_v1_url" json:"api_v1_url"`

	// APIv2URL is the v2 REST base.
	APIv2URL string `hcl:"api_v2_url" json:"api_v2_url"`

	// Auth configures the credential.
	Auth *Auth `hcl:"auth,block" json:"auth"`
}

// Auth configures the credential presented to the site.
type Auth struct {
	// Type is "basic" or "bearer".
	Type string `hcl:"type" json:"type"`

	// Email is the basic auth identity. Unused for bearer tokens.
	Email string `hcl:"email,optional" json:"email"`

	// Token is the API token or bearer token.
	Token string `hcl:"token" json:"-"`
}

// New builds a Config for a domain or site URL and a credential.
func New(domain string, cred auth.Credential) (*Config, error) {
	e, err := auth.DeriveEndpoints(domain)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		SiteURL:  e.SiteURL,
		APIv1URL: e.APIv1,
		APIv2URL: e.APIv2,
		Auth: &Auth{
			Type:  string(cred.Method()),
			Email: cred.Identity(),
			Token: cred.Secret(),
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validation.ValidateStruct(c,
		validation.Field(&c.SiteURL, validation.Required, is.URL),
		validation.Field(&c.APIv1URL, validation.Required, is.URL),
		validation.Field(&c.APIv2URL, validation.Required, is.URL),
		validation.Field(&c.Auth, validation.Required),
	); err != nil {
		result = multierror.Append(result, flatten(err)...)
	}
	return result.ErrorOrNil()
}

// Validate checks the auth block.
func (a *Auth) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Type, validation.Required,
			validation.In(string(auth.MethodBasic), string(auth.MethodBearer))),
		validation.Field(&a.Email,
			validation.When(a.Type == string(auth.MethodBasic), validation.Required, is.EmailFormat)),
		validation.Field(&a.Token, validation.Required),
	)
}

// Endpoints returns the endpoint set recorded when the configuration was
// created.
func (c *Config) Endpoints() (auth.Endpoints, error) {
	return auth.Endpoints{SiteURL: c.SiteURL, APIv1: c.APIv1URL, APIv2: c.APIv2URL}.Normalize()
}

// Credential returns the configured credential.
func (c *Config) Credential() (auth.Credential, error) {
	if c.Auth == nil {
		return auth.Credential{}, errors.New("no credential configured")
	}
	switch auth.Method(strings.ToLower(c.Auth.Type)) {
	case auth.MethodBasic:
		return auth.Basic(c.Auth.Email, c.Auth.Token), nil
	case auth.MethodBearer:
		return auth.Bearer(c.Auth.Token), nil
	default:
		return auth.Credential{}, fmt.Errorf("unknown auth type %q", c.Auth.Type)
	}
}

// flatten splits ozzo field errors into one error per field so they read
// well in a multierror list.
func flatten(err error) []error {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return []error{err}
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]error, 0, len(fields))
	for _, name := range names {
		fieldErr := fields[name]
		if nested, ok := fieldErr.(validation.Errors); ok {
			for _, e := range flatten(nested) {
				out = append(out, fmt.Errorf("%s: %w", name, e))
			}
			continue
		}
		out = append(out, fmt.Errorf("%s: %w", name, fieldErr))
	}
	return out
}
