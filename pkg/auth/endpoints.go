package auth

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	sitePathSuffix = "/wiki"
	v1PathSuffix   = "/rest/api"
	v2PathSuffix   = "/api/v2"
)

// Endpoints is the set of base URLs used to talk to one site. The three URLs
// are derived together at login time and persisted together so that every
// invocation talks to the same bases.
type Endpoints struct {
	// SiteURL is the human facing base, e.g. https://acme.atlassian.net/wiki.
	SiteURL string `json:"siteUrl"`

	// APIv1 is the base of the v1 REST generation.
	APIv1 string `json:"apiV1"`

	// APIv2 is the base of the v2 REST generation.
	APIv2 string `json:"apiV2"`
}

// DeriveEndpoints builds an Endpoints value from a user supplied domain or URL.
// A bare domain gets https://, the scheme must be http or https, a host is
// required, trailing slashes are removed and a /wiki site path is appended if
// missing.
func DeriveEndpoints(domain string) (Endpoints, error) {
	raw := strings.TrimSpace(domain)
	if raw == "" {
		return Endpoints{}, fmt.Errorf("domain is required")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		if strings.Contains(raw, "://") {
			scheme := raw[:strings.Index(raw, "://")]
			return Endpoints{}, fmt.Errorf("invalid URL scheme %q, use http or https", scheme)
		}
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Endpoints{}, fmt.Errorf("invalid domain URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoints{}, fmt.Errorf("invalid URL scheme %q, use http or https", u.Scheme)
	}
	if u.Host == "" {
		return Endpoints{}, fmt.Errorf("invalid domain: no host found in URL")
	}

	site := strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/")
	if !strings.HasSuffix(site, sitePathSuffix) {
		site += sitePathSuffix
	}

	return Endpoints{
		SiteURL: site,
		APIv1:   site + v1PathSuffix,
		APIv2:   site + v2PathSuffix,
	}, nil
}

// Normalize trims trailing slashes from all three URLs and validates them.
func (e Endpoints) Normalize() (Endpoints, error) {
	out := Endpoints{
		SiteURL: strings.TrimRight(strings.TrimSpace(e.SiteURL), "/"),
		APIv1:   strings.TrimRight(strings.TrimSpace(e.APIv1), "/"),
		APIv2:   strings.TrimRight(strings.TrimSpace(e.APIv2), "/"),
	}
	for name, v := range map[string]string{
		"site_url":   out.SiteURL,
		"api_v1_url": out.APIv1,
		"api_v2_url": out.APIv2,
	} {
		u, err := url.Parse(v)
		if err != nil {
			return Endpoints{}, fmt.Errorf("invalid %s: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return Endpoints{}, fmt.Errorf("%s must use http or https scheme, got: %q", name, u.Scheme)
		}
		if u.Host == "" {
			return Endpoints{}, fmt.Errorf("%s has no host", name)
		}
	}
	return out, nil
}

// Origin returns scheme://host[:port] of the site URL.
func (e Endpoints) Origin() string {
	u, err := url.Parse(e.SiteURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// V1 joins path onto the v1 base.
func (e Endpoints) V1(path string) string { return e.APIv1 + path }

// V2 joins path onto the v2 base.
func (e Endpoints) V2(path string) string { return e.APIv2 + path }

// Site joins path onto the site base.
func (e Endpoints) Site(path string) string { return e.SiteURL + path }
