package client

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/wikicli/pkg/auth"
)

const (
	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAttempts is the total number of tries for one logical request.
	DefaultMaxAttempts = 3

	// DefaultMaxJitter is the upper bound of random jitter added to each wait.
	DefaultMaxJitter = 250 * time.Millisecond

	// DefaultMaxPages is the page ceiling for a single paginated walk.
	DefaultMaxPages = 10000

	// DefaultUserAgent is sent on every request.
	DefaultUserAgent = "wikicli"
)

// Config contains the settings for a Client.
type Config struct {
	// Endpoints are the base URLs of the site. Required.
	Endpoints auth.Endpoints

	// Credential authenticates every request. Required.
	Credential auth.Credential

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client

	// Timeout bounds a single request. Default 30s.
	Timeout time.Duration

	// MaxAttempts is the total number of tries per logical request. Default 3.
	MaxAttempts int

	// MaxJitter bounds the random jitter added to each retry wait. Default 250ms.
	MaxJitter time.Duration

	// MaxPages bounds a single pagination walk. Default 10000.
	MaxPages int

	// UserAgent is sent on every request.
	UserAgent string

	// CorrelationID is sent as X-Correlation-Id so one invocation can be traced
	// across requests.
	CorrelationID string

	// Logger receives request and retry events. Debug shows requests and
	// retries; Trace adds status, latency and request ids.
	Logger hclog.Logger

	// NewTimer returns the timer used to wait between attempts. Tests replace
	// it with one that fires immediately.
	NewTimer func() backoff.Timer

	// Jitter returns a random duration in [0, max). Tests replace it with a
	// deterministic function.
	Jitter func(max time.Duration) time.Duration
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Endpoints.APIv2 == "" || c.Endpoints.APIv1 == "" || c.Endpoints.SiteURL == "" {
		return fmt.Errorf("endpoints are required")
	}
	if _, err := c.Endpoints.Normalize(); err != nil {
		return err
	}
	if c.Credential.IsZero() {
		return fmt.Errorf("credential is required")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max attempts must not be negative")
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max pages must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.MaxJitter == 0 {
		c.MaxJitter = DefaultMaxJitter
	}
	if c.MaxPages == 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}
	if c.Jitter == nil {
		c.Jitter = randomJitter
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return rand.N(max)
}
