package base

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/wikicli/internal/config"
	"github.com/hashicorp-forge/wikicli/internal/version"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/resolve"
)

// Command holds what every subcommand shares. One instance is created per
// process and embedded in every command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// Ctx is cancelled on interrupt.
	Ctx context.Context

	// Store is the credential store. Nil means the default path.
	Store *config.Store

	// Fs is where downloads and exports are written.
	Fs afero.Fs

	// HTTPClient overrides the transport's HTTP client.
	HTTPClient *http.Client

	// CorrelationID is sent with every request of this invocation.
	CorrelationID string

	flagVerbose int
	flagQuiet   bool
	flagJSON    bool

	cache *resolve.Cache
}

// NewCommand returns a Command writing to ui.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
		Ctx: context.Background(),
		Fs:  afero.NewOsFs(),
	}
}

// Context returns the invocation context.
func (c *Command) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// ConfigStore returns the credential store.
func (c *Command) ConfigStore() (*config.Store, error) {
	if c.Store != nil {
		return c.Store, nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	c.Store = config.NewStore(path)
	return c.Store, nil
}

// Client loads the configuration and builds a transport client.
func (c *Command) Client() (*client.Client, error) {
	store, err := c.ConfigStore()
	if err != nil {
		return nil, err
	}
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}
	return c.ClientFor(cfg)
}

// ClientFor builds a transport client for cfg without consulting the store.
func (c *Command) ClientFor(cfg *config.Config) (*client.Client, error) {
	endpoints, err := cfg.Endpoints()
	if err != nil {
		return nil, err
	}
	cred, err := cfg.Credential()
	if err != nil {
		return nil, err
	}

	return client.New(client.Config{
		Endpoints:     endpoints,
		Credential:    cred,
		HTTPClient:    c.HTTPClient,
		UserAgent:     "wikicli/" + version.Version,
		CorrelationID: c.CorrelationID,
		Logger:        c.Log,
	})
}

// Session bundles a client with a resolver sharing this process' space
// cache.
type Session struct {
	Client   *client.Client
	Resolver *resolve.Resolver
}

// Session builds a client and resolver.
func (c *Command) Session() (*Session, error) {
	cl, err := c.Client()
	if err != nil {
		return nil, err
	}
	if c.cache == nil {
		c.cache = resolve.NewCache(resolve.DefaultCacheSize)
	}
	return &Session{Client: cl, Resolver: resolve.New(cl, c.cache)}, nil
}

// Verbose returns the -verbose level.
func (c *Command) Verbose() int { return c.flagVerbose }

// Quiet reports whether -quiet was given.
func (c *Command) Quiet() bool { return c.flagQuiet }

// JSON reports whether -json was given.
func (c *Command) JSON() bool { return c.flagJSON }

// Fail reports err and returns the exit code 1. Errors are collapsed to one
// line unless -verbose is set, in which case the raw response body of an API
// error is printed as well.
func (c *Command) Fail(err error) int {
	if c.flagVerbose == 0 {
		c.UI.Error("Error: " + strings.Join(strings.Fields(err.Error()), " "))
		return 1
	}

	c.UI.Error("Error: " + err.Error())
	var apiErr *client.Error
	if errors.As(err, &apiErr) {
		if apiErr.Attempts > 1 {
			c.UI.Error(fmt.Sprintf("Attempts: %d", apiErr.Attempts))
		}
		if id := client.RequestID(apiErr.Header); id != "" {
			c.UI.Error("Request ID: " + id)
		}
		if apiErr.Body != "" {
			c.UI.Error("Response body:\n" + apiErr.Body)
		}
	}
	return 1
}

// Failf formats an error message and returns exit code 1.
func (c *Command) Failf(format string, args ...any) int {
	return c.Fail(fmt.Errorf(format, args...))
}

// Info prints msg unless -quiet was given.
func (c *Command) Info(msg string) {
	if !c.flagQuiet {
		c.UI.Info(msg)
	}
}

// applyLogLevel maps -verbose and -quiet onto the root logger.
func (c *Command) applyLogLevel() {
	switch {
	case c.flagQuiet:
		c.Log.SetLevel(hclog.Error)
	case c.flagVerbose >= 2:
		c.Log.SetLevel(hclog.Trace)
	case c.flagVerbose == 1:
		c.Log.SetLevel(hclog.Debug)
	default:
		c.Log.SetLevel(hclog.Warn)
	}
}
