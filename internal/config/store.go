package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/wikicli/pkg/auth"
)

const (
	dirName  = "wikicli"
	fileName = "config.hcl"
	fileMode = 0o600
)

// Environment variables read by Load. A complete environment configuration
// takes precedence over the file.
const (
	EnvBaseURL     = "CONFLUENCE_BASE_URL"
	EnvURL         = "CONFLUENCE_URL"
	EnvDomain      = "CONFLUENCE_DOMAIN"
	EnvBearerToken = "CONFLUENCE_BEARER_TOKEN"
	EnvEmail       = "CONFLUENCE_EMAIL"
	EnvToken       = "CONFLUENCE_TOKEN"
)

// ErrNotConfigured is returned by Load when neither the environment nor the
// config file provide a configuration.
var ErrNotConfigured = errors.New("not configured: run 'wikicli auth login' or set " +
	EnvBaseURL + " and credentials in the environment")

// Store reads and writes the config file.
type Store struct {
	fs     afero.Fs
	path   string
	getenv func(string) string
}

// DefaultPath returns <user config dir>/wikicli/config.hcl.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to resolve config directory: %w", err)
	}
	return filepath.Join(dir, dirName, fileName), nil
}

// NewStore creates a Store for path on the OS filesystem reading the process
// environment.
func NewStore(path string) *Store {
	return &Store{fs: afero.NewOsFs(), path: path, getenv: os.Getenv}
}

// NewStoreWithFs creates a Store on fs with a custom environment lookup.
func NewStoreWithFs(fs afero.Fs, path string, getenv func(string) string) *Store {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Store{fs: fs, path: path, getenv: getenv}
}

// Path returns the config file path.
func (s *Store) Path() string { return s.path }

// Load returns the environment configuration when it is complete, otherwise
// the config file.
func (s *Store) Load() (*Config, error) {
	if cfg, err := s.fromEnv(); err != nil || cfg != nil {
		return cfg, err
	}

	src, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("error reading config %s: %w", s.path, err)
	}

	var cfg Config
	if err := hclsimple.Decode(s.path, src, nil, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config %s: %w", s.path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", s.path, err)
	}
	return &cfg, nil
}

// FromEnv reports whether the environment carries a complete configuration.
func (s *Store) FromEnv() bool {
	cfg, err := s.fromEnv()
	return err == nil && cfg != nil
}

func (s *Store) fromEnv() (*Config, error) {
	base := firstNonEmpty(s.getenv(EnvBaseURL), s.getenv(EnvURL), s.getenv(EnvDomain))
	if base == "" {
		return nil, nil
	}

	var cred auth.Credential
	switch {
	case s.getenv(EnvBearerToken) != "":
		cred = auth.Bearer(s.getenv(EnvBearerToken))
	case s.getenv(EnvEmail) != "" && s.getenv(EnvToken) != "":
		cred = auth.Basic(s.getenv(EnvEmail), s.getenv(EnvToken))
	default:
		return nil, nil
	}

	cfg, err := New(base, cred)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration in environment: %w", err)
	}
	return cfg, nil
}

// Save validates cfg and writes it with owner only permissions.
func (s *Store) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(cfg, f.Body())
	if err := afero.WriteFile(s.fs, s.path, f.Bytes(), fileMode); err != nil {
		return fmt.Errorf("error writing config %s: %w", s.path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := s.fs.Chmod(s.path, fileMode); err != nil {
		return fmt.Errorf("error setting config permissions: %w", err)
	}
	return nil
}

// IsConfigured reports whether Load would find a configuration.
func (s *Store) IsConfigured() bool {
	if s.FromEnv() {
		return true
	}
	ok, err := afero.Exists(s.fs, s.path)
	return err == nil && ok
}

// Clear removes the config file. A missing file is not an error.
func (s *Store) Clear() error {
	err := s.fs.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error removing config %s: %w", s.path, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
