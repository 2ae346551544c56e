package infopanel

import (
	"strings"
	"time"

	"github.com/lmfdb/latticeview/pkg/errors"
)

const (
	// DefaultBaseURL is the site serving subgroup info fragments.
	DefaultBaseURL = "https://www.lmfdb.org"
	// DefaultPathPrefix is the route prefix for abstract group subinfo.
	DefaultPathPrefix = "/Groups/Abstract/subinfo"
	// DefaultPlaceholder is shown while nothing is selected.
	DefaultPlaceholder = "Click on a subgroup in the diagram to see information about it."
	// DefaultFailure is shown when a fetch fails.
	DefaultFailure = "Information about this subgroup could not be loaded."
)

// Config enumerates the info panel options.
type Config struct {
	BaseURL     string        `toml:"base_url" json:"base_url" envconfig:"INFO_BASE_URL"`
	PathPrefix  string        `toml:"path_prefix" json:"path_prefix" envconfig:"INFO_PATH_PREFIX"`
	Placeholder string        `toml:"placeholder" json:"placeholder"`
	Failure     string        `toml:"failure" json:"failure"`
	Timeout     time.Duration `toml:"timeout" json:"timeout"`
	Attempts    int           `toml:"attempts" json:"attempts"`
	RetryDelay  time.Duration `toml:"retry_delay" json:"retry_delay"`
	TTL         time.Duration `toml:"ttl" json:"ttl"`
}

// DefaultConfig returns the LMFDB defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		PathPrefix:  DefaultPathPrefix,
		Placeholder: DefaultPlaceholder,
		Failure:     DefaultFailure,
		Timeout:     10 * time.Second,
		Attempts:    3,
		RetryDelay:  500 * time.Millisecond,
		TTL:         24 * time.Hour,
	}
}

// SetDefaults fills zero fields from DefaultConfig.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.PathPrefix == "" {
		c.PathPrefix = d.PathPrefix
	}
	if c.Placeholder == "" {
		c.Placeholder = d.Placeholder
	}
	if c.Failure == "" {
		c.Failure = d.Failure
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.Attempts == 0 {
		c.Attempts = d.Attempts
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = d.RetryDelay
	}
	if c.TTL == 0 {
		c.TTL = d.TTL
	}
}

// Validate reports the first invalid option.
func (c Config) Validate() error {
	switch {
	case !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://"):
		return errors.New(errors.ErrCodeInvalidConfig, "info base url must be http(s), got %q", c.BaseURL)
	case c.Timeout < 0 || c.RetryDelay < 0 || c.TTL < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "info durations must not be negative")
	case c.Attempts < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "info attempts must be at least 1, got %d", c.Attempts)
	}
	return nil
}
