package erldoc

import (
	"fmt"
	"strings"
	"time"
)

// SourcePath is the path template of a module page on the documentation host.
const SourcePath = "/doc/man/%s.html"

// IndexPath is the path of the module index page on the documentation host.
const IndexPath = "/doc/man_index.html"

// DefaultRoutePrefix is the site route that serves module documentation.
const DefaultRoutePrefix = "/erldoc/docs/"

// AnchorPolicy decides how in-page anchors (href="#x") are normalized.
type AnchorPolicy string

// Anchor policies.
const (
	// AnchorKeep leaves in-page anchors untouched.
	AnchorKeep AnchorPolicy = "keep"
	// AnchorPage rewrites in-page anchors to the module's route, e.g.
	// "#new-0" on module array becomes "/erldoc/docs/array#new-0".
	AnchorPage AnchorPolicy = "page"
)

// Config holds everything a pipeline run needs. There is no process-wide
// state; callers build a Config and pass it down.
type Config struct {
	Modules           []string      `yaml:"modules"`
	Locales           []Locale      `yaml:"locales"`
	Host              string        `yaml:"host"`
	Output            string        `yaml:"output"`
	Concurrency       int           `yaml:"concurrency"`
	Timeout           time.Duration `yaml:"timeout"`
	Retries           int           `yaml:"retries"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	RoutePrefix       string        `yaml:"route_prefix"`
	AnchorPolicy      AnchorPolicy  `yaml:"anchor_policy"`
	Tags              bool          `yaml:"tags"`
	Strict            bool          `yaml:"strict"`
}

// DefaultModules returns the compiled-in module list.
func DefaultModules() []string {
	return []string{"alarm_handler", "app", "application", "re", "array"}
}

// DefaultConfig returns the compiled-in configuration.
func DefaultConfig() Config {
	return Config{
		Modules:           DefaultModules(),
		Locales:           DefaultLocales(),
		Host:              "erlang.org",
		Output:            "static/content",
		Concurrency:       4,
		Timeout:           10 * time.Second,
		Retries:           3,
		RequestsPerSecond: 2,
		RoutePrefix:       DefaultRoutePrefix,
		AnchorPolicy:      AnchorKeep,
		Tags:              true,
	}
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	if err := ValidateModuleNames(c.Modules); err != nil {
		return err
	}
	if len(c.Locales) == 0 {
		return Errorf(EINVALID, "at least one locale required")
	}
	seen := make(map[Locale]struct{}, len(c.Locales))
	for _, l := range c.Locales {
		if err := l.Validate(); err != nil {
			return err
		}
		if _, ok := seen[l]; ok {
			return Errorf(EINVALID, "duplicate locale %q", string(l))
		}
		seen[l] = struct{}{}
	}
	if c.Host == "" {
		return Errorf(EINVALID, "source host required")
	}
	if c.Output == "" {
		return Errorf(EINVALID, "output root required")
	}
	if c.Concurrency < 1 {
		return Errorf(EINVALID, "concurrency must be at least 1")
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	if c.Retries < 0 {
		return Errorf(EINVALID, "retries must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		return Errorf(EINVALID, "requests per second must not be negative")
	}
	if !strings.HasPrefix(c.RoutePrefix, "/") || !strings.HasSuffix(c.RoutePrefix, "/") {
		return Errorf(EINVALID, "route prefix %q must start and end with a slash", c.RoutePrefix)
	}
	switch c.AnchorPolicy {
	case AnchorKeep, AnchorPage:
	default:
		return Errorf(EINVALID, "unknown anchor policy %q", string(c.AnchorPolicy))
	}
	return nil
}

// BaseURL returns the documentation host as a URL. A host without a scheme
// is served over plain HTTP.
func (c *Config) BaseURL() string {
	host := strings.TrimSuffix(c.Host, "/")
	if strings.Contains(host, "://") {
		return host
	}
	return "http://" + host
}

// SourceURL returns the documentation page URL of a module.
func (c *Config) SourceURL(module string) string {
	return c.BaseURL() + fmt.Sprintf(SourcePath, module)
}

// IndexURL returns the URL of the module index page.
func (c *Config) IndexURL() string {
	return c.BaseURL() + IndexPath
}
