package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/erldoc"
	"gopkg.in/yaml.v3"
)

// loadConfig layers the configuration: compiled-in defaults, then the YAML
// file at path (if any), then every flag in set.
func loadConfig(path string, flags *ConfigFlags, set map[string]bool) (*erldoc.Config, error) {
	cfg := erldoc.DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, erldoc.Errorf(erldoc.EIO, "read config %s: %v", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, erldoc.Errorf(erldoc.EINVALID, "parse config %s: %v", path, err)
		}
	}

	if set["modules"] {
		cfg.Modules = flags.Modules
	}
	if set["locales"] {
		cfg.Locales = make([]erldoc.Locale, len(flags.Locales))
		for i, l := range flags.Locales {
			cfg.Locales[i] = erldoc.Locale(l)
		}
	}
	if set["host"] {
		cfg.Host = flags.Host
	}
	if set["output"] {
		cfg.Output = flags.Output
	}
	if set["concurrency"] {
		cfg.Concurrency = flags.Concurrency
	}
	if set["timeout"] {
		cfg.Timeout = flags.Timeout
	}
	if set["retries"] {
		cfg.Retries = flags.Retries
	}
	if set["rps"] {
		cfg.RequestsPerSecond = flags.RequestsPerSecond
	}
	if set["route-prefix"] {
		cfg.RoutePrefix = flags.RoutePrefix
	}
	if set["anchor-policy"] {
		cfg.AnchorPolicy = erldoc.AnchorPolicy(flags.AnchorPolicy)
	}
	if set["tags"] {
		cfg.Tags = flags.TagIndex
	}
	if set["strict"] {
		cfg.Strict = flags.Strict
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setFlags returns the names of the flags given on the command line or
// through their environment variables.
func setFlags(kctx *kong.Context) map[string]bool {
	set := make(map[string]bool)
	for _, f := range kctx.Flags() {
		if f.Set {
			set[f.Name] = true
		}
	}
	return set
}
