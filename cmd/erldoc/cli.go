package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/erldoc"
	"github.com/fwojciec/erldoc/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Config    *erldoc.Config
	Store     *fs.Store
	Fetcher   erldoc.Fetcher
	Sitemaps  erldoc.SitemapService
	Runs      erldoc.RunService
	Converter erldoc.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	ConfigFile string `name:"config" short:"c" type:"path" env:"ERLDOC_CONFIG" help:"YAML configuration file"`
	Verbose    bool   `short:"v" help:"Enable debug logging"`
	DB         string `name:"db" type:"path" env:"ERLDOC_DB" help:"SQLite database for run history (disabled when empty)"`

	ConfigFlags `embed:""`

	Grab    GrabCmd    `cmd:"" default:"withargs" help:"Fetch, normalize and write module records (default)"`
	Tags    TagsCmd    `cmd:"" help:"Write only the tag index"`
	Prune   PruneCmd   `cmd:"" help:"Remove records of modules no longer configured"`
	Reindex ReindexCmd `cmd:"" help:"Rewrite record names from their file names"`
	Export  ExportCmd  `cmd:"" help:"Export records as Markdown with YAML frontmatter"`
	History HistoryCmd `cmd:"" help:"Show recorded runs"`
}

// ConfigFlags override configuration file values. A flag only applies when
// set on the command line or through its environment variable.
type ConfigFlags struct {
	Modules           []string      `short:"m" sep:"," env:"ERLDOC_MODULES" help:"Modules to process (comma separated)"`
	Locales           []string      `short:"l" sep:"," env:"ERLDOC_LOCALES" help:"Locales to write (comma separated)"`
	Host              string        `env:"ERLDOC_HOST" help:"Documentation host"`
	Output            string        `short:"o" type:"path" env:"ERLDOC_OUTPUT" help:"Output root directory"`
	Concurrency       int           `env:"ERLDOC_CONCURRENCY" help:"Modules processed in parallel"`
	Timeout           time.Duration `env:"ERLDOC_TIMEOUT" help:"Timeout of a single fetch"`
	Retries           int           `env:"ERLDOC_RETRIES" help:"Retries of transient fetch failures"`
	RequestsPerSecond float64       `name:"rps" env:"ERLDOC_RPS" help:"Requests per second to the documentation host (0 disables limiting)"`
	RoutePrefix       string        `env:"ERLDOC_ROUTE_PREFIX" help:"Site route prefix for rewritten links"`
	AnchorPolicy      string        `env:"ERLDOC_ANCHOR_POLICY" help:"In-page anchor handling (keep or page)"`
	TagIndex          bool          `name:"tags" negatable:"" env:"ERLDOC_TAGS" help:"Write the tag index"`
	Strict            bool          `env:"ERLDOC_STRICT" help:"Exit with an error if any module fails"`
}

// GrabCmd is the "grab" subcommand.
type GrabCmd struct {
	Discover    bool   `help:"Discover modules from the host's sitemap"`
	Browser     bool   `help:"Render pages with headless Chrome"`
	MetricsFile string `type:"path" help:"Write Prometheus metrics to this textfile"`
}

// TagsCmd is the "tags" subcommand.
type TagsCmd struct {
	Discover bool `help:"Discover modules from the host's sitemap"`
	Browser  bool `help:"Render pages with headless Chrome"`
}

// PruneCmd is the "prune" subcommand.
type PruneCmd struct {
	DryRun bool `help:"Only report files that would be removed"`
}

// ReindexCmd is the "reindex" subcommand.
type ReindexCmd struct {
	DryRun bool `help:"Only report files that would be rewritten"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir string `arg:"" optional:"" type:"path" default:"markdown" help:"Export directory"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	RunID string `name:"run" help:"Show module results of this run"`
	Limit int    `default:"10" help:"Number of runs to show"`
}
