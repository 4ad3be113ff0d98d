package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/erldoc"
	"github.com/fwojciec/erldoc/fs"
	"github.com/fwojciec/erldoc/htmltomarkdown"
	erlhttp "github.com/fwojciec/erldoc/http"
	"github.com/fwojciec/erldoc/rod"
	erlslog "github.com/fwojciec/erldoc/slog"
	"github.com/fwojciec/erldoc/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Dotenv files loaded before flags are parsed. Missing files are skipped.
	EnvFiles []string

	// SQLite database used for run history. Opened only when --db is set.
	DB *sqlite.DB

	// Services for end-to-end testing. When nil the real implementations
	// are wired.
	Fetcher  erldoc.Fetcher
	Sitemaps erldoc.SitemapService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		EnvFiles: []string{".env"},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if err := loadEnvFiles(m.EnvFiles); err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("erldoc"),
		kong.Description("Scrape Erlang module documentation into JSON records."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	// Grab is the default command and may not appear in the command path.
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")
	if cmd == "" {
		cmd = "grab"
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(cli.ConfigFile, &cli.ConfigFlags, setFlags(kongCtx))
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", erldoc.ErrorMessage(err))
		return err
	}
	deps.Config = cfg
	deps.Store = fs.NewStore(cfg.Output)
	deps.Converter = htmltomarkdown.NewConverter()

	sitemaps := m.Sitemaps
	if sitemaps == nil {
		sitemaps = erlhttp.NewSitemapService(nil)
	}
	deps.Sitemaps = erlslog.NewLoggingSitemapService(sitemaps, deps.Logger)

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set ERLDOC_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	// Wire command-specific dependencies based on command
	if cmd == "grab" || cmd == "tags" {
		fetcher := m.Fetcher
		if fetcher == nil {
			if cli.Grab.Browser || cli.Tags.Browser {
				f, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.Timeout))
				if err != nil {
					fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
					return fmt.Errorf("failed to start browser: %w", err)
				}
				defer f.Close()
				fetcher = f
			} else {
				f := erlhttp.NewFetcher(erlhttp.WithTimeout(cfg.Timeout))
				defer f.Close()
				fetcher = f
			}
		}
		deps.Fetcher = erlslog.NewLoggingFetcher(fetcher, deps.Logger)
	}

	return kongCtx.Run(deps)
}

func loadEnvFiles(files []string) error {
	for _, path := range files {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
