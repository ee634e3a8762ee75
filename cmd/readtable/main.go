package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/readtable/internal/app"
)

// errVersion signals that -version was requested and nothing else should run.
var errVersion = errors.New("version requested")

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, errVersion):
		fmt.Printf("readtable %s (commit %s, built %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	case errors.Is(err, flag.ErrHelp):
		return
	case err != nil:
		fmt.Fprintln(os.Stderr, app.UserMessage(err))
		os.Exit(app.ExitCode(err))
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := run(cfg); err != nil {
		log.Debug().Err(err).Msg("run failed")
		fmt.Fprintln(os.Stderr, app.UserMessage(err))
		os.Exit(app.ExitCode(err))
	}
}

// parseArgs builds the run configuration. Precedence is flags, then
// environment (including dotenv files), then the optional config file.
func parseArgs(args []string, stderr io.Writer) (app.Config, error) {
	var (
		cfg         app.Config
		configPath  string
		envFile     string
		showVersion bool
	)

	fs := flag.NewFlagSet("readtable", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: readtable [flags] <URL or HTML file>")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.OutputDir, "out.dir", "", "Directory for CSV output (default current directory)")
	fs.StringVar(&cfg.OutputName, "out.name", "", "File name used when only the first table is written (default output.csv)")
	fs.StringVar(&cfg.Tables, "tables", app.DefaultTables, "Tables to write: first, all, or 1-based list such as 2,4")
	fs.StringVar(&cfg.Delimiter, "delimiter", app.DefaultDelimiter, `CSV field delimiter; use \t or tab for tabs`)
	fs.BoolVar(&cfg.CRLF, "crlf", false, "Terminate CSV records with \\r\\n")
	fs.StringVar(&cfg.ManifestPath, "manifest", "", "Write a JSON manifest of written files to this path")
	fs.StringVar(&cfg.PDFPath, "pdf", "", "Also render the selected tables into this PDF file")
	fs.StringVar(&cfg.UserAgent, "ua", app.DefaultUserAgent(), "User-Agent for remote fetches")
	fs.DurationVar(&cfg.Timeout, "timeout", app.DefaultTimeout, "Timeout for remote fetches")
	fs.BoolVar(&cfg.RequireHTML, "require.html", false, "Reject remote responses whose Content-Type is not HTML")
	fs.StringVar(&cfg.Charset, "charset", "", "Input charset: empty for UTF-8, auto to sniff, or an encoding label")
	fs.StringVar(&cfg.Nested, "nested", app.DefaultNested, "Nested table policy: ignore or restart")
	fs.BoolVar(&cfg.FragmentStrip, "fragment.strip", false, "Trim each text fragment of a cell before joining")
	fs.BoolVar(&cfg.Preview, "preview", false, "Print a text preview of the selected tables")
	fs.IntVar(&cfg.PreviewRows, "preview.rows", app.DefaultPreviewRows, "Body rows shown per preview (0 shows all)")
	fs.StringVar(&cfg.CacheDir, "cache.dir", "", "HTTP cache directory; empty disables caching")
	fs.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	fs.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear cache directory before run")
	fs.BoolVar(&cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	fs.BoolVar(&cfg.CacheBypass, "cache.bypass", false, "Ignore cached responses for this run")
	fs.StringVar(&configPath, "config", os.Getenv("READTABLE_CONFIG"), "Optional YAML or JSON config file")
	fs.StringVar(&envFile, "env", app.DefaultEnvFile, "Dotenv file loaded before reading the environment")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, fmt.Errorf("%w: %v", app.ErrUsage, err)
	}
	if showVersion {
		return cfg, errVersion
	}
	fs.Visit(func(f *flag.Flag) { cfg.MarkExplicit(f.Name) })
	if fs.NArg() != 1 {
		fs.Usage()
		return cfg, fmt.Errorf("%w: expected exactly one URL or file name, got %d arguments", app.ErrUsage, fs.NArg())
	}
	cfg.Source = strings.TrimSpace(fs.Arg(0))

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Warn().Err(err).Str("file", envFile).Msg("dotenv load failed")
	}
	app.ApplyEnvToConfig(&cfg)

	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return cfg, err
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = a.Run(ctx)
	return err
}
