package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/quotetools/quotescrape/internal/scraper"
	"github.com/quotetools/quotescrape/internal/sink"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

// Options holds all CLI configuration, settable via flags or environment variables.
type Options struct {
	CSVPath    string  `long:"csv" env:"CSV_PATH" default:"data.csv" description:"CSV output path"`
	SQLitePath string  `long:"sqlite" env:"SQLITE_PATH" description:"SQLite output path (disabled if empty)"`
	LimitPages int     `long:"limit-pages" env:"LIMIT_PAGES" default:"0" description:"Stop after N pages (0 = no limit)"`
	Delay      float64 `long:"delay" env:"DELAY" default:"1.0" description:"Politeness delay between page fetches in seconds"`
	Timeout    float64 `long:"timeout" env:"TIMEOUT" default:"15" description:"Per-request HTTP timeout in seconds"`
	UserAgent  string  `long:"user-agent" env:"USER_AGENT" description:"Custom User-Agent string"`
	Profile    string  `long:"profile" env:"PROFILE" description:"YAML site profile path (built-in quotes.toscrape.com profile if empty)"`
	Verbose    bool    `short:"v" long:"verbose" description:"Enable debug logging"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(opts, logger); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func run(opts Options, logger *slog.Logger) error {
	profile := scraper.DefaultProfile()
	if opts.Profile != "" {
		p, err := scraper.LoadProfile(opts.Profile)
		if err != nil {
			return err
		}
		profile = p
		logger.Info("loaded site profile", "name", profile.Name, "path", opts.Profile)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	cfg := scraper.Config{
		Profile:    profile,
		CSVPath:    opts.CSVPath,
		SQLitePath: opts.SQLitePath,
		PageLimit:  opts.LimitPages,
		Delay:      time.Duration(opts.Delay * float64(time.Second)),
		UserAgent:  userAgent,
		Timeout:    time.Duration(opts.Timeout * float64(time.Second)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := scraper.NewClient(cfg.Timeout, cfg.UserAgent)
	driver := scraper.NewDriver(cfg, client, logger)

	result := driver.Run(ctx)
	if result.Err != nil {
		// Terminal for the loop, not for the process: partial results
		// still get flushed below.
		logger.Warn("scrape stopped early", "state", result.State.String(), "err", result.Err)
	}

	// Flush on a fresh context so an interrupt that ended the loop
	// does not also discard the partial results.
	flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := flush(flushCtx, cfg, result.Records); err != nil {
		return err
	}
	logger.Info("results written",
		"csv", cfg.CSVPath,
		"sqlite", cfg.SQLitePath,
		"records", len(result.Records))
	return nil
}

// flush writes all enabled sinks; CSV and SQLite are independent, so
// they run concurrently.
func flush(ctx context.Context, cfg scraper.Config, records []scraper.Record) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sink.WriteCSV(cfg.CSVPath, cfg.Profile.Fields, records)
	})
	if cfg.SQLitePath != "" {
		g.Go(func() error {
			return sink.WriteSQLite(ctx, cfg.SQLitePath, records)
		})
	}
	return g.Wait()
}
