// Package cli is the command-line shell wiring Config into a running
// crawl. None of this is part of the core crawler (spec §1 Non-goals):
// flag parsing, progress rendering, and process exit codes live here so
// the core packages stay free of os.Exit and fmt.Println.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/OscartGiles/spider-crab/internal/config"
	"github.com/OscartGiles/spider-crab/internal/fetchchain"
	"github.com/OscartGiles/spider-crab/internal/fetcher"
	"github.com/OscartGiles/spider-crab/internal/metadata"
	"github.com/OscartGiles/spider-crab/internal/politeness"
	"github.com/OscartGiles/spider-crab/internal/retry"
	"github.com/OscartGiles/spider-crab/internal/traversal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile           string
	seedURL           string
	concurrency       int
	maxPages          int
	maxTime           time.Duration
	userAgent         string
	timeout           time.Duration
	baseDelay         time.Duration
	jitter            time.Duration
	randomSeed        int64
	maxAttempt        int
	defaultRetryAfter time.Duration
	ignoreRobots      bool
	robotsFile        string
	dryRun            bool
)

var rootCmd = &cobra.Command{
	Use:   "spider-crab",
	Short: "A polite, single-origin concurrent web crawler.",
	Long: `spider-crab crawls a single website starting from one seed URL,
following only same-domain links, while respecting robots.txt and backing
off under server-signaled slowdown (HTTP 429 / Retry-After).

It reports each fetched page as it happens and stops once a page or time
limit is reached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedURL == "" {
			return fmt.Errorf("--seed-url is required")
		}

		cfg, err := InitConfigWithError(seedURL)
		if err != nil {
			return err
		}

		return runCrawl(cmd.Context(), cfg)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&seedURL, "seed-url", "", "the single starting URL to crawl")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "maximum number of simultaneously in-flight fetches")
	rootCmd.PersistentFlags().IntVar(&maxPages, "max-pages", 0, "maximum number of pages to fetch (0 for unlimited)")
	rootCmd.PersistentFlags().DurationVar(&maxTime, "max-time", 0, "maximum wall-clock duration for the crawl (0 for unlimited)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests and robots.txt matching")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request HTTP timeout")
	rootCmd.PersistentFlags().DurationVar(&baseDelay, "base-delay", 0, "initial retry backoff delay")
	rootCmd.PersistentFlags().DurationVar(&jitter, "jitter", 0, "random jitter added to retry backoff")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for retry jitter (0 keeps the default seed)")
	rootCmd.PersistentFlags().IntVar(&maxAttempt, "max-attempt", 0, "maximum fetch attempts per URL before giving up")
	rootCmd.PersistentFlags().DurationVar(&defaultRetryAfter, "default-retry-after", 0, "slowdown duration assumed for a 429 with no Retry-After header")
	rootCmd.PersistentFlags().BoolVar(&ignoreRobots, "ignore-robots", false, "skip robots.txt entirely (assume-HTML filtering still applies)")
	rootCmd.PersistentFlags().StringVar(&robotsFile, "robots-file", "", "path to a robots.txt file to apply (fetching robots.txt is the caller's responsibility)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "crawl without fetching — report the plan and exit")
}

// NewRootCommandForTest exposes rootCmd so tests can set flags through the
// same cobra.Command the CLI actually runs, rather than poking package
// variables directly.
func NewRootCommandForTest() *cobra.Command {
	return rootCmd
}

// ResetFlags restores every package-level flag variable to its zero value.
// Tests call this between cases since cobra flag variables are package
// globals shared across the whole test binary.
func ResetFlags() {
	cfgFile = ""
	seedURL = ""
	concurrency = 0
	maxPages = 0
	maxTime = 0
	userAgent = ""
	timeout = 0
	baseDelay = 0
	jitter = 0
	randomSeed = 0
	maxAttempt = 0
	defaultRetryAfter = 0
	ignoreRobots = false
	robotsFile = ""
	dryRun = false
}

// InitConfigWithError builds a Config from either --config-file or the CLI
// flags, returning any validation error instead of exiting.
func InitConfigWithError(seed string) (config.Config, error) {
	if cfgFile != "" {
		return config.WithConfigFile(cfgFile)
	}

	u, err := url.Parse(seed)
	if err != nil {
		return config.Config{}, fmt.Errorf("error parsing seed URL %s: %w", seed, err)
	}

	builder := config.WithDefault(*u)

	if concurrency > 0 {
		builder = builder.WithConcurrency(concurrency)
	}
	if maxPages > 0 {
		builder = builder.WithMaxPages(maxPages)
	}
	if maxTime > 0 {
		builder = builder.WithMaxTime(maxTime)
	}
	if userAgent != "" {
		builder = builder.WithUserAgent(userAgent)
	}
	if timeout > 0 {
		builder = builder.WithTimeout(timeout)
	}
	if baseDelay > 0 {
		builder = builder.WithBaseDelay(baseDelay)
	}
	if jitter > 0 {
		builder = builder.WithJitter(jitter)
	}
	if randomSeed != 0 {
		builder = builder.WithRandomSeed(randomSeed)
	}
	if maxAttempt > 0 {
		builder = builder.WithMaxAttempt(maxAttempt)
	}
	if defaultRetryAfter > 0 {
		builder = builder.WithDefaultRetryAfter(defaultRetryAfter)
	}
	if ignoreRobots {
		builder = builder.WithIgnoreRobots(true)
	}
	if robotsFile != "" {
		text, err := os.ReadFile(robotsFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error reading robots file %s: %w", robotsFile, err)
		}
		builder = builder.WithRobotsText(text)
	}
	if dryRun {
		builder = builder.WithDryRun(true)
	}

	return builder.Build()
}

// runCrawl assembles the politeness middleware chain and the traversal
// engine from cfg and runs a single crawl to completion, printing each
// page as it is fetched.
func runCrawl(ctx context.Context, cfg config.Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.DryRun() {
		seed := cfg.SeedURL()
		fmt.Printf("Dry run: would crawl %s (concurrency=%d, max-pages=%d, max-time=%v)\n",
			seed.String(), cfg.Concurrency(), cfg.MaxPages(), cfg.MaxTime())
		return nil
	}

	transport := fetcher.NewTransport(&http.Client{Timeout: cfg.Timeout()}, cfg.UserAgent())
	limiter := politeness.NewLimiter(cfg.Concurrency())
	slowdown := politeness.NewCoordinator(cfg.DefaultRetryAfter())
	retryPolicy := retry.NewPolicy(retry.Params{
		MaxAttempts:        cfg.MaxAttempt(),
		BaseDelay:          cfg.BaseDelay(),
		Jitter:             cfg.Jitter(),
		BackoffMultiplier:  cfg.BackoffMultiplier(),
		BackoffMaxDuration: cfg.BackoffMaxDuration(),
		RandomSeed:         cfg.RandomSeed(),
	})
	chain := fetchchain.New(retryPolicy, slowdown, limiter, transport)

	builder := traversal.NewBuilder(chain).
		WithMaxPages(cfg.MaxPages()).
		WithMaxTime(cfg.MaxTime()).
		WithSink(metadata.NewSink(logger))

	if !cfg.IgnoreRobots() && len(cfg.RobotsText()) > 0 {
		var berr error
		builder, berr = builder.WithRobots(cfg.RobotsText(), cfg.UserAgent())
		if berr != nil {
			return fmt.Errorf("failed to parse robots.txt: %w", berr)
		}
	}

	engine, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build crawl engine: %w", err)
	}

	progress := engine.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for page := range progress {
			fmt.Printf("fetched %s (status=%d, links=%d)\n", page.URL.String(), page.Status, len(page.Links))
		}
	}()

	pages := engine.Crawl(ctx, cfg.SeedURL())
	<-done

	fmt.Printf("Crawl complete: %d pages fetched\n", len(pages))
	return nil
}
