// Package config is the fluent builder assembling a crawl's scope, limits,
// politeness and fetch parameters, kept in the teacher's
// WithDefault(...).With*(...).Build() shape.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"
)

type Config struct {
	//===============
	// Crawl scope
	//===============
	seedURL url.URL

	//===============
	// Limits
	//===============
	maxPages int
	maxTime  time.Duration

	//===============
	// Politeness
	//===============
	concurrency            int
	baseDelay              time.Duration
	jitter                 time.Duration
	randomSeed             int64
	maxAttempt             int
	backoffInitialDuration time.Duration
	backoffMultiplier      float64
	backoffMaxDuration     time.Duration
	defaultRetryAfter      time.Duration

	//===============
	// Fetch
	//===============
	timeout   time.Duration
	userAgent string

	//===============
	// Robots
	//===============
	robotsText   []byte
	ignoreRobots bool

	//===============
	// Output
	//===============
	dryRun bool
}

type configDTO struct {
	SeedURL                string        `json:"seedUrl"`
	MaxPages               int           `json:"maxPages,omitempty"`
	MaxTime                time.Duration `json:"maxTime,omitempty"`
	Concurrency            int           `json:"concurrency,omitempty"`
	BaseDelay              time.Duration `json:"baseDelay,omitempty"`
	Jitter                 time.Duration `json:"jitter,omitempty"`
	RandomSeed             int64         `json:"randomSeed,omitempty"`
	MaxAttempt             int           `json:"maxAttempt,omitempty"`
	BackoffInitialDuration time.Duration `json:"backoffInitialDuration,omitempty"`
	BackoffMultiplier      float64       `json:"backoffMultiplier,omitempty"`
	BackoffMaxDuration     time.Duration `json:"backoffMaxDuration,omitempty"`
	DefaultRetryAfter      time.Duration `json:"defaultRetryAfter,omitempty"`
	Timeout                time.Duration `json:"timeout,omitempty"`
	UserAgent              string        `json:"userAgent,omitempty"`
	IgnoreRobots           bool          `json:"ignoreRobots,omitempty"`
	DryRun                 bool          `json:"dryRun,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	seed, err := url.Parse(dto.SeedURL)
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid seedUrl: %s", ErrInvalidConfig, err)
	}

	cfg, err := WithDefault(*seed).Build()
	if err != nil {
		return Config{}, err
	}

	if dto.MaxPages != 0 {
		cfg.maxPages = dto.MaxPages
	}
	if dto.MaxTime != 0 {
		cfg.maxTime = dto.MaxTime
	}
	if dto.Concurrency != 0 {
		cfg.concurrency = dto.Concurrency
	}
	if dto.BaseDelay != 0 {
		cfg.baseDelay = dto.BaseDelay
	}
	if dto.Jitter != 0 {
		cfg.jitter = dto.Jitter
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.MaxAttempt != 0 {
		cfg.maxAttempt = dto.MaxAttempt
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.backoffInitialDuration = dto.BackoffInitialDuration
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = dto.BackoffMaxDuration
	}
	if dto.DefaultRetryAfter != 0 {
		cfg.defaultRetryAfter = dto.DefaultRetryAfter
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	cfg.ignoreRobots = dto.IgnoreRobots
	cfg.dryRun = dto.DryRun

	return cfg, nil
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	dto := configDTO{}
	if err := json.Unmarshal(content, &dto); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(dto)
}

// WithDefault creates a new Config for seedURL with default values for
// everything else. seedURL is mandatory: Build rejects a zero-value URL.
func WithDefault(seedURL url.URL) *Config {
	return &Config{
		seedURL:                seedURL,
		maxPages:               0,
		maxTime:                0,
		concurrency:            10,
		baseDelay:              time.Second,
		jitter:                 500 * time.Millisecond,
		randomSeed:             1,
		maxAttempt:             5,
		backoffInitialDuration: 100 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     10 * time.Second,
		defaultRetryAfter:      time.Second,
		timeout:                10 * time.Second,
		userAgent:              "spider-crab/1.0",
		ignoreRobots:           false,
		dryRun:                 false,
	}
}

func (c *Config) WithSeedURL(u url.URL) *Config {
	c.seedURL = u
	return c
}

func (c *Config) WithMaxPages(n int) *Config {
	c.maxPages = n
	return c
}

func (c *Config) WithMaxTime(d time.Duration) *Config {
	c.maxTime = d
	return c
}

func (c *Config) WithConcurrency(n int) *Config {
	c.concurrency = n
	return c
}

func (c *Config) WithBaseDelay(d time.Duration) *Config {
	c.baseDelay = d
	return c
}

func (c *Config) WithJitter(d time.Duration) *Config {
	c.jitter = d
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxAttempt(n int) *Config {
	c.maxAttempt = n
	return c
}

func (c *Config) WithBackoffInitialDuration(d time.Duration) *Config {
	c.backoffInitialDuration = d
	return c
}

func (c *Config) WithBackoffMultiplier(m float64) *Config {
	c.backoffMultiplier = m
	return c
}

func (c *Config) WithBackoffMaxDuration(d time.Duration) *Config {
	c.backoffMaxDuration = d
	return c
}

func (c *Config) WithDefaultRetryAfter(d time.Duration) *Config {
	c.defaultRetryAfter = d
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.timeout = d
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithRobotsText(text []byte) *Config {
	c.robotsText = text
	return c
}

func (c *Config) WithIgnoreRobots(ignore bool) *Config {
	c.ignoreRobots = ignore
	return c
}

func (c *Config) WithDryRun(dryRun bool) *Config {
	c.dryRun = dryRun
	return c
}

func (c *Config) Build() (Config, error) {
	if c.seedURL.String() == "" {
		return Config{}, fmt.Errorf("%w: seedUrl cannot be empty", ErrInvalidConfig)
	}
	if c.concurrency <= 0 {
		return Config{}, fmt.Errorf("%w: concurrency must be > 0", ErrInvalidConfig)
	}
	return *c, nil
}

func (c Config) SeedURL() url.URL { return c.seedURL }

func (c Config) MaxPages() int { return c.maxPages }

func (c Config) MaxTime() time.Duration { return c.maxTime }

func (c Config) Concurrency() int { return c.concurrency }

func (c Config) BaseDelay() time.Duration { return c.baseDelay }

func (c Config) Jitter() time.Duration { return c.jitter }

func (c Config) RandomSeed() int64 { return c.randomSeed }

func (c Config) MaxAttempt() int { return c.maxAttempt }

func (c Config) BackoffInitialDuration() time.Duration { return c.backoffInitialDuration }

func (c Config) BackoffMultiplier() float64 { return c.backoffMultiplier }

func (c Config) BackoffMaxDuration() time.Duration { return c.backoffMaxDuration }

func (c Config) DefaultRetryAfter() time.Duration { return c.defaultRetryAfter }

func (c Config) Timeout() time.Duration { return c.timeout }

func (c Config) UserAgent() string { return c.userAgent }

func (c Config) RobotsText() []byte { return c.robotsText }

func (c Config) IgnoreRobots() bool { return c.ignoreRobots }

func (c Config) DryRun() bool { return c.dryRun }
