package cli_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OscartGiles/spider-crab/internal/cli"
	"github.com/OscartGiles/spider-crab/internal/config"
)

func TestInitConfigNoFlags(t *testing.T) {
	cli.ResetFlags()

	cfg, err := cli.InitConfigWithError("https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defaultCfg, err := config.WithDefault(cfg.SeedURL()).Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if cfg.Concurrency() != defaultCfg.Concurrency() {
		t.Errorf("expected Concurrency %d, got %d", defaultCfg.Concurrency(), cfg.Concurrency())
	}
	if cfg.DryRun() != defaultCfg.DryRun() {
		t.Errorf("expected DryRun %t, got %t", defaultCfg.DryRun(), cfg.DryRun())
	}
	if cfg.MaxPages() != defaultCfg.MaxPages() {
		t.Errorf("expected MaxPages %d, got %d", defaultCfg.MaxPages(), cfg.MaxPages())
	}
	seed := cfg.SeedURL()
	if seed.String() != "https://example.com" {
		t.Errorf("expected seed URL 'https://example.com', got '%s'", seed.String())
	}
}

func TestInitConfigInvalidSeedURL(t *testing.T) {
	cli.ResetFlags()

	_, err := cli.InitConfigWithError("://not-a-url")
	if err == nil {
		t.Fatal("expected error for invalid seed URL, got nil")
	}
}

func TestInitConfigWithConcurrency(t *testing.T) {
	cli.ResetFlags()
	defer cli.ResetFlags()

	cmd := cli.NewRootCommandForTest()
	if err := cmd.PersistentFlags().Set("concurrency", "25"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	cfg, err := cli.InitConfigWithError("https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Concurrency() != 25 {
		t.Errorf("expected Concurrency 25, got %d", cfg.Concurrency())
	}
}

func TestInitConfigWithIgnoreRobots(t *testing.T) {
	cli.ResetFlags()
	defer cli.ResetFlags()

	cmd := cli.NewRootCommandForTest()
	if err := cmd.PersistentFlags().Set("ignore-robots", "true"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	cfg, err := cli.InitConfigWithError("https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IgnoreRobots() {
		t.Error("expected IgnoreRobots true")
	}
}

func TestInitConfigWithRobotsFile(t *testing.T) {
	cli.ResetFlags()
	defer cli.ResetFlags()

	dir := t.TempDir()
	path := filepath.Join(dir, "robots.txt")
	robotsText := "User-Agent: *\nDisallow: /private"
	if err := os.WriteFile(path, []byte(robotsText), 0o644); err != nil {
		t.Fatalf("failed to write robots file: %v", err)
	}

	cmd := cli.NewRootCommandForTest()
	if err := cmd.PersistentFlags().Set("robots-file", path); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	cfg, err := cli.InitConfigWithError("https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(cfg.RobotsText()) != robotsText {
		t.Errorf("expected robots text to round-trip, got %q", cfg.RobotsText())
	}
}

func TestInitConfigWithMissingRobotsFile(t *testing.T) {
	cli.ResetFlags()
	defer cli.ResetFlags()

	cmd := cli.NewRootCommandForTest()
	if err := cmd.PersistentFlags().Set("robots-file", filepath.Join(t.TempDir(), "missing.txt")); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	_, err := cli.InitConfigWithError("https://example.com")
	if err == nil {
		t.Fatal("expected error for missing robots file")
	}
}

func TestInitConfigFromFile(t *testing.T) {
	cli.ResetFlags()
	defer cli.ResetFlags()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"seedUrl":"https://example.com","maxPages":7}`), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cmd := cli.NewRootCommandForTest()
	if err := cmd.PersistentFlags().Set("config-file", path); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	cfg, err := cli.InitConfigWithError("https://ignored.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxPages() != 7 {
		t.Errorf("expected MaxPages 7 from config file, got %d", cfg.MaxPages())
	}
}

func TestInitConfigWithMaxTimeAndRetrySettings(t *testing.T) {
	cli.ResetFlags()
	defer cli.ResetFlags()

	cmd := cli.NewRootCommandForTest()
	flags := cmd.PersistentFlags()
	if err := flags.Set("max-time", "90s"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	if err := flags.Set("max-attempt", "3"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	if err := flags.Set("default-retry-after", "2s"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	cfg, err := cli.InitConfigWithError("https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxTime() != 90*time.Second {
		t.Errorf("expected MaxTime 90s, got %v", cfg.MaxTime())
	}
	if cfg.MaxAttempt() != 3 {
		t.Errorf("expected MaxAttempt 3, got %d", cfg.MaxAttempt())
	}
	if cfg.DefaultRetryAfter() != 2*time.Second {
		t.Errorf("expected DefaultRetryAfter 2s, got %v", cfg.DefaultRetryAfter())
	}
}

func TestInitConfigEmptySeedURL(t *testing.T) {
	cli.ResetFlags()
	defer cli.ResetFlags()

	_, err := cli.InitConfigWithError("")
	if err == nil {
		t.Fatal("expected error for empty seed URL")
	}
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
