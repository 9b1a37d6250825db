package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SPIELPLAN_SOURCE_URL", "https://tsv-brunntal.de/spielplan")
	t.Setenv("SPIELPLAN_CLUB_NAME", "TSV Brunntal")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SnapshotPath != "data/spielplan.json" {
		t.Errorf("unexpected snapshot path %q", cfg.SnapshotPath)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("unexpected listen addr %q", cfg.ListenAddr)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("unexpected session TTL %s", cfg.SessionTTL)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("unexpected fetch timeout %s", cfg.FetchTimeout)
	}
	if cfg.SchedulerEnabled {
		t.Error("scheduler should be off by default")
	}
	if cfg.SchedulerCron != "0 6 * * *" {
		t.Errorf("unexpected cron spec %q", cfg.SchedulerCron)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SPIELPLAN_SOURCE_URL", "https://tsv-brunntal.de/spielplan")
	t.Setenv("SPIELPLAN_CLUB_NAME", "TSV Brunntal")
	t.Setenv("SPIELPLAN_FETCH_TIMEOUT", "5s")
	t.Setenv("SPIELPLAN_SCHEDULER_ENABLED", "true")
	t.Setenv("SPIELPLAN_LISTEN_ADDR", "127.0.0.1:9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("unexpected fetch timeout %s", cfg.FetchTimeout)
	}
	if !cfg.SchedulerEnabled {
		t.Error("scheduler override not applied")
	}
	if cfg.ListenAddr != "127.0.0.1:9090" {
		t.Errorf("unexpected listen addr %q", cfg.ListenAddr)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("SPIELPLAN_SOURCE_URL", "https://tsv-brunntal.de/spielplan")
	t.Setenv("SPIELPLAN_CLUB_NAME", "TSV Brunntal")
	t.Setenv("SPIELPLAN_RUN_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RunTimeout != 2*time.Minute {
		t.Errorf("invalid duration should fall back, got %s", cfg.RunTimeout)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("SPIELPLAN_SOURCE_URL", "")
	t.Setenv("SPIELPLAN_CLUB_NAME", "TSV Brunntal")
	if _, err := Load(); err == nil {
		t.Error("missing source URL should be an error")
	}

	t.Setenv("SPIELPLAN_SOURCE_URL", "https://tsv-brunntal.de/spielplan")
	t.Setenv("SPIELPLAN_CLUB_NAME", "")
	if _, err := Load(); err == nil {
		t.Error("missing club name should be an error")
	}
}
