// Package config loads service configuration from the environment, with an
// optional .env file for local development. All variables carry the SPIELPLAN_
// prefix; only the source URL and club name are required.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/tbraun/spielplan/internal/logger"
)

// Config holds everything the binaries need
type Config struct {
	SourceURL       string
	ClubName        string
	ClubDescription string
	ClubLogo        string

	SnapshotPath string
	RefdataDir   string

	ListenAddr        string
	SessionDBPath     string
	SessionTTL        time.Duration
	AdminPasswordHash string

	FetchTimeout time.Duration
	RunTimeout   time.Duration

	SchedulerEnabled bool
	SchedulerCron    string

	LogLevel logger.Level
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not found, using environment variables", nil)
	}

	cfg := &Config{
		SourceURL:       os.Getenv("SPIELPLAN_SOURCE_URL"),
		ClubName:        os.Getenv("SPIELPLAN_CLUB_NAME"),
		ClubDescription: os.Getenv("SPIELPLAN_CLUB_DESCRIPTION"),
		ClubLogo:        os.Getenv("SPIELPLAN_CLUB_LOGO"),

		SnapshotPath: getEnv("SPIELPLAN_SNAPSHOT_PATH", "data/spielplan.json"),
		RefdataDir:   getEnv("SPIELPLAN_REFDATA_DIR", "refdata"),

		ListenAddr:        getEnv("SPIELPLAN_LISTEN_ADDR", ":8080"),
		SessionDBPath:     getEnv("SPIELPLAN_SESSION_DB", "data/sessions.db"),
		SessionTTL:        getDuration("SPIELPLAN_SESSION_TTL", 12*time.Hour),
		AdminPasswordHash: os.Getenv("SPIELPLAN_ADMIN_PASSWORD_HASH"),

		FetchTimeout: getDuration("SPIELPLAN_FETCH_TIMEOUT", 30*time.Second),
		RunTimeout:   getDuration("SPIELPLAN_RUN_TIMEOUT", 2*time.Minute),

		SchedulerEnabled: getBool("SPIELPLAN_SCHEDULER_ENABLED", false),
		SchedulerCron:    getEnv("SPIELPLAN_SCHEDULER_CRON", "0 6 * * *"),

		LogLevel: logger.Level(getEnv("SPIELPLAN_LOG_LEVEL", string(logger.LevelInfo))),
	}

	if cfg.SourceURL == "" {
		return nil, fmt.Errorf("SPIELPLAN_SOURCE_URL is required")
	}
	if cfg.ClubName == "" {
		return nil, fmt.Errorf("SPIELPLAN_CLUB_NAME is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn("invalid duration, using fallback", logger.Fields{
			"key":      key,
			"value":    v,
			"fallback": fallback.String(),
		})
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
