// Package cli implements the spielplan command line: one-shot scrapes, the
// HTTP server and snapshot inspection. Configuration comes from the
// environment (see the config package); flags only control per-invocation
// behavior like output format.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbraun/spielplan/internal/auth"
	"github.com/tbraun/spielplan/internal/config"
	"github.com/tbraun/spielplan/internal/fetch"
	"github.com/tbraun/spielplan/internal/ingest"
	"github.com/tbraun/spielplan/internal/logger"
	"github.com/tbraun/spielplan/internal/refdata"
	"github.com/tbraun/spielplan/internal/scheduler"
	"github.com/tbraun/spielplan/internal/server"
	"github.com/tbraun/spielplan/internal/session"
	"github.com/tbraun/spielplan/internal/snapshot"
)

var (
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spielplan",
		Short: "Scrape and serve a club's fixture schedule",
		Long: `spielplan pulls a club's fixture page, normalizes the free-text listings
into structured records and publishes them as a date-grouped JSON snapshot.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				logger.SetDefault(logger.New(logger.LevelDebug, os.Stdout))
			}
		},
	}

	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	root.AddCommand(newScrapeCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newHashPasswordCmd())

	return root
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run the ingestion pipeline once and print the run summary",
		RunE:  runScrape,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	runner, _, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	summary, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("scrape run failed (%s): %w", ingest.ErrorCode(err), err)
	}

	return writeSummary(os.Stdout, summary, format)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read API and the session-gated scrape trigger",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger.SetDefault(logger.New(cfg.LogLevel, os.Stdout))

	runner, store, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	sessions, err := session.NewStore(cfg.SessionDBPath, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("initializing sessions: %w", err)
	}
	defer sessions.Close()

	ref, err := refdata.Load(cfg.RefdataDir)
	if err != nil {
		return fmt.Errorf("loading reference data: %w", err)
	}

	srv := server.New(runner, store, sessions, ref, cfg.AdminPasswordHash, cfg.SessionTTL, cfg.RunTimeout)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Router(),
	}

	if cfg.SchedulerEnabled {
		sched, err := scheduler.New(runner, cfg.SchedulerCron, cfg.RunTimeout)
		if err != nil {
			return fmt.Errorf("initializing scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
		logger.Info("scheduler started", logger.Fields{"cron": cfg.SchedulerCron})
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", logger.Fields{"addr": cfg.ListenAddr})
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", logger.Fields{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	}
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the latest persisted snapshot",
		RunE:  runShow,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := snapshot.NewStore(cfg.SnapshotPath)
	if err != nil {
		return fmt.Errorf("initializing snapshot store: %w", err)
	}

	snap, err := store.Load()
	if err != nil {
		return err
	}

	return writeSnapshot(os.Stdout, snap, format)
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash an admin password for SPIELPLAN_ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoded, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, encoded)
			return nil
		},
	}
}

// buildRunner assembles the pipeline from configuration
func buildRunner(cfg *config.Config) (*ingest.Runner, *snapshot.Store, error) {
	store, err := snapshot.NewStore(cfg.SnapshotPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing snapshot store: %w", err)
	}

	fetcher := fetch.NewWithClient(cfg.SourceURL, &http.Client{Timeout: cfg.FetchTimeout})
	club := snapshot.Club{
		Name:        cfg.ClubName,
		Description: cfg.ClubDescription,
		Logo:        cfg.ClubLogo,
	}

	return ingest.NewRunner(fetcher, store, club), store, nil
}
