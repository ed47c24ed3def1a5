// cmd/reconciler/commands.go
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/counter-reconciler/internal/board"
	"github.com/tamzrod/counter-reconciler/internal/config"
	"github.com/tamzrod/counter-reconciler/internal/dashboard"
	"github.com/tamzrod/counter-reconciler/internal/logging"
	"github.com/tamzrod/counter-reconciler/internal/metrics"
	"github.com/tamzrod/counter-reconciler/internal/monitor"
	"github.com/tamzrod/counter-reconciler/internal/poller"
	"github.com/tamzrod/counter-reconciler/internal/writer"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reconciler",
		Short:         "Poll counter snapshots and show whether they reconcile",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(), newValidateCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Run the poller and dashboard until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0], logLevel)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "override logging.level (trace|debug|info|warn|error)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Load and validate a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(args[0], ""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config ok")
			return nil
		},
	}
}

// --------------------
// Load + validate config
// --------------------

// loadConfig applies a non-empty logLevel override before validation so a
// bad flag value is rejected like a bad file value.
func loadConfig(path, logLevel string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Fields: map[string]string{"monitor": cfg.Monitor.Name},
	})

	// --------------------
	// Build pipeline
	// --------------------

	// ---- poller ----
	p, err := poller.Build(cfg.Monitor)
	if err != nil {
		return fmt.Errorf("poller build failed: %w", err)
	}

	// ---- status mirror (optional) ----
	sw, closeStatus, err := writer.BuildStatusWriter(cfg.Monitor)
	if err != nil {
		return fmt.Errorf("status writer failed: %w", err)
	}
	defer func() {
		if err := closeStatus(); err != nil {
			log.Warn().Err(err).Msg("status client close failed")
		}
	}()

	// ---- board + monitor ----
	b := board.New(p.Rule())

	mcfg := monitor.Config{Board: b, Logger: log}
	if sw != nil {
		mcfg.Status = sw
	}
	mon, err := monitor.New(mcfg)
	if err != nil {
		return err
	}

	log.Info().
		Str("variant", cfg.Monitor.Variant).
		Str("source", cfg.Monitor.Source.BaseURL+cfg.Monitor.Source.Path).
		Dur("interval", p.Interval()).
		Bool("status_mirror", sw != nil).
		Msg("starting")

	g, gctx := errgroup.WithContext(ctx)

	// ---- channel between poller and monitor ----
	out := make(chan poller.PollResult)

	g.Go(func() error {
		mon.Run(gctx, out)
		return nil
	})

	// poller producer; Stop waits for the in-flight cycle
	g.Go(func() error {
		h := p.Start(gctx, out)
		<-gctx.Done()
		h.Stop()
		return nil
	})

	if cfg.Dashboard.IsEnabled() {
		srv, err := dashboard.New(dashboard.Config{
			Address: cfg.Dashboard.Address,
			Title:   cfg.Monitor.Name,
			Refresh: p.Interval(),
			Board:   b,
			Status:  mon.Status,
			Metrics: metrics.Handler(),
			Logger:  log,
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := srv.ListenAndServe(gctx); err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			return nil
		})
	}

	err = g.Wait()
	logShutdown(log, b.Len(), err)
	return err
}

func logShutdown(log zerolog.Logger, records int, err error) {
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Int("records", records).Time("at", time.Now()).Msg("stopped")
}
