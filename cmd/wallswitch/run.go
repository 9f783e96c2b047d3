package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"wallswitch/internal/config"
	"wallswitch/internal/deps"
	"wallswitch/internal/history"
	"wallswitch/internal/instance"
	"wallswitch/internal/logging"
	"wallswitch/internal/probe"
	"wallswitch/internal/render"
	"wallswitch/internal/selection"
)

func runRotation(cmd *cobra.Command, ctx *commandContext, replace bool) error {
	if ctx == nil {
		return fmt.Errorf("command context is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	inst, err := instance.Acquire(signalCtx, cfg.LockPath(), cfg.PIDPath(), instance.Options{Replace: replace})
	if err != nil {
		return err
	}
	defer func() {
		if err := inst.Release(); err != nil {
			logger.Warn("release instance lock", logging.Error(err))
		}
	}()

	if missing := deps.Missing(deps.CheckBinaries(deps.ForConfig(cfg))); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, status := range missing {
			names = append(names, fmt.Sprintf("%s (%s)", status.Name, status.Command))
			logger.Error("required tool unavailable",
				logging.String("tool", status.Name),
				logging.String("command", status.Command),
				logging.String("detail", status.Detail),
			)
		}
		return fmt.Errorf("missing required tools: %s", strings.Join(names, ", "))
	}

	runID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldRunID, runID))
	logger.Info("wallswitch starting",
		logging.Int("pid", inst.PID()),
		logging.String("desktop", cfg.Display.Desktop),
		logging.Int("monitors", len(cfg.Display.Monitors)),
		logging.Duration("interval", cfg.Interval()),
		logging.Bool("sort", cfg.Selection.Sort),
		logging.Bool("history", cfg.History.Enabled),
	)

	options := []selection.Option{
		selection.WithLogger(logging.NewComponentLogger(logger, "selection")),
		selection.WithRunID(runID),
	}
	if store := openHistory(signalCtx, cfg, logger); store != nil {
		defer store.Close()
		options = append(options, selection.WithRecorder(store))
	}

	cycle := selection.New(
		selectionOptions(cfg),
		probe.NewIdentify(cfg.Binaries.Magick, cfg.Binaries.Identify),
		render.New(cfg, deps.ExecRunner{}, logging.NewComponentLogger(logger, "render")),
		options...,
	)

	err = cycle.Run(signalCtx)
	if signalCtx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		logger.Info("wallswitch shutting down")
		return nil
	}
	if err != nil {
		logger.Error("rotation stopped",
			logging.String("state", cycle.State().String()),
			logging.Bool("fatal", selection.IsFatal(err)),
			logging.Error(err),
		)
	}
	return err
}

func selectionOptions(cfg *config.Config) selection.Options {
	return selection.Options{
		Directories: cfg.Paths.Directories,
		Extensions:  cfg.Selection.Extensions,
		Plans:       cfg.Plans(),
		Constraints: cfg.Constraints(),
		Interval:    cfg.Interval(),
		Sort:        cfg.Selection.Sort,
		Concurrency: cfg.Selection.Concurrency,
	}
}

// openHistory returns nil when history is disabled or unavailable; the
// rotation runs without it.
func openHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logger.Warn("history unavailable", logging.String("path", cfg.HistoryPath()), logging.Error(err))
		return nil
	}
	removed, err := store.PruneRetention(ctx, cfg.History.RetentionDays)
	if err != nil {
		logger.Warn("prune history", logging.Error(err))
	} else if removed > 0 {
		logger.Info("pruned history",
			logging.Int("removed", int(removed)),
			logging.Duration("retention", time.Duration(cfg.History.RetentionDays)*24*time.Hour),
		)
	}
	return store
}
