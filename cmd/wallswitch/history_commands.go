package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"wallswitch/internal/history"
)

type historyRow struct {
	RunID       string    `json:"run_id"`
	Cycle       int       `json:"cycle"`
	EmittedAt   time.Time `json:"emitted_at"`
	Monitor     int       `json:"monitor"`
	Orientation string    `json:"orientation"`
	Index       int       `json:"index"`
	Total       int       `json:"total"`
	Path        string    `json:"path"`
	Hash        string    `json:"hash"`
	Size        uint64    `json:"size"`
	Dimension   string    `json:"dimension"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently applied wallpaper images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistoryStore(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				rows := make([]historyRow, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, toHistoryRow(entry))
				}
				return writeJSON(cmd, rows)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No wallpapers recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Emitted", "Cycle", "Monitor", "#", "Dimension", "Path"},
				historyTableRows(entries),
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))
			total, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Showing %d of %d entries\n", len(entries), total)
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))
	return historyCmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every history entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistoryStore(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entries\n", removed)
			return nil
		},
	}
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove history entries older than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openHistoryStore(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			retention := cfg.History.RetentionDays
			if cmd.Flags().Changed("days") {
				retention = days
			}
			removed, err := store.PruneRetention(cmd.Context(), retention)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entries older than %d days\n", removed, retention)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Retention in days (defaults to history.retention_days)")
	return cmd
}

func openHistoryStore(cmd *cobra.Command, ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig(cmd)
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func toHistoryRow(entry history.Entry) historyRow {
	return historyRow{
		RunID:       entry.RunID,
		Cycle:       entry.Cycle,
		EmittedAt:   entry.EmittedAt,
		Monitor:     entry.Monitor,
		Orientation: entry.Orientation,
		Index:       entry.Index,
		Total:       entry.Total,
		Path:        entry.Path,
		Hash:        entry.Hash,
		Size:        entry.Size,
		Dimension:   fmt.Sprintf("%dx%d", entry.Width, entry.Height),
	}
}

func historyTableRows(entries []history.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.EmittedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(entry.Cycle),
			fmt.Sprintf("%d (%s)", entry.Monitor+1, entry.Orientation),
			fmt.Sprintf("%d/%d", entry.Index, entry.Total),
			fmt.Sprintf("%dx%d", entry.Width, entry.Height),
			entry.Path,
		})
	}
	return rows
}
