package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wallswitch/internal/deps"
	"wallswitch/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the external tools and directories wallswitch needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Desktop: %s (%s)\n", cfg.Display.Desktop, cfg.DesktopKind())

			statuses := deps.CheckBinaries(deps.ForConfig(cfg))
			toolRows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				toolRows = append(toolRows, []string{status.Name, status.Command, yesNo(status.Available), detail})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Tool", "Command", "Available", "Detail"},
				toolRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			checks := preflight.RunAll(cfg)
			pathRows := make([][]string, 0, len(checks))
			for _, check := range checks {
				pathRows = append(pathRows, []string{check.Name, yesNo(check.Passed), yesNo(check.Optional), check.Detail})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Check", "Passed", "Optional", "Detail"},
				pathRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			missing := deps.Missing(statuses)
			failed := preflight.Failed(checks)
			if len(missing) > 0 || len(failed) > 0 {
				return fmt.Errorf("%d required tool(s) unavailable, %d required check(s) failed", len(missing), len(failed))
			}
			fmt.Fprintln(out, "All required tools and directories available")
			return nil
		},
	}
}
