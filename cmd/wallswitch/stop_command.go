package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wallswitch/internal/instance"
)

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running wallswitch instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			pid, err := instance.Stop(cfg.LockPath(), cfg.PIDPath())
			if errors.Is(err, instance.ErrNotRunning) {
				fmt.Fprintln(out, "wallswitch is not running")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Sent SIGTERM to wallswitch (pid %d)\n", pid)
			return nil
		},
	}
}
