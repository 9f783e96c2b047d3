package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var replace bool

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "wallswitch",
		Short: "Rotate deduplicated images across multi-monitor wallpapers",
		Long: "wallswitch scans image directories, removes duplicates, and periodically\n" +
			"composes validated pictures into a wallpaper that spans every monitor.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRotation(cmd, ctx, replace)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	ctx.bindOverrideFlags(rootCmd)
	rootCmd.Flags().BoolVar(&replace, "replace", false, "Terminate a running instance before starting")

	rootCmd.AddCommand(newScanCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newStopCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))

	return rootCmd
}
