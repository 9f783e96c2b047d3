package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wallswitch/internal/config"
	"wallswitch/internal/dedup"
	"wallswitch/internal/imagefile"
	"wallswitch/internal/probe"
	"wallswitch/internal/scanner"
)

type scanEntry struct {
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Path      string `json:"path"`
	Size      uint64 `json:"size"`
	Hash      string `json:"hash"`
	Dimension string `json:"dimension,omitempty"`
}

type scanReport struct {
	Scanned    int         `json:"scanned"`
	Unique     int         `json:"unique"`
	Removed    int         `json:"removed"`
	Duplicates [][]string  `json:"duplicates,omitempty"`
	Failures   []string    `json:"failures,omitempty"`
	Images     []scanEntry `json:"images"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var showDuplicates bool
	var withDimensions bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the deduplicated image pool without changing the wallpaper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			report, records, err := buildScanReport(cmd.Context(), cfg, withDimensions)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, report)
			}
			printScanReport(cmd, report, records, showDuplicates)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showDuplicates, "duplicates", false, "List groups of identical files")
	cmd.Flags().BoolVar(&withDimensions, "dimensions", false, "Read image dimensions with ImageMagick")
	return cmd
}

func buildScanReport(ctx context.Context, cfg *config.Config, withDimensions bool) (scanReport, []imagefile.Record, error) {
	scanned := scanner.ScanAll(cfg.Paths.Directories, cfg.Selection.Extensions)
	hashed, failures, err := dedup.HashAll(ctx, scanned, cfg.Selection.Concurrency)
	if err != nil {
		return scanReport{}, nil, err
	}
	pool := dedup.Deduplicate(hashed)
	records := pool.Unique
	imagefile.Number(records)

	report := scanReport{
		Scanned:    len(scanned),
		Unique:     len(records),
		Removed:    pool.Removed(),
		Duplicates: pool.Duplicates(),
	}
	for _, failure := range failures {
		report.Failures = append(report.Failures, failure.Error())
	}

	if withDimensions {
		prober := probe.NewIdentify(cfg.Binaries.Magick, cfg.Binaries.Identify)
		for _, err := range probe.DimensionAll(ctx, prober, records, cfg.Selection.Concurrency) {
			if err != nil {
				report.Failures = append(report.Failures, err.Error())
			}
		}
	}

	report.Images = make([]scanEntry, 0, len(records))
	for _, record := range records {
		entry := scanEntry{
			Index: record.Index,
			Total: record.Total,
			Path:  record.Path,
			Size:  record.Size,
			Hash:  record.Hash,
		}
		if !record.Dimension.IsZero() {
			entry.Dimension = record.Dimension.String()
		}
		report.Images = append(report.Images, entry)
	}
	return report, records, nil
}

func printScanReport(cmd *cobra.Command, report scanReport, records []imagefile.Record, showDuplicates bool) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No images found")
	} else {
		fmt.Fprintln(out, renderTable(out, imagefile.TableHeaders, imagefile.Table(records),
			[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft}))
	}
	fmt.Fprintf(out, "Scanned %d files, %d unique, %d duplicates removed\n",
		report.Scanned, report.Unique, report.Removed)

	for _, failure := range report.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "warn: %s\n", failure)
	}
	if showDuplicates && len(report.Duplicates) > 0 {
		fmt.Fprintln(out, "Duplicates:")
		for _, group := range report.Duplicates {
			fmt.Fprintf(out, "  %s\n", strings.Join(group, ", "))
		}
	}
}
