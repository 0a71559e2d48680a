package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/viewmodel"
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize applications by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			apps, err := s.lister.ListAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list applications: %w", err)
			}
			s.printer.PrintStats(viewmodel.ComputeStats(apps, types.DefaultValidator().Today()))
			return nil
		},
	}
}

func newStatusesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "Show the status taxonomy in lifecycle order",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			observability.NewPrinter(root.out).PrintStatuses()
		},
	}
}

func newExportCmd(root *rootOptions) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every application as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			apps, err := s.lister.ListAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list applications: %w", err)
			}

			jsonBytes, err := json.MarshalIndent(apps, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}

			if outFile == "" {
				_, err = fmt.Fprintln(root.out, string(jsonBytes))
				return err
			}
			if err := os.WriteFile(outFile, jsonBytes, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			_, _ = fmt.Fprintf(root.out, "Exported %d applications to %s\n", len(apps), outFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default: stdout)")
	return cmd
}
