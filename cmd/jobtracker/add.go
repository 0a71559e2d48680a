package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
)

type addOptions struct {
	company  string
	position string
	status   string
	date     string
	notes    string
}

func newAddCmd(root *rootOptions) *cobra.Command {
	opts := &addOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new application",
		Long:  "Record a new application. Status defaults to applied and the date to today.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.company, "company", "", "Company name (required)")
	cmd.Flags().StringVar(&opts.position, "position", "", "Position title (required)")
	cmd.Flags().StringVar(&opts.status, "status", "", "Initial status (identifier or label)")
	cmd.Flags().StringVar(&opts.date, "date", "", "Date applied, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.notes, "notes", "", "Free-form notes")
	return cmd
}

func (o *addOptions) fields() (types.NewApplication, error) {
	f := types.NewApplication{
		Company:  o.company,
		Position: o.position,
		Status:   parseStatusFlag(o.status),
		Notes:    o.notes,
	}
	if o.date != "" {
		d, err := types.ParseDate(o.date)
		if err != nil {
			return f, fmt.Errorf("invalid --date: %w", err)
		}
		f.DateApplied = d
	}
	return f, nil
}

func runAdd(cmd *cobra.Command, root *rootOptions, opts *addOptions) error {
	fields, err := opts.fields()
	if err != nil {
		return err
	}

	s, err := root.openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx := cmd.Context()
	if err := s.load(ctx); err != nil {
		return err
	}

	res := s.coord.Submit(ctx, tracker.AddForm{Fields: fields})
	if res.OK() {
		s.printer.PrintApplication(res.Record)
	}
	return s.finish(res)
}

// parseStatusFlag accepts an identifier or a label. Unknown text is passed
// through unchanged so that validation reports it against the status field.
func parseStatusFlag(raw string) types.Status {
	if raw == "" {
		return ""
	}
	if s, err := types.ParseStatusOrLabel(raw); err == nil {
		return s
	}
	return types.Status(raw)
}
