package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
)

func newEditCmd(root *rootOptions) *cobra.Command {
	opts := &addOptions{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an application",
		Long:  "Change fields of an application. Only the flags given are changed and validated.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, root, opts, types.ID(args[0]))
		},
	}

	cmd.Flags().StringVar(&opts.company, "company", "", "Company name")
	cmd.Flags().StringVar(&opts.position, "position", "", "Position title")
	cmd.Flags().StringVar(&opts.status, "status", "", "Status (identifier or label)")
	cmd.Flags().StringVar(&opts.date, "date", "", "Date applied, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.notes, "notes", "", "Free-form notes")
	return cmd
}

// edited applies the changed flags to original.
func edited(cmd *cobra.Command, opts *addOptions, original types.Application) (types.Application, error) {
	out := original
	flags := cmd.Flags()
	if flags.Changed("company") {
		out.Company = opts.company
	}
	if flags.Changed("position") {
		out.Position = opts.position
	}
	if flags.Changed("status") {
		out.Status = parseStatusFlag(opts.status)
	}
	if flags.Changed("notes") {
		out.Notes = opts.notes
	}
	if flags.Changed("date") {
		d, err := types.ParseDate(opts.date)
		if err != nil {
			return out, fmt.Errorf("invalid --date: %w", err)
		}
		out.DateApplied = d
	}
	return out, nil
}

func runEdit(cmd *cobra.Command, root *rootOptions, opts *addOptions, id types.ID) error {
	s, err := root.openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx := cmd.Context()
	original, err := s.locate(ctx, id)
	if err != nil {
		return err
	}

	changed, err := edited(cmd, opts, original)
	if err != nil {
		return err
	}
	form := tracker.NewEditForm(original, changed)
	if form.Changes.IsEmpty() {
		return fmt.Errorf("nothing to change: pass at least one of --company, --position, --status, --date, --notes")
	}

	res := s.coord.Submit(ctx, form)
	if res.OK() {
		s.printer.PrintApplication(res.Record)
	}
	return s.finish(res)
}
