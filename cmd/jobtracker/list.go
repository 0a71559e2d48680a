package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/viewmodel"
)

type listOptions struct {
	search string
	status string
	sort   string
	desc   bool
	page   int
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications one page at a time",
		Long:  "List applications with optional search, status filter and sort. Counts per status are taken from the whole collection, not the filtered list.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Case-insensitive text to match in company, position or notes")
	cmd.Flags().StringVar(&opts.status, "status", "", "Only show this status (identifier or label)")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort by company, position, date or status (default: date, newest first)")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "Sort descending")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Page to show")
	return cmd
}

func (o *listOptions) query() (viewmodel.Query, error) {
	q := viewmodel.DefaultQuery()
	q.Search = o.search

	if o.status != "" {
		s, err := types.ParseStatusOrLabel(o.status)
		if err != nil {
			return q, err
		}
		q.Status = s
	}

	if o.sort != "" {
		field, err := viewmodel.ParseSortField(o.sort)
		if err != nil {
			return q, err
		}
		q.SortField = field
		q.SortOrder = viewmodel.Ascending
		if o.desc {
			q.SortOrder = viewmodel.Descending
		}
	} else if o.desc {
		q.SortOrder = viewmodel.Descending
	}
	return q, nil
}

func runList(cmd *cobra.Command, root *rootOptions, opts *listOptions) error {
	q, err := opts.query()
	if err != nil {
		return err
	}
	if opts.page < 1 {
		return fmt.Errorf("--page must be at least 1")
	}

	s, err := root.openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx := cmd.Context()
	vm := s.coord.View()
	vm.SetQuery(q)

	// a remote page is fetched once, directly; local mode loads the whole
	// collection and then moves to the page
	if vm.Mode() == viewmodel.Local {
		if err := s.load(ctx); err != nil {
			return err
		}
	}
	if res := s.coord.GoToPage(ctx, opts.page); !res.OK() {
		return s.finish(res)
	}

	s.printer.PrintApplications(vm.Visible(), vm.Pagination())
	s.printer.PrintCounts(vm.Counts())
	return nil
}
