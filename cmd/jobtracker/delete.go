package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/types"
)

func newDeleteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an application",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			ctx := cmd.Context()
			if err := s.load(ctx); err != nil {
				return err
			}
			return s.finish(s.coord.Remove(ctx, types.ID(args[0])))
		},
	}
}
