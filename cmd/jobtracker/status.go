package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/types"
)

func newStatusCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set only the status of an application",
		Long:  "Set only the status of an application. The status may be given as an identifier (final_round) or a label (\"Final Round\").",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			ctx := cmd.Context()
			id := types.ID(args[0])
			if _, err := s.locate(ctx, id); err != nil {
				return err
			}
			return s.finish(s.coord.QuickStatus(ctx, id, parseStatusFlag(args[1])))
		},
	}
}
