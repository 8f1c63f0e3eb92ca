package main

import (
	"errors"

	"github.com/spf13/cobra"

	"scrub/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that the external tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.For(cfg))
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				location := status.Command
				if !status.Available {
					location = status.Detail
				}
				rows = append(rows, []string{
					status.Name,
					yesNo(status.Available),
					location,
					status.Description,
				})
			}
			writeTable(cmd.OutOrStdout(),
				[]string{"Tool", "Available", "Location", "Purpose"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			)
			if !deps.AllAvailable(statuses) {
				return errors.New("required tools are missing")
			}
			return nil
		},
	}
}
