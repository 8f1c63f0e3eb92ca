package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scrub/internal/config"
	"scrub/internal/ledger"
	"scrub/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show ledger totals, directory checks, and tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderSectionHeader("Ledger", colorize))
				fmt.Fprintf(out, "%sPath: %s\n", statusIndent, store.Path())
				writeTable(out,
					[]string{"Total", "Succeeded", "Failed", "Skipped"},
					[][]string{{
						strconv.Itoa(stats.Total),
						strconv.Itoa(stats.Succeeded),
						strconv.Itoa(stats.Failed),
						strconv.Itoa(stats.Skipped),
					}},
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
				)

				fmt.Fprintln(out, renderSectionHeader("Environment", colorize))
				for _, result := range preflight.RunAll(cfg) {
					kind := statusOK
					if !result.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}

				fmt.Fprintln(out, renderSectionHeader("Tools", colorize))
				for _, status := range preflight.CheckTools(cfg) {
					kind := statusOK
					detail := status.Command
					if !status.Available {
						kind = statusError
						if status.Optional {
							kind = statusWarn
						}
						detail = status.Detail
					}
					fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
				}
				return nil
			})
		},
	}
}
