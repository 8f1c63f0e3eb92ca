package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scrub/internal/config"
	"scrub/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent ledger records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withStore(func(_ *config.Config, store *ledger.Store) error {
				records, err := store.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "Ledger is empty.")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						strconv.FormatInt(record.ID, 10),
						record.CompletedAt.Local().Format("2006-01-02 15:04:05"),
						string(record.Outcome),
						strconv.Itoa(record.ZonesApplied),
						shortRunID(record.RunID),
						record.MediaPath,
						truncate(record.ErrorDetail, 60),
					})
				}
				writeTable(out,
					[]string{"ID", "Completed", "Outcome", "Zones", "Run", "Media", "Detail"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to list")
	return cmd
}
