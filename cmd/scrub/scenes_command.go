package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"scrub/internal/config"
	"scrub/internal/scenes"
)

func newScenesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes <video>",
		Short: "Inspect the scene sidecar for a video",
		Args:  cobra.ExactArgs(1),
		// Sidecars sit next to the video, so no configuration is needed.
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			doc, err := scenes.Load(mediaPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if doc == nil {
				fmt.Fprintf(out, "No scene sidecar at %s\n", scenes.SidecarPath(mediaPath))
				return nil
			}
			if doc.Title != "" {
				fmt.Fprintf(out, "Title: %s\n", doc.Title)
			}

			zones, errs := doc.Zones()
			if len(zones) > 0 {
				rows := make([][]string, 0, len(zones))
				for _, z := range zones {
					rows = append(rows, []string{
						string(z.Kind),
						scenes.FormatTimestamp(z.Start),
						scenes.FormatTimestamp(z.End),
						yesNo(z.MuteAudio),
						truncate(z.Source, 40),
					})
				}
				writeTable(out,
					[]string{"Kind", "Start", "End", "Muted", "Description"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				)
			} else if len(errs) == 0 {
				fmt.Fprintln(out, "Sidecar has no scenes.")
			}
			if len(errs) > 0 {
				for _, entryErr := range errs {
					fmt.Fprintf(out, "invalid: %v\n", entryErr)
				}
				return errors.New("sidecar contains invalid scenes")
			}
			return nil
		},
	}
}
