package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scrub/internal/config"
	"scrub/internal/library"
	"scrub/internal/logging"
	"scrub/internal/pipeline"
	"scrub/internal/zone"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <video>",
		Short: "Show the zones and engine passes a file would receive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mediaPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			pipe, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}

			outputPath := outputPathFor(cfg, mediaPath)
			report, err := pipe.Describe(cmd.Context(), mediaPath, outputPath)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), mediaPath, outputPath, report)
			return nil
		},
	}
}

// outputPathFor mirrors the library layout for files under the source
// root. Files outside it (one-off plan invocations) land at the output
// root's top level.
func outputPathFor(cfg *config.Config, mediaPath string) string {
	scanner := library.NewScanner(cfg, nil)
	if output, err := scanner.OutputFor(mediaPath); err == nil {
		return output
	}
	return filepath.Join(cfg.Paths.OutputRoot, filepath.Base(mediaPath))
}

var planKindOrder = []zone.Kind{zone.KindMute, zone.KindBlur, zone.KindBlack, zone.KindExcise}

func printReport(out io.Writer, mediaPath, outputPath string, report *pipeline.Report) {
	fmt.Fprintf(out, "File:      %s\n", mediaPath)
	fmt.Fprintf(out, "Output:    %s\n", outputPath)
	fmt.Fprintf(out, "Duration:  %.3fs\n", report.Duration)
	fmt.Fprintf(out, "Container: %s\n", strings.Join(report.Probe.FormatNames(), ","))
	fmt.Fprintf(out, "Streams:   video=%s audio=%s\n", report.Probe.PrimaryVideoCodec(), report.Probe.PrimaryAudioCodec())
	fmt.Fprintln(out)

	rows := zoneRows(report.Zones)
	if len(rows) == 0 {
		fmt.Fprintln(out, "No zones; the file would be copied verbatim.")
		return
	}
	writeTable(out,
		[]string{"Kind", "Start (s)", "End (s)", "Muted", "Source"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)

	fmt.Fprintln(out, "Passes:")
	passes := report.Plan.Passes()
	for i, cmd := range report.Commands {
		name := fmt.Sprintf("pass %d", i+1)
		if i < len(passes) {
			name = passes[i].Name
		}
		fmt.Fprintf(out, "  %d. %s\n     %s\n", i+1, name, cmd.String())
	}
}

func zoneRows(sets map[zone.Kind]zone.Set) [][]string {
	var rows [][]string
	for _, kind := range planKindOrder {
		for _, z := range sets[kind] {
			muted := z.MuteAudio || kind == zone.KindMute
			rows = append(rows, []string{
				string(kind),
				fmt.Sprintf("%.3f", z.Start),
				fmt.Sprintf("%.3f", z.End),
				yesNo(muted),
				truncate(z.Source, 40),
			})
		}
	}
	return rows
}
