package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"scrub/internal/config"
	"scrub/internal/deps"
	"scrub/internal/ffmpeg"
	"scrub/internal/ledger"
	"scrub/internal/library"
	"scrub/internal/logging"
	"scrub/internal/pipeline"
	"scrub/internal/preflight"
	"scrub/internal/scheduler"
	"scrub/internal/subtitles"
	"scrub/internal/transform"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var maxItems int
	var maxDuration time.Duration
	var force bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process the library in one batch run",
		Long: `Scan the source root, process every eligible video, and record each
outcome in the ledger. Items with a prior success record are skipped
unless --force is given. The run stops at --max-items or --max-duration,
whichever fires first; with neither it runs to exhaustion.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			opts := scheduler.RunOptions{
				MaxItems:    cfg.Run.MaxItems,
				MaxDuration: cfg.MaxRunDuration(),
				Force:       cfg.Run.Force,
			}
			if cmd.Flags().Changed("max-items") {
				opts.MaxItems = maxItems
			}
			if cmd.Flags().Changed("max-duration") {
				opts.MaxDuration = maxDuration
			}
			if cmd.Flags().Changed("force") {
				opts.Force = force
			}

			return runBatch(cmd, cfg, opts, watch)
		},
	}

	cmd.Flags().IntVar(&maxItems, "max-items", 0, "Stop after N items (0 = unbounded)")
	cmd.Flags().DurationVar(&maxDuration, "max-duration", 0, "Stop after this wall-clock time, e.g. 90m (0 = unbounded)")
	cmd.Flags().BoolVar(&force, "force", false, "Reprocess items that already have a success record")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running and rescan when the library changes")
	return cmd
}

func runBatch(cmd *cobra.Command, cfg *config.Config, opts scheduler.RunOptions, watch bool) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	if err := reportPreflight(out, cfg); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	// The ledger is single-writer; a second concurrent run would interleave
	// records and fight over output files.
	lock := flock.New(filepath.Join(cfg.Paths.WorkDir, "run.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return errors.New("another scrub run holds the ledger; wait for it to finish")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	store, err := ledger.Open(cfg.Paths.LedgerPath)
	if err != nil {
		return err
	}
	defer store.Close()

	pipe, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}
	sched := scheduler.New(store, pipe, logger)
	scanner := library.NewScanner(cfg, logger)

	runOnce := func(runCtx context.Context) error {
		items, err := scanner.Scan(runCtx)
		if err != nil {
			return err
		}
		summary, err := sched.RunBatch(runCtx, candidatesFor(items), opts)
		if err != nil {
			return err
		}
		printSummary(out, summary)
		return nil
	}

	if err := runOnce(signalCtx); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	watcher, err := library.NewWatcher(scanner, cfg.WatchSettle(), logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	fmt.Fprintln(out, "Watching for library changes; press Ctrl-C to stop.")
	if err := watcher.Run(signalCtx, runOnce); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// reportPreflight prints failing checks and refuses the run on any failure.
// A healthy environment prints nothing.
func reportPreflight(out io.Writer, cfg *config.Config) error {
	colorize := shouldColorize(out)

	results := preflight.RunAll(cfg)
	if !preflight.AllPassed(results) {
		for _, r := range results {
			kind := statusOK
			if !r.Passed {
				kind = statusError
			}
			fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
		}
		return errors.New("preflight checks failed")
	}

	statuses := preflight.CheckTools(cfg)
	if !deps.AllAvailable(statuses) {
		for _, s := range statuses {
			kind := statusOK
			if !s.Available {
				kind = statusError
			}
			fmt.Fprintln(out, renderStatusLine(s.Name, kind, s.Detail, colorize))
		}
		return errors.New("required external tools are missing")
	}
	return nil
}

func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	patterns, err := subtitles.LoadWordListFile(cfg.Subtitles.WordListPath)
	if err != nil {
		return nil, err
	}
	detector := subtitles.NewDetector(patterns)
	engine := ffmpeg.NewEngine(cfg.Tools.FFmpegBinary)
	orchestrator := transform.NewOrchestrator(engine, encodeSettings(cfg), logger)
	return pipeline.New(cfg, detector, orchestrator, logger), nil
}

func encodeSettings(cfg *config.Config) ffmpeg.EncodeSettings {
	return ffmpeg.EncodeSettings{
		VideoCodec:   cfg.Encode.VideoCodec,
		CRF:          cfg.Encode.CRF,
		Preset:       cfg.Encode.Preset,
		AudioCodec:   cfg.Encode.AudioCodec,
		AudioBitrate: cfg.Encode.AudioBitrate,
	}
}

func candidatesFor(items []library.Item) []scheduler.Candidate {
	candidates := make([]scheduler.Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, scheduler.Candidate{
			MediaPath:        item.MediaPath,
			OutputPath:       item.OutputPath,
			ContentSignature: item.Signature,
		})
	}
	return candidates
}

func printSummary(out io.Writer, summary scheduler.RunSummary) {
	writeTable(out,
		[]string{"Run", "Processed", "Succeeded", "Failed", "Skipped", "Stop", "Elapsed"},
		[][]string{{
			shortRunID(summary.RunID),
			strconv.Itoa(summary.Processed),
			strconv.Itoa(summary.Succeeded),
			strconv.Itoa(summary.Failed),
			strconv.Itoa(summary.Skipped),
			string(summary.StopReason),
			summary.Elapsed.Round(time.Millisecond).String(),
		}},
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignRight},
	)
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
