package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"scrub/internal/ledger"
	"scrub/internal/logging"
	"scrub/internal/services"
)

// Candidate is one library file eligible for processing.
type Candidate struct {
	MediaPath        string
	OutputPath       string
	ContentSignature string
}

// Result reports what processing one candidate produced.
type Result struct {
	OutputPath   string
	ZonesApplied int
}

// Processor turns one candidate into its cleaned output artifact.
type Processor interface {
	Process(ctx context.Context, candidate Candidate) (Result, error)
}

// Ledger is the slice of ledger behavior the scheduler depends on.
type Ledger interface {
	Append(ctx context.Context, record ledger.ProcessingRecord) (ledger.ProcessingRecord, error)
	HasSuccess(ctx context.Context, mediaPath, contentSignature string) (bool, error)
}

// StopReason names why a run ended.
type StopReason string

const (
	StopReasonCount     StopReason = "count"
	StopReasonDeadline  StopReason = "deadline"
	StopReasonExhausted StopReason = "exhausted"
	StopReasonCanceled  StopReason = "canceled"
)

// RunOptions bound one batch run. Zero values mean unbounded on that
// dimension; Force reprocesses candidates with prior success records.
type RunOptions struct {
	MaxItems    int
	MaxDuration time.Duration
	Force       bool
	RunID       string
}

// RunSummary is the user-visible result of one batch run.
type RunSummary struct {
	RunID      string
	Processed  int
	Succeeded  int
	Failed     int
	Skipped    int
	StopReason StopReason
	Elapsed    time.Duration
}

// Scheduler sequences candidates through the processor.
type Scheduler struct {
	ledger    Ledger
	processor Processor
	logger    *slog.Logger
}

// New wires a scheduler to its ledger and processor.
func New(store Ledger, processor Processor, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		ledger:    store,
		processor: processor,
		logger:    logging.NewComponentLogger(logger, "scheduler"),
	}
}

// RunBatch processes candidates in order until a stop condition fires or
// the list is exhausted. Both limits are checked before each candidate;
// context cancellation between items is a third stop path. A failed item
// is recorded and the run continues. Only ledger failures and fatal
// processor errors propagate out.
func (s *Scheduler) RunBatch(ctx context.Context, candidates []Candidate, opts RunOptions) (RunSummary, error) {
	start := time.Now()
	summary := RunSummary{
		RunID:      opts.RunID,
		StopReason: StopReasonExhausted,
	}
	if summary.RunID == "" {
		summary.RunID = uuid.NewString()
	}
	logger := s.logger.With(logging.String(logging.FieldRunID, summary.RunID))

	var deadline time.Time
	if opts.MaxDuration > 0 {
		deadline = start.Add(opts.MaxDuration)
	}

	logger.Info("run started",
		logging.Int("candidates", len(candidates)),
		logging.Int("max_items", opts.MaxItems),
		logging.Duration("max_duration", opts.MaxDuration),
		logging.Bool("force", opts.Force))

	for _, candidate := range candidates {
		if ctx.Err() != nil {
			summary.StopReason = StopReasonCanceled
			break
		}
		if opts.MaxItems > 0 && summary.Processed >= opts.MaxItems {
			summary.StopReason = StopReasonCount
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			summary.StopReason = StopReasonDeadline
			break
		}

		if !opts.Force {
			done, err := s.ledger.HasSuccess(ctx, candidate.MediaPath, candidate.ContentSignature)
			if err != nil {
				summary.Elapsed = time.Since(start)
				return summary, err
			}
			if done {
				if err := s.appendRecord(ctx, summary.RunID, candidate, Result{}, nil, ledger.OutcomeSkipped); err != nil {
					summary.Elapsed = time.Since(start)
					return summary, err
				}
				summary.Skipped++
				logger.Debug("skipping prior success",
					logging.String(logging.FieldMediaPath, candidate.MediaPath))
				continue
			}
		}

		itemStart := time.Now()
		logger.Info("item started",
			logging.String(logging.FieldMediaPath, candidate.MediaPath))

		// Downstream components derive their log fields from the item
		// context instead of threading identifiers through every call.
		itemCtx := services.WithRunID(services.WithMediaPath(ctx, candidate.MediaPath), summary.RunID)
		result, procErr := s.processor.Process(itemCtx, candidate)

		outcome := ledger.OutcomeForError(procErr)
		if err := s.appendRecord(ctx, summary.RunID, candidate, result, procErr, outcome); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}
		summary.Processed++

		if procErr != nil {
			summary.Failed++
			logger.Error("item failed",
				logging.String(logging.FieldMediaPath, candidate.MediaPath),
				logging.String(logging.FieldOutcome, string(outcome)),
				logging.Duration("item_duration", time.Since(itemStart)),
				logging.Error(procErr))
			if services.Fatal(procErr) {
				summary.Elapsed = time.Since(start)
				return summary, procErr
			}
			continue
		}

		summary.Succeeded++
		logger.Info("item complete",
			logging.String(logging.FieldMediaPath, candidate.MediaPath),
			logging.String(logging.FieldOutcome, string(outcome)),
			logging.String("output", result.OutputPath),
			logging.Int("zones_applied", result.ZonesApplied),
			logging.Duration("item_duration", time.Since(itemStart)))
	}

	summary.Elapsed = time.Since(start)
	logger.Info("run finished",
		logging.String("stop_reason", string(summary.StopReason)),
		logging.Int("processed", summary.Processed),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// appendRecord writes the single ledger record an item gets, whatever its
// outcome. It runs before the next stop-condition check so an interruption
// between items never loses completed work. The write is detached from
// run cancellation: an item killed mid-transcode must still leave its
// failure record.
func (s *Scheduler) appendRecord(ctx context.Context, runID string, candidate Candidate, result Result, procErr error, outcome ledger.Outcome) error {
	ctx = context.WithoutCancel(ctx)
	record := ledger.ProcessingRecord{
		MediaPath:        candidate.MediaPath,
		ContentSignature: candidate.ContentSignature,
		Outcome:          outcome,
		ZonesApplied:     result.ZonesApplied,
		RunID:            runID,
	}
	if procErr != nil {
		record.ErrorDetail = procErr.Error()
	}
	_, err := s.ledger.Append(ctx, record)
	return err
}
