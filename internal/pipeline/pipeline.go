package pipeline

import (
	"context"
	"log/slog"

	"scrub/internal/config"
	"scrub/internal/ffmpeg"
	"scrub/internal/filtergraph"
	"scrub/internal/logging"
	"scrub/internal/media/ffprobe"
	"scrub/internal/scenes"
	"scrub/internal/scheduler"
	"scrub/internal/services"
	"scrub/internal/subtitles"
	"scrub/internal/transform"
	"scrub/internal/zone"
)

// Pipeline turns one library candidate into a transformed output file.
type Pipeline struct {
	cfg       *config.Config
	detector  *subtitles.Detector
	transform *transform.Orchestrator
	logger    *slog.Logger
}

// New wires a pipeline. The detector may be nil when no word list is in
// play; items then carry only scene zones.
func New(cfg *config.Config, detector *subtitles.Detector, orchestrator *transform.Orchestrator, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		detector:  detector,
		transform: orchestrator,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// analysis holds everything learned about an item before execution.
type analysis struct {
	Probe    ffprobe.Result
	Duration float64
	Sets     map[zone.Kind]zone.Set
	Applied  int
	Plan     filtergraph.Plan
}

// Process implements the scheduler's Processor: analyze the candidate, then
// execute its plan.
func (p *Pipeline) Process(ctx context.Context, candidate scheduler.Candidate) (scheduler.Result, error) {
	logger := p.logger.With(logging.String(logging.FieldMediaPath, candidate.MediaPath))

	a, err := p.analyze(ctx, candidate.MediaPath, logger)
	if err != nil {
		return scheduler.Result{}, err
	}

	passes := 0
	if a.Plan != nil {
		passes = len(a.Plan.Passes())
	}
	logger.Debug("plan synthesized",
		logging.Int("zones", a.Applied),
		logging.Int("passes", passes),
		logging.Float64("duration_seconds", a.Duration))

	output, err := p.transform.Execute(ctx, p.request(a, candidate.MediaPath, candidate.OutputPath))
	if err != nil {
		return scheduler.Result{}, err
	}
	return scheduler.Result{OutputPath: output, ZonesApplied: a.Applied}, nil
}

// Report describes what processing a media file would receive, without
// touching the engine.
type Report struct {
	Probe    ffprobe.Result
	Duration float64
	Zones    map[zone.Kind]zone.Set
	Plan     filtergraph.Plan
	Commands []ffmpeg.Command
}

// Describe analyzes a media file and reports the zones, plan, and engine
// commands it would run with. Nothing is executed and no file is written.
func (p *Pipeline) Describe(ctx context.Context, mediaPath, outputPath string) (*Report, error) {
	logger := p.logger.With(logging.String(logging.FieldMediaPath, mediaPath))
	a, err := p.analyze(ctx, mediaPath, logger)
	if err != nil {
		return nil, err
	}
	commands, err := p.transform.Preview(p.request(a, mediaPath, outputPath))
	if err != nil {
		return nil, err
	}
	return &Report{
		Probe:    a.Probe,
		Duration: a.Duration,
		Zones:    a.Sets,
		Plan:     a.Plan,
		Commands: commands,
	}, nil
}

func (p *Pipeline) request(a analysis, input, output string) transform.Request {
	return transform.Request{
		InputPath:     input,
		OutputPath:    output,
		Plan:          a.Plan,
		SourceFormats: a.Probe.FormatNames(),
		VideoCodec:    a.Probe.PrimaryVideoCodec(),
		AudioCodec:    a.Probe.PrimaryAudioCodec(),
	}
}

func (p *Pipeline) analyze(ctx context.Context, mediaPath string, logger *slog.Logger) (analysis, error) {
	probe, err := ffprobe.Inspect(ctx, p.cfg.Tools.FFprobeBinary, mediaPath)
	if err != nil {
		return analysis{}, services.Wrap(services.ErrExternalTool, "pipeline", "probe", mediaPath, err)
	}
	duration := probe.DurationSeconds()

	raw, err := p.gatherZones(mediaPath, logger)
	if err != nil {
		return analysis{}, err
	}

	sets, applied := p.normalizeZones(raw, duration, logger)

	plan, err := filtergraph.Synthesize(
		sets[zone.KindMute], sets[zone.KindBlur], sets[zone.KindBlack], sets[zone.KindExcise],
		duration, p.filterOptions())
	if err != nil {
		return analysis{}, err
	}

	return analysis{
		Probe:    probe,
		Duration: duration,
		Sets:     sets,
		Applied:  applied,
		Plan:     plan,
	}, nil
}

func (p *Pipeline) gatherZones(mediaPath string, logger *slog.Logger) ([]zone.Zone, error) {
	var raw []zone.Zone

	if sidecar := subtitles.FindSidecar(mediaPath, p.cfg.Subtitles.Language); sidecar != "" {
		cues, dataErrs, err := subtitles.LoadFile(sidecar)
		if err != nil {
			return nil, services.Wrap(services.ErrData, "pipeline", "subtitles", sidecar, err)
		}
		reportDataErrors(logger, "subtitle cue dropped", dataErrs)
		muteZones := p.detector.DetectZones(cues)
		logger.Debug("subtitles analyzed",
			logging.String("sidecar", sidecar),
			logging.Int("cues", len(cues)),
			logging.Int("mute_zones", len(muteZones)))
		raw = append(raw, muteZones...)
	}

	doc, err := scenes.Load(mediaPath)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		sceneZones, sceneErrs := doc.Zones()
		reportDataErrors(logger, "scene entry dropped", sceneErrs)
		logger.Debug("scenes loaded",
			logging.Int("entries", len(doc.Scenes)),
			logging.Int("scene_zones", len(sceneZones)))
		raw = append(raw, sceneZones...)
	}
	return raw, nil
}

// normalizeZones groups the raw zones by kind and normalizes each group.
// Only mute zones get the configured padding; scene intervals apply exactly
// as authored.
func (p *Pipeline) normalizeZones(raw []zone.Zone, duration float64, logger *slog.Logger) (map[zone.Kind]zone.Set, int) {
	grouped, kindErrs := zone.ByKind(raw)
	reportDataErrors(logger, "zone dropped", kindErrs)

	sets := make(map[zone.Kind]zone.Set, len(grouped))
	applied := 0
	for kind, zones := range grouped {
		opts := zone.NormalizeOptions{
			MergeGap: p.cfg.Zones.MergeGapSeconds,
			Duration: duration,
		}
		if kind == zone.KindMute {
			opts.PadBefore = p.cfg.Zones.PadBeforeSeconds
			opts.PadAfter = p.cfg.Zones.PadAfterSeconds
		}
		set, dataErrs := zone.Normalize(zones, opts)
		reportDataErrors(logger, "degenerate zone dropped", dataErrs)
		sets[kind] = set
		applied += len(set)
	}
	return sets, applied
}

func (p *Pipeline) filterOptions() filtergraph.FilterOptions {
	return filtergraph.FilterOptions{
		BlurSigma:  p.cfg.Filters.BlurSigma,
		BlurSteps:  p.cfg.Filters.BlurSteps,
		BlackColor: p.cfg.Filters.BlackColor,
	}
}

func reportDataErrors(logger *slog.Logger, msg string, errs []error) {
	for _, err := range errs {
		logger.Warn(msg, logging.Error(err))
	}
}
