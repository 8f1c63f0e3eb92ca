package transform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"scrub/internal/ffmpeg"
	"scrub/internal/fileutil"
	"scrub/internal/filtergraph"
	"scrub/internal/logging"
	"scrub/internal/services"
)

// Engine runs one transformation pass against the external transcoder.
type Engine interface {
	Run(ctx context.Context, cmd ffmpeg.Command) error
}

// Request carries everything one item's execution needs: the synthesized
// plan plus the probed stream facts the bitstream compatibility table keys
// on. A nil Plan means no transformation applies and the input is copied
// verbatim.
type Request struct {
	InputPath  string
	OutputPath string
	Plan       filtergraph.Plan

	SourceFormats []string
	VideoCodec    string
	AudioCodec    string
}

// Orchestrator executes pass plans in order, chaining intermediate
// artifacts and guaranteeing their cleanup on every exit path.
type Orchestrator struct {
	engine Engine
	encode ffmpeg.EncodeSettings
	logger *slog.Logger
}

// NewOrchestrator wires an orchestrator to an engine. A nil logger logs
// nowhere.
func NewOrchestrator(engine Engine, encode ffmpeg.EncodeSettings, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		engine: engine,
		encode: encode,
		logger: logging.NewComponentLogger(logger, "transform"),
	}
}

// intermediateContainer is the muxer for the artifact between the effects
// pass and the excise pass. MPEG-TS tolerates concatenation-oriented reads
// and keeps the chain honest about bitstream layout: stream-copied
// H.264/HEVC leaving an MP4-family source must be rewritten to Annex B on
// the way in.
const intermediateContainer = "mpegts"

// Execute runs the plan's passes in order and returns the final artifact
// path. Outputs are written to a temporary name and renamed into place only
// on success; a failed pass never leaves a partial file at the final path.
func (o *Orchestrator) Execute(ctx context.Context, req Request) (string, error) {
	if req.InputPath == "" || req.OutputPath == "" {
		return "", services.Wrap(services.ErrValidation, "transform", "execute", "input and output paths are required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return "", services.Wrap(services.ErrValidation, "transform", "execute", "create output directory", err)
	}

	scratch := scratchPath(req.OutputPath)
	defer func() {
		_ = os.Remove(scratch)
	}()

	switch plan := req.Plan.(type) {
	case nil:
		if err := o.copyVerbatim(req.InputPath, scratch); err != nil {
			return "", err
		}
	case filtergraph.SingleCombinedPass:
		if err := o.runPass(ctx, plan.Combined, req, req.InputPath, scratch, ""); err != nil {
			return "", err
		}
	case filtergraph.ExciseChain:
		if err := o.runChain(ctx, plan, req, scratch); err != nil {
			return "", err
		}
	default:
		return "", services.Wrap(services.ErrValidation, "transform", "execute",
			fmt.Sprintf("unknown plan variant %T", req.Plan), nil)
	}

	if err := validateArtifact(scratch); err != nil {
		return "", err
	}
	if err := fileutil.ReplaceAtomic(scratch, req.OutputPath); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "transform", "finalize", "rename output into place", err)
	}
	return req.OutputPath, nil
}

// runChain executes the effects pass into a scoped intermediate artifact,
// then the excise pass from that artifact into scratch. The intermediate
// lives next to the final output, so every artifact in the chain shares one
// filesystem, and is removed on success, failure, and cancellation alike.
func (o *Orchestrator) runChain(ctx context.Context, plan filtergraph.ExciseChain, req Request, scratch string) error {
	intermediate := intermediatePath(req.OutputPath)
	defer func() {
		_ = os.Remove(intermediate)
	}()

	if err := o.runPass(ctx, plan.Pre, req, req.InputPath, intermediate, intermediateContainer); err != nil {
		return err
	}
	if err := validateArtifact(intermediate); err != nil {
		return err
	}

	// The excise pass reads the MPEG-TS artifact, so its bitstream facts
	// replace the original source's.
	postReq := req
	postReq.SourceFormats = []string{intermediateContainer}
	return o.runPass(ctx, plan.Post, postReq, intermediate, scratch, "")
}

// runPass maps one synthesized pass onto an engine command.
func (o *Orchestrator) runPass(ctx context.Context, pass filtergraph.Pass, req Request, input, output, forceFormat string) error {
	cmd := o.buildCommand(pass, req, input, output, forceFormat)
	logging.WithContext(ctx, o.logger).Debug("running pass",
		slog.String(logging.FieldPass, pass.Name),
		slog.String("input", input),
		slog.String("output", output),
		slog.String("args", cmd.String()))
	return o.engine.Run(ctx, cmd)
}

// buildCommand maps one synthesized pass onto an engine command. Copied
// streams consult the bitstream table for the (source codec, destination
// container) pair; filtered streams re-encode and need no rewrite.
func (o *Orchestrator) buildCommand(pass filtergraph.Pass, req Request, input, output, forceFormat string) ffmpeg.Command {
	cmd := ffmpeg.Command{
		InputPath:     input,
		OutputPath:    output,
		VideoFilter:   pass.VideoFilter,
		AudioFilter:   pass.AudioFilter,
		FilterComplex: pass.FilterComplex,
		VideoLabel:    pass.VideoLabel,
		AudioLabel:    pass.AudioLabel,
		OutputFormat:  forceFormat,
		Encode:        o.encode,
	}

	destFormat := forceFormat
	if destFormat == "" {
		destFormat = ffmpeg.FormatForExtension(filepath.Ext(output))
	}
	videoBSF, audioBSF := ffmpeg.BitstreamFilters(req.VideoCodec, req.AudioCodec, req.SourceFormats, destFormat)
	if !cmd.VideoEncodes() {
		cmd.VideoBitstream = videoBSF
	}
	if !cmd.AudioEncodes() {
		cmd.AudioBitstream = audioBSF
	}
	return cmd
}

// Preview returns the commands Execute would run for the request, without
// running anything or touching the filesystem. A nil plan previews as no
// commands (the verbatim copy has no argv).
func (o *Orchestrator) Preview(req Request) ([]ffmpeg.Command, error) {
	switch plan := req.Plan.(type) {
	case nil:
		return nil, nil
	case filtergraph.SingleCombinedPass:
		return []ffmpeg.Command{
			o.buildCommand(plan.Combined, req, req.InputPath, req.OutputPath, ""),
		}, nil
	case filtergraph.ExciseChain:
		intermediate := intermediatePath(req.OutputPath)
		postReq := req
		postReq.SourceFormats = []string{intermediateContainer}
		return []ffmpeg.Command{
			o.buildCommand(plan.Pre, req, req.InputPath, intermediate, intermediateContainer),
			o.buildCommand(plan.Post, postReq, intermediate, req.OutputPath, ""),
		}, nil
	default:
		return nil, services.Wrap(services.ErrValidation, "transform", "preview",
			fmt.Sprintf("unknown plan variant %T", req.Plan), nil)
	}
}

// copyVerbatim handles the zero-pass plan: the output must still be a
// verified duplicate, not a blind copy.
func (o *Orchestrator) copyVerbatim(input, scratch string) error {
	o.logger.Debug("no zones, copying verbatim", slog.String("input", input))
	if err := fileutil.CopyFileVerified(input, scratch); err != nil {
		return services.Wrap(services.ErrExternalTool, "transform", "copy", "verified copy failed", err)
	}
	return nil
}

func validateArtifact(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrTranscode, "transform", "validate", "artifact missing after pass", err)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrTranscode, "transform", "validate",
			fmt.Sprintf("artifact %s is empty", filepath.Base(path)), nil)
	}
	return nil
}

// scratchPath names the hidden in-progress output next to the final path.
// The dot prefix keeps the library walker from ever discovering partials.
func scratchPath(finalPath string) string {
	dir, base := filepath.Split(finalPath)
	return filepath.Join(dir, fmt.Sprintf(".%s.partial-%s", base, shortID()))
}

// intermediatePath names the between-pass artifact, unique per invocation so
// concurrent runs over different ledgers can never collide.
func intermediatePath(finalPath string) string {
	dir, base := filepath.Split(finalPath)
	stem := base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(dir, fmt.Sprintf(".%s.effects-%s.ts", stem, shortID()))
}

func shortID() string {
	return uuid.NewString()[:8]
}
