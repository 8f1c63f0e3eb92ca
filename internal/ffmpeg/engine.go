package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"scrub/internal/services"
)

// commandContext is swapped by tests to avoid invoking a real ffmpeg.
var commandContext = exec.CommandContext

// stderrTailBytes bounds the diagnostic transcript carried in errors and
// ledger records.
const stderrTailBytes = 2048

// Engine runs ffmpeg invocations one pass at a time.
type Engine struct {
	binary  string
	verbose bool
}

// Option customizes Engine construction.
type Option func(*Engine)

// WithVerbose tees engine stderr to the process stderr in real time.
func WithVerbose(verbose bool) Option {
	return func(e *Engine) { e.verbose = verbose }
}

// NewEngine builds an Engine for the given ffmpeg binary. An empty binary
// falls back to "ffmpeg" on PATH.
func NewEngine(binary string, opts ...Option) *Engine {
	e := &Engine{binary: strings.TrimSpace(binary)}
	if e.binary == "" {
		e.binary = "ffmpeg"
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Binary returns the resolved ffmpeg binary path.
func (e *Engine) Binary() string { return e.binary }

// Run executes one pass. Stderr is captured for failure classification;
// when verbose it is also streamed through. A non-zero exit returns a
// transcode error carrying the classified category and the diagnostic tail.
func (e *Engine) Run(ctx context.Context, cmd Command) error {
	proc := commandContext(ctx, e.binary, cmd.Args()...)

	var stderr bytes.Buffer
	if e.verbose {
		proc.Stderr = io.MultiWriter(&stderr, os.Stderr)
	} else {
		proc.Stderr = &stderr
	}

	err := proc.Run()
	if err == nil {
		return nil
	}
	transcript := stderr.String()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return services.Wrap(services.ErrTranscode, "ffmpeg", "run", "invocation canceled", ctxErr)
	}
	detail := Classify(transcript)
	if tail := Tail(transcript, stderrTailBytes); tail != "" {
		detail += ": " + tail
	}
	return services.Wrap(services.ErrTranscode, "ffmpeg", "run", detail, err)
}
