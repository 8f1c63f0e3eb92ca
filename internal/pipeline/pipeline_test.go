package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scrub/internal/config"
	"scrub/internal/ffmpeg"
	"scrub/internal/filtergraph"
	"scrub/internal/pipeline"
	"scrub/internal/scheduler"
	"scrub/internal/services"
	"scrub/internal/subtitles"
	"scrub/internal/testsupport"
	"scrub/internal/transform"
	"scrub/internal/zone"
)

const probeScript = `#!/bin/sh
cat <<'EOF'
{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2}
  ],
  "format": {"filename": "movie.mp4", "nb_streams": 2, "duration": "300.000000", "format_name": "mov,mp4,m4a,3gp,3g2,mj2"}
}
EOF
`

type fakeEngine struct {
	commands []ffmpeg.Command
}

func (f *fakeEngine) Run(ctx context.Context, cmd ffmpeg.Command) error {
	f.commands = append(f.commands, cmd)
	if err := os.MkdirAll(filepath.Dir(cmd.OutputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(cmd.OutputPath, []byte("transformed media"), 0o644)
}

type fixture struct {
	cfg       *config.Config
	engine    *fakeEngine
	pipe      *pipeline.Pipeline
	video     string
	candidate scheduler.Candidate
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Tools.FFprobeBinary = testsupport.ScriptBinary(t, cfg, "ffprobe", probeScript)

	video := filepath.Join(cfg.Paths.SourceRoot, "movie.mp4")
	testsupport.WriteFile(t, video, 4096)

	patterns, err := subtitles.LoadWordList(strings.NewReader("damn\nhell\n"))
	if err != nil {
		t.Fatalf("LoadWordList failed: %v", err)
	}

	engine := &fakeEngine{}
	orchestrator := transform.NewOrchestrator(engine, ffmpeg.DefaultEncodeSettings(), nil)
	pipe := pipeline.New(cfg, subtitles.NewDetector(patterns), orchestrator, nil)

	return &fixture{
		cfg:    cfg,
		engine: engine,
		pipe:   pipe,
		video:  video,
		candidate: scheduler.Candidate{
			MediaPath:        video,
			OutputPath:       filepath.Join(cfg.Paths.OutputRoot, "movie.mp4"),
			ContentSignature: "sig",
		},
	}
}

func TestProcessMuteOnlyItem(t *testing.T) {
	fx := newFixture(t, testsupport.WithZonePadding(0.5, 0.5))
	testsupport.WriteSidecar(t, filepath.Join(fx.cfg.Paths.SourceRoot, "movie.srt"), `1
00:00:10,000 --> 00:00:12,000
Damn that noise.

2
00:00:11,000 --> 00:00:13,000
The hell it is.
`)

	result, err := fx.pipe.Process(context.Background(), fx.candidate)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.ZonesApplied != 1 {
		t.Fatalf("overlapping padded cues merge into one zone, got %d", result.ZonesApplied)
	}
	if result.OutputPath != fx.candidate.OutputPath {
		t.Fatalf("output path = %q, want %q", result.OutputPath, fx.candidate.OutputPath)
	}
	if len(fx.engine.commands) != 1 {
		t.Fatalf("mute-only item is one pass, engine saw %d", len(fx.engine.commands))
	}
	cmd := fx.engine.commands[0]
	if cmd.VideoFilter != "" {
		t.Fatalf("mute-only item must not filter video, got %q", cmd.VideoFilter)
	}
	if !strings.Contains(cmd.AudioFilter, "between(t,9.500,13.500)") {
		t.Fatalf("audio filter missing merged padded interval: %q", cmd.AudioFilter)
	}
	data, err := os.ReadFile(fx.candidate.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "transformed media" {
		t.Fatalf("unexpected output content %q", data)
	}
}

func TestProcessSceneChain(t *testing.T) {
	fx := newFixture(t)
	testsupport.WriteSidecar(t, filepath.Join(fx.cfg.Paths.SourceRoot, "movie.scenes.yaml"), `scenes:
  - start: 10
    end: 20
    mode: blur
    mute: true
  - start: 150
    end: 180
    mode: skip
`)

	result, err := fx.pipe.Process(context.Background(), fx.candidate)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.ZonesApplied != 2 {
		t.Fatalf("expected blur + excise zones, got %d", result.ZonesApplied)
	}
	if len(fx.engine.commands) != 2 {
		t.Fatalf("excise chain is two passes, engine saw %d", len(fx.engine.commands))
	}

	pre := fx.engine.commands[0]
	if !strings.Contains(pre.VideoFilter, "gblur") || !strings.Contains(pre.VideoFilter, "between(t,10.000,20.000)") {
		t.Fatalf("pre pass missing blur gate: %q", pre.VideoFilter)
	}
	if !strings.Contains(pre.AudioFilter, "between(t,10.000,20.000)") {
		t.Fatalf("blur with mute must gate audio too: %q", pre.AudioFilter)
	}
	if pre.OutputFormat != "mpegts" {
		t.Fatalf("intermediate must be mpegts, got %q", pre.OutputFormat)
	}

	post := fx.engine.commands[1]
	if !strings.Contains(post.FilterComplex, "concat") {
		t.Fatalf("post pass must concatenate survivors: %q", post.FilterComplex)
	}
	if post.InputPath != pre.OutputPath {
		t.Fatal("post pass must consume the pre pass artifact")
	}
	if _, err := os.Stat(pre.OutputPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("intermediate artifact must be cleaned up, stat err=%v", err)
	}
}

func TestProcessCleanItemCopiesVerbatim(t *testing.T) {
	fx := newFixture(t)

	result, err := fx.pipe.Process(context.Background(), fx.candidate)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.ZonesApplied != 0 {
		t.Fatalf("clean item has no zones, got %d", result.ZonesApplied)
	}
	if len(fx.engine.commands) != 0 {
		t.Fatalf("clean item must not invoke the engine, saw %d", len(fx.engine.commands))
	}
	src, err := os.ReadFile(fx.video)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	out, err := os.ReadFile(fx.candidate.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(src) != len(out) {
		t.Fatalf("verbatim copy changed size: %d != %d", len(src), len(out))
	}
}

func TestProcessRejectsMalformedScenes(t *testing.T) {
	fx := newFixture(t)
	testsupport.WriteSidecar(t, filepath.Join(fx.cfg.Paths.SourceRoot, "movie.scenes.yaml"), "scenes: [\n")

	_, err := fx.pipe.Process(context.Background(), fx.candidate)
	if !errors.Is(err, services.ErrData) {
		t.Fatalf("malformed scene file fails the item with a data error, got %v", err)
	}
	if len(fx.engine.commands) != 0 {
		t.Fatal("failed analysis must not reach the engine")
	}
	if _, err := os.Stat(fx.candidate.OutputPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("failed item must leave no output, stat err=%v", err)
	}
}

func TestProcessRejectsFullExcision(t *testing.T) {
	fx := newFixture(t)
	testsupport.WriteSidecar(t, filepath.Join(fx.cfg.Paths.SourceRoot, "movie.scenes.yaml"), `scenes:
  - start: 0
    end: 300
    mode: skip
`)

	_, err := fx.pipe.Process(context.Background(), fx.candidate)
	if !errors.Is(err, services.ErrInvalidZoneSet) {
		t.Fatalf("expected invalid zone set, got %v", err)
	}
	if len(fx.engine.commands) != 0 {
		t.Fatal("full excision must be rejected before any transcoding")
	}
}

func TestProcessProbeFailure(t *testing.T) {
	fx := newFixture(t)
	fx.cfg.Tools.FFprobeBinary = testsupport.ScriptBinary(t, fx.cfg, "ffprobe-broken", "#!/bin/sh\nexit 1\n")

	_, err := fx.pipe.Process(context.Background(), fx.candidate)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestDescribeReportsWithoutExecuting(t *testing.T) {
	fx := newFixture(t)
	testsupport.WriteSidecar(t, filepath.Join(fx.cfg.Paths.SourceRoot, "movie.srt"), `1
00:00:05,000 --> 00:00:07,000
Well damn.
`)

	report, err := fx.pipe.Describe(context.Background(), fx.video, fx.candidate.OutputPath)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if report.Duration != 300 {
		t.Fatalf("duration = %f, want 300", report.Duration)
	}
	if len(report.Zones[zone.KindMute]) != 1 {
		t.Fatalf("expected one mute zone, got %+v", report.Zones)
	}
	if _, ok := report.Plan.(filtergraph.SingleCombinedPass); !ok {
		t.Fatalf("expected single combined pass, got %T", report.Plan)
	}
	if len(report.Commands) != 1 {
		t.Fatalf("expected one previewed command, got %d", len(report.Commands))
	}
	if !strings.Contains(report.Commands[0].String(), "between(t,5.000,7.000)") {
		t.Fatalf("preview argv missing mute interval: %s", report.Commands[0].String())
	}
	if len(fx.engine.commands) != 0 {
		t.Fatal("Describe must not invoke the engine")
	}
	if _, err := os.Stat(fx.candidate.OutputPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("Describe must not produce output files")
	}
}
