package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"scrub/internal/services"
)

func stubCommand(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string(nil), args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestEngineRunSuccess(t *testing.T) {
	var captured []string
	stubCommand(t, "success", &captured)

	engine := NewEngine("ffmpeg")
	cmd := Command{InputPath: "/in/a.mp4", OutputPath: "/out/a.mp4", AudioFilter: "volume=enable='between(t,1.000,2.000)':volume=0"}
	if err := engine.Run(context.Background(), cmd); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(captured) == 0 {
		t.Fatal("expected engine arguments to be captured")
	}
	if captured[len(captured)-1] != "/out/a.mp4" {
		t.Fatalf("expected output path last, got %v", captured)
	}
}

func TestEngineRunFailureClassifiesBitstream(t *testing.T) {
	stubCommand(t, "bitstream", nil)

	engine := NewEngine("ffmpeg")
	err := engine.Run(context.Background(), Command{InputPath: "/in/a.mp4", OutputPath: "/out/a.ts"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected transcode marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "bitstream incompatible with container") {
		t.Fatalf("expected bitstream classification, got %v", err)
	}
	if !strings.Contains(err.Error(), "no startcode found") {
		t.Fatalf("expected diagnostic tail in error, got %v", err)
	}
}

func TestEngineRunCanceled(t *testing.T) {
	stubCommand(t, "hang", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewEngine("ffmpeg").Run(ctx, Command{InputPath: "/in/a.mp4", OutputPath: "/out/a.mp4"})
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected transcode marker for canceled run, got %v", err)
	}
	if !strings.Contains(err.Error(), "canceled") {
		t.Fatalf("expected cancellation detail, got %v", err)
	}
}

func TestNewEngineDefaultsBinary(t *testing.T) {
	if got := NewEngine("  ").Binary(); got != "ffmpeg" {
		t.Fatalf("expected ffmpeg fallback, got %q", got)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "success":
		os.Exit(0)
	case "bitstream":
		fmt.Fprintln(os.Stderr, "[mpegts @ 0x5654] H.264 bitstream malformed, no startcode found, use the video bitstream filter 'h264_mp4toannexb' to fix it")
		fmt.Fprintln(os.Stderr, "av_interleaved_write_frame(): Invalid data found when processing input")
		os.Exit(1)
	case "hang":
		fmt.Fprintln(os.Stderr, "frame=  100 fps= 25")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
