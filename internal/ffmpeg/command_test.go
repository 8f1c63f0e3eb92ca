package ffmpeg_test

import (
	"strings"
	"testing"

	"scrub/internal/ffmpeg"
)

func argsString(cmd ffmpeg.Command) string {
	return strings.Join(cmd.Args(), " ")
}

func TestCommandAudioFilterCopiesVideo(t *testing.T) {
	cmd := ffmpeg.Command{
		InputPath:   "/in/movie.mp4",
		OutputPath:  "/out/movie.mp4",
		AudioFilter: "volume=enable='between(t,10.000,13.000)':volume=0",
	}
	got := argsString(cmd)
	for _, want := range []string{
		"-hide_banner -nostdin -loglevel error -y",
		"-i /in/movie.mp4",
		"-map 0:v:0 -map 0:a:0",
		"-af volume=enable='between(t,10.000,13.000)':volume=0",
		"-c:v copy",
		"-c:a aac -b:a 192k",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("args missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "-vf") {
		t.Errorf("unexpected video filter in %s", got)
	}
	if !strings.HasSuffix(got, "/out/movie.mp4") {
		t.Errorf("output path must come last: %s", got)
	}
}

func TestCommandVideoFilterForcesEncode(t *testing.T) {
	cmd := ffmpeg.Command{
		InputPath:   "/in/movie.mkv",
		OutputPath:  "/out/movie.mkv",
		VideoFilter: "gblur=sigma=20:steps=1:enable='between(t,100.000,200.000)'",
	}
	got := argsString(cmd)
	if !strings.Contains(got, "-c:v libx264 -preset medium -crf 23") {
		t.Errorf("expected default video encode settings, got %s", got)
	}
	if !strings.Contains(got, "-c:a copy") {
		t.Errorf("unfiltered audio should copy, got %s", got)
	}
}

func TestCommandFilterComplexMapsLabels(t *testing.T) {
	cmd := ffmpeg.Command{
		InputPath:     "/tmp/intermediate.ts",
		OutputPath:    "/out/movie.mp4",
		FilterComplex: "[0:v]trim=start=0.000:end=150.000,setpts=PTS-STARTPTS[v0];[0:a]atrim=start=0.000:end=150.000,asetpts=PTS-STARTPTS[a0];[v0][a0]concat=n=1:v=1:a=1[outv][outa]",
		VideoLabel:    "[outv]",
		AudioLabel:    "[outa]",
	}
	got := argsString(cmd)
	if !strings.Contains(got, "-filter_complex") {
		t.Fatalf("expected filter_complex, got %s", got)
	}
	if !strings.Contains(got, "-map [outv] -map [outa]") {
		t.Errorf("expected label maps, got %s", got)
	}
	if strings.Contains(got, "0:v:0") {
		t.Errorf("stream maps must not mix with label maps: %s", got)
	}
	if !strings.Contains(got, "-c:v libx264") || !strings.Contains(got, "-c:a aac") {
		t.Errorf("filter_complex must re-encode both streams: %s", got)
	}
}

func TestCommandStreamCopyWithBitstreamFilters(t *testing.T) {
	cmd := ffmpeg.Command{
		InputPath:      "/in/movie.mp4",
		OutputPath:     "/tmp/intermediate.ts",
		VideoBitstream: "h264_mp4toannexb",
		OutputFormat:   "mpegts",
	}
	got := argsString(cmd)
	if !strings.Contains(got, "-c:v copy -bsf:v h264_mp4toannexb") {
		t.Errorf("expected video bitstream filter next to copy, got %s", got)
	}
	if !strings.Contains(got, "-c:a copy") {
		t.Errorf("expected audio copy, got %s", got)
	}
	if !strings.Contains(got, "-f mpegts /tmp/intermediate.ts") {
		t.Errorf("expected forced output format before path, got %s", got)
	}
}

func TestCommandBitstreamIgnoredWhenEncoding(t *testing.T) {
	cmd := ffmpeg.Command{
		InputPath:      "/in/movie.mp4",
		OutputPath:     "/out/movie.mp4",
		VideoFilter:    "gblur=sigma=20:steps=1:enable='between(t,1.000,2.000)'",
		VideoBitstream: "h264_mp4toannexb",
	}
	if got := argsString(cmd); strings.Contains(got, "-bsf:v") {
		t.Errorf("bitstream filter must not apply to encoded stream: %s", got)
	}
}

func TestCommandCustomEncodeSettings(t *testing.T) {
	cmd := ffmpeg.Command{
		InputPath:   "/in/a.mkv",
		OutputPath:  "/out/a.mkv",
		VideoFilter: "gblur=sigma=20:steps=1:enable='between(t,1.000,2.000)'",
		AudioFilter: "volume=enable='between(t,1.000,2.000)':volume=0",
		Encode: ffmpeg.EncodeSettings{
			VideoCodec:   "libx265",
			CRF:          28,
			Preset:       "fast",
			AudioCodec:   "libopus",
			AudioBitrate: "128k",
		},
	}
	got := argsString(cmd)
	if !strings.Contains(got, "-c:v libx265 -preset fast -crf 28") {
		t.Errorf("expected custom video settings, got %s", got)
	}
	if !strings.Contains(got, "-c:a libopus -b:a 128k") {
		t.Errorf("expected custom audio settings, got %s", got)
	}
}
