package ffmpeg

import (
	"strconv"
	"strings"
)

// EncodeSettings carries the re-encode parameters used whenever a filter
// forces a stream through the encoder.
type EncodeSettings struct {
	VideoCodec   string
	CRF          int
	Preset       string
	AudioCodec   string
	AudioBitrate string
}

// DefaultEncodeSettings match the stock H.264/AAC rendering parameters.
func DefaultEncodeSettings() EncodeSettings {
	return EncodeSettings{
		VideoCodec:   "libx264",
		CRF:          23,
		Preset:       "medium",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
	}
}

func (e EncodeSettings) normalized() EncodeSettings {
	def := DefaultEncodeSettings()
	if e.VideoCodec == "" {
		e.VideoCodec = def.VideoCodec
	}
	if e.CRF <= 0 {
		e.CRF = def.CRF
	}
	if e.Preset == "" {
		e.Preset = def.Preset
	}
	if e.AudioCodec == "" {
		e.AudioCodec = def.AudioCodec
	}
	if e.AudioBitrate == "" {
		e.AudioBitrate = def.AudioBitrate
	}
	return e
}

// Command describes one engine invocation. Streams without a filter are
// copied; filtered streams are re-encoded with the Encode settings. A
// FilterComplex graph re-encodes both streams and maps its output labels.
type Command struct {
	InputPath  string
	OutputPath string

	VideoFilter   string
	AudioFilter   string
	FilterComplex string
	VideoLabel    string
	AudioLabel    string

	// Bitstream filters applied to copied streams whose bitstream layout
	// must be rewritten for the destination container.
	VideoBitstream string
	AudioBitstream string

	// OutputFormat forces the container muxer (-f), used for intermediate
	// artifacts whose path extension does not decide the format.
	OutputFormat string

	Encode EncodeSettings
}

// VideoEncodes reports whether the video stream goes through the encoder.
func (c Command) VideoEncodes() bool {
	return c.VideoFilter != "" || c.FilterComplex != ""
}

// AudioEncodes reports whether the audio stream goes through the encoder.
func (c Command) AudioEncodes() bool {
	return c.AudioFilter != "" || c.FilterComplex != ""
}

// Args assembles the full ffmpeg argument list, binary excluded.
func (c Command) Args() []string {
	enc := c.Encode.normalized()
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin", "-loglevel", "error", "-y")

	// --- Input ---
	args = append(args, "-i", c.InputPath)

	// --- Filters and stream maps ---
	if c.FilterComplex != "" {
		args = append(args, "-filter_complex", c.FilterComplex)
		args = append(args, "-map", c.VideoLabel, "-map", c.AudioLabel)
	} else {
		args = append(args, "-map", "0:v:0", "-map", "0:a:0")
		if c.VideoFilter != "" {
			args = append(args, "-vf", c.VideoFilter)
		}
		if c.AudioFilter != "" {
			args = append(args, "-af", c.AudioFilter)
		}
	}

	// --- Video codec ---
	if c.VideoEncodes() {
		args = append(args, "-c:v", enc.VideoCodec, "-preset", enc.Preset, "-crf", strconv.Itoa(enc.CRF))
	} else {
		args = append(args, "-c:v", "copy")
		if c.VideoBitstream != "" {
			args = append(args, "-bsf:v", c.VideoBitstream)
		}
	}

	// --- Audio codec ---
	if c.AudioEncodes() {
		args = append(args, "-c:a", enc.AudioCodec, "-b:a", enc.AudioBitrate)
	} else {
		args = append(args, "-c:a", "copy")
		if c.AudioBitstream != "" {
			args = append(args, "-bsf:a", c.AudioBitstream)
		}
	}

	// --- Output ---
	if c.OutputFormat != "" {
		args = append(args, "-f", c.OutputFormat)
	}
	args = append(args, c.OutputPath)
	return args
}

// String renders the invocation for logs and dry-run display.
func (c Command) String() string {
	return "ffmpeg " + strings.Join(c.Args(), " ")
}
