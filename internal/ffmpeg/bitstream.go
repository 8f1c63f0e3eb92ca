package ffmpeg

import "strings"

// Container families whose stream layouts differ for the same codec. MP4
// family muxers store H.264/HEVC length-prefixed with out-of-band parameter
// sets, and AAC as raw ASC; MPEG-TS wants Annex B start codes with in-band
// parameter sets, and AAC framed as ADTS. Matroska borrows the MP4-style
// layout for these codecs.
var (
	mp4Family      = []string{"mov", "mp4", "m4a", "3gp", "3g2", "mj2"}
	matroskaFamily = []string{"matroska", "webm"}
	tsFamily       = []string{"mpegts"}
)

func inFamily(names []string, family []string) bool {
	for _, n := range names {
		n = strings.ToLower(n)
		for _, f := range family {
			if n == f {
				return true
			}
		}
	}
	return false
}

// BitstreamFilters returns the bitstream-rewrite directives a stream copy
// needs when moving the given codecs from the source container (ffprobe
// format name list) into the destination container format. Empty strings
// mean no rewrite is required.
//
// Omitting a required directive does not fail at copy time; the destination
// muxer rejects the malformed stream when it writes the trailer, leaving a
// corrupt output. The orchestrator therefore consults this table for every
// copied stream.
func BitstreamFilters(videoCodec, audioCodec string, sourceFormats []string, destFormat string) (video, audio string) {
	dest := strings.ToLower(strings.TrimSpace(destFormat))
	fromMP4Style := inFamily(sourceFormats, mp4Family) || inFamily(sourceFormats, matroskaFamily)
	fromTS := inFamily(sourceFormats, tsFamily)
	toTS := inFamily([]string{dest}, tsFamily)
	toMP4 := inFamily([]string{dest}, mp4Family)

	if fromMP4Style && toTS {
		switch strings.ToLower(videoCodec) {
		case "h264":
			video = "h264_mp4toannexb"
		case "hevc", "h265":
			video = "hevc_mp4toannexb"
		}
	}
	if fromTS && toMP4 {
		if strings.ToLower(audioCodec) == "aac" {
			audio = "aac_adtstoasc"
		}
	}
	return video, audio
}

// FormatForExtension maps an output path extension to the muxer format name
// used as a BitstreamFilters destination key.
func FormatForExtension(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "mp4", "m4v", "mov":
		return "mp4"
	case "mkv":
		return "matroska"
	case "ts", "m2ts", "mts":
		return "mpegts"
	case "avi":
		return "avi"
	default:
		return ""
	}
}
