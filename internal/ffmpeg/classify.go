package ffmpeg

import (
	"regexp"
	"strings"
)

// Pre-compiled regexes for classifying ffmpeg stderr into failure
// categories. Checked in order; the first match names the failure in the
// wrapped error so ledger records stay scannable.
var (
	reMissingInput = regexp.MustCompile(
		`(?i)No such file or directory|Invalid data found when processing input`)

	rePermission = regexp.MustCompile(
		`(?i)Permission denied`)

	reBitstream = regexp.MustCompile(
		`(?i)bitstream malformed|no startcode found|Malformed AAC bitstream|` +
			`Error applying bitstream filters|codec not currently supported in container`)

	reFilterGraph = regexp.MustCompile(
		`(?i)No such filter|Error initializing filter|Error reinitializing filters|` +
			`Invalid chars .* in filtergraph|Unable to parse graph description`)

	reDiskFull = regexp.MustCompile(
		`(?i)No space left on device`)
)

// Classify names the failure category for an ffmpeg stderr transcript.
// Bitstream errors are checked first: the muxer's rejection line is followed
// by a generic "Invalid data found" that would otherwise misclassify as an
// input problem. Unrecognized output classifies as "engine failure".
func Classify(stderr string) string {
	switch {
	case reBitstream.MatchString(stderr):
		return "bitstream incompatible with container"
	case reMissingInput.MatchString(stderr):
		return "missing or unreadable input"
	case rePermission.MatchString(stderr):
		return "permission denied"
	case reFilterGraph.MatchString(stderr):
		return "invalid filter graph"
	case reDiskFull.MatchString(stderr):
		return "disk full"
	default:
		return "engine failure"
	}
}

// Tail returns the last max bytes of a stderr transcript, trimmed to whole
// lines where possible. Engine diagnostics land at the end of the stream,
// so the tail is what a failure record needs.
func Tail(stderr string, max int) string {
	stderr = strings.TrimSpace(stderr)
	if max <= 0 || len(stderr) <= max {
		return stderr
	}
	cut := stderr[len(stderr)-max:]
	if idx := strings.IndexByte(cut, '\n'); idx >= 0 && idx < len(cut)-1 {
		cut = cut[idx+1:]
	}
	return cut
}
