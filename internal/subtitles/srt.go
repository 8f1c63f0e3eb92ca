package subtitles

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"scrub/internal/services"
)

// Cue is one subtitle entry: a sequence index, a time interval in seconds,
// and the dialogue text with line breaks collapsed to single spaces.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns the cue's length in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// ParseSRT splits raw SRT content into cues. A malformed block is dropped
// and reported as a data error; the rest of the file still parses.
func ParseSRT(raw []byte) ([]Cue, []error) {
	normalized := strings.ReplaceAll(string(raw), "\r\n", "\n")
	blocks := splitBlocks(normalized)
	cues := make([]Cue, 0, len(blocks))
	var errs []error
	for i, block := range blocks {
		cue, err := parseBlock(block)
		if err != nil {
			errs = append(errs, services.Wrap(services.ErrData, "subtitles", "parse",
				fmt.Sprintf("cue block %d", i+1), err))
			continue
		}
		cues = append(cues, cue)
	}
	return cues, errs
}

// LoadFile reads and parses the SRT file at path. The []error return carries
// per-cue data errors; the final error reports a failure to read the file at
// all.
func LoadFile(path string) ([]Cue, []error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read srt: %w", err)
	}
	cues, dataErrs := ParseSRT(data)
	return cues, dataErrs, nil
}

func splitBlocks(content string) []string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n\n")
}

func parseBlock(block string) (Cue, error) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return Cue{}, fmt.Errorf("empty cue block")
	}
	var cue Cue
	pos := 0
	if isNumeric(lines[pos]) {
		cue.Index, _ = strconv.Atoi(strings.TrimSpace(lines[pos]))
		pos++
	}
	if pos >= len(lines) || !strings.Contains(lines[pos], "-->") {
		return Cue{}, fmt.Errorf("missing timestamp line")
	}
	parts := strings.Split(lines[pos], "-->")
	if len(parts) != 2 {
		return Cue{}, fmt.Errorf("invalid timestamp line %q", lines[pos])
	}
	endText := strings.TrimSpace(parts[1])
	if fields := strings.Fields(endText); len(fields) > 1 {
		// Coordinate extensions after the end time are legal SRT.
		endText = fields[0]
	}
	start, err := parseTimestamp(parts[0])
	if err != nil {
		return Cue{}, err
	}
	end, err := parseTimestamp(endText)
	if err != nil {
		return Cue{}, err
	}
	if end < start {
		return Cue{}, fmt.Errorf("cue ends at %.3f before it starts at %.3f", end, start)
	}
	cue.Start = start
	cue.End = end
	pos++
	text := make([]string, 0, len(lines)-pos)
	for _, line := range lines[pos:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			text = append(text, trimmed)
		}
	}
	if len(text) == 0 {
		return Cue{}, fmt.Errorf("cue has no text")
	}
	cue.Text = strings.Join(text, " ")
	return cue, nil
}

func parseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// SRT puts a comma before the milliseconds; some files use a period.
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, fmt.Errorf("negative timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

func isNumeric(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	_, err := strconv.Atoi(value)
	return err == nil
}
