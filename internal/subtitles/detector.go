package subtitles

import (
	"golang.org/x/text/unicode/norm"

	"scrub/internal/zone"
)

// Detector scans cue text against a compiled word list.
type Detector struct {
	patterns []Pattern
}

// NewDetector builds a detector over the given patterns.
func NewDetector(patterns []Pattern) *Detector {
	return &Detector{patterns: patterns}
}

// PatternCount returns the number of loaded word-list entries.
func (d *Detector) PatternCount() int {
	if d == nil {
		return 0
	}
	return len(d.patterns)
}

// Match returns the first word-list entry that matches text, if any. Text
// is NFC-normalized before matching so composed and decomposed subtitle
// encodings hit the same entries.
func (d *Detector) Match(text string) (string, bool) {
	if d == nil {
		return "", false
	}
	text = norm.NFC.String(text)
	for _, p := range d.patterns {
		if p.re.MatchString(text) {
			return p.Word, true
		}
	}
	return "", false
}

// DetectZones returns one mute zone for every cue whose text matches the
// word list, spanning the cue's interval and labeled with the matched
// entry.
func (d *Detector) DetectZones(cues []Cue) []zone.Zone {
	if d == nil || len(d.patterns) == 0 {
		return nil
	}
	var zones []zone.Zone
	for _, cue := range cues {
		word, ok := d.Match(cue.Text)
		if !ok {
			continue
		}
		zones = append(zones, zone.Zone{
			Kind:   zone.KindMute,
			Start:  cue.Start,
			End:    cue.End,
			Source: word,
		})
	}
	return zones
}
