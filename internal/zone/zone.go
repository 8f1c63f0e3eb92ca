package zone

import (
	"fmt"
	"strings"
)

// Kind identifies the transformation applied over a zone's interval.
type Kind string

const (
	// KindMute silences audio over the interval.
	KindMute Kind = "mute"
	// KindBlur replaces video with a blurred frame over the interval.
	KindBlur Kind = "blur"
	// KindBlack replaces video with a solid black frame over the interval.
	KindBlack Kind = "black"
	// KindExcise removes the interval entirely, shortening the output.
	KindExcise Kind = "excise"
)

// Visual reports whether the kind alters the video stream.
func (k Kind) Visual() bool {
	return k == KindBlur || k == KindBlack
}

// Valid reports whether the kind is one of the known transformation kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMute, KindBlur, KindBlack, KindExcise:
		return true
	}
	return false
}

// Zone is a labeled time interval with a transformation kind. Start and End
// are seconds from the beginning of the media item; Start < End for a usable
// zone. Source records where the zone came from (a matched word list
// pattern, a scene file entry). MuteAudio is meaningful only for visual
// kinds and requests that the interval's audio be silenced as well.
type Zone struct {
	Kind      Kind
	Start     float64
	End       float64
	Source    string
	MuteAudio bool
}

// Duration returns the zone's length in seconds, never negative.
func (z Zone) Duration() float64 {
	if z.End <= z.Start {
		return 0
	}
	return z.End - z.Start
}

func (z Zone) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%.3f-%.3f]", z.Kind, z.Start, z.End)
	if z.Source != "" {
		fmt.Fprintf(&b, " (%s)", z.Source)
	}
	return b.String()
}

// Set is an ordered sequence of same-kind zones for one media item. A Set
// produced by Normalize is sorted by start, pairwise disjoint, and minimal:
// no two members could be merged under the options that produced it.
type Set []Zone

// Empty reports whether the set holds no zones.
func (s Set) Empty() bool { return len(s) == 0 }

// TotalDuration returns the summed length of all zones in seconds.
func (s Set) TotalDuration() float64 {
	var total float64
	for _, z := range s {
		total += z.Duration()
	}
	return total
}

// Span is a bare time interval, used for complements of a Set.
type Span struct {
	Start float64
	End   float64
}

// Duration returns the span's length in seconds, never negative.
func (sp Span) Duration() float64 {
	if sp.End <= sp.Start {
		return 0
	}
	return sp.End - sp.Start
}

// Complement returns the ordered intervals of [0, duration] not covered by
// the set. The set must be normalized. Covering the full duration yields an
// empty result; an empty set yields the single span [0, duration].
func (s Set) Complement(duration float64) []Span {
	if duration <= 0 {
		return nil
	}
	spans := make([]Span, 0, len(s)+1)
	cursor := 0.0
	for _, z := range s {
		start := z.Start
		if start > duration {
			start = duration
		}
		if start > cursor {
			spans = append(spans, Span{Start: cursor, End: start})
		}
		if z.End > cursor {
			cursor = z.End
		}
		if cursor >= duration {
			return spans
		}
	}
	if cursor < duration {
		spans = append(spans, Span{Start: cursor, End: duration})
	}
	return spans
}

// ByKind groups raw zones by their kind, preserving input order within each
// group. Zones with an unknown kind are dropped and reported.
func ByKind(zones []Zone) (map[Kind][]Zone, []error) {
	grouped := make(map[Kind][]Zone, 4)
	var errs []error
	for _, z := range zones {
		if !z.Kind.Valid() {
			errs = append(errs, fmt.Errorf("unknown zone kind %q in %s", z.Kind, z))
			continue
		}
		grouped[z.Kind] = append(grouped[z.Kind], z)
	}
	return grouped, errs
}
