package zone

import (
	"fmt"
	"sort"
	"strings"

	"scrub/internal/services"
)

// NormalizeOptions controls padding and merging during Normalize.
type NormalizeOptions struct {
	// PadBefore widens every zone's start by this many seconds.
	PadBefore float64
	// PadAfter widens every zone's end by this many seconds.
	PadAfter float64
	// MergeGap is the largest gap, in seconds, across which two zones are
	// still coalesced. Zero merges only touching or overlapping zones.
	MergeGap float64
	// Duration clamps padded zones to [0, Duration]. Zero disables the
	// upper clamp (start is always clamped to zero).
	Duration float64
}

// Normalize pads, sorts, and sweep-merges raw zones of a single kind into a
// minimal disjoint Set. Zones that collapse to nothing after padding and
// clamping are dropped and reported as data errors; the remaining zones
// still normalize. Merging is transitive: a chain of zones each within
// MergeGap of the next collapses to one.
func Normalize(raw []Zone, opts NormalizeOptions) (Set, []error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var errs []error
	padded := make([]Zone, 0, len(raw))
	for _, z := range raw {
		p := z
		p.Start -= opts.PadBefore
		p.End += opts.PadAfter
		if p.Start < 0 {
			p.Start = 0
		}
		if opts.Duration > 0 {
			if p.Start > opts.Duration {
				p.Start = opts.Duration
			}
			if p.End > opts.Duration {
				p.End = opts.Duration
			}
		}
		if p.End <= p.Start {
			errs = append(errs, services.Wrap(services.ErrData, "zone", "normalize",
				fmt.Sprintf("degenerate zone %s after padding", z), nil))
			continue
		}
		padded = append(padded, p)
	}
	if len(padded) == 0 {
		return nil, errs
	}

	sort.SliceStable(padded, func(i, j int) bool {
		if padded[i].Start != padded[j].Start {
			return padded[i].Start < padded[j].Start
		}
		return padded[i].End < padded[j].End
	})

	merged := make(Set, 0, len(padded))
	current := padded[0]
	for _, z := range padded[1:] {
		if z.Start <= current.End+opts.MergeGap {
			if z.End > current.End {
				current.End = z.End
			}
			current.Source = joinSources(current.Source, z.Source)
			current.MuteAudio = current.MuteAudio || z.MuteAudio
			continue
		}
		merged = append(merged, current)
		current = z
	}
	merged = append(merged, current)
	return merged, errs
}

// joinSources concatenates distinct non-empty source labels so a merged zone
// still names everything that contributed to it.
func joinSources(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "" || a == b:
		return a
	}
	for _, part := range strings.Split(a, ",") {
		if part == b {
			return a
		}
	}
	return a + "," + b
}
