package filtergraph

import (
	"fmt"
	"strings"

	"scrub/internal/services"
	"scrub/internal/zone"
)

// Pass describes one engine invocation. A pass with no filter expressions is
// a pure stream copy. FilterComplex carries a trim/concat graph whose output
// labels must be mapped explicitly; it is mutually exclusive with
// VideoFilter/AudioFilter.
type Pass struct {
	Name          string
	VideoFilter   string
	AudioFilter   string
	FilterComplex string
	VideoLabel    string
	AudioLabel    string
}

// StreamCopy reports whether the pass applies no filtering at all.
func (p Pass) StreamCopy() bool {
	return p.VideoFilter == "" && p.AudioFilter == "" && p.FilterComplex == ""
}

// Plan is the tagged result of synthesis: either a single combined pass or a
// two-pass excise chain. The concrete type tells the orchestrator how many
// engine invocations to chain and what artifacts flow between them.
type Plan interface {
	Passes() []Pass
	sealed()
}

// SingleCombinedPass applies every time-gated filter (mute, blur, black) in
// one invocation. The output timeline matches the input timeline.
type SingleCombinedPass struct {
	Combined Pass
}

func (SingleCombinedPass) sealed() {}

// Passes returns the single combined pass.
func (p SingleCombinedPass) Passes() []Pass { return []Pass{p.Combined} }

// ExciseChain applies time-gated filters first (Pre, on the original
// timeline), then removes excise intervals and concatenates the survivors
// (Post). Post never re-applies Pre's filters. Kept holds the ordered
// intervals Post preserves.
type ExciseChain struct {
	Pre  Pass
	Post Pass
	Kept []zone.Span
}

func (ExciseChain) sealed() {}

// Passes returns the pre and post passes in execution order.
func (p ExciseChain) Passes() []Pass { return []Pass{p.Pre, p.Post} }

// Synthesize turns normalized per-kind zone sets into an ordered pass plan.
// All sets must already be normalized. A nil plan with nil error means no
// transformation is needed and the caller should copy the input verbatim.
//
// Mute, blur, and black are time-gated predicates that leave the timeline
// length unchanged, so any combination fits one pass. Excision shortens the
// timeline, shifting every later timestamp left, so it always runs as its
// own second pass against the artifact the first pass produced; that way
// the predicate coordinates in the first pass reference the original
// timeline and never need recomputation.
func Synthesize(mute, blur, black, excise zone.Set, duration float64, opts FilterOptions) (Plan, error) {
	opts = opts.normalized()

	if mute.Empty() && blur.Empty() && black.Empty() && excise.Empty() {
		return nil, nil
	}

	if excise.Empty() {
		return SingleCombinedPass{Combined: combinedPass("combined", mute, blur, black, opts)}, nil
	}

	if duration <= 0 {
		return nil, services.Wrap(services.ErrValidation, "filtergraph", "synthesize",
			"excise zones require a known duration", nil)
	}
	kept := excise.Complement(duration)
	if len(kept) == 0 {
		return nil, services.Wrap(services.ErrInvalidZoneSet, "filtergraph", "synthesize",
			fmt.Sprintf("excise zones cover the full duration (%.3fs)", duration), nil)
	}

	graph, vLabel, aLabel := exciseFilter(kept, duration)
	return ExciseChain{
		Pre: combinedPass("effects", mute, blur, black, opts),
		Post: Pass{
			Name:          "excise",
			FilterComplex: graph,
			VideoLabel:    vLabel,
			AudioLabel:    aLabel,
		},
		Kept: kept,
	}, nil
}

// combinedPass unions the time-gated filters into one pass. Audio mutes
// cover the mute set plus every visual zone flagged for audio muting; the
// union is renormalized so overlapping requests collapse into disjoint
// volume gates.
func combinedPass(name string, mute, blur, black zone.Set, opts FilterOptions) Pass {
	var video []string
	if f := blurFilter(blur, opts); f != "" {
		video = append(video, f)
	}
	if f := blackFilter(black, opts); f != "" {
		video = append(video, f)
	}

	audioZones := make([]zone.Zone, 0, len(mute)+len(blur)+len(black))
	audioZones = append(audioZones, mute...)
	for _, z := range blur {
		if z.MuteAudio {
			audioZones = append(audioZones, z)
		}
	}
	for _, z := range black {
		if z.MuteAudio {
			audioZones = append(audioZones, z)
		}
	}
	audioSet, _ := zone.Normalize(audioZones, zone.NormalizeOptions{})

	return Pass{
		Name:        name,
		VideoFilter: strings.Join(video, ","),
		AudioFilter: muteFilter(audioSet),
	}
}
