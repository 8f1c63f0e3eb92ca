package filtergraph

import (
	"fmt"
	"strings"

	"scrub/internal/zone"
)

// FilterOptions carries the configured visual filter parameters. These are
// configuration values, not derived from the media.
type FilterOptions struct {
	// BlurSigma is the gblur Gaussian sigma.
	BlurSigma float64
	// BlurSteps is the gblur iteration count.
	BlurSteps int
	// BlackColor is the drawbox fill color.
	BlackColor string
}

// DefaultFilterOptions mirror the stock rendering parameters.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{BlurSigma: 20, BlurSteps: 1, BlackColor: "black"}
}

func (o FilterOptions) normalized() FilterOptions {
	if o.BlurSigma <= 0 {
		o.BlurSigma = 20
	}
	if o.BlurSteps <= 0 {
		o.BlurSteps = 1
	}
	if o.BlackColor == "" {
		o.BlackColor = "black"
	}
	return o
}

// enableExpr builds the time-gating predicate union for a zone set:
// between(t,S,E)+between(t,S,E)+... Summing the predicates ORs them, since
// any non-zero sum enables the filter.
func enableExpr(set zone.Set) string {
	terms := make([]string, 0, len(set))
	for _, z := range set {
		terms = append(terms, fmt.Sprintf("between(t,%s,%s)", formatSeconds(z.Start), formatSeconds(z.End)))
	}
	return strings.Join(terms, "+")
}

// muteFilter builds the audio filter chain silencing every zone in the set,
// one volume stage per zone.
func muteFilter(set zone.Set) string {
	stages := make([]string, 0, len(set))
	for _, z := range set {
		stages = append(stages, fmt.Sprintf("volume=enable='between(t,%s,%s)':volume=0",
			formatSeconds(z.Start), formatSeconds(z.End)))
	}
	return strings.Join(stages, ",")
}

// blurFilter builds one gblur stage gated over every blur zone.
func blurFilter(set zone.Set, opts FilterOptions) string {
	if set.Empty() {
		return ""
	}
	return fmt.Sprintf("gblur=sigma=%s:steps=%d:enable='%s'",
		trimFloat(opts.BlurSigma), opts.BlurSteps, enableExpr(set))
}

// blackFilter builds one full-frame drawbox stage gated over every black
// zone.
func blackFilter(set zone.Set, opts FilterOptions) string {
	if set.Empty() {
		return ""
	}
	return fmt.Sprintf("drawbox=x=0:y=0:w=iw:h=ih:c=%s@1:t=fill:enable='%s'",
		opts.BlackColor, enableExpr(set))
}

// exciseFilter builds the trim-and-concatenate filter_complex over the kept
// intervals. Each interval is trimmed with its timestamp origin reset so
// concat sees monotonic timestamps; the final interval is open-ended when it
// reaches the full duration, tolerating container duration jitter.
func exciseFilter(kept []zone.Span, duration float64) (graph, videoLabel, audioLabel string) {
	var b strings.Builder
	for i, sp := range kept {
		openEnded := i == len(kept)-1 && sp.End >= duration-durationEpsilon
		if openEnded {
			fmt.Fprintf(&b, "[0:v]trim=start=%s,setpts=PTS-STARTPTS[v%d];", formatSeconds(sp.Start), i)
			fmt.Fprintf(&b, "[0:a]atrim=start=%s,asetpts=PTS-STARTPTS[a%d];", formatSeconds(sp.Start), i)
			continue
		}
		fmt.Fprintf(&b, "[0:v]trim=start=%s:end=%s,setpts=PTS-STARTPTS[v%d];",
			formatSeconds(sp.Start), formatSeconds(sp.End), i)
		fmt.Fprintf(&b, "[0:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[a%d];",
			formatSeconds(sp.Start), formatSeconds(sp.End), i)
	}
	for i := range kept {
		fmt.Fprintf(&b, "[v%d][a%d]", i, i)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=1:a=1[outv][outa]", len(kept))
	return b.String(), "[outv]", "[outa]"
}

const durationEpsilon = 0.001

// formatSeconds renders a timestamp with millisecond precision, the
// resolution subtitle timings carry.
func formatSeconds(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// trimFloat renders a float without trailing zeros so sigma 20 prints as 20,
// not 20.000.
func trimFloat(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
