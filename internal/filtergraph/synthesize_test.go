package filtergraph_test

import (
	"errors"
	"strings"
	"testing"

	"scrub/internal/filtergraph"
	"scrub/internal/services"
	"scrub/internal/zone"
)

func TestSynthesizeNoZonesMeansNoPasses(t *testing.T) {
	plan, err := filtergraph.Synthesize(nil, nil, nil, nil, 600, filtergraph.DefaultFilterOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan != nil {
		t.Fatalf("expected nil plan, got %T", plan)
	}
}

func TestSynthesizePassCount(t *testing.T) {
	mute := zone.Set{{Kind: zone.KindMute, Start: 10, End: 13}}
	blur := zone.Set{{Kind: zone.KindBlur, Start: 100, End: 200}}
	excise := zone.Set{{Kind: zone.KindExcise, Start: 150, End: 180}}

	cases := []struct {
		name       string
		mute       zone.Set
		blur       zone.Set
		excise     zone.Set
		wantPasses int
	}{
		{"mute only", mute, nil, nil, 1},
		{"blur only", nil, blur, nil, 1},
		{"mute and blur", mute, blur, nil, 1},
		{"excise only", nil, nil, excise, 2},
		{"everything", mute, blur, excise, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := filtergraph.Synthesize(tc.mute, tc.blur, nil, tc.excise, 1000, filtergraph.DefaultFilterOptions())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := len(plan.Passes()); got != tc.wantPasses {
				t.Fatalf("expected %d passes, got %d", tc.wantPasses, got)
			}
			switch plan.(type) {
			case filtergraph.SingleCombinedPass:
				if tc.wantPasses != 1 {
					t.Fatalf("unexpected variant %T", plan)
				}
			case filtergraph.ExciseChain:
				if tc.wantPasses != 2 {
					t.Fatalf("unexpected variant %T", plan)
				}
			default:
				t.Fatalf("unknown plan variant %T", plan)
			}
		})
	}
}

func TestSynthesizeCombinedPassExpressions(t *testing.T) {
	mute := zone.Set{
		{Kind: zone.KindMute, Start: 10, End: 13},
		{Kind: zone.KindMute, Start: 45.5, End: 47.25},
	}
	blur := zone.Set{{Kind: zone.KindBlur, Start: 100, End: 200}}
	black := zone.Set{{Kind: zone.KindBlack, Start: 300, End: 320}}

	plan, err := filtergraph.Synthesize(mute, blur, black, nil, 1000, filtergraph.DefaultFilterOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	single, ok := plan.(filtergraph.SingleCombinedPass)
	if !ok {
		t.Fatalf("expected SingleCombinedPass, got %T", plan)
	}
	pass := single.Combined

	wantAudio := "volume=enable='between(t,10.000,13.000)':volume=0,volume=enable='between(t,45.500,47.250)':volume=0"
	if pass.AudioFilter != wantAudio {
		t.Errorf("audio filter mismatch:\n got %q\nwant %q", pass.AudioFilter, wantAudio)
	}
	if want := "gblur=sigma=20:steps=1:enable='between(t,100.000,200.000)'"; !strings.Contains(pass.VideoFilter, want) {
		t.Errorf("video filter missing blur stage %q: %q", want, pass.VideoFilter)
	}
	if want := "drawbox=x=0:y=0:w=iw:h=ih:c=black@1:t=fill:enable='between(t,300.000,320.000)'"; !strings.Contains(pass.VideoFilter, want) {
		t.Errorf("video filter missing black stage %q: %q", want, pass.VideoFilter)
	}
	if pass.FilterComplex != "" {
		t.Errorf("combined pass should not carry a filter_complex: %q", pass.FilterComplex)
	}
}

func TestSynthesizeVisualMuteAudioJoinsMuteUnion(t *testing.T) {
	mute := zone.Set{{Kind: zone.KindMute, Start: 10, End: 20}}
	blur := zone.Set{
		{Kind: zone.KindBlur, Start: 15, End: 25, MuteAudio: true},
		{Kind: zone.KindBlur, Start: 500, End: 510},
	}

	plan, err := filtergraph.Synthesize(mute, blur, nil, nil, 1000, filtergraph.DefaultFilterOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pass := plan.(filtergraph.SingleCombinedPass).Combined

	// Overlapping mute and flagged blur collapse into one volume gate; the
	// unflagged blur zone contributes no audio stage.
	want := "volume=enable='between(t,10.000,25.000)':volume=0"
	if pass.AudioFilter != want {
		t.Errorf("audio filter mismatch:\n got %q\nwant %q", pass.AudioFilter, want)
	}
}

func TestSynthesizeExciseChain(t *testing.T) {
	blur := zone.Set{{Kind: zone.KindBlur, Start: 100, End: 200}}
	excise := zone.Set{{Kind: zone.KindExcise, Start: 150, End: 180}}

	plan, err := filtergraph.Synthesize(nil, blur, nil, excise, 1000, filtergraph.DefaultFilterOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chain, ok := plan.(filtergraph.ExciseChain)
	if !ok {
		t.Fatalf("expected ExciseChain, got %T", plan)
	}

	if len(chain.Kept) != 2 {
		t.Fatalf("expected 2 kept intervals, got %v", chain.Kept)
	}
	if chain.Kept[0] != (zone.Span{Start: 0, End: 150}) || chain.Kept[1] != (zone.Span{Start: 180, End: 1000}) {
		t.Fatalf("unexpected kept intervals: %v", chain.Kept)
	}

	if !strings.Contains(chain.Pre.VideoFilter, "gblur") {
		t.Errorf("pre pass should carry the blur stage: %q", chain.Pre.VideoFilter)
	}
	if chain.Pre.FilterComplex != "" {
		t.Errorf("pre pass must not excise: %q", chain.Pre.FilterComplex)
	}

	post := chain.Post
	if post.VideoFilter != "" || post.AudioFilter != "" {
		t.Errorf("post pass must not re-apply gated filters: vf=%q af=%q", post.VideoFilter, post.AudioFilter)
	}
	wantGraph := "[0:v]trim=start=0.000:end=150.000,setpts=PTS-STARTPTS[v0];" +
		"[0:a]atrim=start=0.000:end=150.000,asetpts=PTS-STARTPTS[a0];" +
		"[0:v]trim=start=180.000,setpts=PTS-STARTPTS[v1];" +
		"[0:a]atrim=start=180.000,asetpts=PTS-STARTPTS[a1];" +
		"[v0][a0][v1][a1]concat=n=2:v=1:a=1[outv][outa]"
	if post.FilterComplex != wantGraph {
		t.Errorf("filter_complex mismatch:\n got %q\nwant %q", post.FilterComplex, wantGraph)
	}
	if post.VideoLabel != "[outv]" || post.AudioLabel != "[outa]" {
		t.Errorf("unexpected output labels %q %q", post.VideoLabel, post.AudioLabel)
	}
}

func TestSynthesizeExciseOnlyPreIsStreamCopy(t *testing.T) {
	excise := zone.Set{{Kind: zone.KindExcise, Start: 10, End: 20}}
	plan, err := filtergraph.Synthesize(nil, nil, nil, excise, 100, filtergraph.DefaultFilterOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chain := plan.(filtergraph.ExciseChain)
	if !chain.Pre.StreamCopy() {
		t.Fatalf("expected stream-copy pre pass, got %+v", chain.Pre)
	}
	if chain.Post.StreamCopy() {
		t.Fatal("post pass must carry the trim/concat graph")
	}
}

func TestSynthesizeKeptIntervalsPartitionDuration(t *testing.T) {
	excise := zone.Set{
		{Kind: zone.KindExcise, Start: 0, End: 5},
		{Kind: zone.KindExcise, Start: 60, End: 90},
		{Kind: zone.KindExcise, Start: 500, End: 600},
	}
	plan, err := filtergraph.Synthesize(nil, nil, nil, excise, 1000, filtergraph.DefaultFilterOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chain := plan.(filtergraph.ExciseChain)

	var kept float64
	cursor := 0.0
	for _, sp := range chain.Kept {
		if sp.Start < cursor {
			t.Fatalf("kept intervals overlap: %v", chain.Kept)
		}
		kept += sp.Duration()
		cursor = sp.End
	}
	if want := 1000 - excise.TotalDuration(); kept != want {
		t.Fatalf("kept total %v, want %v", kept, want)
	}
}

func TestSynthesizeFullDurationExcision(t *testing.T) {
	excise := zone.Set{{Kind: zone.KindExcise, Start: 0, End: 100}}
	_, err := filtergraph.Synthesize(nil, nil, nil, excise, 100, filtergraph.DefaultFilterOptions())
	if !errors.Is(err, services.ErrInvalidZoneSet) {
		t.Fatalf("expected invalid zone set error, got %v", err)
	}
}

func TestSynthesizeExciseWithoutDuration(t *testing.T) {
	excise := zone.Set{{Kind: zone.KindExcise, Start: 0, End: 10}}
	_, err := filtergraph.Synthesize(nil, nil, nil, excise, 0, filtergraph.DefaultFilterOptions())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSynthesizeSingleZoneConcat(t *testing.T) {
	// Excising the tail leaves one kept interval; the graph still concats
	// with n=1 and the interval is closed because it ends before duration.
	excise := zone.Set{{Kind: zone.KindExcise, Start: 900, End: 1000}}
	plan, err := filtergraph.Synthesize(nil, nil, nil, excise, 1000, filtergraph.DefaultFilterOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chain := plan.(filtergraph.ExciseChain)
	if !strings.Contains(chain.Post.FilterComplex, "concat=n=1:v=1:a=1") {
		t.Fatalf("expected single-segment concat, got %q", chain.Post.FilterComplex)
	}
	if !strings.Contains(chain.Post.FilterComplex, "trim=start=0.000:end=900.000") {
		t.Fatalf("expected closed first segment, got %q", chain.Post.FilterComplex)
	}
}
