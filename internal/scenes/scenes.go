package scenes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"scrub/internal/services"
	"scrub/internal/zone"
)

// Mode selects what happens to a scene's interval.
type Mode string

const (
	// ModeSkip removes the interval from the output entirely.
	ModeSkip Mode = "skip"
	// ModeBlur keeps the interval but blurs the video.
	ModeBlur Mode = "blur"
	// ModeBlack keeps the interval but blacks out the video.
	ModeBlack Mode = "black"
)

var kindForMode = map[Mode]zone.Kind{
	ModeSkip:  zone.KindExcise,
	ModeBlur:  zone.KindBlur,
	ModeBlack: zone.KindBlack,
}

// Entry is one scene interval in a sidecar file. Start and End accept bare
// seconds or "MM:SS"/"HH:MM:SS" strings, fractions allowed. Mode defaults
// to skip. Mute silences the interval's audio and is only meaningful for
// blur and black scenes.
type Entry struct {
	Start       Seconds `yaml:"start"`
	End         Seconds `yaml:"end"`
	Mode        Mode    `yaml:"mode"`
	Mute        bool    `yaml:"mute"`
	Description string  `yaml:"description"`
}

// File is a parsed scene sidecar document.
type File struct {
	Title  string  `yaml:"title"`
	Scenes []Entry `yaml:"scenes"`
}

// Seconds is a timestamp that unmarshals from a YAML number or from a
// clock-style string.
type Seconds float64

func (s *Seconds) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("timestamp must be a number or a string")
	}
	parsed, err := ParseTimestamp(node.Value)
	if err != nil {
		return err
	}
	*s = Seconds(parsed)
	return nil
}

// SidecarPath returns the scene file path for a video: the video path with
// its extension replaced by ".scenes.yaml".
func SidecarPath(videoPath string) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	return base + ".scenes.yaml"
}

// Load reads the scene sidecar for videoPath. A missing sidecar yields
// (nil, nil). An unreadable or unparseable sidecar is an error: the user
// authored the file, so silently ignoring it would process the item against
// their intent.
func Load(videoPath string) (*File, error) {
	path := SidecarPath(videoPath)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrData, "scenes", "load", path, err)
	}
	var doc File
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrData, "scenes", "parse", path, err)
	}
	return &doc, nil
}

// Zones converts the file's entries into raw zones. Invalid entries are
// dropped and reported as data errors; the valid remainder proceeds.
func (f *File) Zones() ([]zone.Zone, []error) {
	if f == nil {
		return nil, nil
	}
	zones := make([]zone.Zone, 0, len(f.Scenes))
	var errs []error
	for i, entry := range f.Scenes {
		z, err := entry.zone(i + 1)
		if err != nil {
			errs = append(errs, services.Wrap(services.ErrData, "scenes", "entry",
				fmt.Sprintf("scene %d", i+1), err))
			continue
		}
		zones = append(zones, z)
	}
	return zones, errs
}

func (e Entry) zone(ordinal int) (zone.Zone, error) {
	mode := e.Mode
	if mode == "" {
		mode = ModeSkip
	}
	kind, ok := kindForMode[mode]
	if !ok {
		return zone.Zone{}, fmt.Errorf("unknown mode %q", e.Mode)
	}
	if e.Mute && mode == ModeSkip {
		return zone.Zone{}, fmt.Errorf("mute only applies to blur and black scenes")
	}
	start := float64(e.Start)
	end := float64(e.End)
	if end <= start {
		return zone.Zone{}, fmt.Errorf("scene ends at %.3f before it starts at %.3f", end, start)
	}
	source := e.Description
	if source == "" {
		source = fmt.Sprintf("scene %d", ordinal)
	}
	return zone.Zone{
		Kind:      kind,
		Start:     start,
		End:       end,
		Source:    source,
		MuteAudio: e.Mute,
	}, nil
}
