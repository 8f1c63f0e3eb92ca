package config

import (
	"errors"
	"fmt"
	"strings"
)

var knownPresets = map[string]struct{}{
	"ultrafast": {}, "superfast": {}, "veryfast": {}, "faster": {}, "fast": {},
	"medium": {}, "slow": {}, "slower": {}, "veryslow": {}, "placebo": {},
}

// Validate ensures the configuration is usable. All problems are reported
// at once so a user fixes the file in one edit, not one error at a time.
func (c *Config) Validate() error {
	var errs []error
	errs = append(errs, c.validatePaths()...)
	errs = append(errs, c.validateZones()...)
	errs = append(errs, c.validateFilters()...)
	errs = append(errs, c.validateEncode()...)
	return errors.Join(errs...)
}

func (c *Config) validatePaths() []error {
	var errs []error
	if strings.TrimSpace(c.Paths.SourceRoot) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/scrub/config.toml"
		}
		errs = append(errs, fmt.Errorf("paths.source_root is required. Set SCRUB_SOURCE_ROOT env var or edit %s (create with 'scrub config init')", defaultPath))
	}
	if strings.TrimSpace(c.Paths.OutputRoot) == "" {
		errs = append(errs, errors.New("paths.output_root is required"))
	}
	if c.Paths.SourceRoot != "" && c.Paths.SourceRoot == c.Paths.OutputRoot {
		errs = append(errs, errors.New("paths.output_root must differ from paths.source_root"))
	}
	return errs
}

func (c *Config) validateZones() []error {
	var errs []error
	if c.Zones.PadBeforeSeconds < 0 || c.Zones.PadAfterSeconds < 0 {
		errs = append(errs, errors.New("zones padding must be >= 0 seconds"))
	}
	if c.Zones.MergeGapSeconds < 0 {
		errs = append(errs, errors.New("zones.merge_gap_seconds must be >= 0"))
	}
	return errs
}

func (c *Config) validateFilters() []error {
	var errs []error
	if c.Filters.BlurSigma <= 0 {
		errs = append(errs, errors.New("filters.blur_sigma must be positive"))
	}
	if c.Filters.BlurSteps < 1 || c.Filters.BlurSteps > 6 {
		errs = append(errs, errors.New("filters.blur_steps must be between 1 and 6"))
	}
	if strings.TrimSpace(c.Filters.BlackColor) == "" {
		errs = append(errs, errors.New("filters.black_color must be set"))
	}
	return errs
}

func (c *Config) validateEncode() []error {
	var errs []error
	if c.Encode.CRF < 0 || c.Encode.CRF > 51 {
		errs = append(errs, errors.New("encode.crf must be between 0 and 51"))
	}
	if _, ok := knownPresets[c.Encode.Preset]; !ok {
		errs = append(errs, fmt.Errorf("encode.preset %q is not a known x264 preset", c.Encode.Preset))
	}
	if !validBitrate(c.Encode.AudioBitrate) {
		errs = append(errs, fmt.Errorf("encode.audio_bitrate %q must look like 192k", c.Encode.AudioBitrate))
	}
	return errs
}

func validBitrate(value string) bool {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(value, "k"), "m")
	if trimmed == value || trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
