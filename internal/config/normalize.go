package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeZones()
	c.normalizeFilters()
	c.normalizeRun()
	if err := c.normalizeSubtitles(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLogging()
	c.normalizeEncode()
	return nil
}

func (c *Config) normalizePaths() error {
	if c.Paths.SourceRoot == "" {
		if value, ok := os.LookupEnv("SCRUB_SOURCE_ROOT"); ok {
			c.Paths.SourceRoot = strings.TrimSpace(value)
		}
	}
	if c.Paths.OutputRoot == "" {
		if value, ok := os.LookupEnv("SCRUB_OUTPUT_ROOT"); ok {
			c.Paths.OutputRoot = strings.TrimSpace(value)
		}
	}

	var err error
	if c.Paths.SourceRoot != "" {
		if c.Paths.SourceRoot, err = expandPath(c.Paths.SourceRoot); err != nil {
			return fmt.Errorf("paths.source_root: %w", err)
		}
	}
	if c.Paths.OutputRoot != "" {
		if c.Paths.OutputRoot, err = expandPath(c.Paths.OutputRoot); err != nil {
			return fmt.Errorf("paths.output_root: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = defaultLedgerPath
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}

	c.Paths.VideoExtensions = normalizeExtensions(c.Paths.VideoExtensions)
	if len(c.Paths.VideoExtensions) == 0 {
		c.Paths.VideoExtensions = defaultVideoExtensions()
	}
	return nil
}

func normalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	seen := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		cleaned := strings.ToLower(strings.TrimSpace(ext))
		if cleaned == "" {
			continue
		}
		if !strings.HasPrefix(cleaned, ".") {
			cleaned = "." + cleaned
		}
		if _, exists := seen[cleaned]; exists {
			continue
		}
		seen[cleaned] = struct{}{}
		normalized = append(normalized, cleaned)
	}
	return normalized
}

func (c *Config) normalizeZones() {
	if c.Zones.PadBeforeSeconds < 0 {
		c.Zones.PadBeforeSeconds = 0
	}
	if c.Zones.PadAfterSeconds < 0 {
		c.Zones.PadAfterSeconds = 0
	}
	if c.Zones.MergeGapSeconds < 0 {
		c.Zones.MergeGapSeconds = 0
	}
}

func (c *Config) normalizeFilters() {
	if c.Filters.BlurSigma <= 0 {
		c.Filters.BlurSigma = defaultBlurSigma
	}
	if c.Filters.BlurSteps <= 0 {
		c.Filters.BlurSteps = defaultBlurSteps
	}
	c.Filters.BlackColor = strings.ToLower(strings.TrimSpace(c.Filters.BlackColor))
	if c.Filters.BlackColor == "" {
		c.Filters.BlackColor = defaultBlackColor
	}
}

func (c *Config) normalizeRun() {
	if c.Run.MaxItems < 0 {
		c.Run.MaxItems = 0
	}
	if c.Run.MaxRunDurationSeconds < 0 {
		c.Run.MaxRunDurationSeconds = 0
	}
	if c.Run.WatchSettleSeconds <= 0 {
		c.Run.WatchSettleSeconds = defaultWatchSettleSeconds
	}
}

func (c *Config) normalizeSubtitles() error {
	c.Subtitles.WordListPath = strings.TrimSpace(c.Subtitles.WordListPath)
	if c.Subtitles.WordListPath == "" {
		if value, ok := os.LookupEnv("SCRUB_WORD_LIST"); ok {
			c.Subtitles.WordListPath = strings.TrimSpace(value)
		}
	}
	if c.Subtitles.WordListPath != "" {
		expanded, err := expandPath(c.Subtitles.WordListPath)
		if err != nil {
			return fmt.Errorf("subtitles.word_list_path: %w", err)
		}
		c.Subtitles.WordListPath = expanded
	}
	c.Subtitles.Language = strings.ToLower(strings.TrimSpace(c.Subtitles.Language))
	if c.Subtitles.Language == "" {
		c.Subtitles.Language = defaultLanguage
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpegBinary = strings.TrimSpace(c.Tools.FFmpegBinary)
	if c.Tools.FFmpegBinary == "" {
		c.Tools.FFmpegBinary = defaultFFmpegBinary
	}
	c.Tools.FFprobeBinary = strings.TrimSpace(c.Tools.FFprobeBinary)
	if c.Tools.FFprobeBinary == "" {
		c.Tools.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeEncode() {
	c.Encode.VideoCodec = strings.TrimSpace(c.Encode.VideoCodec)
	if c.Encode.VideoCodec == "" {
		c.Encode.VideoCodec = defaultVideoCodec
	}
	c.Encode.Preset = strings.ToLower(strings.TrimSpace(c.Encode.Preset))
	if c.Encode.Preset == "" {
		c.Encode.Preset = defaultPreset
	}
	c.Encode.AudioCodec = strings.TrimSpace(c.Encode.AudioCodec)
	if c.Encode.AudioCodec == "" {
		c.Encode.AudioCodec = defaultAudioCodec
	}
	c.Encode.AudioBitrate = strings.ToLower(strings.TrimSpace(c.Encode.AudioBitrate))
	if c.Encode.AudioBitrate == "" {
		c.Encode.AudioBitrate = defaultAudioBitrate
	}
}
