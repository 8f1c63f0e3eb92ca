package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains library roots and state file locations.
type Paths struct {
	SourceRoot      string   `toml:"source_root"`
	OutputRoot      string   `toml:"output_root"`
	LogDir          string   `toml:"log_dir"`
	LedgerPath      string   `toml:"ledger_path"`
	WorkDir         string   `toml:"work_dir"`
	VideoExtensions []string `toml:"video_extensions"`
}

// Zones contains normalization settings applied to every zone set.
type Zones struct {
	PadBeforeSeconds float64 `toml:"pad_before_seconds"`
	PadAfterSeconds  float64 `toml:"pad_after_seconds"`
	MergeGapSeconds  float64 `toml:"merge_gap_seconds"`
}

// Filters contains visual filter parameters.
type Filters struct {
	BlurSigma  float64 `toml:"blur_sigma"`
	BlurSteps  int     `toml:"blur_steps"`
	BlackColor string  `toml:"black_color"`
}

// Run contains batch run limits and watch mode settings.
type Run struct {
	MaxItems              int  `toml:"max_items"`
	MaxRunDurationSeconds int  `toml:"max_run_duration_seconds"`
	Force                 bool `toml:"force"`
	WatchSettleSeconds    int  `toml:"watch_settle_seconds"`
}

// Subtitles contains word list and sidecar language settings.
type Subtitles struct {
	WordListPath string `toml:"word_list_path"`
	Language     string `toml:"language"`
}

// Tools names the external binaries the pipeline invokes.
type Tools struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level     string `toml:"level"`
	Format    string `toml:"format"`
	LogToFile bool   `toml:"log_to_file"`
}

// Encode contains re-encode settings for filtered streams.
type Encode struct {
	VideoCodec   string `toml:"video_codec"`
	CRF          int    `toml:"crf"`
	Preset       string `toml:"preset"`
	AudioCodec   string `toml:"audio_codec"`
	AudioBitrate string `toml:"audio_bitrate"`
}

// Config encapsulates all configuration values for scrub.
//
// Configuration sections by subsystem:
//   - Paths: library roots, ledger and work locations, video extensions
//   - Zones: padding and merge gap applied during zone normalization
//   - Filters: blur and blackout filter parameters
//   - Run: stop conditions, force reprocessing, watch settle delay
//   - Subtitles: word list override and sidecar language
//   - Tools: ffmpeg/ffprobe binary names
//   - Logging: log format, level, and file output
//   - Encode: codec settings for re-encoded streams
type Config struct {
	Paths     Paths     `toml:"paths"`
	Zones     Zones     `toml:"zones"`
	Filters   Filters   `toml:"filters"`
	Run       Run       `toml:"run"`
	Subtitles Subtitles `toml:"subtitles"`
	Tools     Tools     `toml:"tools"`
	Logging   Logging   `toml:"logging"`
	Encode    Encode    `toml:"encode"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scrub/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scrub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into. The source
// root is never created here: a missing source root is a configuration
// mistake that preflight should surface, not silently paper over.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.OutputRoot,
		c.Paths.LogDir,
		c.Paths.WorkDir,
		filepath.Dir(c.Paths.LedgerPath),
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// MaxRunDuration returns the wall-clock stop condition, zero when unset.
func (c *Config) MaxRunDuration() time.Duration {
	if c.Run.MaxRunDurationSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Run.MaxRunDurationSeconds) * time.Second
}

// WatchSettle returns the delay between a filesystem event and rescanning.
func (c *Config) WatchSettle() time.Duration {
	if c.Run.WatchSettleSeconds <= 0 {
		return time.Duration(defaultWatchSettleSeconds) * time.Second
	}
	return time.Duration(c.Run.WatchSettleSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
