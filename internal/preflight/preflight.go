package preflight

import (
	"path/filepath"
	"strings"

	"scrub/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Directory checks assume EnsureDirectories already ran; a missing output
// tree is reported, not created. Checks gated by a config toggle are
// skipped when the feature is off.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadableDirectory("Source root", cfg.Paths.SourceRoot),
		CheckWritableDirectory("Output root", cfg.Paths.OutputRoot),
		CheckWritableDirectory("Work directory", cfg.Paths.WorkDir),
		CheckWritableDirectory("Ledger directory", filepath.Dir(cfg.Paths.LedgerPath)),
	}

	if cfg.Logging.LogToFile {
		results = append(results, CheckWritableDirectory("Log directory", cfg.Paths.LogDir))
	}

	if strings.TrimSpace(cfg.Subtitles.WordListPath) != "" {
		results = append(results, CheckReadableFile("Word list", cfg.Subtitles.WordListPath))
	}

	return results
}

// AllPassed reports whether every check in the set passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
