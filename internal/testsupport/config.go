package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"scrub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceRoot = filepath.Join(base, "library")
	cfg.Paths.OutputRoot = filepath.Join(base, "clean")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LedgerPath = filepath.Join(base, "state", "ledger.db")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Logging.LogToFile = false

	if err := os.MkdirAll(cfg.Paths.SourceRoot, 0o755); err != nil {
		t.Fatalf("mkdir source root: %v", err)
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithZonePadding sets zone padding on the test config.
func WithZonePadding(before, after float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Zones.PadBeforeSeconds = before
		cfg.Zones.PadAfterSeconds = after
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourceRoot)
}

// ScriptBinary writes an executable script under the config's base dir and
// returns its absolute path, for pointing cfg.Tools at a scripted fake
// tool.
func ScriptBinary(t testing.TB, cfg *config.Config, name, script string) string {
	t.Helper()

	binDir := filepath.Join(BaseDir(cfg), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
