package library

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scrub/internal/config"
	"scrub/internal/logging"
	"scrub/internal/services"
)

// Item is one discovered candidate video file.
type Item struct {
	MediaPath  string
	OutputPath string
	RelPath    string
	Size       int64
	ModTime    time.Time
	Signature  string
}

// Junk directory names NAS appliances scatter through media shares.
var junkDirNames = map[string]struct{}{
	"@eaDir":    {},
	"#recycle":  {},
	"@tmp":      {},
	".@__thumb": {},
}

func junkDir(name string) bool {
	if _, ok := junkDirNames[name]; ok {
		return true
	}
	return strings.Contains(name, "SYNOINDEX")
}

// Scanner walks the configured source root for candidate videos.
type Scanner struct {
	sourceRoot string
	outputRoot string
	extensions map[string]struct{}
	logger     *slog.Logger
}

// NewScanner builds a scanner over cfg's source and output roots.
func NewScanner(cfg *config.Config, logger *slog.Logger) *Scanner {
	extensions := make(map[string]struct{}, len(cfg.Paths.VideoExtensions))
	for _, ext := range cfg.Paths.VideoExtensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{
		sourceRoot: filepath.Clean(cfg.Paths.SourceRoot),
		outputRoot: filepath.Clean(cfg.Paths.OutputRoot),
		extensions: extensions,
		logger:     logging.NewComponentLogger(logger, "library"),
	}
}

// Scan walks the source root and returns candidates in lexical path order.
// Unreadable subdirectories are logged and skipped; an unreadable source
// root fails the scan.
func (s *Scanner) Scan(ctx context.Context) ([]Item, error) {
	if _, err := os.Stat(s.sourceRoot); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "library", "scan", s.sourceRoot, err)
	}

	var items []Item
	err := filepath.WalkDir(s.sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == s.sourceRoot {
				return err
			}
			s.logger.Warn("skipping unreadable path",
				logging.String("path", path), logging.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path == s.sourceRoot {
				return nil
			}
			if junkDir(name) || strings.HasPrefix(name, ".") || path == s.outputRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if _, ok := s.extensions[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			s.logger.Warn("skipping unstattable file",
				logging.String("path", path), logging.Error(err))
			return nil
		}
		rel, err := filepath.Rel(s.sourceRoot, path)
		if err != nil {
			return err
		}
		items = append(items, Item{
			MediaPath:  path,
			OutputPath: filepath.Join(s.outputRoot, rel),
			RelPath:    rel,
			Size:       info.Size(),
			ModTime:    info.ModTime(),
			Signature:  Signature(info),
		})
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, services.Wrap(services.ErrConfiguration, "library", "scan", s.sourceRoot, err)
	}
	return items, nil
}

// OutputFor mirrors a source path under the output root, keeping the
// relative layout and file name. Paths outside the source root have no
// mirrored location and are rejected.
func (s *Scanner) OutputFor(mediaPath string) (string, error) {
	rel, err := filepath.Rel(s.sourceRoot, filepath.Clean(mediaPath))
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the source root %s", mediaPath, s.sourceRoot)
	}
	return filepath.Join(s.outputRoot, rel), nil
}
