package library_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scrub/internal/library"
	"scrub/internal/services"
	"scrub/internal/testsupport"
)

func TestScanFindsVideosAndMirrorsOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	src := cfg.Paths.SourceRoot
	testsupport.WriteFile(t, filepath.Join(src, "movies", "alpha.mp4"), 2048)
	testsupport.WriteFile(t, filepath.Join(src, "movies", "beta.mkv"), 1024)
	testsupport.WriteFile(t, filepath.Join(src, "shows", "s1", "episode.avi"), 512)
	testsupport.WriteFile(t, filepath.Join(src, "movies", "notes.txt"), 64)
	testsupport.WriteFile(t, filepath.Join(src, "movies", ".partial.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(src, "@eaDir", "decoy.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(src, "#recycle", "old.mp4"), 64)
	testsupport.WriteFile(t, filepath.Join(src, "photos", "SYNOINDEX_MEDIA", "thumb.mp4"), 64)

	scanner := library.NewScanner(cfg, nil)
	items, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 candidates, got %d: %+v", len(items), items)
	}
	wantRel := []string{
		filepath.Join("movies", "alpha.mp4"),
		filepath.Join("movies", "beta.mkv"),
		filepath.Join("shows", "s1", "episode.avi"),
	}
	for i, item := range items {
		if item.RelPath != wantRel[i] {
			t.Fatalf("item %d = %q, want %q", i, item.RelPath, wantRel[i])
		}
		if item.OutputPath != filepath.Join(cfg.Paths.OutputRoot, wantRel[i]) {
			t.Fatalf("output not mirrored: %q", item.OutputPath)
		}
		if item.Signature == "" || item.Size == 0 {
			t.Fatalf("item missing metadata: %+v", item)
		}
	}
}

func TestScanSkipsNestedOutputRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.OutputRoot = filepath.Join(cfg.Paths.SourceRoot, "clean")
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.SourceRoot, "movie.mp4"), 256)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.OutputRoot, "movie.mp4"), 256)

	scanner := library.NewScanner(cfg, nil)
	items, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("outputs must not become candidates, got %+v", items)
	}
}

func TestScanMissingRootFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.SourceRoot = filepath.Join(testsupport.BaseDir(cfg), "no-such-root")

	scanner := library.NewScanner(cfg, nil)
	if _, err := scanner.Scan(context.Background()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSignatureTracksFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.mp4")
	testsupport.WriteFile(t, path, 1024)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	first := library.Signature(info)
	again := library.Signature(info)
	if first != again {
		t.Fatal("signature must be deterministic")
	}

	testsupport.WriteFile(t, path, 2048)
	info, err = os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if library.Signature(info) == first {
		t.Fatal("rewritten file must change signature")
	}
}

func TestOutputFor(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	scanner := library.NewScanner(cfg, nil)

	got, err := scanner.OutputFor(filepath.Join(cfg.Paths.SourceRoot, "shows", "pilot.mkv"))
	if err != nil {
		t.Fatalf("OutputFor failed: %v", err)
	}
	want := filepath.Join(cfg.Paths.OutputRoot, "shows", "pilot.mkv")
	if got != want {
		t.Fatalf("OutputFor = %q, want %q", got, want)
	}

	if _, err := scanner.OutputFor(filepath.Join(testsupport.BaseDir(cfg), "elsewhere", "pilot.mkv")); err == nil {
		t.Fatal("expected an error for a path outside the source root")
	}
}

func TestWatcherTriggersRescanAfterSettle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	scanner := library.NewScanner(cfg, nil)
	watcher, err := library.NewWatcher(scanner, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rescans := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, func(context.Context) error {
			rescans <- struct{}{}
			return nil
		})
	}()

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.SourceRoot, "incoming.mp4"), 512)

	select {
	case <-rescans:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a rescan after the settle delay")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
