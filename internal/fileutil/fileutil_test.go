package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"scrub/internal/fileutil"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	payload := []byte("not actually a video, but bytes are bytes")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified returned error: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("copied content mismatch: %q", got)
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := fileutil.CopyFileVerified(filepath.Join(dir, "absent.bin"), filepath.Join(dir, "dst.bin"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestReplaceAtomicCreatesParent(t *testing.T) {
	dir := t.TempDir()
	tmp := filepath.Join(dir, "work.tmp")
	if err := os.WriteFile(tmp, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	final := filepath.Join(dir, "nested", "out", "final.mp4")
	if err := fileutil.ReplaceAtomic(tmp, final); err != nil {
		t.Fatalf("ReplaceAtomic returned error: %v", err)
	}
	if _, err := os.Stat(final); err != nil {
		t.Fatalf("final path missing: %v", err)
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Fatalf("tmp should be gone, stat err: %v", err)
	}
}
