package services_test

import (
	"errors"
	"strings"
	"testing"

	"scrub/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTranscode, "transform", "pre-pass", "engine exited", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transform", "pre-pass", "engine exited"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToExternalTool(t *testing.T) {
	err := services.Wrap(nil, "probe", "inspect", "", errors.New("io"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}

func TestFatalClassification(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"ledger", services.Wrap(services.ErrLedger, "ledger", "append", "write failed", errors.New("disk")), true},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "load", "bad toml", nil), true},
		{"transcode", services.Wrap(services.ErrTranscode, "transform", "pass", "exit 1", nil), false},
		{"invalid zone set", services.Wrap(services.ErrInvalidZoneSet, "filtergraph", "synthesize", "full excision", nil), false},
		{"data", services.Wrap(services.ErrData, "zone", "normalize", "degenerate", nil), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := services.Fatal(tc.err); got != tc.fatal {
			t.Errorf("%s: Fatal = %v, want %v", tc.name, got, tc.fatal)
		}
	}
}
