package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrData marks a malformed or degenerate input element (zone, subtitle
	// cue, scene entry). Data errors are dropped and reported; the rest of
	// the item proceeds.
	ErrData = errors.New("data error")
	// ErrInvalidZoneSet marks a zone set that cannot produce a valid output,
	// such as excision covering the entire duration. Raised before any
	// transcoding starts.
	ErrInvalidZoneSet = errors.New("invalid zone set")
	// ErrTranscode marks a non-zero engine exit. The message carries the
	// engine's diagnostic tail.
	ErrTranscode = errors.New("transcode error")
	// ErrLedger marks corrupt or unusable persisted run state. Fatal to the
	// whole run, never swallowed per item.
	ErrLedger = errors.New("ledger error")

	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must abort the whole run instead of being
// recorded against the current item and skipped past.
func Fatal(err error) bool {
	return errors.Is(err, ErrLedger) || errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
