// Package services defines shared utilities consumed by the processing
// pipeline and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp media paths, component names, and run
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the outcomes the scheduler records (data errors dropped, item
//     failures isolated, ledger errors fatal).
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform across components.
package services
