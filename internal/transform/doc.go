// Package transform executes synthesized pass plans against an external
// transcoding engine. It owns the artifact lifecycle: scratch outputs,
// between-pass intermediates, atomic finalization, and cleanup on every
// exit path.
package transform
