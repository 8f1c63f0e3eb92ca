// Package ffmpeg builds and executes single-pass ffmpeg invocations.
//
// Command assembles the argument list section by section: preamble, input,
// filters and stream maps, per-stream codec decisions, output. Streams
// without a filter are copied; the bitstream compatibility table supplies
// the rewrite directive a copied stream needs when its codec's layout
// differs between source and destination containers.
//
// Engine runs the assembled command, captures stderr, and classifies
// non-zero exits into named failure categories with a bounded diagnostic
// tail.
package ffmpeg
