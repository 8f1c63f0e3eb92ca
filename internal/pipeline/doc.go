// Package pipeline assembles one item's full transformation: probe the
// media, gather zones from the subtitle and scene sidecars, normalize them
// per kind, synthesize the pass plan, and execute it.
//
// The pipeline is the scheduler's Processor. Everything it learns about an
// item lives and dies with that item; batch state belongs to the scheduler
// and the ledger.
package pipeline
