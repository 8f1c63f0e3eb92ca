// Package scheduler runs batches of library candidates through a
// processor, one item at a time, under count and wall-clock stop
// conditions. Every candidate the run reaches leaves exactly one ledger
// record, so an interrupted run loses no completed work and a later run
// picks up where it stopped.
package scheduler
