// Package library discovers candidate video files under the source root,
// mirrors their paths under the output root, and watches for new arrivals.
//
// Discovery prunes NAS housekeeping directories and hidden files, and never
// descends into the output root when it nests inside the source tree. Each
// candidate carries a content signature derived from file metadata so the
// ledger can tell a reprocessed file from an unchanged one.
package library
