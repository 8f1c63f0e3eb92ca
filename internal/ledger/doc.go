// Package ledger persists the append-only record of processed library
// items in SQLite. Records are never mutated: reprocessing a file appends
// a new record, and lookups read the most recent one for a media identity.
// WAL journaling keeps the database readable after an interrupted write.
package ledger
