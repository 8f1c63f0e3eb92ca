package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"scrub/internal/services"
)

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database at path and applies
// migrations. Failures are ErrLedger: a run cannot proceed without a
// working ledger.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, services.Wrap(services.ErrLedger, "ledger", "open", "ledger path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrLedger, "ledger", "open", "create ledger directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrLedger, "ledger", "open", "open sqlite db", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrLedger, "ledger", "open",
				fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrLedger, "ledger", "migrate", "apply migrations", err)
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Append inserts one completed-item record and returns it with the
// assigned identifier. Records are immutable once written.
func (s *Store) Append(ctx context.Context, record ProcessingRecord) (ProcessingRecord, error) {
	if record.MediaPath == "" {
		return ProcessingRecord{}, services.Wrap(services.ErrValidation, "ledger", "append", "media path is empty", nil)
	}
	if !record.Outcome.Valid() {
		return ProcessingRecord{}, services.Wrap(services.ErrValidation, "ledger", "append",
			fmt.Sprintf("unknown outcome %q", record.Outcome), nil)
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO processing_records (
            media_path, content_signature, outcome, completed_at,
            zones_applied, error_detail, run_id
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.MediaPath,
		record.ContentSignature,
		string(record.Outcome),
		record.CompletedAt.UTC().Format(time.RFC3339Nano),
		record.ZonesApplied,
		nullableString(record.ErrorDetail),
		nullableString(record.RunID),
	)
	if err != nil {
		return ProcessingRecord{}, services.Wrap(services.ErrLedger, "ledger", "append", "insert record", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return ProcessingRecord{}, services.Wrap(services.ErrLedger, "ledger", "append", "last insert id", err)
	}
	record.ID = id
	return record, nil
}

// LatestFor returns the most recent record for a media identity, or nil
// when the identity has never been recorded. A changed content signature
// is a different identity.
func (s *Store) LatestFor(ctx context.Context, mediaPath, contentSignature string) (*ProcessingRecord, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM processing_records
         WHERE media_path = ? AND content_signature = ?
         ORDER BY id DESC LIMIT 1`,
		mediaPath,
		contentSignature,
	)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrLedger, "ledger", "lookup", "query latest record", err)
	}
	return record, nil
}

// HasSuccess reports whether the identity was ever recorded as
// successfully processed. Later failure or skip records do not erase a
// prior success: the successful artifact is still in place.
func (s *Store) HasSuccess(ctx context.Context, mediaPath, contentSignature string) (bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM processing_records
         WHERE media_path = ? AND content_signature = ? AND outcome = ?`,
		mediaPath,
		contentSignature,
		string(OutcomeSuccess),
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, services.Wrap(services.ErrLedger, "ledger", "lookup", "count successes", err)
	}
	return count > 0, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]ProcessingRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM processing_records ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrLedger, "ledger", "recent", "query records", err)
	}
	defer rows.Close()

	var records []ProcessingRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrLedger, "ledger", "recent", "scan record", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrLedger, "ledger", "recent", "iterate records", err)
	}
	return records, nil
}

// Stats returns record counts grouped by outcome.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(1) FROM processing_records GROUP BY outcome`)
	if err != nil {
		return Stats{}, services.Wrap(services.ErrLedger, "ledger", "stats", "query counts", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return Stats{}, services.Wrap(services.ErrLedger, "ledger", "stats", "scan count", err)
		}
		stats.Total += count
		switch Outcome(outcome) {
		case OutcomeSuccess:
			stats.Succeeded += count
		case OutcomeFailure:
			stats.Failed += count
		case OutcomeSkipped:
			stats.Skipped += count
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, services.Wrap(services.ErrLedger, "ledger", "stats", "iterate counts", err)
	}
	return stats, nil
}

const recordColumns = "id, media_path, content_signature, outcome, completed_at, zones_applied, error_detail, run_id"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*ProcessingRecord, error) {
	var (
		id           int64
		mediaPath    string
		signature    sql.NullString
		outcome      string
		completedRaw sql.NullString
		zonesApplied sql.NullInt64
		errorDetail  sql.NullString
		runID        sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&mediaPath,
		&signature,
		&outcome,
		&completedRaw,
		&zonesApplied,
		&errorDetail,
		&runID,
	); err != nil {
		return nil, err
	}

	record := &ProcessingRecord{
		ID:               id,
		MediaPath:        mediaPath,
		ContentSignature: signature.String,
		Outcome:          Outcome(outcome),
		ZonesApplied:     int(zonesApplied.Int64),
		ErrorDetail:      errorDetail.String,
		RunID:            runID.String,
	}
	if completed, err := parseTimeString(completedRaw.String); err == nil {
		record.CompletedAt = completed
	}
	return record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
