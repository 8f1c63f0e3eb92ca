package testsupport

import (
	"context"
	"testing"
	"time"

	"scrub/internal/config"
	"scrub/internal/ledger"
)

// MustOpenStore opens a ledger.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg.Paths.LedgerPath)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AppendRecord inserts a record for tests using the provided store.
func AppendRecord(t testing.TB, store *ledger.Store, record ledger.ProcessingRecord) ledger.ProcessingRecord {
	t.Helper()

	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now().UTC()
	}
	appended, err := store.Append(context.Background(), record)
	if err != nil {
		t.Fatalf("store.Append: %v", err)
	}
	return appended
}
