package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/AshimStha/FloraBase-Frontend/internal/storage"
)

// newTestDB opens an in-memory database that is closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGet_Missing(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Get(context.Background(), "token")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get() error = %v, want storage.ErrNotFound", err)
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "token", "abc.def.ghi"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := db.Get(ctx, "token")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "abc.def.ghi" {
		t.Errorf("Get() = %q, want %q", got, "abc.def.ghi")
	}
}

func TestSet_Overwrites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_ = db.Set(ctx, "token", "first")
	if err := db.Set(ctx, "token", "second"); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}

	got, _ := db.Get(ctx, "token")
	if got != "second" {
		t.Errorf("Get() after overwrite = %q, want %q", got, "second")
	}
}

func TestRemove(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_ = db.Set(ctx, "token", "abc")
	if err := db.Remove(ctx, "token"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := db.Get(ctx, "token"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() after Remove error = %v, want storage.ErrNotFound", err)
	}

	// Removing again is fine
	if err := db.Remove(ctx, "token"); err != nil {
		t.Errorf("Remove() of missing key error = %v", err)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")
	ctx := context.Background()

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Set(ctx, "token", "persisted"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	db.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "token")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got != "persisted" {
		t.Errorf("Get() after reopen = %q, want %q", got, "persisted")
	}
}
