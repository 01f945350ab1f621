package state

import (
	"os"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) (*DB, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, dir
}

// TestGetAbsentKey verifies a missing key is reported as absent, not as an error.
func TestGetAbsentKey(t *testing.T) {
	db, _ := openTemp(t)

	_, ok, err := db.Get("authToken")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected key to be absent")
	}
}

// TestPutGetDelete verifies the key/value round trip, overwrite and removal.
func TestPutGetDelete(t *testing.T) {
	db, _ := openTemp(t)

	if err := db.Put("authToken", "first"); err != nil {
		t.Fatal(err)
	}
	if err := db.Put("authToken", "second"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := db.Get("authToken")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if v != "second" {
		t.Errorf("value = %q, want second", v)
	}

	if err := db.Delete("authToken"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := db.Get("authToken"); ok {
		t.Error("expected key to be gone after Delete")
	}
	if err := db.Delete("authToken"); err != nil {
		t.Errorf("deleting absent key: %v", err)
	}
}

// TestValuesSurviveReopen verifies state persists across process restarts.
func TestValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Put("authToken", "persisted"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	v, ok, err := db.Get("authToken")
	if err != nil || !ok || v != "persisted" {
		t.Errorf("after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
}

// TestImportLedger verifies a file is only considered imported with the same
// size and hash it was recorded with.
func TestImportLedger(t *testing.T) {
	db, dir := openTemp(t)

	path := filepath.Join(dir, "log.txt")
	if err := os.WriteFile(path, []byte("2024-03-01\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	hash, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}

	done, err := db.IsImported(path, 11, hash)
	if err != nil || done {
		t.Fatalf("before mark: done=%v err=%v", done, err)
	}
	if err := db.MarkImported(path, 11, hash, 1); err != nil {
		t.Fatal(err)
	}
	if done, _ := db.IsImported(path, 11, hash); !done {
		t.Error("expected file to be marked imported")
	}
	if done, _ := db.IsImported(path, 11, "other"); done {
		t.Error("changed hash must not count as imported")
	}
}
