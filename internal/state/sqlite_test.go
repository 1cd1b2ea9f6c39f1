package state

import (
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore()
	if err := store.Open(":memory:"); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}
	return store
}

func TestSQLiteStoreOpenClose(t *testing.T) {
	store := NewSQLiteStore()
	if err := store.Open(":memory:"); err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}

func TestSQLiteStoreMigrateCreatesMemosTable(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	rows, err := store.db.Query("SELECT 1 FROM memos LIMIT 1")
	if err != nil {
		t.Fatalf("memos table does not exist: %v", err)
	}
	rows.Close()
}

func TestSQLiteStoreSetAndGetMemo(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	want := Memo{
		NodeID:            "model.orders",
		InputFingerprint:  "abc123",
		OutputFingerprint: "def456",
		UpdatedAt:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.SetMemo(want); err != nil {
		t.Fatalf("SetMemo: %v", err)
	}

	got, ok, err := store.GetMemo("model.orders")
	if err != nil {
		t.Fatalf("GetMemo: %v", err)
	}
	if !ok {
		t.Fatal("expected memo to exist")
	}
	if got.InputFingerprint != want.InputFingerprint || got.OutputFingerprint != want.OutputFingerprint {
		t.Fatalf("unexpected memo: %#v", got)
	}
}

func TestSQLiteStoreSetMemoUpserts(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	first := Memo{NodeID: "model.orders", InputFingerprint: "v1", OutputFingerprint: "o1", UpdatedAt: time.Now().UTC()}
	second := Memo{NodeID: "model.orders", InputFingerprint: "v2", OutputFingerprint: "o2", UpdatedAt: time.Now().UTC()}

	if err := store.SetMemo(first); err != nil {
		t.Fatalf("SetMemo first: %v", err)
	}
	if err := store.SetMemo(second); err != nil {
		t.Fatalf("SetMemo second: %v", err)
	}

	memos, err := store.ListMemos()
	if err != nil {
		t.Fatalf("ListMemos: %v", err)
	}
	if len(memos) != 1 {
		t.Fatalf("expected 1 memo after upsert, got %d", len(memos))
	}
	if memos[0].InputFingerprint != "v2" {
		t.Fatalf("expected upsert to overwrite fingerprint, got %q", memos[0].InputFingerprint)
	}
}

func TestSQLiteStoreGetMemoMissing(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	_, ok, err := store.GetMemo("model.missing")
	if err != nil {
		t.Fatalf("GetMemo: %v", err)
	}
	if ok {
		t.Fatal("expected no memo for an unknown node")
	}
}

func TestSQLiteStoreDeleteMemo(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	if err := store.SetMemo(Memo{NodeID: "model.orders", InputFingerprint: "v1", OutputFingerprint: "o1", UpdatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("SetMemo: %v", err)
	}
	if err := store.DeleteMemo("model.orders"); err != nil {
		t.Fatalf("DeleteMemo: %v", err)
	}
	_, ok, err := store.GetMemo("model.orders")
	if err != nil {
		t.Fatalf("GetMemo: %v", err)
	}
	if ok {
		t.Fatal("expected memo to be gone after delete")
	}
}

func TestSQLiteStoreListMemosOrdered(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	for _, id := range []string{"model.z", "model.a", "model.m"} {
		if err := store.SetMemo(Memo{NodeID: id, InputFingerprint: "v", OutputFingerprint: "o", UpdatedAt: time.Now().UTC()}); err != nil {
			t.Fatalf("SetMemo(%s): %v", id, err)
		}
	}

	memos, err := store.ListMemos()
	if err != nil {
		t.Fatalf("ListMemos: %v", err)
	}
	if len(memos) != 3 || memos[0].NodeID != "model.a" || memos[2].NodeID != "model.z" {
		t.Fatalf("expected alphabetical order, got %#v", memos)
	}
}
