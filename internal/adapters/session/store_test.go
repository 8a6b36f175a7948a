package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey-austin/media_federation/pkg/mf"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "mf", "last-search.json"))

	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}

	y := 1999
	saved := mf.SavedSearch{
		Query:   "matrix",
		SavedAt: 42,
		Results: []mf.GroupedResult{{GUID: "g1", Title: "The Matrix", Year: &y, ItemType: mf.ItemMovie, Servers: []mf.ServerRef{{ID: "s1", Name: "Home"}}}},
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := store.Load()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.Query != "matrix" || got.SavedAt != 42 || len(got.Results) != 1 || got.Results[0].YearOrZero() != 1999 {
		t.Fatalf("unexpected saved search %+v", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Load(); ok {
		t.Fatalf("expected cleared store")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-search.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := NewStoreAt(path).Load(); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNewStoreUsesRuntimeDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	store, err := NewStore()
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if store.Path() != filepath.Join(dir, "mf", "last-search.json") {
		t.Fatalf("unexpected path %s", store.Path())
	}
}
