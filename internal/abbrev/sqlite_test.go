package abbrev

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	table, err := Parse([]byte("Nature: Nature\nPhysical Review Letters: Phys. Rev. Lett.\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return table
}

func TestStore_RebuildAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abbrev.db")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer store.Close()

	if err := store.Rebuild(newTestTable(t), "hash-1"); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	abbr, found, err := store.Lookup("physical review letters")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if !found || abbr != "Phys. Rev. Lett." {
		t.Errorf("Lookup() = %q, %v", abbr, found)
	}

	_, found, err = store.Lookup("Unknown Journal")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if found {
		t.Error("Lookup() found an unknown journal")
	}

	n, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestStore_StoredHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abbrev.db")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer store.Close()

	hash, err := store.StoredHash()
	if err != nil {
		t.Fatalf("StoredHash() error = %v", err)
	}
	if hash != "" {
		t.Errorf("StoredHash() on fresh db = %q, want empty", hash)
	}

	if err := store.Rebuild(newTestTable(t), "hash-2"); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	hash, err = store.StoredHash()
	if err != nil {
		t.Fatalf("StoredHash() error = %v", err)
	}
	if hash != "hash-2" {
		t.Errorf("StoredHash() = %q, want hash-2", hash)
	}
}

func TestStore_LoadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abbrev.db")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer store.Close()

	if err := store.Rebuild(newTestTable(t), "h"); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	table, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("LoadAll().Len() = %d, want 2", table.Len())
	}
	if abbr, ok := table.Lookup("Physical Review Letters"); !ok || abbr != "Phys. Rev. Lett." {
		t.Errorf("Lookup() after LoadAll = %q, %v", abbr, ok)
	}
}

func TestLoadCached(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "journals.yml")
	cachePath := filepath.Join(dir, "abbrev.db")

	if err := os.WriteFile(listPath, []byte("Nature: Nature\n"), 0644); err != nil {
		t.Fatalf("writing list: %v", err)
	}

	// First load builds the cache from YAML.
	table, err := LoadCached(listPath, cachePath)
	if err != nil {
		t.Fatalf("LoadCached() error = %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}

	// Second load is served from the cache.
	table, err = LoadCached(listPath, cachePath)
	if err != nil {
		t.Fatalf("LoadCached() second error = %v", err)
	}
	if abbr, ok := table.Lookup("nature"); !ok || abbr != "Nature" {
		t.Errorf("Lookup() from cache = %q, %v", abbr, ok)
	}

	// Changing the list invalidates the cache.
	if err := os.WriteFile(listPath, []byte("Nature: Nature\nScience: Science\n"), 0644); err != nil {
		t.Fatalf("rewriting list: %v", err)
	}
	table, err = LoadCached(listPath, cachePath)
	if err != nil {
		t.Fatalf("LoadCached() after change error = %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len() after change = %d, want 2", table.Len())
	}
}

func TestLoadCached_MissingList(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadCached(filepath.Join(dir, "absent.yml"), filepath.Join(dir, "abbrev.db"))
	if err == nil {
		t.Fatal("LoadCached() succeeded for missing list")
	}
}
