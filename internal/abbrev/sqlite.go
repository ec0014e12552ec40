package abbrev

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// Store is a derived SQLite cache over a YAML abbreviation list. The
// YAML file is the source of truth; the cache is rebuilt whenever the
// file hash stored in _meta no longer matches.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the abbreviation cache at the given path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening abbreviation cache: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the cache database.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS abbreviations (
			key TEXT PRIMARY KEY,
			full TEXT NOT NULL,
			abbrev TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS _meta (
			key TEXT PRIMARY KEY,
			value TEXT
		);
	`
	_, err := db.Exec(schema)
	return err
}

// StoredHash retrieves the source-list hash recorded at the last
// rebuild, or "" if the cache has never been built.
func (s *Store) StoredHash() (string, error) {
	var hash sql.NullString
	err := s.db.QueryRow("SELECT value FROM _meta WHERE key = 'list_hash'").Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash.String, nil
}

// Rebuild replaces the cache contents with the given table and records
// the source hash.
func (s *Store) Rebuild(t *Table, hash string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM abbreviations"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO abbreviations (key, full, abbrev) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range t.Pairs() {
		if _, err := stmt.Exec(NormalizeKey(p.Full), p.Full, p.Abbrev); err != nil {
			return fmt.Errorf("inserting %q: %w", p.Full, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO _meta (key, value) VALUES ('list_hash', ?)`, hash); err != nil {
		return fmt.Errorf("recording list hash: %w", err)
	}

	return tx.Commit()
}

// Lookup resolves a journal name against the cache.
func (s *Store) Lookup(name string) (string, bool, error) {
	var abbr string
	err := s.db.QueryRow("SELECT abbrev FROM abbreviations WHERE key = ?", NormalizeKey(name)).Scan(&abbr)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return abbr, true, nil
}

// LoadAll reads the whole cache back into an in-memory table.
func (s *Store) LoadAll() (*Table, error) {
	rows, err := s.db.Query("SELECT full, abbrev FROM abbreviations ORDER BY full")
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	defer rows.Close()

	var pairs []Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.Full, &p.Abbrev); err != nil {
			return nil, fmt.Errorf("scanning cache row: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	return FromPairs(pairs), nil
}

// Count returns the number of cached abbreviations.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM abbreviations").Scan(&n)
	return n, err
}

// HashFile computes the SHA-256 of a source list file, used to detect
// staleness of the cache.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading abbreviation list: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// LoadCached returns the table for a user abbreviation list, served
// from the SQLite cache when fresh and rebuilt from the YAML source
// when stale.
func LoadCached(listPath, cachePath string) (*Table, error) {
	hash, err := HashFile(listPath)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(cachePath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	stored, err := store.StoredHash()
	if err != nil {
		return nil, fmt.Errorf("checking cache freshness: %w", err)
	}

	if stored == hash {
		return store.LoadAll()
	}

	table, err := LoadFile(listPath)
	if err != nil {
		return nil, err
	}
	if err := store.Rebuild(table, hash); err != nil {
		return nil, fmt.Errorf("rebuilding cache: %w", err)
	}
	return table, nil
}
