// Package ledger persists generation-run metadata and the prompt ids each
// run produced, so later runs can dedup against the whole corpus instead
// of only their own in-memory seen set.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Run is one recorded generation run.
type Run struct {
	ID         string `json:"id"`
	Seed       int64  `json:"seed"`
	Requested  int    `json:"requested"`
	Generated  int    `json:"generated"`
	OutputPath string `json:"output_path"`
	CreatedAt  int64  `json:"created_at"`
}

// Init initializes the SQLite database at baseDir/tarotgen.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.tarotgen.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, "tarotgen.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := getUserVersion(db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS runs (
		  id          TEXT PRIMARY KEY,
		  seed        INTEGER NOT NULL,
		  requested   INTEGER NOT NULL,
		  generated   INTEGER NOT NULL,
		  output_path TEXT NOT NULL,
		  created_at  INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS prompt_ids (
		  id         TEXT PRIMARY KEY,
		  run_id     TEXT NOT NULL REFERENCES runs(id),
		  spread     TEXT NOT NULL,
		  category   TEXT NOT NULL,
		  created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_prompt_ids_run
		ON prompt_ids(run_id);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

func getUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// RecordRun inserts one run row.
func RecordRun(db *sql.DB, run Run) error {
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().Unix()
	}
	_, err := db.Exec(
		`INSERT INTO runs (id, seed, requested, generated, output_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Seed, run.Requested, run.Generated, run.OutputPath, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// PromptRef is the per-prompt row recorded for a run.
type PromptRef struct {
	ID       string
	Spread   string
	Category string
}

// RecordPromptIDs inserts the prompt ids produced by a run, in one
// transaction so a crash never records half a run.
func RecordPromptIDs(db *sql.DB, runID string, refs []PromptRef) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO prompt_ids (id, run_id, spread, category, created_at)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, ref := range refs {
		if _, err := stmt.Exec(ref.ID, runID, ref.Spread, ref.Category, now); err != nil {
			return fmt.Errorf("failed to record prompt id %s: %w", ref.ID, err)
		}
	}

	return tx.Commit()
}

// SeenIDs loads every recorded prompt id into a set.
func SeenIDs(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query("SELECT id FROM prompt_ids")
	if err != nil {
		return nil, fmt.Errorf("failed to query prompt ids: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan prompt id: %w", err)
		}
		seen[id] = true
	}
	return seen, rows.Err()
}

// RunCount returns the number of recorded runs.
func RunCount(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// Runs returns all recorded runs, newest first.
func Runs(db *sql.DB) ([]Run, error) {
	rows, err := db.Query(
		`SELECT id, seed, requested, generated, output_path, created_at
		 FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seed, &r.Requested, &r.Generated, &r.OutputPath, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
