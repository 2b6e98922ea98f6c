package calibration

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"hookmind/internal/logging"
)

// Archive is the cold store for records evicted from the bounded in-file
// list. Unlike the live document it is append-only and unbounded; losing it
// costs history, never correctness, so all archive failures are advisory.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (creating if needed) the SQLite archive at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calibration archive: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS dispatch_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		session_id TEXT DEFAULT '',
		agent TEXT NOT NULL,
		prompt_hash TEXT NOT NULL,
		matched_keywords TEXT DEFAULT '[]',
		dispatch_confidence REAL DEFAULT 0,
		outcome TEXT NOT NULL,
		duration_ms INTEGER DEFAULT 0,
		feedback TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_records_agent ON dispatch_records(agent);
	CREATE INDEX IF NOT EXISTS idx_records_outcome ON dispatch_records(outcome);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}

	logging.Get(logging.CategoryCalibration).Debugw("calibration archive opened", "path", path)
	return &Archive{db: db}, nil
}

// Append stores evicted records in the archive.
func (a *Archive) Append(records []Record) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin archive tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO dispatch_records
		(timestamp, session_id, agent, prompt_hash, matched_keywords, dispatch_confidence, outcome, duration_ms, feedback)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare archive insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		keywords, err := json.Marshal(r.MatchedKeywords)
		if err != nil {
			keywords = []byte("[]")
		}
		if _, err := stmt.Exec(
			r.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
			r.SessionID, r.Agent, r.PromptHash, string(keywords),
			r.DispatchConfidence, string(r.Outcome), r.DurationMS, string(r.Feedback),
		); err != nil {
			return fmt.Errorf("failed to archive record: %w", err)
		}
	}
	return tx.Commit()
}

// Count returns the number of archived records.
func (a *Archive) Count() (int64, error) {
	var n int64
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM dispatch_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count archived records: %w", err)
	}
	return n, nil
}

// CountByAgent returns archived record counts grouped by agent.
func (a *Archive) CountByAgent() (map[string]int64, error) {
	rows, err := a.db.Query(`SELECT agent, COUNT(*) FROM dispatch_records GROUP BY agent`)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var agent string
		var n int64
		if err := rows.Scan(&agent, &n); err != nil {
			continue
		}
		counts[agent] = n
	}
	return counts, rows.Err()
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}
