package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"subprobe/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	domain TEXT NOT NULL,
	started DATETIME,
	finished DATETIME,
	candidates INTEGER,
	found INTEGER,
	wildcard TEXT
);

CREATE TABLE IF NOT EXISTS results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	scan_id INTEGER NOT NULL,
	subdomain TEXT NOT NULL,
	addresses TEXT,
	wildcard BOOLEAN,
	timestamp DATETIME,
	FOREIGN KEY (scan_id) REFERENCES scans(id)
);

CREATE INDEX IF NOT EXISTS results_subdomain ON results(subdomain);
`

// History records every scan and its results in a SQLite database.
type History struct {
	db *sql.DB
}

func Open(path string) (*History, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return &History{db: db}, nil
}

// Report stores the scan and its results in one transaction.
func (h *History) Report(ctx context.Context, scan report.Scan) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting history transaction: %w", err)
	}
	defer tx.Rollback()

	var wildcard string
	if scan.Wildcard != nil {
		wildcard = scan.Wildcard.String()
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO scans (domain, started, finished, candidates, found, wildcard) VALUES (?, ?, ?, ?, ?, ?)",
		scan.Domain, scan.Started, time.Now(), scan.Stats.Total, len(scan.Results), wildcard)
	if err != nil {
		return fmt.Errorf("creating scan record: %w", err)
	}
	scanID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("creating scan record: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO results (scan_id, subdomain, addresses, wildcard, timestamp) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range scan.Results {
		_, err := stmt.ExecContext(ctx, scanID, r.Subdomain, strings.Join(r.AddressStrings(), " "), r.Wildcard, r.Timestamp)
		if err != nil {
			return fmt.Errorf("storing result %s: %w", r.Subdomain, err)
		}
	}

	return tx.Commit()
}

// Known returns every subdomain of domain recorded by earlier scans.
func (h *History) Known(ctx context.Context, domain string) (map[string]bool, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT DISTINCT r.subdomain
		FROM results r JOIN scans s ON r.scan_id = s.id
		WHERE s.domain = ?`, domain)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	known := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("querying history: %w", err)
		}
		known[name] = true
	}
	return known, rows.Err()
}

// Scans returns the number of recorded scans of domain.
func (h *History) Scans(ctx context.Context, domain string) (int, error) {
	var n int
	err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scans WHERE domain = ?", domain).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("querying history: %w", err)
	}
	return n, nil
}

func (h *History) Close() error {
	return h.db.Close()
}
