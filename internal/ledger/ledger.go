// Copyright VeeTech Ltd., 2026. All rights reserved.

// Package ledger persists run history in a SQLite database so past splits
// can be reviewed and audited.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/veetech/certsplit/pkg/types"
)

// Store manages the run history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			bundle TEXT NOT NULL,
			output_dir TEXT,
			pages INTEGER,
			dry_run INTEGER NOT NULL DEFAULT 0,
			started_at TEXT,
			finished_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS certificates (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			start_page INTEGER NOT NULL,
			end_page INTEGER NOT NULL,
			tag_no TEXT,
			serial_no TEXT,
			unit_id TEXT,
			due_date TEXT,
			cert_type TEXT,
			filename TEXT,
			folder TEXT,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_certificates_run_id ON certificates(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one finished run with its per-certificate outcomes.
func (s *Store) Record(ctx context.Context, sum *types.RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	dryRun := 0
	if sum.DryRun {
		dryRun = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, bundle, output_dir, pages, dry_run, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sum.RunID, sum.Bundle, sum.OutputDir, sum.Pages, dryRun,
		sum.StartedAt.UTC().Format(time.RFC3339Nano),
		sum.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO certificates (run_id, start_page, end_page, tag_no, serial_no, unit_id,
			due_date, cert_type, filename, folder, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range sum.Records {
		due := ""
		if !rec.Meta.DueDate.IsZero() {
			due = rec.Meta.DueDate.Format("2006-01-02")
		}
		_, err := stmt.ExecContext(ctx,
			sum.RunID, rec.Range.Start, rec.Range.End,
			rec.Meta.TagNo, rec.Meta.SerialNo, rec.Meta.UnitID,
			due, rec.Meta.CertType, rec.Filename, rec.Folder,
			string(rec.Status), rec.Err,
		)
		if err != nil {
			return fmt.Errorf("inserting certificate %s: %w", rec.Filename, err)
		}
	}

	return tx.Commit()
}

// RunRow is one run as listed by Recent.
type RunRow struct {
	ID           string
	Bundle       string
	OutputDir    string
	Pages        int
	DryRun       bool
	StartedAt    time.Time
	Certificates int
	Failed       int
}

// Recent lists the most recent runs, newest first. A non-positive limit
// defaults to 10.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.bundle, r.output_dir, r.pages, r.dry_run, r.started_at,
			count(c.rowid),
			coalesce(sum(CASE WHEN c.status = ? THEN 1 ELSE 0 END), 0)
		 FROM runs r LEFT JOIN certificates c ON c.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.started_at DESC
		 LIMIT ?`,
		string(types.CertFailed), limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var row RunRow
		var dryRun int
		var started string
		if err := rows.Scan(&row.ID, &row.Bundle, &row.OutputDir, &row.Pages,
			&dryRun, &started, &row.Certificates, &row.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		row.DryRun = dryRun != 0
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			row.StartedAt = t
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return out, nil
}
