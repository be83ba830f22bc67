package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProbeReport describes the outcome of a connectivity probe.
type ProbeReport struct {
	ServerVersion string
	Tables        []string
	InsertedID    uuid.UUID
	CleanedUp     bool
	Elapsed       time.Duration
}

// Probe exercises the connection end to end: it lists the tables in the
// current schema, writes a probe row and deletes it again. The probe table is
// temporary, so Probe works before migrations have run.
func (db *DB) Probe(ctx context.Context) (*ProbeReport, error) {
	start := time.Now()
	report := &ProbeReport{}

	// Temporary tables are per-session, so every statement runs on one connection.
	conn, err := db.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	if err := conn.QueryRow(ctx, `SHOW server_version`).Scan(&report.ServerVersion); err != nil {
		return nil, fmt.Errorf("failed to read server version: %w", err)
	}

	rows, err := conn.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = current_schema()
		 ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		report.Tables = append(report.Tables, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	if _, err := conn.Exec(ctx,
		`CREATE TEMPORARY TABLE IF NOT EXISTS connection_probe (
		     id UUID PRIMARY KEY,
		     message TEXT NOT NULL,
		     created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		 )`); err != nil {
		return nil, fmt.Errorf("failed to create probe table: %w", err)
	}

	report.InsertedID = uuid.New()
	if _, err := conn.Exec(ctx,
		`INSERT INTO connection_probe (id, message) VALUES ($1, $2)`,
		report.InsertedID, "Test connection"); err != nil {
		return report, fmt.Errorf("failed to insert probe row: %w", err)
	}

	tag, err := conn.Exec(ctx, `DELETE FROM connection_probe WHERE id = $1`, report.InsertedID)
	if err != nil {
		return report, fmt.Errorf("failed to delete probe row: %w", err)
	}
	report.CleanedUp = tag.RowsAffected() == 1
	report.Elapsed = time.Since(start)

	return report, nil
}
