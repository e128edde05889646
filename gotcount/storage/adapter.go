// Package storage defines the database record sources a Filter can be
// run against.
package storage

import (
	"context"
	"database/sql"

	"github.com/gotcount/gotcount/gotcount/storage/sqlbuilder"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Adapter abstracts database-specific operations
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
	// SourceID names the database for logs, without credentials.
	SourceID() string

	Connect(ctx context.Context) (*sql.DB, error)
	// Columns lists the column names of table in declaration order.
	Columns(ctx context.Context, db *sql.DB, table string) ([]string, error)
	Close() error
}

// ScanStrings collects a single string column.
func ScanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
