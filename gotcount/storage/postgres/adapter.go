// Package postgres reads records from Postgres through pgx.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/gotcount/gotcount/gotcount/storage"
	"github.com/gotcount/gotcount/gotcount/storage/sqlbuilder"
)

type Adapter struct {
	DSN    string
	Schema string // pinned first on search_path when set
}

func New(dsn, schema string) *Adapter {
	return &Adapter{DSN: dsn, Schema: schema}
}

func (a *Adapter) Backend() storage.Backend { return storage.BackendPostgres }

func (a *Adapter) PlaceholderStyle() sqlbuilder.PlaceholderStyle { return sqlbuilder.PlaceholderDollar }

func (a *Adapter) Close() error { return nil }

var schemaNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SourceID reports host, database and schema, never the password.
func (a *Adapter) SourceID() string {
	cfg, err := pgx.ParseConfig(a.DSN)
	if err != nil {
		return "postgres:" + a.Schema
	}
	return fmt.Sprintf("postgres://%s/%s?schema=%s", cfg.Host, cfg.Database, a.Schema)
}

func (a *Adapter) config() (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(a.DSN)
	if err != nil {
		return nil, err
	}
	if a.Schema == "" {
		return cfg, nil
	}
	if !schemaNameRe.MatchString(a.Schema) {
		return nil, fmt.Errorf("invalid postgres schema name %q (must match %s)", a.Schema, schemaNameRe.String())
	}
	if cfg.RuntimeParams == nil {
		cfg.RuntimeParams = make(map[string]string)
	}
	cfg.RuntimeParams["search_path"] = sqlbuilder.QuoteIdent(a.Schema) + ",public"
	return cfg, nil
}

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	db := stdlib.OpenDB(*cfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (a *Adapter) Columns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT column_name FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, err
	}
	cols, err := storage.ScanStrings(rows)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no such table: %s", table)
	}
	return cols, nil
}
