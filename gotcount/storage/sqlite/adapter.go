// Package sqlite reads records from SQLite through modernc.org/sqlite
// (driver "sqlite") or github.com/mattn/go-sqlite3 (driver "sqlite3").
// The caller imports the driver it wants.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gotcount/gotcount/gotcount/storage"
	"github.com/gotcount/gotcount/gotcount/storage/sqlbuilder"
)

const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

type Adapter struct {
	Path       string
	DriverName string
}

func New(path string) *Adapter {
	return &Adapter{Path: path, DriverName: DriverModernc}
}

func NewWithDriver(path, driver string) *Adapter {
	return &Adapter{Path: path, DriverName: driver}
}

func (a *Adapter) Backend() storage.Backend {
	return storage.BackendSQLite
}

func (a *Adapter) PlaceholderStyle() sqlbuilder.PlaceholderStyle {
	return sqlbuilder.PlaceholderQuestion
}

func (a *Adapter) SourceID() string {
	return a.DriverName + ":" + a.Path
}

// dsn appends a busy timeout in the parameter form each driver expects.
func (a *Adapter) dsn() string {
	param := "_busy_timeout=5000"
	if a.DriverName == DriverModernc {
		param = "_pragma=busy_timeout(5000)"
	}
	if strings.Contains(a.Path, "?") {
		return a.Path + "&" + param
	}
	return a.Path + "?" + param
}

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(a.DriverName, a.dsn())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (a *Adapter) Columns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
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

func (a *Adapter) Close() error {
	return nil
}
