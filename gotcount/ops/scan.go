package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gotcount/gotcount/gotcount"
	gcerrors "github.com/gotcount/gotcount/gotcount/errors"
	"github.com/gotcount/gotcount/gotcount/planner"
	"github.com/gotcount/gotcount/gotcount/storage"
	"github.com/gotcount/gotcount/gotcount/storage/sqlbuilder"
	"github.com/gotcount/gotcount/internal/log"
)

// Source is the table a filter runs against.
type Source struct {
	Table  string
	Schema *gotcount.Schema // nil infers every kind
	// Pushdown renders the checks on columns Schema declares as numbers
	// or text into the SQL WHERE clause. Rows are always evaluated in
	// process as well.
	Pushdown bool
}

// scanStats reports what a scan did.
type scanStats struct {
	SQL     string
	Args    []any
	Skipped []string
	Scanned int
}

// scan queries src and calls visit for every row that matches f. visit
// returns false to stop early. Dimensions in need must be columns.
func scan(
	ctx context.Context,
	db *sql.DB,
	adapter storage.Adapter,
	src Source,
	f *gotcount.Filter,
	need []string,
	logger log.Logger,
	visit func(gotcount.Record) bool,
) (*scanStats, error) {
	if src.Table == "" {
		return nil, gcerrors.NewError(gcerrors.ErrBackend, "table is required")
	}
	if f == nil {
		f = gotcount.NewFilter(nil)
	}

	// 1. Every dimension must exist as a column
	cols, err := adapter.Columns(ctx, db, src.Table)
	if err != nil {
		return nil, gcerrors.Wrap(gcerrors.ErrBackend, "list columns", err)
	}
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	for _, name := range append(f.Dimensions(), need...) {
		if !have[name] {
			return nil, gcerrors.NotFound(name)
		}
	}

	// 2. Build SQL
	stats := &scanStats{SQL: "SELECT * FROM " + sqlbuilder.QuoteIdent(src.Table)}
	if src.Pushdown {
		builder := sqlbuilder.New(adapter.PlaceholderStyle())
		clause, err := planner.Where(f, src.Schema, builder)
		if err != nil {
			return nil, gcerrors.Wrap(gcerrors.ErrBackend, "build where clause", err)
		}
		if clause.SQL != "" {
			stats.SQL += " WHERE " + clause.SQL
			stats.Args = builder.Args()
		}
		stats.Skipped = clause.Skipped
	}
	logger.Debug("scanning", "source", adapter.SourceID(), "sql", stats.SQL, "args", len(stats.Args))

	// 3. Execute and evaluate every row
	rows, err := db.QueryContext(ctx, stats.SQL, stats.Args...)
	if err != nil {
		return nil, gcerrors.Wrap(gcerrors.ErrBackend, "execute select", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, gcerrors.Wrap(gcerrors.ErrBackend, "read columns", err)
	}
	dest := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, gcerrors.Wrap(gcerrors.ErrBackend, "scan row", err)
		}
		stats.Scanned++

		raw := make(map[string]any, len(names))
		for i, name := range names {
			raw[name] = dest[i]
		}
		rec, err := gotcount.NewRecord(raw, src.Schema)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", stats.Scanned, err)
		}
		ok, err := f.Match(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", stats.Scanned, err)
		}
		if ok && !visit(rec) {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, gcerrors.Wrap(gcerrors.ErrBackend, "iterate rows", err)
	}
	return stats, nil
}
