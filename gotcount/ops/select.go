// Package ops runs filters against database record sources.
package ops

import (
	"context"
	"database/sql"

	"github.com/gotcount/gotcount/gotcount"
	gcerrors "github.com/gotcount/gotcount/gotcount/errors"
	"github.com/gotcount/gotcount/gotcount/storage"
	"github.com/gotcount/gotcount/internal/log"
)

// SelectRequest configures a select operation
type SelectRequest struct {
	Source
	Filter *gotcount.Filter
	Limit  int // 0 returns every match

	// Buckets, when set, classifies every match by the value of
	// Buckets.Dimension.
	Buckets *gotcount.BucketSet
}

// SelectResult is the result of a select operation
type SelectResult struct {
	Records []gotcount.Record
	// Buckets[i] names the buckets Records[i] falls into, in definition
	// order. Nil without a bucket set.
	Buckets [][]string
	Scanned int      // rows read from the database
	SQL     string   // statement that was run
	Args    []any    // its arguments
	Skipped []string // dimensions that could not be pushed down
}

// Select returns the records of the source table that match the filter,
// in table order.
func Select(ctx context.Context, db *sql.DB, adapter storage.Adapter, req SelectRequest, logger log.Logger) (*SelectResult, error) {
	var need []string
	if req.Buckets != nil {
		if req.Buckets.Dimension == "" {
			return nil, gcerrors.SchemaError("bucket set has no dimension")
		}
		need = []string{req.Buckets.Dimension}
	}

	result := &SelectResult{}
	var classifyErr error
	stats, err := scan(ctx, db, adapter, req.Source, req.Filter, need, logger, func(rec gotcount.Record) bool {
		if req.Buckets != nil {
			names, err := classify(req.Buckets, rec)
			if err != nil {
				classifyErr = err
				return false
			}
			result.Buckets = append(result.Buckets, names)
		}
		result.Records = append(result.Records, rec)
		return req.Limit <= 0 || len(result.Records) < req.Limit
	})
	if err != nil {
		return nil, err
	}
	if classifyErr != nil {
		return nil, classifyErr
	}
	result.Scanned = stats.Scanned
	result.SQL = stats.SQL
	result.Args = stats.Args
	result.Skipped = stats.Skipped

	logger.Info("select done", "table", req.Table, "scanned", result.Scanned, "matched", len(result.Records))
	return result, nil
}

// classify returns no names for a record without a value to classify.
func classify(set *gotcount.BucketSet, rec gotcount.Record) ([]string, error) {
	v, ok := rec[set.Dimension]
	if !ok || !v.IsValid() {
		return nil, nil
	}
	names, err := set.Classify(v)
	if err != nil {
		return nil, err
	}
	return names, nil
}
