package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gotcount/gotcount/gotcount"
	"github.com/gotcount/gotcount/gotcount/storage"
	"github.com/gotcount/gotcount/gotcount/storage/postgres"
	"github.com/gotcount/gotcount/gotcount/storage/sqlite"
	"github.com/gotcount/gotcount/internal/cliopt"
)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

func PrintJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// NewAdapter picks the record source named by the global options.
func NewAdapter(g cliopt.GlobalOptions) (storage.Adapter, error) {
	if g.DSN == "" {
		return nil, fmt.Errorf("missing --dsn")
	}
	switch strings.ToLower(g.Backend) {
	case "sqlite":
		return sqlite.New(g.DSN), nil
	case "sqlite3":
		return sqlite.NewWithDriver(g.DSN, sqlite.DriverMattn), nil
	case "postgres":
		return postgres.New(g.DSN, g.SchemaName), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want sqlite, sqlite3 or postgres)", g.Backend)
	}
}

// LoadSchema reads a JSON schema file. An empty path means no schema.
func LoadSchema(path string) (*gotcount.Schema, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return gotcount.SchemaFromJSON(b)
}

// LoadBuckets reads a YAML bucket set file.
func LoadBuckets(path string) (*gotcount.BucketSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gotcount.LoadBucketSet(f)
}
