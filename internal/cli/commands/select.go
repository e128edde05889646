package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gotcount/gotcount/gotcount"
	"github.com/gotcount/gotcount/gotcount/ops"
	"github.com/gotcount/gotcount/gotcount/storage"
	"github.com/gotcount/gotcount/internal/cliutil"
)

// sourceFlags are shared by the commands that read a database table.
type sourceFlags struct {
	query      string
	table      string
	schemaPath string
	pushdown   bool
}

func (s *sourceFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.query, "query", "q", "", "filter query")
	cmd.Flags().StringVarP(&s.table, "table", "t", "", "table to read records from")
	cmd.Flags().StringVar(&s.schemaPath, "schema", "", "JSON schema file declaring column types")
	cmd.Flags().BoolVar(&s.pushdown, "pushdown", false, "prefilter rows on columns the schema declares as numbers or text")
}

func (s *sourceFlags) open(ctx context.Context, env *Env) (*gotcount.Filter, ops.Source, storage.Adapter, *sql.DB, error) {
	f, err := gotcount.ParseQueryWithOptions(s.query, env.Opts.ParseOptions())
	if err != nil {
		return nil, ops.Source{}, nil, nil, err
	}
	schema, err := cliutil.LoadSchema(s.schemaPath)
	if err != nil {
		return nil, ops.Source{}, nil, nil, err
	}
	adapter, err := cliutil.NewAdapter(env.Opts)
	if err != nil {
		return nil, ops.Source{}, nil, nil, err
	}
	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, ops.Source{}, nil, nil, fmt.Errorf("connect %s: %w", adapter.SourceID(), err)
	}
	src := ops.Source{Table: s.table, Schema: schema, Pushdown: s.pushdown}
	return f, src, adapter, db, nil
}

func NewSelectCmd(env *Env) *cobra.Command {
	var (
		src         sourceFlags
		limit       int
		output      string
		bucketsPath string
		dimension   string
	)
	cmd := &cobra.Command{
		Use:   "select -q <query> -t <table> [-b buckets.yaml]",
		Short: "Print the rows of a table that match a query",
		Long: `Select prints the rows of a table that match a query. With --pushdown the
checks on columns --schema declares as number, integer, float or text
prefilter the rows in the database; every row is still tested in process. With --buckets each row is also labelled with
the buckets its value of the bucket set's dimension falls into.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cliutil.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			req := ops.SelectRequest{Limit: limit}
			if bucketsPath != "" {
				if req.Buckets, err = cliutil.LoadBuckets(bucketsPath); err != nil {
					return err
				}
				if dimension != "" {
					req.Buckets.Dimension = dimension
				}
			}

			ctx := cmd.Context()
			f, source, adapter, db, err := src.open(ctx, env)
			if err != nil {
				return err
			}
			defer db.Close()
			defer adapter.Close()

			start := time.Now()
			req.Source, req.Filter = source, f
			res, err := ops.Select(ctx, db, adapter, req, env.Logger)
			if err != nil {
				return err
			}
			env.Logger.Debug("select", "sql", res.SQL, "skipped", res.Skipped, "took", time.Since(start))

			w := cmd.OutOrStdout()
			for i, rec := range res.Records {
				var labels []string
				if res.Buckets != nil {
					labels = res.Buckets[i]
				}
				if format == cliutil.FormatJSON {
					var row any = rec
					if req.Buckets != nil {
						row = labelledRow{Record: rec, Buckets: nonNil(labels)}
					}
					b, err := json.Marshal(row)
					if err != nil {
						return err
					}
					fmt.Fprintln(w, string(b))
					continue
				}
				if req.Buckets != nil {
					fmt.Fprintf(w, "%s\t%s\n", rec.String(), strings.Join(labels, ","))
					continue
				}
				fmt.Fprintln(w, rec.String())
			}
			return nil
		},
	}
	src.bind(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after n matches, 0 for all")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text|json")
	cmd.Flags().StringVarP(&bucketsPath, "buckets", "b", "", "YAML bucket set to label rows with")
	cmd.Flags().StringVar(&dimension, "dimension", "", "column to classify, overriding the bucket set's dimension")
	return cmd
}

type labelledRow struct {
	Record  gotcount.Record `json:"record"`
	Buckets []string        `json:"buckets"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
