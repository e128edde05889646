package commands

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gotcount/gotcount/gotcount"
	"github.com/gotcount/gotcount/internal/cliutil"
)

const maxLineBytes = 16 << 20

func NewMatchCmd(env *Env) *cobra.Command {
	var (
		q          string
		schemaPath string
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Filter JSON records read line by line from stdin",
		Long: `Match reads one JSON object per line and writes the lines whose record
passes every check of the query. Values are read with --schema when given
and inferred otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := gotcount.ParseQueryWithOptions(q, env.Opts.ParseOptions())
			if err != nil {
				return err
			}
			schema, err := cliutil.LoadSchema(schemaPath)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			sc := bufio.NewScanner(cmd.InOrStdin())
			sc.Buffer(make([]byte, 64*1024), maxLineBytes)
			var lineNo, read, matched int
			for sc.Scan() {
				lineNo++
				line := bytes.TrimSpace(sc.Bytes())
				if len(line) == 0 {
					continue
				}
				read++
				rec, err := gotcount.DecodeRecordJSON(line, schema)
				if err != nil {
					return fmt.Errorf("line %d: %w", lineNo, err)
				}
				ok, err := f.Match(rec)
				if err != nil {
					return fmt.Errorf("line %d: %w", lineNo, err)
				}
				if !ok {
					continue
				}
				matched++
				fmt.Fprintln(w, string(line))
			}
			if err := sc.Err(); err != nil {
				return err
			}
			env.Logger.Info("match done", "read", read, "matched", matched)
			return nil
		},
	}
	cmd.Flags().StringVarP(&q, "query", "q", "", "filter query")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON schema file declaring field types")
	return cmd
}
