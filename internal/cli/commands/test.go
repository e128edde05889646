package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gotcount/gotcount/gotcount"
	"github.com/gotcount/gotcount/gotcount/query"
)

func NewTestCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "test <query> <dimension> <literal>",
		Short: "Test a literal against one dimension of a query",
		Long: `Test parses <literal> with the literal rule of the query language, so
"5" is an integer, "2012-12-24" a date and "abc" text, and prints true or
false. A literal of the wrong kind for the check is an error.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := gotcount.ParseQueryWithOptions(args[0], env.Opts.ParseOptions())
			if err != nil {
				return err
			}
			v, err := query.ParseLiteralWithOptions(args[2], env.Opts.QueryOptions())
			if err != nil {
				return err
			}
			ok, err := f.Test(args[1], v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}
