package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gotcount/gotcount/gotcount/query"
	"github.com/gotcount/gotcount/internal/cliutil"
)

func NewBucketCmd(env *Env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "bucket -f <buckets.yaml> <literal>...",
		Short: "Classify literals into the buckets of a bucket set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("missing --file")
			}
			set, err := cliutil.LoadBuckets(file)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, arg := range args {
				v, err := query.ParseLiteralWithOptions(arg, env.Opts.QueryOptions())
				if err != nil {
					return err
				}
				names, err := set.Classify(v)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", arg, strings.Join(names, ","))
			}
			env.Logger.Debug("classified", "values", len(args), "buckets", set.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML bucket set")
	return cmd
}
