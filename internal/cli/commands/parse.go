package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gotcount/gotcount/gotcount"
	"github.com/gotcount/gotcount/gotcount/check"
	"github.com/gotcount/gotcount/internal/cliutil"
)

type parsedDimension struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Negate bool   `json:"negate"`
	Check  string `json:"check"`
}

type parsedQuery struct {
	Query      string            `json:"query"`
	Dimensions []parsedDimension `json:"dimensions"`
}

func checkKind(c check.Check) string {
	switch c.(type) {
	case check.Equal:
		return "equal"
	case check.Range:
		return "range"
	case check.SetMember:
		return "set"
	default:
		return "unknown"
	}
}

func NewParseCmd(env *Env) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a query and print each dimension's check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cliutil.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			f, err := gotcount.ParseQueryWithOptions(args[0], env.Opts.ParseOptions())
			if err != nil {
				return err
			}
			env.Logger.Debug("parsed query", "dimensions", f.Len())

			out := parsedQuery{Query: f.String(), Dimensions: []parsedDimension{}}
			for _, name := range f.Dimensions() {
				c, _ := f.Get(name)
				out.Dimensions = append(out.Dimensions, parsedDimension{
					Name:   name,
					Kind:   checkKind(c),
					Negate: c.Negated(),
					Check:  c.String(),
				})
			}
			w := cmd.OutOrStdout()
			if format == cliutil.FormatJSON {
				return cliutil.PrintJSON(w, out)
			}
			for _, d := range out.Dimensions {
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.Kind, d.Check)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text|json")
	return cmd
}
