// Package planner translates a Filter into a SQL WHERE clause that
// prefilters rows before they are evaluated in process.
package planner

import (
	"fmt"
	"strings"

	"github.com/gotcount/gotcount/gotcount"
	"github.com/gotcount/gotcount/gotcount/check"
	"github.com/gotcount/gotcount/gotcount/storage/sqlbuilder"
	"github.com/gotcount/gotcount/gotcount/value"
)

// Clause is a rendered WHERE body.
type Clause struct {
	SQL     string   // without the WHERE keyword; empty when nothing was pushed
	Pushed  []string // dimensions rendered into SQL
	Skipped []string // dimensions only evaluated in process
}

// Where renders the checks of f, AND-ed in dimension order, with
// arguments allocated from b. Columns are named after dimensions.
//
// A check is rendered only when schema declares its column with a type of
// the check's family: number, integer or float for Number checks and text
// for Text checks. The declaration asserts the column stores values of
// that type natively. Date and Time checks are never rendered, because a
// column may hold them in any layout Coerce accepts, and SQL would compare
// those as text. Everything else is skipped and left to in-process
// evaluation, so a check that would fail with a type error in process is
// never turned into an empty SQL result.
func Where(f *gotcount.Filter, schema *gotcount.Schema, b *sqlbuilder.Builder) (Clause, error) {
	var (
		out   Clause
		parts []string
	)
	for _, name := range f.Dimensions() {
		c, err := f.Get(name)
		if err != nil {
			return Clause{}, err
		}
		if !pushable(schema, name, c) {
			out.Skipped = append(out.Skipped, name)
			continue
		}
		sql, err := compileCheck(sqlbuilder.QuoteIdent(name), c, b)
		if err != nil {
			return Clause{}, err
		}
		out.Pushed = append(out.Pushed, name)
		parts = append(parts, sql)
	}
	out.SQL = strings.Join(parts, " AND ")
	return out, nil
}

func pushable(schema *gotcount.Schema, name string, c check.Check) bool {
	spec, ok := schema.Get(name)
	if !ok {
		return false
	}
	fam, ok := checkFamily(c)
	if !ok {
		return false
	}
	switch spec.Type {
	case gotcount.FieldNumber, gotcount.FieldInteger, gotcount.FieldFloat:
		return fam == value.FamilyNumber
	case gotcount.FieldText:
		return fam == value.FamilyText
	default:
		return false
	}
}

// checkFamily is the single value family c compares against. Empty sets
// and sets mixing families have none.
func checkFamily(c check.Check) (value.Family, bool) {
	switch c := c.(type) {
	case check.Equal:
		return c.Value.Family(), true
	case check.Range:
		return c.Low.Family(), true
	case check.SetMember:
		if len(c.Values) == 0 || !singleFamily(c.Values) {
			return value.FamilyNone, false
		}
		return c.Values[0].Family(), true
	default:
		return value.FamilyNone, false
	}
}

func compileCheck(col string, c check.Check, b *sqlbuilder.Builder) (string, error) {
	var sql string
	switch c := c.(type) {
	case check.Equal:
		sql = fmt.Sprintf("%s = %s", col, b.Arg(c.Value.Interface()))
	case check.Range:
		lowOp, highOp := ">", "<"
		if c.LowInclusive {
			lowOp = ">="
		}
		if c.HighInclusive {
			highOp = "<="
		}
		sql = fmt.Sprintf("(%s %s %s AND %s %s %s)",
			col, lowOp, b.Arg(c.Low.Interface()), col, highOp, b.Arg(c.High.Interface()))
	case check.SetMember:
		args := make([]any, len(c.Values))
		for i, v := range c.Values {
			args[i] = v.Interface()
		}
		sql = fmt.Sprintf("%s IN (%s)", col, b.List(args))
	default:
		return "", fmt.Errorf("planner: unsupported check %T", c)
	}
	if c.Negated() {
		sql = "NOT (" + sql + ")"
	}
	return sql, nil
}

func singleFamily(vs []value.Value) bool {
	for _, v := range vs[1:] {
		if !value.SameFamily(vs[0], v) {
			return false
		}
	}
	return true
}
