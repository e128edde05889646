package gotcount

import (
	stderrors "errors"
	"sort"
	"strings"

	"github.com/gotcount/gotcount/gotcount/check"
	gcerrors "github.com/gotcount/gotcount/gotcount/errors"
	"github.com/gotcount/gotcount/gotcount/query"
	"github.com/gotcount/gotcount/gotcount/value"
)

// ParseOptions controls how a query becomes a Filter.
type ParseOptions struct {
	// RejectDuplicates fails the parse when a dimension appears twice.
	// Otherwise the last occurrence wins.
	RejectDuplicates bool
	// StrictDates rejects impossible calendar dates instead of rolling
	// them over.
	StrictDates bool
}

// Filter maps dimension names to their checks. It is immutable once built
// and safe for concurrent use.
type Filter struct {
	checks map[string]check.Check
}

// ParseQuery parses text such as "age:[18,65);city:{Berlin,Paris}".
// An empty text yields an empty Filter.
func ParseQuery(text string) (*Filter, error) {
	return ParseQueryWithOptions(text, ParseOptions{})
}

// ParseQueryWithOptions is ParseQuery with explicit options.
func ParseQueryWithOptions(text string, opts ParseOptions) (*Filter, error) {
	terms, err := query.ParseWithOptions(text, query.Options{StrictDates: opts.StrictDates})
	if err != nil {
		return nil, err
	}
	f := &Filter{checks: make(map[string]check.Check, len(terms))}
	for _, t := range terms {
		if _, dup := f.checks[t.Dimension]; dup && opts.RejectDuplicates {
			return nil, gcerrors.Duplicate(t.Pos, t.Dimension)
		}
		f.checks[t.Dimension] = t.Check
	}
	return f, nil
}

// NewFilter builds a Filter from already compiled checks.
func NewFilter(checks map[string]check.Check) *Filter {
	f := &Filter{checks: make(map[string]check.Check, len(checks))}
	for name, c := range checks {
		f.checks[name] = c
	}
	return f
}

// Dimensions returns the dimension names in sorted order.
func (f *Filter) Dimensions() []string {
	names := make([]string, 0, len(f.checks))
	for name := range f.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of dimensions.
func (f *Filter) Len() int { return len(f.checks) }

// Get returns the check of a dimension.
func (f *Filter) Get(name string) (check.Check, error) {
	c, ok := f.checks[name]
	if !ok {
		return nil, gcerrors.NotFound(name)
	}
	return c, nil
}

// Test evaluates the check of dimension name against v.
func (f *Filter) Test(name string, v value.Value) (bool, error) {
	c, err := f.Get(name)
	if err != nil {
		return false, err
	}
	ok, err := c.Test(v)
	if err != nil {
		return false, withDimension(err, name)
	}
	return ok, nil
}

// Match reports whether rec passes every check of f. A record without a
// value for one of the dimensions does not match.
func (f *Filter) Match(rec Record) (bool, error) {
	for _, name := range f.Dimensions() {
		v, ok := rec[name]
		if !ok || !v.IsValid() {
			return false, nil
		}
		pass, err := f.checks[name].Test(v)
		if err != nil {
			return false, withDimension(err, name)
		}
		if !pass {
			return false, nil
		}
	}
	return true, nil
}

// String renders f as a query. A Filter parsed from text parses back from
// its String to an equal Filter.
func (f *Filter) String() string {
	parts := make([]string, 0, len(f.checks))
	for _, name := range f.Dimensions() {
		parts = append(parts, name+":"+f.checks[name].String())
	}
	return strings.Join(parts, ";")
}

func withDimension(err error, name string) error {
	var e *gcerrors.Error
	if !stderrors.As(err, &e) {
		return err
	}
	named := *e
	named.Name = name
	return &named
}
