// Package sqlbuilder collects query arguments and renders the matching
// placeholders for the SQL dialect in use.
package sqlbuilder

import (
	"strconv"
	"strings"
)

type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota // sqlite: ?
	PlaceholderDollar                           // postgres: $1, $2, ...
)

func (s PlaceholderStyle) String() string {
	if s == PlaceholderDollar {
		return "dollar"
	}
	return "question"
}

type Builder struct {
	Style PlaceholderStyle
	args  []any
}

func New(style PlaceholderStyle) *Builder {
	return &Builder{Style: style, args: make([]any, 0)}
}

// Arg records v and returns its placeholder.
func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	switch b.Style {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(len(b.args))
	default:
		return "?"
	}
}

// List records every value and returns the comma separated placeholders.
func (b *Builder) List(vs []any) string {
	ph := make([]string, len(vs))
	for i, v := range vs {
		ph[i] = b.Arg(v)
	}
	return strings.Join(ph, ", ")
}

func (b *Builder) Args() []any { return b.args }
func (b *Builder) Len() int    { return len(b.args) }

// QuoteIdent double-quotes an identifier, doubling embedded quotes. Both
// SQLite and Postgres accept this form.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
