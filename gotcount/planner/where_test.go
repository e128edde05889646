package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotcount/gotcount/gotcount"
	"github.com/gotcount/gotcount/gotcount/planner"
	"github.com/gotcount/gotcount/gotcount/storage/sqlbuilder"
)

var peopleSchema = &gotcount.Schema{Fields: map[string]gotcount.FieldSpec{
	"a":          {Type: gotcount.FieldInteger},
	"b":          {Type: gotcount.FieldInteger},
	"n":          {Type: gotcount.FieldNumber},
	"age":        {Type: gotcount.FieldInteger},
	"score":      {Type: gotcount.FieldFloat},
	"city":       {Type: gotcount.FieldText},
	"code":       {Type: gotcount.FieldText},
	"first-name": {Type: gotcount.FieldText},
	"born":       {Type: gotcount.FieldDate},
	"opens":      {Type: gotcount.FieldTime},
}}

func where(t *testing.T, query string, schema *gotcount.Schema, style sqlbuilder.PlaceholderStyle) (planner.Clause, []any) {
	t.Helper()
	f, err := gotcount.ParseQuery(query)
	require.NoError(t, err)
	b := sqlbuilder.New(style)
	c, err := planner.Where(f, schema, b)
	require.NoError(t, err)
	return c, b.Args()
}

func TestWhereChecks(t *testing.T) {
	testCases := map[string]struct {
		query string
		sql   string
		args  []any
	}{
		"equal":      {"age:30", `"age" = ?`, []any{int64(30)}},
		"not equal":  {"city:!Paris", `NOT ("city" = ?)`, []any{"Paris"}},
		"half open":  {"age:[18,65)", `("age" >= ? AND "age" < ?)`, []any{int64(18), int64(65)}},
		"exclusive":  {"score:(0.5,1]", `("score" > ? AND "score" <= ?)`, []any{0.5, int64(1)}},
		"set":        {"city:{Berlin,Paris}", `"city" IN (?, ?)`, []any{"Berlin", "Paris"}},
		"not set":    {"n:!{1,2}", `NOT ("n" IN (?, ?))`, []any{int64(1), int64(2)}},
		"sorted and": {"b:1;a:2", `"a" = ? AND "b" = ?`, []any{int64(2), int64(1)}},
		"empty":      {"", "", nil},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			c, args := where(t, tc.query, peopleSchema, sqlbuilder.PlaceholderQuestion)
			assert.Equal(t, tc.sql, c.SQL)
			if tc.args == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tc.args, args)
			}
		})
	}
}

func TestWhereDollarPlaceholders(t *testing.T) {
	c, args := where(t, "age:[18,65);city:{Berlin,Paris}", peopleSchema, sqlbuilder.PlaceholderDollar)
	assert.Equal(t, `("age" >= $1 AND "age" < $2) AND "city" IN ($3, $4)`, c.SQL)
	assert.Len(t, args, 4)
	assert.Equal(t, []string{"age", "city"}, c.Pushed)
	assert.Empty(t, c.Skipped)
}

func TestWhereSkipsMixedSets(t *testing.T) {
	c, args := where(t, "age:[18,65);code:{1,x}", peopleSchema, sqlbuilder.PlaceholderQuestion)
	assert.Equal(t, `("age" >= ? AND "age" < ?)`, c.SQL)
	assert.Equal(t, []string{"age"}, c.Pushed)
	assert.Equal(t, []string{"code"}, c.Skipped)
	assert.Len(t, args, 2)
}

func TestWhereSkipsUndeclaredAndMismatchedColumns(t *testing.T) {
	testCases := map[string]struct {
		query   string
		schema  *gotcount.Schema
		skipped []string
	}{
		"no schema":       {"age:30;city:Paris", nil, []string{"age", "city"}},
		"undeclared":      {"height:180", peopleSchema, []string{"height"}},
		"number on text":  {"city:5", peopleSchema, []string{"city"}},
		"text on number":  {"age:old", peopleSchema, []string{"age"}},
		"dates":           {"born:[2010-01-01,2013-12-31]", peopleSchema, []string{"born"}},
		"times":           {"opens:08:00", peopleSchema, []string{"opens"}},
		"time on text":    {"code:08:00", peopleSchema, []string{"code"}},
		"number set text": {"city:{1,2}", peopleSchema, []string{"city"}},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			c, args := where(t, tc.query, tc.schema, sqlbuilder.PlaceholderQuestion)
			assert.Empty(t, c.SQL)
			assert.Empty(t, c.Pushed)
			assert.Empty(t, args)
			assert.Equal(t, tc.skipped, c.Skipped)
		})
	}
}

func TestWhereQuotesIdentifiers(t *testing.T) {
	c, _ := where(t, "first-name:Ann", peopleSchema, sqlbuilder.PlaceholderQuestion)
	assert.Equal(t, `"first-name" = ?`, c.SQL)
}
