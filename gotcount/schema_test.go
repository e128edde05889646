package gotcount_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotcount/gotcount/gotcount"
	"github.com/gotcount/gotcount/gotcount/value"
)

const peopleSchema = `{"fields": {
	"age": {"type": "integer"},
	"score": {"type": "float"},
	"born": {"type": "date"},
	"opens": {"type": "time"},
	"zip": {"type": "text"},
	"weight": {"type": "number"}
}}`

func TestSchemaFromJSON(t *testing.T) {
	s, err := gotcount.SchemaFromJSON([]byte(peopleSchema))
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "born", "opens", "score", "weight", "zip"}, s.Names())

	spec, ok := s.Get("born")
	require.True(t, ok)
	assert.Equal(t, gotcount.FieldDate, spec.Type)
}

func TestSchemaValidate(t *testing.T) {
	testCases := map[string]string{
		"empty":        `{"fields": {}}`,
		"bad name":     `{"fields": {"a b": {"type": "text"}}}`,
		"unknown type": `{"fields": {"a": {"type": "bool"}}}`,
		"not json":     `{"fields":`,
	}
	for name, doc := range testCases {
		doc := doc
		t.Run(name, func(t *testing.T) {
			_, err := gotcount.SchemaFromJSON([]byte(doc))
			require.Error(t, err)
			assert.True(t, gotcount.IsCode(err, gotcount.ErrSchema))
		})
	}
}

func TestCoerceDeclared(t *testing.T) {
	s, err := gotcount.SchemaFromJSON([]byte(peopleSchema))
	require.NoError(t, err)

	testCases := []struct {
		field string
		raw   any
		want  value.Value
	}{
		{"age", int64(42), value.Int(42)},
		{"age", "42", value.Int(42)},
		{"age", float64(42), value.Int(42)},
		{"score", int64(3), value.Float(3)},
		{"score", []byte("2.5"), value.Float(2.5)},
		{"born", "2012-12-24", value.Date(2012, 12, 24)},
		{"born", time.Date(2012, 12, 24, 18, 0, 0, 0, time.UTC), value.Date(2012, 12, 24)},
		{"born", "2012-12-24T08:00:00Z", value.Date(2012, 12, 24)},
		{"opens", "08:30", value.TimeOfDay(8, 30, 0)},
		{"opens", "08:30:15", value.TimeOfDay(8, 30, 15)},
		{"zip", int64(10115), value.Text("10115")},
		{"weight", json.Number("70.5"), value.Float(70.5)},
		{"weight", json.Number("70"), value.Int(70)},
	}
	for _, tc := range testCases {
		got, err := s.Coerce(tc.field, tc.raw)
		require.NoError(t, err, "%s=%v", tc.field, tc.raw)
		assert.Equal(t, tc.want.Kind(), got.Kind(), "%s=%v", tc.field, tc.raw)
		assert.True(t, value.Equal(tc.want, got), "%s=%v: got %s", tc.field, tc.raw, got)
	}
}

func TestCoerceRejects(t *testing.T) {
	s, err := gotcount.SchemaFromJSON([]byte(peopleSchema))
	require.NoError(t, err)

	for field, raw := range map[string]any{
		"age":   2.5,
		"score": "high",
		"born":  "yesterday",
		"opens": 12,
	} {
		_, err := s.Coerce(field, raw)
		assert.True(t, gotcount.IsCode(err, gotcount.ErrSchema), "%s=%v: %v", field, raw, err)
	}
}

func TestCoerceInfers(t *testing.T) {
	var s *gotcount.Schema
	testCases := []struct {
		raw  any
		want value.Value
	}{
		{"2012-12-24", value.Date(2012, 12, 24)},
		{"12:46", value.TimeOfDay(12, 46, 0)},
		{"17", value.Int(17)},
		{"0.5", value.Float(0.5)},
		{"a:b", value.Text("a:b")},
		{"hello world", value.Text("hello world")},
		{true, value.Text("true")},
		{int32(3), value.Int(3)},
	}
	for _, tc := range testCases {
		got, err := s.Coerce("x", tc.raw)
		require.NoError(t, err, "%v", tc.raw)
		assert.Equal(t, tc.want.Kind(), got.Kind(), "%v", tc.raw)
		assert.True(t, value.Equal(tc.want, got), "%v: got %s", tc.raw, got)
	}

	got, err := s.Coerce("x", nil)
	require.NoError(t, err)
	assert.False(t, got.IsValid())

	_, err = s.Coerce("x", map[string]any{})
	assert.True(t, gotcount.IsCode(err, gotcount.ErrSchema))
}

func TestDecodeRecordJSON(t *testing.T) {
	s, err := gotcount.SchemaFromJSON([]byte(peopleSchema))
	require.NoError(t, err)

	rec, err := gotcount.DecodeRecordJSON([]byte(`{"age": 30, "born": "1990-05-17", "city": "Paris", "note": null}`), s)
	require.NoError(t, err)
	assert.Len(t, rec, 3)
	assert.Equal(t, value.KindInteger, rec["age"].Kind())
	assert.Equal(t, value.KindDate, rec["born"].Kind())
	assert.Equal(t, value.Text("Paris"), rec["city"])
	assert.Equal(t, "age=30 born=1990-05-17 city=Paris", rec.String())

	f := mustParse(t, "age:[18,65);born:[1990-01-01,2000-01-01)")
	ok, err := f.Match(rec)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = gotcount.DecodeRecordJSON([]byte(`[1,2]`), s)
	assert.True(t, gotcount.IsCode(err, gotcount.ErrSchema))
}

func TestRecordMarshalJSON(t *testing.T) {
	rec := gotcount.Record{
		"age":   value.Int(30),
		"born":  value.Date(1990, 5, 17),
		"opens": value.TimeOfDay(8, 0, 0),
		"city":  value.Text("Paris"),
	}
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"age":30,"born":"1990-05-17","opens":"08:00:00","city":"Paris"}`, string(b))
}
