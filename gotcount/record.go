package gotcount

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	gcerrors "github.com/gotcount/gotcount/gotcount/errors"
	"github.com/gotcount/gotcount/gotcount/value"
)

// Record is one row of dimension values.
type Record map[string]value.Value

// NewRecord coerces raw host values through schema. A nil schema infers
// every kind. Nil raw values are left out.
func NewRecord(raw map[string]any, schema *Schema) (Record, error) {
	rec := make(Record, len(raw))
	for name, x := range raw {
		v, err := schema.Coerce(name, x)
		if err != nil {
			return nil, err
		}
		if v.IsValid() {
			rec[name] = v
		}
	}
	return rec, nil
}

// DecodeRecordJSON builds a Record from one JSON object. Numbers keep
// their integer or float form.
func DecodeRecordJSON(line []byte, schema *Schema) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, gcerrors.Wrap(gcerrors.ErrSchema, "invalid record JSON", err)
	}
	return NewRecord(raw, schema)
}

// String renders the record as sorted name=value pairs.
func (r Record) String() string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(r[name].String())
	}
	return sb.String()
}

// MarshalJSON writes numbers and text as JSON scalars and dates and times
// in their literal layout.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r))
	for name, v := range r {
		switch v.Kind() {
		case value.KindDate:
			out[name] = v.Time().Format(value.DateLayout)
		case value.KindTime:
			out[name] = v.Time().Format(value.TimeLayout)
		default:
			out[name] = v.Interface()
		}
	}
	return json.Marshal(out)
}
