package gotcount

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	gcerrors "github.com/gotcount/gotcount/gotcount/errors"
	"github.com/gotcount/gotcount/gotcount/query"
	"github.com/gotcount/gotcount/gotcount/value"
)

// FieldType specifies how raw record values of a field are read
type FieldType string

const (
	FieldNumber  FieldType = "number" // integer or float, whichever the raw value is
	FieldInteger FieldType = "integer"
	FieldFloat   FieldType = "float"
	FieldDate    FieldType = "date"
	FieldTime    FieldType = "time"
	FieldText    FieldType = "text"
)

// FieldSpec defines a field's configuration
type FieldSpec struct {
	Type FieldType `json:"type"`
}

// Schema declares the value kind of record fields. Fields that are not
// declared have their kind inferred from the raw value.
type Schema struct {
	Fields map[string]FieldSpec `json:"fields"`
}

var validFieldNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks if the schema is valid
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return gcerrors.SchemaError("schema must have at least one field")
	}
	for _, name := range s.Names() {
		if !validFieldNameRe.MatchString(name) {
			return gcerrors.SchemaError(fmt.Sprintf("invalid field name: %s (must match ^[A-Za-z0-9_-]+$)", name))
		}
		switch spec := s.Fields[name]; spec.Type {
		case FieldNumber, FieldInteger, FieldFloat, FieldDate, FieldTime, FieldText:
		default:
			return gcerrors.SchemaError(fmt.Sprintf("unknown field type '%s' for field '%s'", spec.Type, name))
		}
	}
	return nil
}

// SchemaFromJSON deserializes a schema from JSON
func SchemaFromJSON(b []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, gcerrors.Wrap(gcerrors.ErrSchema, "invalid schema JSON", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s Schema) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// Names returns the declared field names in sorted order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get retrieves a field spec by name. A nil schema has no fields.
func (s *Schema) Get(name string) (FieldSpec, bool) {
	if s == nil {
		return FieldSpec{}, false
	}
	spec, ok := s.Fields[name]
	return spec, ok
}

// Coerce converts a raw host value of field name into a Value. A nil raw
// value yields the invalid Value and no error.
func (s *Schema) Coerce(name string, raw any) (value.Value, error) {
	if raw == nil {
		return value.Value{}, nil
	}
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	spec, ok := s.Get(name)
	if !ok {
		return infer(raw)
	}

	var (
		v   value.Value
		err error
	)
	switch spec.Type {
	case FieldNumber:
		v, err = toNumber(raw)
	case FieldInteger:
		v, err = toNumber(raw)
		if err == nil && v.Kind() == value.KindFloat {
			if v.Float() != float64(v.Int()) {
				err = fmt.Errorf("%v is not integral", raw)
			}
			v = value.Int(v.Int())
		}
	case FieldFloat:
		v, err = toNumber(raw)
		if err == nil {
			v = value.Float(v.Float())
		}
	case FieldDate:
		v, err = toDate(raw)
	case FieldTime:
		v, err = toTime(raw)
	case FieldText:
		v = toText(raw)
	default:
		err = fmt.Errorf("unknown field type %q", spec.Type)
	}
	if err != nil {
		return value.Value{}, gcerrors.Wrap(gcerrors.ErrSchema, fmt.Sprintf("field %s: cannot read %T as %s", name, raw, spec.Type), err)
	}
	return v, nil
}

// infer reads strings with the literal rule of the query grammar, so a
// stored "2012-12-24" compares as a date. Strings that are not a
// non-text literal stay verbatim.
func infer(raw any) (value.Value, error) {
	if str, ok := raw.(string); ok {
		if v, err := query.ParseLiteral(str); err == nil && v.Kind() != value.KindText {
			return v, nil
		}
		return value.Text(str), nil
	}
	if b, ok := raw.(bool); ok {
		return value.Text(strconv.FormatBool(b)), nil
	}
	v, ok := value.FromAny(raw)
	if !ok {
		return value.Value{}, gcerrors.SchemaError(fmt.Sprintf("unsupported value of type %T", raw))
	}
	return v, nil
}

func toNumber(raw any) (value.Value, error) {
	if str, ok := raw.(string); ok {
		str = strings.TrimSpace(str)
		if i, err := strconv.ParseInt(str, 10, 64); err == nil {
			return value.Int(i), nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(f), nil
	}
	v, ok := value.FromAny(raw)
	if !ok || v.Family() != value.FamilyNumber {
		return value.Value{}, fmt.Errorf("not a number")
	}
	return v, nil
}

var dateLayouts = []string{value.DateLayout, time.RFC3339Nano, "2006-01-02 15:04:05"}

func toDate(raw any) (value.Value, error) {
	switch x := raw.(type) {
	case time.Time:
		return value.DateOf(x), nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return value.DateOf(t), nil
			}
		}
		return value.Value{}, fmt.Errorf("%q is not a date", x)
	default:
		return value.Value{}, fmt.Errorf("not a date")
	}
}

var timeLayouts = []string{value.TimeLayout, "15:04", time.RFC3339Nano, "2006-01-02 15:04:05"}

func toTime(raw any) (value.Value, error) {
	switch x := raw.(type) {
	case time.Time:
		return value.TimeOf(x), nil
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return value.TimeOf(t), nil
			}
		}
		return value.Value{}, fmt.Errorf("%q is not a time of day", x)
	default:
		return value.Value{}, fmt.Errorf("not a time of day")
	}
}

func toText(raw any) value.Value {
	switch x := raw.(type) {
	case string:
		return value.Text(x)
	case time.Time:
		return value.Text(x.Format(time.RFC3339))
	default:
		if v, ok := value.FromAny(raw); ok && v.Family() == value.FamilyNumber {
			return value.Text(v.String())
		}
		return value.Text(fmt.Sprint(raw))
	}
}
