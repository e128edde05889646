package value

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the type of a literal value
type Kind int

const (
	KindInvalid Kind = iota
	KindInteger
	KindFloat
	KindDate
	KindTime
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindDate:
		return "Date"
	case KindTime:
		return "Time"
	case KindText:
		return "Text"
	default:
		return "Invalid"
	}
}

// Family groups kinds whose values compare with each other.
type Family int

const (
	FamilyNone Family = iota
	FamilyNumber
	FamilyDate
	FamilyTime
	FamilyText
)

func (f Family) String() string {
	switch f {
	case FamilyNumber:
		return "number"
	case FamilyDate:
		return "date"
	case FamilyTime:
		return "time"
	case FamilyText:
		return "text"
	default:
		return "none"
	}
}

// Ordered reports whether values of the family have a total order.
func (f Family) Ordered() bool {
	return f == FamilyNumber || f == FamilyDate || f == FamilyTime
}

func (k Kind) Family() Family {
	switch k {
	case KindInteger, KindFloat:
		return FamilyNumber
	case KindDate:
		return FamilyDate
	case KindTime:
		return FamilyTime
	case KindText:
		return FamilyText
	default:
		return FamilyNone
	}
}

// Epoch is the reference day times of day are anchored to.
var Epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Metachars are the characters a text literal must backslash-escape.
const Metachars = ":()[];!"

// Value is an immutable typed literal. The zero Value has KindInvalid.
type Value struct {
	kind Kind
	i    int64
	f    float64
	t    time.Time
	s    string
}

func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Date returns the calendar day y-m-d. Out-of-range months and days
// roll over the way time.Date does, so Date(2005, 2, 29) is 2005-03-01.
func Date(y, m, d int) Value {
	return Value{kind: KindDate, t: time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Value {
	return Date(t.Year(), int(t.Month()), t.Day())
}

// TimeOfDay returns h:m:s on the epoch day.
func TimeOfDay(h, m, s int) Value {
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
	return Value{kind: KindTime, t: Epoch.Add(d)}
}

// TimeOf returns the wall clock of t (in t's location) on the epoch day.
func TimeOf(t time.Time) Value {
	return TimeOfDay(t.Hour(), t.Minute(), t.Second())
}

func Text(s string) Value { return Value{kind: KindText, s: s} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) Family() Family { return v.kind.Family() }
func (v Value) IsValid() bool  { return v.kind != KindInvalid }

// Int returns the integer of an Integer value and the truncated number of a Float.
func (v Value) Int() int64 {
	if v.kind == KindFloat {
		return int64(v.f)
	}
	return v.i
}

// Float returns the numeric value of an Integer or Float.
func (v Value) Float() float64 {
	if v.kind == KindInteger {
		return float64(v.i)
	}
	return v.f
}

// Time returns the instant of a Date or Time value.
func (v Value) Time() time.Time { return v.t }

// Clock returns hour, minute and second of a Time value.
func (v Value) Clock() (h, m, s int) { return v.t.Clock() }

func (v Value) Text() string { return v.s }

// Interface returns the value as a plain Go value: int64, float64,
// string for text, and time.Time for dates and times of day.
func (v Value) Interface() any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindDate, KindTime:
		return v.t
	case KindText:
		return v.s
	default:
		return nil
	}
}

// SameFamily reports whether a and b can be compared for equality.
func SameFamily(a, b Value) bool {
	fa := a.Family()
	return fa != FamilyNone && fa == b.Family()
}

// Equal compares a and b by value. Numbers compare numerically across
// Integer and Float; values of different families are never equal.
func Equal(a, b Value) bool {
	if !SameFamily(a, b) {
		return false
	}
	switch a.Family() {
	case FamilyNumber:
		if a.kind == KindInteger && b.kind == KindInteger {
			return a.i == b.i
		}
		return a.Float() == b.Float()
	case FamilyDate, FamilyTime:
		return a.t.Equal(b.t)
	default:
		return a.s == b.s
	}
}

// Compare orders a against b, returning -1, 0 or +1. Both values must
// belong to the same ordered family; Compare returns 0 otherwise.
func Compare(a, b Value) int {
	if !SameFamily(a, b) || !a.Family().Ordered() {
		return 0
	}
	switch a.Family() {
	case FamilyNumber:
		if a.kind == KindInteger && b.kind == KindInteger {
			return cmpInt(a.i, b.i)
		}
		return cmpFloat(a.Float(), b.Float())
	default:
		switch {
		case a.t.Before(b.t):
			return -1
		case a.t.After(b.t):
			return 1
		}
		return 0
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String renders v as literal text the query grammar reads back to an
// equal value. Text made only of digits renders the same as a number.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindDate:
		return v.t.Format(DateLayout)
	case KindTime:
		return v.t.Format(TimeLayout)
	case KindText:
		return EscapeText(v.s)
	default:
		return "<invalid>"
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// EscapeText backslash-escapes the metacharacters of s.
func EscapeText(s string) string {
	if !strings.ContainsAny(s, Metachars) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if strings.ContainsRune(Metachars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FromAny converts a host value into a Value. time.Time becomes a Date;
// use TimeOf for times of day.
func FromAny(x any) (Value, bool) {
	switch v := x.(type) {
	case Value:
		return v, v.IsValid()
	case int:
		return Int(int64(v)), true
	case int8:
		return Int(int64(v)), true
	case int16:
		return Int(int64(v)), true
	case int32:
		return Int(int64(v)), true
	case int64:
		return Int(v), true
	case uint:
		return fromUint(uint64(v)), true
	case uint8:
		return Int(int64(v)), true
	case uint16:
		return Int(int64(v)), true
	case uint32:
		return Int(int64(v)), true
	case uint64:
		return fromUint(v), true
	case float32:
		return Float(float64(v)), true
	case float64:
		return Float(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i), true
		}
		if f, err := v.Float64(); err == nil {
			return Float(f), true
		}
		return Value{}, false
	case string:
		return Text(v), true
	case []byte:
		return Text(string(v)), true
	case time.Time:
		return DateOf(v), true
	default:
		return Value{}, false
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}
