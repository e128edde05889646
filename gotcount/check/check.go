package check

import (
	"fmt"
	"strings"

	gcerrors "github.com/gotcount/gotcount/gotcount/errors"
	"github.com/gotcount/gotcount/gotcount/value"
)

// Check is a compiled predicate over a single value. The set of
// implementations is closed: Equal, Range and SetMember.
type Check interface {
	// Test reports whether v satisfies the check. It fails when v's kind
	// cannot be compared with the values the check was built from.
	Test(v value.Value) (bool, error)
	Negated() bool
	String() string
	isCheck()
}

// Equal matches values equal to Value.
type Equal struct {
	Value  value.Value
	Negate bool
}

func (Equal) isCheck() {}

// NewEqual returns a check matching values equal to v.
func NewEqual(v value.Value, negate bool) Equal {
	return Equal{Value: v, Negate: negate}
}

func (c Equal) Test(v value.Value) (bool, error) {
	if !value.SameFamily(c.Value, v) {
		return false, mismatch(v, c.Value.Family())
	}
	return value.Equal(v, c.Value) != c.Negate, nil
}

func (c Equal) Negated() bool { return c.Negate }

func (c Equal) String() string { return bang(c.Negate) + c.Value.String() }

// Range matches values between Low and High. Low never orders after High.
type Range struct {
	Low           value.Value
	High          value.Value
	LowInclusive  bool
	HighInclusive bool
	Negate        bool
}

func (Range) isCheck() {}

// NewRange builds a range from two bounds of the same ordered family.
// Bounds given high-first are swapped along with their inclusivity.
func NewRange(low value.Value, lowInclusive bool, high value.Value, highInclusive bool) (Range, error) {
	if !value.SameFamily(low, high) {
		return Range{}, gcerrors.IncompatibleType(fmt.Sprintf("range bounds %s and %s differ in kind", low.Kind(), high.Kind()))
	}
	if !low.Family().Ordered() {
		return Range{}, gcerrors.IncompatibleType(fmt.Sprintf("%s values have no order", low.Family()))
	}
	if value.Compare(low, high) > 0 {
		low, high = high, low
		lowInclusive, highInclusive = highInclusive, lowInclusive
	}
	return Range{Low: low, High: high, LowInclusive: lowInclusive, HighInclusive: highInclusive}, nil
}

func (c Range) Test(v value.Value) (bool, error) {
	if !value.SameFamily(c.Low, v) {
		return false, gcerrors.IncompatibleType(fmt.Sprintf("cannot order %s against %s range", v.Kind(), c.Low.Family()))
	}
	lo := value.Compare(v, c.Low)
	hi := value.Compare(v, c.High)
	in := (lo > 0 || (c.LowInclusive && lo == 0)) && (hi < 0 || (c.HighInclusive && hi == 0))
	return in != c.Negate, nil
}

func (c Range) Negated() bool { return c.Negate }

func (c Range) String() string {
	lb, rb := "(", ")"
	if c.LowInclusive {
		lb = "["
	}
	if c.HighInclusive {
		rb = "]"
	}
	return bang(c.Negate) + lb + c.Low.String() + "," + c.High.String() + rb
}

// SetMember matches values equal to any of Values.
type SetMember struct {
	Values []value.Value
	Negate bool
}

func (SetMember) isCheck() {}

// NewSetMember returns a check matching any of values. The slice is copied.
func NewSetMember(values []value.Value, negate bool) SetMember {
	vs := make([]value.Value, len(values))
	copy(vs, values)
	return SetMember{Values: vs, Negate: negate}
}

// Test fails with a type mismatch only when no element of the set shares
// v's family; a set may mix kinds.
func (c SetMember) Test(v value.Value) (bool, error) {
	if len(c.Values) == 0 {
		return c.Negate, nil
	}
	compatible, found := false, false
	for _, e := range c.Values {
		if !value.SameFamily(e, v) {
			continue
		}
		compatible = true
		if value.Equal(e, v) {
			found = true
			break
		}
	}
	if !compatible {
		return false, mismatch(v, c.Values[0].Family())
	}
	return found != c.Negate, nil
}

func (c SetMember) Negated() bool { return c.Negate }

func (c SetMember) String() string {
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = v.String()
	}
	return bang(c.Negate) + "{" + strings.Join(parts, ",") + "}"
}

// Not returns c with its negation flag flipped.
func Not(c Check) Check {
	switch c := c.(type) {
	case Equal:
		c.Negate = !c.Negate
		return c
	case Range:
		c.Negate = !c.Negate
		return c
	case SetMember:
		c.Negate = !c.Negate
		return c
	default:
		panic(fmt.Sprintf("check: unknown check type %T", c))
	}
}

func mismatch(v value.Value, want value.Family) error {
	return gcerrors.TypeMismatch(fmt.Sprintf("cannot test %s value against %s check", v.Kind(), want))
}

func bang(negate bool) string {
	if negate {
		return "!"
	}
	return ""
}
