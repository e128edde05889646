package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotcount/gotcount/gotcount/check"
	gcerrors "github.com/gotcount/gotcount/gotcount/errors"
	"github.com/gotcount/gotcount/gotcount/value"
)

func mustTest(t *testing.T, c check.Check, v value.Value) bool {
	t.Helper()
	ok, err := c.Test(v)
	require.NoError(t, err, "%s.Test(%s)", c, v)
	return ok
}

func mustRange(t *testing.T, low value.Value, lowInc bool, high value.Value, highInc bool) check.Range {
	t.Helper()
	r, err := check.NewRange(low, lowInc, high, highInc)
	require.NoError(t, err)
	return r
}

func TestEqualNumeric(t *testing.T) {
	c := check.NewEqual(value.Int(5), false)
	assert.True(t, mustTest(t, c, value.Int(5)))
	assert.True(t, mustTest(t, c, value.Float(5.0)))
	assert.False(t, mustTest(t, c, value.Float(5.1)))

	f := check.NewEqual(value.Float(0.1), false)
	assert.True(t, mustTest(t, f, value.Float(0.1)))
	assert.False(t, mustTest(t, f, value.Int(0)))
}

func TestEqualTypeMismatch(t *testing.T) {
	c := check.NewEqual(value.Int(4), false)
	_, err := c.Test(value.Text("4"))
	require.Error(t, err)
	assert.True(t, gcerrors.IsCode(err, gcerrors.ErrTypeMismatch))

	d := check.NewEqual(value.Date(2012, 12, 24), false)
	_, err = d.Test(value.TimeOfDay(0, 0, 0))
	assert.True(t, gcerrors.IsCode(err, gcerrors.ErrTypeMismatch))
}

func TestRangeBounds(t *testing.T) {
	testCases := map[string]struct {
		lowInc, highInc bool
		want            [5]bool // values 0..4 against bounds 1 and 3
	}{
		"inclusive":           {true, true, [5]bool{false, true, true, true, false}},
		"exclusive":           {false, false, [5]bool{false, false, true, false, false}},
		"inclusive-exclusive": {true, false, [5]bool{false, true, true, false, false}},
		"exclusive-inclusive": {false, true, [5]bool{false, false, true, true, false}},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			r := mustRange(t, value.Int(1), tc.lowInc, value.Int(3), tc.highInc)
			for i, want := range tc.want {
				assert.Equal(t, want, mustTest(t, r, value.Int(int64(i))), "value %d", i)
			}
		})
	}
}

func TestRangeSwapsBoundsWithFlags(t *testing.T) {
	forward := mustRange(t, value.Int(1), true, value.Int(5), false)
	reversed := mustRange(t, value.Int(5), false, value.Int(1), true)
	assert.Equal(t, forward, reversed)
	assert.Equal(t, "[1,5)", reversed.String())

	same := mustRange(t, value.Int(5), true, value.Int(1), true)
	assert.Equal(t, mustRange(t, value.Int(1), true, value.Int(5), true), same)
}

func TestRangeComparesAcrossNumericKinds(t *testing.T) {
	r := mustRange(t, value.Int(1), true, value.Int(5), false)
	assert.True(t, mustTest(t, r, value.Float(4.99)))
	assert.False(t, mustTest(t, r, value.Float(5.0)))
	assert.False(t, mustTest(t, r, value.Float(0.5)))
}

func TestRangeDates(t *testing.T) {
	r := mustRange(t, value.Date(2010, 1, 1), false, value.Date(2013, 12, 31), false)
	assert.False(t, mustTest(t, r, value.Date(2009, 12, 31)))
	assert.False(t, mustTest(t, r, value.Date(2010, 1, 1)))
	assert.True(t, mustTest(t, r, value.Date(2010, 1, 2)))
	assert.True(t, mustTest(t, r, value.Date(2013, 12, 30)))
	assert.False(t, mustTest(t, r, value.Date(2013, 12, 31)))
}

func TestRangeIncompatibleType(t *testing.T) {
	r := mustRange(t, value.Int(1), true, value.Int(3), true)
	_, err := r.Test(value.Text("2"))
	assert.True(t, gcerrors.IsCode(err, gcerrors.ErrIncompatibleType))

	_, err = r.Test(value.Date(2001, 1, 1))
	assert.True(t, gcerrors.IsCode(err, gcerrors.ErrIncompatibleType))
}

func TestNewRangeRejectsBadBounds(t *testing.T) {
	_, err := check.NewRange(value.Int(1), true, value.Date(2000, 1, 1), true)
	assert.True(t, gcerrors.IsCode(err, gcerrors.ErrIncompatibleType))

	_, err = check.NewRange(value.Text("a"), true, value.Text("b"), true)
	assert.True(t, gcerrors.IsCode(err, gcerrors.ErrIncompatibleType))
}

func TestSetMember(t *testing.T) {
	s := check.NewSetMember([]value.Value{value.Text("a"), value.Text("befg"), value.Text("c")}, false)
	assert.True(t, mustTest(t, s, value.Text("befg")))
	assert.False(t, mustTest(t, s, value.Text("b")))

	_, err := s.Test(value.Int(1))
	assert.True(t, gcerrors.IsCode(err, gcerrors.ErrTypeMismatch))
}

func TestSetMemberMixedKinds(t *testing.T) {
	s := check.NewSetMember([]value.Value{value.Int(1), value.Text("x"), value.Float(0.5)}, true)
	assert.False(t, mustTest(t, s, value.Float(1)))
	assert.False(t, mustTest(t, s, value.Text("x")))
	assert.True(t, mustTest(t, s, value.Int(2)))

	_, err := s.Test(value.Date(2000, 1, 1))
	assert.Error(t, err)
}

func TestNegationIsInvolutive(t *testing.T) {
	r := mustRange(t, value.Int(1), true, value.Int(5), false)
	checks := []check.Check{
		check.NewEqual(value.Int(3), false),
		r,
		check.NewSetMember([]value.Value{value.Int(1), value.Int(3)}, false),
	}
	for _, c := range checks {
		n := check.Not(c)
		assert.True(t, n.Negated())
		assert.Equal(t, c, check.Not(n))
		for i := int64(-1); i <= 6; i++ {
			v := value.Int(i)
			assert.Equal(t, !mustTest(t, c, v), mustTest(t, n, v), "%s on %d", c, i)
		}
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "!abc", check.NewEqual(value.Text("abc"), true).String())
	assert.Equal(t, "{1,2.5,x}", check.NewSetMember([]value.Value{value.Int(1), value.Float(2.5), value.Text("x")}, false).String())
	r := mustRange(t, value.Date(2010, 1, 1), false, value.Date(2013, 12, 31), true)
	assert.Equal(t, "(2010-01-01,2013-12-31]", r.String())
}
