package gotcount_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotcount/gotcount/gotcount"
	"github.com/gotcount/gotcount/gotcount/query"
	"github.com/gotcount/gotcount/gotcount/value"
)

func mustParse(t *testing.T, text string) *gotcount.Filter {
	t.Helper()
	f, err := gotcount.ParseQuery(text)
	require.NoError(t, err, "ParseQuery(%q)", text)
	return f
}

func mustTest(t *testing.T, f *gotcount.Filter, name string, v value.Value) bool {
	t.Helper()
	ok, err := f.Test(name, v)
	require.NoError(t, err, "%s.Test(%s)", name, v)
	return ok
}

func TestSingleNumber(t *testing.T) {
	f := mustParse(t, "d:123")
	assert.Equal(t, []string{"d"}, f.Dimensions())
	assert.True(t, mustTest(t, f, "d", value.Int(123)))
	assert.False(t, mustTest(t, f, "d", value.Int(12)))
}

func TestNegatedScalars(t *testing.T) {
	f := mustParse(t, "d0:!0;d1:!abc")
	assert.Equal(t, []string{"d0", "d1"}, f.Dimensions())
	assert.False(t, mustTest(t, f, "d0", value.Int(0)))
	assert.True(t, mustTest(t, f, "d0", value.Int(1)))
	assert.True(t, mustTest(t, f, "d1", value.Text("ab")))
	assert.False(t, mustTest(t, f, "d1", value.Text("abc")))
}

func TestHalfOpenRange(t *testing.T) {
	f := mustParse(t, "d0:[1,5)")
	assert.True(t, mustTest(t, f, "d0", value.Int(1)))
	assert.True(t, mustTest(t, f, "d0", value.Int(4)))
	assert.False(t, mustTest(t, f, "d0", value.Int(5)))
	assert.False(t, mustTest(t, f, "d0", value.Int(0)))
}

func TestSetMembership(t *testing.T) {
	f := mustParse(t, "d0:{a,befg,c,d}")
	for _, s := range []string{"a", "befg", "c", "d"} {
		assert.True(t, mustTest(t, f, "d0", value.Text(s)), s)
	}
	for _, s := range []string{"b", "e"} {
		assert.False(t, mustTest(t, f, "d0", value.Text(s)), s)
	}
}

func TestEscapedMetacharacters(t *testing.T) {
	f := mustParse(t, `d0:ab\:cd;d1:a\(b\)c`)
	assert.True(t, mustTest(t, f, "d0", value.Text("ab:cd")))
	assert.True(t, mustTest(t, f, "d1", value.Text("a(b)c")))
}

func TestDuplicateLastWins(t *testing.T) {
	f := mustParse(t, "d:1;d:2")
	assert.Equal(t, 1, f.Len())
	assert.True(t, mustTest(t, f, "d", value.Int(2)))
	assert.False(t, mustTest(t, f, "d", value.Int(1)))
}

func TestDuplicateRejected(t *testing.T) {
	_, err := gotcount.ParseQueryWithOptions("d:1;e:3;d:2", gotcount.ParseOptions{RejectDuplicates: true})
	require.Error(t, err)
	assert.True(t, gotcount.IsCode(err, gotcount.ErrDuplicate))
	assert.Equal(t, 8, gotcount.PosOf(err))
}

func TestTextAgainstNumberFails(t *testing.T) {
	f := mustParse(t, "d:4")
	_, err := f.Test("d", value.Text("4"))
	require.Error(t, err)
	assert.True(t, gotcount.IsCode(err, gotcount.ErrTypeMismatch))

	var e *gotcount.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "d", e.Name)
}

func TestRangeAgainstTextFails(t *testing.T) {
	f := mustParse(t, "d:[1,3]")
	_, err := f.Test("d", value.Text("2"))
	assert.True(t, gotcount.IsCode(err, gotcount.ErrIncompatibleType))
}

func TestGetUnknownDimension(t *testing.T) {
	f := mustParse(t, "d:1")
	_, err := f.Get("e")
	assert.True(t, gotcount.IsCode(err, gotcount.ErrNotFound))
	_, err = f.Test("e", value.Int(1))
	assert.True(t, gotcount.IsCode(err, gotcount.ErrNotFound))
}

func TestEmptyQuery(t *testing.T) {
	f := mustParse(t, "")
	assert.Equal(t, 0, f.Len())
	assert.Empty(t, f.Dimensions())
	assert.Equal(t, "", f.String())
}

func TestParseErrorRejectsWholeQuery(t *testing.T) {
	f, err := gotcount.ParseQuery("a:1;b?c:2")
	require.Error(t, err)
	assert.Nil(t, f)
	assert.True(t, gotcount.IsCode(err, gotcount.ErrQueryParse))
	assert.Equal(t, 5, gotcount.PosOf(err))
}

func TestNumberRoundTrip(t *testing.T) {
	for _, lit := range []string{"0", "-7", "123456789", "0.1", "5.0", "-12.250", "3.14159"} {
		v, err := query.ParseLiteral(lit)
		require.NoError(t, err, lit)
		again, err := query.ParseLiteral(v.String())
		require.NoError(t, err, v.String())
		assert.Equal(t, v.Kind(), again.Kind(), lit)
		assert.True(t, value.Equal(v, again), lit)

		wantKind := value.KindInteger
		if strings.Contains(lit, ".") {
			wantKind = value.KindFloat
		}
		assert.Equal(t, wantKind, v.Kind(), lit)
	}
}

func TestParseQueryRejectsDatesPastYear9999(t *testing.T) {
	_, err := gotcount.ParseQuery("d:9999-12-32")
	require.Error(t, err)
	assert.True(t, gotcount.IsCode(err, gotcount.ErrQueryParse))
	assert.Equal(t, 2, gotcount.PosOf(err))
}

func TestStringRoundTrip(t *testing.T) {
	queries := []string{
		"age:[18,65);city:{Berlin,Paris}",
		`d0:ab\:cd;d1:!a\(b\)c`,
		"born:(2010-01-01,2013-12-31];opens:{08:00,12:00:30}",
		"n:!{1,2.5,3}",
		"x:",
		"d:9999-12-31;e:2005-02-29",
	}
	for _, q := range queries {
		f := mustParse(t, q)
		again := mustParse(t, f.String())
		assert.Equal(t, f.String(), again.String(), q)
		for _, name := range f.Dimensions() {
			a, _ := f.Get(name)
			b, err := again.Get(name)
			require.NoError(t, err)
			assert.Equal(t, a, b, "%s in %q", name, q)
		}
	}
}

func TestMatchRecord(t *testing.T) {
	f := mustParse(t, "age:[18,65);city:{Berlin,Paris}")
	cases := []struct {
		rec  gotcount.Record
		want bool
	}{
		{gotcount.Record{"age": value.Int(30), "city": value.Text("Paris")}, true},
		{gotcount.Record{"age": value.Float(64.5), "city": value.Text("Berlin"), "extra": value.Int(1)}, true},
		{gotcount.Record{"age": value.Int(65), "city": value.Text("Paris")}, false},
		{gotcount.Record{"age": value.Int(30), "city": value.Text("Rome")}, false},
		{gotcount.Record{"age": value.Int(30)}, false},
	}
	for i, c := range cases {
		ok, err := f.Match(c.rec)
		require.NoError(t, err, "case %d", i)
		assert.Equal(t, c.want, ok, "case %d: %s", i, c.rec)
	}

	_, err := f.Match(gotcount.Record{"age": value.Text("old"), "city": value.Text("Paris")})
	assert.True(t, gotcount.IsCode(err, gotcount.ErrIncompatibleType))
}

func TestConcurrentParseAndTest(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, err := gotcount.ParseQuery(fmt.Sprintf("d%d:[0,%d]", i, i))
			if err != nil {
				errs <- err
				return
			}
			if f.Len() != 1 {
				errs <- fmt.Errorf("filter %d has %d dimensions", i, f.Len())
				return
			}
			ok, err := f.Test(fmt.Sprintf("d%d", i), value.Int(int64(i)))
			if err != nil || !ok {
				errs <- fmt.Errorf("filter %d: ok=%v err=%v", i, ok, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
