package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	gcerrors "github.com/gotcount/gotcount/gotcount/errors"
	"github.com/gotcount/gotcount/gotcount/value"
)

// scanner is a cursor into the query text. Every scan method either
// consumes a literal and reports true, or reports false; callers restore
// pos before trying the next alternative.
//
// The grammar is ASCII; positions are byte offsets.
type scanner struct {
	input string
	pos   int

	// inList makes a space count as a value boundary, so "{a , b}" reads
	// two values.
	inList bool
	strict bool

	// furthest failure seen so far, for error reporting
	failPos  int
	expected []string

	// err is a hard failure that stops all backtracking
	err error
}

func newScanner(input string, strict bool) scanner {
	return scanner{input: input, strict: strict, failPos: -1}
}

func (s *scanner) eof() bool { return s.pos >= len(s.input) }

func (s *scanner) peek() byte {
	if s.pos < len(s.input) {
		return s.input[s.pos]
	}
	return 0
}

func (s *scanner) peekAt(offset int) byte {
	if p := s.pos + offset; p < len(s.input) {
		return s.input[p]
	}
	return 0
}

// accept consumes c if it is next.
func (s *scanner) accept(c byte) bool {
	if s.pos < len(s.input) && s.input[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

// expect consumes c or records it as expected at the current position.
func (s *scanner) expect(c byte, label string) bool {
	if s.accept(c) {
		return true
	}
	s.fail(label)
	return false
}

func (s *scanner) skipSpaces() {
	for s.peek() == ' ' {
		s.pos++
	}
}

// fail records that label was expected at the current position.
func (s *scanner) fail(label string) {
	switch {
	case s.pos > s.failPos:
		s.failPos = s.pos
		s.expected = []string{label}
	case s.pos == s.failPos:
		for _, e := range s.expected {
			if e == label {
				return
			}
		}
		s.expected = append(s.expected, label)
	}
}

// parseError describes the furthest failure.
func (s *scanner) parseError() error {
	if s.err != nil {
		return s.err
	}
	pos := s.failPos
	if pos < 0 {
		pos = s.pos
	}
	found := "end of input"
	if pos < len(s.input) {
		found = strconv.QuoteRune(rune(s.input[pos]))
	}
	exp := append([]string(nil), s.expected...)
	sort.Strings(exp)
	msg := fmt.Sprintf("unexpected %s", found)
	if len(exp) > 0 {
		msg = fmt.Sprintf("%s, expected %s", msg, strings.Join(exp, " or "))
	}
	return gcerrors.ParseError(pos, msg)
}

func (s *scanner) hardError(pos int, msg string) {
	if s.err == nil {
		s.err = gcerrors.ParseError(pos, msg)
	}
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isMeta(c byte) bool   { return c != 0 && strings.IndexByte(value.Metachars, c) >= 0 }

func isTextChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '.' || c == '+'
}

func isDimensionChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

// atEndOfAtom reports whether the cursor sits on a value boundary.
// It does not consume anything.
func (s *scanner) atEndOfAtom() bool {
	if s.eof() {
		return true
	}
	switch s.peek() {
	case ']', '}', ')', ';', ',':
		return true
	case ' ':
		return s.inList
	}
	return false
}

func (s *scanner) endOfAtom() bool {
	if s.atEndOfAtom() {
		return true
	}
	s.fail("end of value")
	return false
}

// digits consumes exactly n digits and returns their value.
func (s *scanner) digits(n int) (int, bool) {
	v := 0
	for i := 0; i < n; i++ {
		c := s.peek()
		if !isDigit(c) {
			s.fail("digit")
			return 0, false
		}
		v = v*10 + int(c-'0')
		s.pos++
	}
	return v, true
}

// digitRange consumes one digit between lo and hi.
func (s *scanner) digitRange(lo, hi byte) (int, bool) {
	c := s.peek()
	if c < lo || c > hi {
		s.fail("digit")
		return 0, false
	}
	s.pos++
	return int(c - '0'), true
}

// scanTime reads HH:MM or HH:MM:SS with HH in 00-23 and MM, SS in 00-59.
func (s *scanner) scanTime() (value.Value, bool) {
	h, ok := s.hour()
	if !ok || !s.expect(':', "':'") {
		return value.Value{}, false
	}
	m, ok := s.sixty()
	if !ok {
		return value.Value{}, false
	}
	sec := 0
	if s.peek() == ':' && s.peekAt(1) >= '0' && s.peekAt(1) <= '5' && isDigit(s.peekAt(2)) {
		s.pos++
		sec, _ = s.sixty()
	}
	return value.TimeOfDay(h, m, sec), true
}

func (s *scanner) hour() (int, bool) {
	tens := s.peek()
	switch {
	case tens == '0' || tens == '1':
		s.pos++
		u, ok := s.digitRange('0', '9')
		return int(tens-'0')*10 + u, ok
	case tens == '2':
		s.pos++
		u, ok := s.digitRange('0', '3')
		return 20 + u, ok
	default:
		s.fail("hour")
		return 0, false
	}
}

func (s *scanner) sixty() (int, bool) {
	t, ok := s.digitRange('0', '5')
	if !ok {
		return 0, false
	}
	u, ok := s.digitRange('0', '9')
	return t*10 + u, ok
}

// scanDate reads YYYY-MM-DD. Impossible days roll over into the following
// month unless the scanner is strict. A date rolling past year 9999 has no
// YYYY-MM-DD form and is rejected.
func (s *scanner) scanDate() (value.Value, bool) {
	start := s.pos
	y, ok := s.digits(4)
	if !ok || !s.expect('-', "'-'") {
		return value.Value{}, false
	}
	m, ok := s.digits(2)
	if !ok || !s.expect('-', "'-'") {
		return value.Value{}, false
	}
	d, ok := s.digits(2)
	if !ok {
		return value.Value{}, false
	}
	v := value.Date(y, m, d)
	if v.Time().Year() > 9999 {
		s.hardError(start, fmt.Sprintf("date %s is past 9999-12-31", s.input[start:s.pos]))
		return value.Value{}, false
	}
	if s.strict {
		t := v.Time()
		if t.Year() != y || int(t.Month()) != m || t.Day() != d {
			s.hardError(start, fmt.Sprintf("invalid calendar date %s", s.input[start:s.pos]))
			return value.Value{}, false
		}
	}
	return v, true
}

// scanNumber reads an integer or a decimal with digits on both sides of
// the point. The number must end on a value boundary.
func (s *scanner) scanNumber() (value.Value, bool) {
	start := s.pos
	s.accept('-')
	if !s.run(isDigit) {
		s.fail("number")
		return value.Value{}, false
	}
	isFloat := false
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.pos++
		s.run(isDigit)
		isFloat = true
	}
	if !s.endOfAtom() {
		return value.Value{}, false
	}
	lit := s.input[start:s.pos]
	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			s.hardError(start, fmt.Sprintf("invalid number %s", lit))
			return value.Value{}, false
		}
		return value.Float(f), true
	}
	i, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		s.hardError(start, fmt.Sprintf("integer out of range: %s", lit))
		return value.Value{}, false
	}
	return value.Int(i), true
}

// scanText reads a possibly empty run of text characters and escaped
// metacharacters. The text must end on a value boundary.
func (s *scanner) scanText() (value.Value, bool) {
	var sb strings.Builder
	for !s.eof() {
		c := s.peek()
		if isTextChar(c) {
			sb.WriteByte(c)
			s.pos++
			continue
		}
		if c == '\\' && isMeta(s.peekAt(1)) {
			sb.WriteByte(s.peekAt(1))
			s.pos += 2
			continue
		}
		break
	}
	if !s.endOfAtom() {
		return value.Value{}, false
	}
	return value.Text(sb.String()), true
}

// run consumes characters while ok holds and reports whether it consumed any.
func (s *scanner) run(ok func(byte) bool) bool {
	start := s.pos
	for !s.eof() && ok(s.peek()) {
		s.pos++
	}
	return s.pos > start
}

// literal tries Time, Date, Number and Text in that order.
func (s *scanner) literal() (value.Value, bool) {
	return s.firstOf(s.scanTime, s.scanDate, s.scanNumber, s.scanText)
}

// firstOf returns the value of the first scan that matches, PEG style.
func (s *scanner) firstOf(scans ...func() (value.Value, bool)) (value.Value, bool) {
	start := s.pos
	for _, scan := range scans {
		s.pos = start
		if v, ok := scan(); ok {
			return v, true
		}
		if s.err != nil {
			return value.Value{}, false
		}
	}
	s.pos = start
	return value.Value{}, false
}
