package query

import (
	"strings"

	"github.com/gotcount/gotcount/gotcount/check"
	"github.com/gotcount/gotcount/gotcount/value"
)

// Options configures parsing
type Options struct {
	// StrictDates rejects dates such as 2005-02-29 instead of rolling them
	// over into the next month.
	StrictDates bool
}

// Term is one parsed dimension:condition pair
type Term struct {
	Dimension string
	Check     check.Check
	Pos       int // byte offset of the term in the query
}

// Parse parses a ';'-separated query into its terms, in input order.
// An empty query has no terms.
func Parse(input string) ([]Term, error) {
	return ParseWithOptions(input, Options{})
}

// ParseWithOptions is Parse with explicit options.
func ParseWithOptions(input string, opts Options) ([]Term, error) {
	if input == "" {
		return nil, nil
	}
	p := newParser(input, opts)
	terms, ok := p.query()
	if !ok {
		return nil, p.parseError()
	}
	return terms, nil
}

// ParseTerm parses exactly one dimension:condition pair.
func ParseTerm(input string, opts Options) (Term, error) {
	p := newParser(input, opts)
	t, ok := p.term(p.dimension)
	if !ok || !p.finish() {
		return Term{}, p.parseError()
	}
	return t, nil
}

// ParseBucket parses one name:condition pair where the name may also
// contain spaces and escaped metacharacters, e.g. `Bucket\: 1:[0,19]`.
func ParseBucket(input string, opts Options) (Term, error) {
	p := newParser(input, opts)
	t, ok := p.term(p.bucketName)
	if !ok || !p.finish() {
		return Term{}, p.parseError()
	}
	return t, nil
}

// ParseCondition parses a condition without a dimension, e.g. "[1,5)".
func ParseCondition(input string, opts Options) (check.Check, error) {
	p := newParser(input, opts)
	c, ok := p.condition()
	if !ok || !p.finish() {
		return nil, p.parseError()
	}
	return c, nil
}

// ParseLiteral parses a single value using the same priority as the
// query grammar: Time, Date, Number, Text.
func ParseLiteral(input string) (value.Value, error) {
	return ParseLiteralWithOptions(input, Options{})
}

// ParseLiteralWithOptions is ParseLiteral with explicit options.
func ParseLiteralWithOptions(input string, opts Options) (value.Value, error) {
	p := newParser(input, opts)
	v, ok := p.literal()
	if !ok || !p.finish() {
		return value.Value{}, p.parseError()
	}
	return v, nil
}

// parser holds the state of one parse call and is never reused.
type parser struct {
	scanner
}

func newParser(input string, opts Options) *parser {
	return &parser{scanner: newScanner(input, opts.StrictDates)}
}

func (p *parser) finish() bool {
	if p.eof() {
		return true
	}
	p.fail("end of input")
	return false
}

// query := term (';' term)*
func (p *parser) query() ([]Term, bool) {
	var terms []Term
	for {
		t, ok := p.term(p.dimension)
		if !ok {
			return nil, false
		}
		terms = append(terms, t)
		if p.eof() {
			return terms, true
		}
		if !p.expect(';', "';'") {
			p.fail("end of input")
			return nil, false
		}
	}
}

// term := name ':' condition
func (p *parser) term(name func() string) (Term, bool) {
	start := p.pos
	dim := name()
	if !p.expect(':', "':'") {
		return Term{}, false
	}
	c, ok := p.condition()
	if !ok {
		return Term{}, false
	}
	return Term{Dimension: dim, Check: c, Pos: start}, true
}

// dimension := [A-Za-z0-9_-]*
func (p *parser) dimension() string {
	start := p.pos
	p.run(isDimensionChar)
	return p.input[start:p.pos]
}

func (p *parser) bucketName() string {
	var sb strings.Builder
	for !p.eof() {
		c := p.peek()
		switch {
		case isDimensionChar(c) || c == ' ':
			sb.WriteByte(c)
			p.pos++
		case c == '\\' && isMeta(p.peekAt(1)):
			sb.WriteByte(p.peekAt(1))
			p.pos += 2
		default:
			return sb.String()
		}
	}
	return sb.String()
}

// condition := '!'? set | range | '!'? literal
//
// Ranges cannot be negated.
func (p *parser) condition() (check.Check, bool) {
	start := p.pos
	for _, alt := range []func() (check.Check, bool){p.negatable(p.set), p.rangeCheck, p.negatable(p.scalar)} {
		p.pos = start
		c, ok := alt()
		if ok {
			return c, true
		}
		if p.err != nil {
			return nil, false
		}
	}
	return nil, false
}

// negatable accepts an optional '!' before alt.
func (p *parser) negatable(alt func() (check.Check, bool)) func() (check.Check, bool) {
	return func() (check.Check, bool) {
		negate := p.accept('!')
		c, ok := alt()
		if !ok {
			return nil, false
		}
		if negate {
			c = check.Not(c)
		}
		return c, true
	}
}

// set := '{' literal (',' literal)* '}'
func (p *parser) set() (check.Check, bool) {
	if !p.accept('{') {
		return nil, false
	}
	p.inList = true
	defer func() { p.inList = false }()

	var vals []value.Value
	for {
		v, ok := p.literal()
		if !ok {
			return nil, false
		}
		vals = append(vals, v)
		p.skipSpaces()
		if p.accept(',') {
			p.skipSpaces()
			continue
		}
		if !p.expect('}', "'}'") {
			p.fail("','")
			return nil, false
		}
		return check.NewSetMember(vals, false), true
	}
}

// range := ('[' | '(') bound ',' bound (']' | ')'), both bounds dates or
// both numbers
func (p *parser) rangeCheck() (check.Check, bool) {
	var lowInclusive bool
	switch {
	case p.accept('['):
		lowInclusive = true
	case p.accept('('):
	default:
		return nil, false
	}
	p.inList = true
	defer func() { p.inList = false }()

	start := p.pos
	for _, scan := range []func() (value.Value, bool){p.scanDate, p.scanNumber} {
		p.pos = start
		low, high, ok := p.bounds(scan)
		if !ok {
			if p.err != nil {
				return nil, false
			}
			continue
		}
		var highInclusive bool
		switch {
		case p.accept(']'):
			highInclusive = true
		case p.accept(')'):
		default:
			p.fail("']' or ')'")
			continue
		}
		r, err := check.NewRange(low, lowInclusive, high, highInclusive)
		if err != nil {
			p.hardError(start, err.Error())
			return nil, false
		}
		return r, true
	}
	return nil, false
}

func (p *parser) bounds(scan func() (value.Value, bool)) (value.Value, value.Value, bool) {
	low, ok := scan()
	if !ok {
		return value.Value{}, value.Value{}, false
	}
	p.skipSpaces()
	if !p.expect(',', "','") {
		return value.Value{}, value.Value{}, false
	}
	p.skipSpaces()
	high, ok := scan()
	if !ok {
		return value.Value{}, value.Value{}, false
	}
	p.skipSpaces()
	return low, high, true
}

func (p *parser) scalar() (check.Check, bool) {
	v, ok := p.literal()
	if !ok {
		return nil, false
	}
	return check.NewEqual(v, false), true
}
