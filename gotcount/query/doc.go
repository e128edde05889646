/*
Package query parses the gotcount filter language.

# Syntax

	<query>     := <term> (';' <term>)*
	<term>      := <dimension> ':' <condition>
	<dimension> := [A-Za-z0-9_-]*
	<condition> := '!'? <set> | <range> | '!'? <literal>
	<set>       := '{' <literal> (',' <literal>)* '}'
	<range>     := ('[' | '(') <bound> ',' <bound> (']' | ')')
	<literal>   := <time> | <date> | <number> | <text>

Literals are tried in the order listed and the first match wins, so
"12:46" is a time, "2012-12-24" a date and "10.10.10.10" text:

	time     HH:MM or HH:MM:SS
	date     YYYY-MM-DD, impossible days roll over (2005-02-29 is 2005-03-01)
	number   -?digits, with '.' digits for a float
	text     letters, digits, '.', '+' and '\' followed by one of :()[];!

Numbers and text must end at one of ]});, or the end of input. Inside a
set or range a space also ends a value, and spaces around ',' are
skipped. Both range bounds must be dates or both numbers; '[' and ']'
include the bound, '(' and ')' exclude it. A range cannot be negated.

# Errors

A failed parse returns a query_parse error whose position is the
furthest byte offset any alternative reached.
*/
package query
