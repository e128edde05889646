package cli

const rootExampleQuery = "age:[20,65);country:{ch,de};name:!bob"

const rootLong = `gotcount compiles filter queries such as

  ` + rootExampleQuery + `

into checks and runs them against literals, JSON records or database tables.

A query is a ';'-separated list of dimension:condition pairs. A condition
is a literal (equality), a set {a,b,c} or a range [low,high) with inclusive
'[' ']' and exclusive '(' ')' bounds. Both range bounds are dates or both
numbers. A leading '!' negates a literal or a set, never a range. Literals
are read as time (12:30, 12:30:15), date (2012-12-24), number (5, -2.5) or
text, in that order. Escape any of ':()[];!' in text with a backslash.

Global options may also be set in <home>/config.{yaml,toml,json} or with
GOTCOUNT_* environment variables, e.g. GOTCOUNT_LOG_LEVEL=debug.`

const rootExample = `  gotcount parse 'age:[20,65);country:{ch,de}'
  gotcount test 'age:[20,65)' age 42
  gotcount bucket -f ages.yaml 3 42 80
  cat people.jsonl | gotcount match -q 'country:ch'
  gotcount --dsn people.db select -q 'age:[20,65)' -t people -o json
  gotcount --dsn people.db select -q 'country:ch' -t people -b ages.yaml`
