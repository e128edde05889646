package cliopt

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gotcount/gotcount/gotcount"
	"github.com/gotcount/gotcount/gotcount/query"
	"github.com/gotcount/gotcount/internal/log"
)

// GlobalOptions are resolved once at the CLI root from flags, GOTCOUNT_*
// environment variables and the config file, and passed to subcommands.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command and per-command code.
type GlobalOptions struct {
	Home      string
	LogLevel  string
	LogFormat string

	Backend    string // sqlite, sqlite3 or postgres
	DSN        string // sqlite file path or postgres DSN
	SchemaName string // postgres schema

	Strict      bool // reject duplicate dimensions
	StrictDates bool
}

// Config keys, also the flag names with '-' for '_'.
const (
	KeyHome        = "home"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyBackend     = "backend"
	KeyDSN         = "dsn"
	KeySchemaName  = "schema_name"
	KeyStrict      = "strict"
	KeyStrictDates = "strict_dates"
)

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		Home:      ".",
		LogLevel:  log.LogLevelInfo,
		LogFormat: log.LogFormatPlain,
		Backend:   "sqlite",
	}
}

// FlagName is the command line spelling of a config key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func BindGlobalFlags(fs *pflag.FlagSet, g GlobalOptions) {
	fs.String(FlagName(KeyHome), g.Home, "directory holding config.{yaml,toml,json}")
	fs.String(FlagName(KeyLogLevel), g.LogLevel, "log level: debug|info|error")
	fs.String(FlagName(KeyLogFormat), g.LogFormat, "log format: plain|json")

	fs.String(FlagName(KeyBackend), g.Backend, "record source: sqlite|sqlite3|postgres")
	fs.String(FlagName(KeyDSN), g.DSN, "sqlite database file or postgres DSN")
	fs.String(FlagName(KeySchemaName), g.SchemaName, "postgres schema to read tables from")

	fs.Bool(FlagName(KeyStrict), g.Strict, "reject queries naming a dimension twice")
	fs.Bool(FlagName(KeyStrictDates), g.StrictDates, "reject impossible dates such as 2005-02-29")
}

// Load reads the resolved options out of v.
func Load(v *viper.Viper) GlobalOptions {
	return GlobalOptions{
		Home:        v.GetString(KeyHome),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   v.GetString(KeyLogFormat),
		Backend:     v.GetString(KeyBackend),
		DSN:         v.GetString(KeyDSN),
		SchemaName:  v.GetString(KeySchemaName),
		Strict:      v.GetBool(KeyStrict),
		StrictDates: v.GetBool(KeyStrictDates),
	}
}

func (g GlobalOptions) ParseOptions() gotcount.ParseOptions {
	return gotcount.ParseOptions{RejectDuplicates: g.Strict, StrictDates: g.StrictDates}
}

// QueryOptions are the options for parsing a bare literal.
func (g GlobalOptions) QueryOptions() query.Options {
	return query.Options{StrictDates: g.StrictDates}
}
