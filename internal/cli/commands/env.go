package commands

import (
	"github.com/gotcount/gotcount/internal/cliopt"
	"github.com/gotcount/gotcount/internal/log"
)

// Env is filled in by the root command before any subcommand runs.
type Env struct {
	Opts   cliopt.GlobalOptions
	Logger log.Logger
}
