package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gotcount/gotcount/internal/cli/commands"
	"github.com/gotcount/gotcount/internal/cliopt"
	"github.com/gotcount/gotcount/internal/log"
)

const envPrefix = "GOTCOUNT"

var globalKeys = []string{
	cliopt.KeyHome,
	cliopt.KeyLogLevel,
	cliopt.KeyLogFormat,
	cliopt.KeyBackend,
	cliopt.KeyDSN,
	cliopt.KeySchemaName,
	cliopt.KeyStrict,
	cliopt.KeyStrictDates,
}

// NewRootCmd builds the command tree. Each call gets its own viper
// instance, so commands built for tests do not share state.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	env := &commands.Env{Opts: cliopt.DefaultGlobalOptions(), Logger: log.NewNopLogger()}

	root := &cobra.Command{
		Use:           "gotcount",
		Short:         "Compile and run filter queries",
		Long:          rootLong,
		Example:       rootExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v, cmd); err != nil {
				return err
			}
			env.Opts = cliopt.Load(v)
			logger, err := log.NewLogger(cmd.ErrOrStderr(), env.Opts.LogFormat, env.Opts.LogLevel)
			if err != nil {
				return err
			}
			env.Logger = logger.With("cmd", cmd.Name())
			return nil
		},
	}

	cliopt.BindGlobalFlags(root.PersistentFlags(), cliopt.DefaultGlobalOptions())
	for _, key := range globalKeys {
		if err := v.BindPFlag(key, root.PersistentFlags().Lookup(cliopt.FlagName(key))); err != nil {
			panic(err)
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		commands.NewParseCmd(env),
		commands.NewTestCmd(env),
		commands.NewMatchCmd(env),
		commands.NewBucketCmd(env),
		commands.NewSelectCmd(env),
	)
	return root
}

// loadConfig reads config.{yaml,toml,json} from the home directory. A
// missing file is not an error.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	home := v.GetString(cliopt.KeyHome)
	v.SetConfigName("config")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, "config"))
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	root := NewRootCmd()
	root.SetArgs(argv)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
