package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/hackerstories/internal/config"
	"github.com/roach88/hackerstories/internal/engine"
	"github.com/roach88/hackerstories/internal/fetch"
)

// RootOptions holds global flags for all commands and what they resolve to.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// Config is loaded before any subcommand runs.
	Config *config.Config
	Logger *slog.Logger

	// Fetcher overrides the HTTP fetcher (for testing).
	Fetcher fetch.Fetcher

	// Tokens overrides the session token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens engine.TokenGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// configKeyAnnotation marks a flag as an override of a config key.
const configKeyAnnotation = "hackerstories/config-key"

// NewRootCommand creates the root command for the hackerstories CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hackerstories",
		Short: "Browse Hacker News stories",
		Long: `hackerstories fetches stories from the Hacker News search API,
filters them by a persisted search query and lets you dismiss stories.

Configuration is read from .hackerstories.yaml, HACKERSTORIES_* environment
variables (a .env file is honoured) and command line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			slog.SetDefault(opts.Logger)

			v := config.New(opts.ConfigFile)
			if err := bindFlags(v, cmd); err != nil {
				return WrapExitError(ExitCommandError, "failed to bind flags", err)
			}
			cfg, err := config.Load(v)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = cfg
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default is .hackerstories.yaml)")

	cmd.PersistentFlags().String("backend", "", "persistence backend (sqlite|redis|memory)")
	cmd.PersistentFlags().String("db", "", "path to the SQLite database")
	cmd.PersistentFlags().String("redis", "", "Redis address for the redis backend")
	bindConfigFlag(cmd.PersistentFlags(), "backend", "persist.backend")
	bindConfigFlag(cmd.PersistentFlags(), "db", "persist.sqlite_path")
	bindConfigFlag(cmd.PersistentFlags(), "redis", "persist.redis_addr")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// newLogger builds the process logger: text to w, debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// bindConfigFlag makes flag an override of the config key.
func bindConfigFlag(flags *pflag.FlagSet, flag, key string) {
	_ = flags.SetAnnotation(flag, configKeyAnnotation, []string{key})
}

// bindFlags binds every annotated flag of cmd (its own and inherited) to
// its config key. Only flags set on the command line take effect.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if err != nil || len(keys) != 1 {
			return
		}
		err = v.BindPFlag(keys[0], f)
	})
	return err
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
