package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// QueryResult is the JSON payload of the query commands.
type QueryResult struct {
	Key       string `json:"key"`
	Query     string `json:"query"`
	Persisted bool   `json:"persisted"`
}

// NewQueryCommand creates the query command group.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read or change the persisted search query",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the persisted query (or the default when none is saved)",
		Args:  cobra.NoArgs,
		Example: `  hackerstories query get
  hackerstories query get --backend redis --redis localhost:6379`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryGet(rootOpts, cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "set <query>",
		Short:         "Persist a new search query",
		Args:          cobra.ExactArgs(1),
		Example:       `  hackerstories query set redux`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuerySet(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runQueryGet(opts *RootOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	out := opts.formatter(cmd)
	key := opts.Config.QueryKey

	return opts.withBackend(ctx, func(b *backend) error {
		q, ok, err := b.queries.Load(ctx, key)
		if err != nil {
			_ = out.Error(CodeBackend, "failed to read query", err.Error())
			return WrapExitError(ExitCommandError, "failed to read query", err)
		}
		if !ok {
			q = opts.Config.DefaultQuery
		}

		if out.Format == "json" {
			return out.Success(QueryResult{Key: key, Query: q, Persisted: ok})
		}
		if err := out.Success(q); err != nil {
			return err
		}
		if !ok {
			out.Notice("(default, nothing saved under %q)", key)
		}
		return nil
	})
}

func runQuerySet(opts *RootOptions, q string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	out := opts.formatter(cmd)
	key := opts.Config.QueryKey

	return opts.withBackend(ctx, func(b *backend) error {
		if err := b.queries.Save(ctx, key, q); err != nil {
			_ = out.Error(CodeBackend, "failed to save query", err.Error())
			return WrapExitError(ExitCommandError, "failed to save query", err)
		}

		if out.Format == "json" {
			return out.Success(QueryResult{Key: key, Query: q, Persisted: true})
		}
		return out.Success("Query saved.")
	})
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
