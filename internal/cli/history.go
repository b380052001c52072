package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/hackerstories/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Session string
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Session     string             `json:"session,omitempty"`
	Sessions    []string           `json:"sessions,omitempty"`
	Transitions []store.Transition `json:"transitions,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the transition log",
		Long: `Show the transitions recorded in the SQLite log.

Without --session, lists the recorded sessions, most recent first.
With --session, lists that session's transitions in the order they were
applied.

Examples:
  hackerstories history
  hackerstories history --session 0192f3c4-...
  hackerstories history --session 0192f3c4-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Session, "session", "", "session token to show")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	out := opts.formatter(cmd)

	return opts.withBackend(ctx, func(b *backend) error {
		if b.log == nil {
			return NewExitError(ExitCommandError, "history requires the sqlite backend")
		}

		if opts.Session == "" {
			sessions, err := b.log.Sessions(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read sessions", err)
			}
			if out.Format == "json" {
				return out.Success(HistoryResult{Sessions: sessions})
			}
			if len(sessions) == 0 {
				out.Notice("No sessions recorded.")
				return nil
			}
			rows := make([][]string, len(sessions))
			for i, s := range sessions {
				rows[i] = []string{s}
			}
			out.Table([]string{"session"}, rows)
			return nil
		}

		transitions, err := b.log.ReadTransitions(ctx, opts.Session)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read transitions", err)
		}
		if out.Format == "json" {
			return out.Success(HistoryResult{Session: opts.Session, Transitions: transitions})
		}
		if len(transitions) == 0 {
			out.Notice("No transitions recorded for session %s.", opts.Session)
			return nil
		}

		rows := make([][]string, len(transitions))
		for i, t := range transitions {
			rows[i] = []string{
				strconv.FormatInt(t.Seq, 10),
				t.Kind,
				t.RecordID,
				t.Status,
				strconv.Itoa(t.RecordCount),
			}
		}
		out.Table([]string{"seq", "kind", "record", "status", "records"}, rows)
		return nil
	})
}
