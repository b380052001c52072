package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/hackerstories/internal/engine"
	"github.com/roach88/hackerstories/internal/story"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Query    string
	Remove   []string
	Endpoint string
	Strict   bool
}

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Session string         `json:"session"`
	Status  string         `json:"status"`
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Stories []story.Record `json:"stories"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch stories and show those matching the query",
		Long: `Run one session: fetch the stories once, apply removals and print
the stories whose title contains the search query (case-insensitive).

The query is the persisted one unless --query is given, in which case the
new query is also saved for later runs.

Exit codes:
  0 - Stories listed
  1 - The fetch failed
  2 - Command error (bad config, backend unavailable)

Examples:
  hackerstories list
  hackerstories list --query redux
  hackerstories list --remove 0 --remove 1
  hackerstories list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "set and persist the search query")
	cmd.Flags().StringArrayVar(&opts.Remove, "remove", nil, "remove the story with this id (repeatable)")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "search URL to fetch")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject payloads with malformed records")
	bindConfigFlag(cmd.Flags(), "endpoint", "endpoint")
	bindConfigFlag(cmd.Flags(), "strict", "fetch.strict")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	out := opts.formatter(cmd)

	return opts.withBackend(ctx, func(b *backend) error {
		sess, err := opts.newSession(b)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create session", err)
		}

		if cmd.Flags().Changed("query") {
			if err := sess.SetQuery(ctx, opts.Query); err != nil {
				out.VerboseLog("query not saved: %v", err)
			}
		}

		if err := sess.Start(ctx); err != nil {
			_ = out.Error(CodeFetchFailed, "Something went wrong while fetching stories", err.Error())
			return WrapExitError(ExitFailure, "fetch failed", err)
		}

		for _, id := range opts.Remove {
			if _, err := sess.Remove(ctx, id); err != nil {
				return WrapExitError(ExitCommandError, "failed to remove story", err)
			}
		}

		return renderView(out, sess.Engine().Session(), sess.View())
	})
}

func renderView(out *OutputFormatter, session string, view engine.View) error {
	if out.Format == "json" {
		return out.Success(ListResult{
			Session: session,
			Status:  view.State.Status.String(),
			Query:   view.Query,
			Total:   view.State.Len(),
			Stories: view.Visible,
		})
	}

	if len(view.Visible) == 0 {
		out.Notice("No stories match %q (%d fetched).", view.Query, view.State.Len())
		return nil
	}

	rows := make([][]string, len(view.Visible))
	for i, r := range view.Visible {
		rows[i] = []string{
			r.ID,
			r.Title,
			r.Author,
			strconv.Itoa(r.CommentCount),
			strconv.Itoa(r.Points),
			r.URL,
		}
	}
	out.Table([]string{"id", "title", "author", "comments", "points", "url"}, rows)
	out.Notice("%d of %d stories match %q", len(view.Visible), view.State.Len(), view.Query)
	return nil
}
