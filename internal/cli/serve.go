package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/hackerstories/internal/server"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one session over HTTP",
		Long: `Start one long-lived session and expose it over HTTP.

The session's single fetch starts in the background; until it settles
GET /stories reports is_loading=true.

Routes:
  GET    /stories       visible stories and fetch status
  DELETE /stories/:id   remove a story
  GET    /query         current query
  PUT    /query         {"query": "..."} set and persist the query
  GET    /healthz       liveness

Example:
  hackerstories serve --addr :8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default :8080)")
	bindConfigFlag(cmd.Flags(), "addr", "serve.addr")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	// Use command's context if available (for testing), otherwise create one
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return opts.withBackend(ctx, func(b *backend) error {
		sess, err := opts.newSession(b)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create session", err)
		}
		srv := server.New(sess, opts.Logger)
		eng := sess.Engine()

		g, gCtx := errgroup.WithContext(ctx)

		g.Go(func() error {
			err := eng.Run(gCtx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		})

		g.Go(func() error {
			// A failed fetch is served as the failure status, not a
			// server error.
			if err := sess.Start(gCtx); err != nil {
				opts.Logger.Warn("session fetch failed", "session", eng.Session(), "error", err)
			}
			return nil
		})

		g.Go(func() error {
			return srv.Start(opts.Config.Serve.Addr)
		})

		g.Go(func() error {
			<-gCtx.Done()
			opts.Logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			return WrapExitError(ExitCommandError, "server error", err)
		}
		opts.Logger.Info("server stopped gracefully")
		return nil
	})
}
