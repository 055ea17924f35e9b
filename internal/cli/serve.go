package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshgrad/internal/server"
	"github.com/matzehuels/meshgrad/pkg/observability"
	"github.com/matzehuels/meshgrad/pkg/session"
)

// sweepInterval is how often expired sessions are removed.
const sweepInterval = time.Minute

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gradient editing HTTP API",
		Long: `Serve starts an HTTP API over in-memory editing sessions. Each session owns
its own gradient and pointer state. Sessions expire after --ttl without
requests and are never written to disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = c.Config.Server.SessionTTL.Duration
			}
			return c.runServe(cmd.Context(), addr, ttl)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "idle time before a session expires (default 2h)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, ttl time.Duration) error {
	logger := loggerFromContext(ctx)
	observability.SetHTTPHooks(&logHooks{logger: logger})

	sessions := session.NewMemoryStore(ttl)
	go sessions.Run(ctx, sweepInterval)

	srv := server.New(server.Config{
		Sessions: sessions,
		Logger:   logger,
		Filename: c.Config.Raster.Filename,
		Seed:     c.Config.Random.Seed,
	})

	printInfo("Serving on %s", addr)
	printDetail("sessions expire after %s idle", ttl)
	return srv.ListenAndServe(ctx, addr)
}
