package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes layout, rendering and board clouds over HTTP.

Routes:
  GET  /healthz
  POST /api/v1/layout
  POST /api/v1/render?format=svg|png|json
  GET  /api/v1/boards/{id}/cloud
  POST /api/v1/boards/{id}/submissions

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  wordcloud serve
  wordcloud serve --addr 127.0.0.1:9000 --config prod.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newSourceRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	cfg := c.Config
	srv := server.New(runner, c.Logger, server.Options{
		Measurer:        cfg.Layout.Measurer,
		Limit:           cfg.Layout.Limit,
		AutoApprove:     cfg.AutoApprove(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	printInfo("Listening on %s", StyleLink.Render(displayURL(addr)))
	printDetail("Source: %s · Cache: %s · Moderation: %s", cfg.Source.Backend, cfg.Cache.Backend, cfg.Source.Moderation)

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	printSuccess("Server stopped")
	return nil
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
