package cli

import (
	"context"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/floorgraph/pkg/errors"
	"github.com/matzehuels/floorgraph/pkg/floorplan"
	fgio "github.com/matzehuels/floorgraph/pkg/io"
	"github.com/matzehuels/floorgraph/pkg/server"
)

type serveOpts struct {
	addr  string
	watch bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve a graph over HTTP",
		Long: `Serve the graph in FILE through a JSON API until interrupted.

A missing FILE starts an empty graph; POST /api/v1/save creates it. With
--watch the graph is reloaded whenever FILE changes on disk.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				opts.addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("watch") {
				opts.watch = c.Config.Server.Watch
			}
			return c.runServe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from settings, :8080)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload when FILE changes")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, path string, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	g, rep, err := fgio.ImportJSON(ctx, path)
	switch {
	case errs.Is(err, errs.ErrCodeFileNotFound):
		logger.Warn("file does not exist yet, starting empty", "file", path)
		g = floorplan.New()
	case err != nil:
		return err
	default:
		printIssues(rep)
	}

	srv := server.New(g, path,
		server.WithLogger(logger),
		server.WithEngine(c.Config.Engine()),
		server.WithLimits(c.Config.Limits()),
		server.WithDefaultFloor(c.Config.Nodes.DefaultFloor),
		server.WithAddr(opts.addr),
		server.WithWatch(opts.watch),
	)
	printInfo("Serving %s (%s) on %s", path, statsLine(g), opts.addr)
	return srv.Run(ctx)
}
