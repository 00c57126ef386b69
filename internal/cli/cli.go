// Package cli implements the floorgraph command-line interface.
//
// # Commands
//
//   - stats: summarize a graph document
//   - convert: rewrite a document in the canonical schema
//   - render: draw the graph as an overlay SVG, DOT or a Graphviz diagram
//   - query: hit-test a view point the way the editor does
//   - serve: expose a graph over HTTP
//   - browse: list, delete and save nodes in the terminal
//   - config: show or create the settings file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context and is also registered as the
// observability hook for load, save, edit and HTTP events.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgraph/pkg/buildinfo"
	"github.com/matzehuels/floorgraph/pkg/config"
)

// appName is the application name used for files and display.
const appName = "floorgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a CLI logging to w at level, with default settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Floorgraph edits navigation graphs drawn over floor plans",
		Long: `Floorgraph manages the annotation graph of a floor plan: rooms, doors,
corridors and transitions placed in image coordinates and linked by
undirected edges. It converts, renders, queries and serves graph documents.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default ./"+config.FileName+" if present)")

	root.AddCommand(c.statsCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads settings, registers the logging hooks and attaches the logger
// to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	path := c.configPath
	if path == "" {
		path = config.Find()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded settings", "path", path)
	}

	registerHooks(c.Logger)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
