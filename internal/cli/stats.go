package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	fgio "github.com/matzehuels/floorgraph/pkg/io"
)

func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "stats FILE",
		Short:             "Summarize a graph document",
		Long:              `Print node and edge counts, nodes per type and the identifier the next node of each type would get.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runStats(ctx context.Context, path string) error {
	g, rep, err := fgio.ImportJSON(ctx, path)
	if err != nil {
		return err
	}
	printIssues(rep)
	printStats(os.Stdout, filepath.Base(path), g.Stats())
	return nil
}
