package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	fgio "github.com/matzehuels/floorgraph/pkg/io"
)

func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Rewrite a graph document in the canonical schema",
		Long: `Read a document in either schema (positions as [x, y] or as x/y keys,
edges as objects or pairs) and write it back with array positions and
source/target edges. Entries that cannot be loaded are reported and dropped.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: overwrite FILE)`)
	return cmd
}

func (c *CLI) runConvert(ctx context.Context, input, output string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, rep, err := fgio.ImportJSON(ctx, input)
	if err != nil {
		return err
	}
	printIssues(rep)

	if output == "" {
		output = input
	}
	if output == "-" {
		return fgio.WriteJSON(g, os.Stdout)
	}
	if err := fgio.ExportJSON(ctx, g, output); err != nil {
		return fmt.Errorf("convert %s: %w", input, err)
	}

	prog.done("Converted " + input)
	printSuccess("Wrote %s", statsLine(g))
	printFile(output)
	printNextStep("Render it", fmt.Sprintf("%s render %s", appName, output))
	return nil
}
