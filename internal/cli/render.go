package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgraph/pkg/floorplan"
	fgio "github.com/matzehuels/floorgraph/pkg/io"
	"github.com/matzehuels/floorgraph/pkg/render/nodelink"
	"github.com/matzehuels/floorgraph/pkg/render/overlay"
)

const (
	formatSVG      = "svg"      // overlay drawn in image coordinates
	formatDOT      = "dot"      // Graphviz source with pinned positions
	formatNodeLink = "nodelink" // Graphviz-rendered SVG
)

var validFormats = map[string]bool{formatSVG: true, formatDOT: true, formatNodeLink: true}

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output     string
	format     string
	imageSize  string
	background string
	detailed   bool
	noLabels   bool
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Draw a graph as an SVG overlay or a Graphviz diagram",
		Long: `Render the graph in image coordinates.

Formats:
  svg       overlay matching the floor plan image, optionally with the image as background
  dot       Graphviz source with every node pinned to its position
  nodelink  the dot output rendered to SVG by Graphviz`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout (default: derived from FILE)`)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot, nodelink")
	cmd.Flags().StringVar(&opts.imageSize, "image-size", "", "floor plan size WxH (svg; default: fit the graph)")
	cmd.Flags().StringVar(&opts.background, "background", "", "floor plan image to embed behind the overlay (svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add type and floor to labels (dot, nodelink)")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit node labels (svg)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormat)

	return cmd
}

func validateFormat(f string) error {
	if !validFormats[f] {
		return fmt.Errorf("invalid format: %s (must be 'svg', 'dot' or 'nodelink')", f)
	}
	return nil
}

// outputExt returns the file suffix and extension for a format.
func outputExt(format string) (suffix, ext string) {
	switch format {
	case formatDOT:
		return "", "dot"
	case formatNodeLink:
		return "_nodelink", "svg"
	default:
		return "_overlay", "svg"
	}
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	g, rep, err := fgio.ImportJSON(ctx, input)
	if err != nil {
		return err
	}
	printIssues(rep)
	logger.Infof("Loaded %s: %d nodes, %d edges", input, g.NodeCount(), g.EdgeCount())

	data, err := c.renderGraph(ctx, g, opts)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", opts.format, len(data))

	suffix, ext := outputExt(opts.format)
	path := derivePath(opts.output, input, suffix, ext)
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}

	if path != "-" {
		prog.done("Rendered " + path)
		printFile(path)
	}
	return nil
}

// renderGraph dispatches to the renderer for opts.format.
func (c *CLI) renderGraph(ctx context.Context, g *floorplan.Graph, opts renderOpts) ([]byte, error) {
	switch opts.format {
	case formatSVG:
		size, err := parseSize(opts.imageSize)
		if err != nil {
			return nil, err
		}
		return overlay.RenderSVG(g, size, c.overlayOptions(opts)...), nil
	case formatDOT:
		return []byte(nodelink.ToDOT(g, c.dotOptions(opts))), nil
	case formatNodeLink:
		loggerFromContext(ctx).Info("Rendering node-link SVG with Graphviz")
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(g, c.dotOptions(opts)))
	default:
		return nil, fmt.Errorf("unknown format: %s", opts.format)
	}
}

func (c *CLI) overlayOptions(opts renderOpts) []overlay.SVGOption {
	result := []overlay.SVGOption{
		overlay.WithRadii(c.Config.Radii()),
		overlay.WithEdgeWidth(c.Config.Edges.Width),
	}
	if opts.background != "" {
		result = append(result, overlay.WithBackground(strings.TrimSpace(opts.background)))
	}
	if opts.noLabels {
		result = append(result, overlay.WithoutLabels())
	}
	return result
}

func (c *CLI) dotOptions(opts renderOpts) nodelink.Options {
	radii := c.Config.Radii()
	return nodelink.Options{Detailed: opts.detailed, Radii: &radii}
}
