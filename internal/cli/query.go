package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorgraph/pkg/floorplan"
	fgio "github.com/matzehuels/floorgraph/pkg/io"
	"github.com/matzehuels/floorgraph/pkg/spatial"
	"github.com/matzehuels/floorgraph/pkg/view"
)

type queryOpts struct {
	canvas    string
	imageSize string
	zoom      float64
	pan       string
	at        string
}

// queryResult is what a click at a view point resolves to. A node hit wins
// over an edge hit, as in the editor's select mode.
type queryResult struct {
	Node  string
	Edge  *floorplan.Edge
	Image view.Point
}

func (c *CLI) queryCommand() *cobra.Command {
	opts := queryOpts{zoom: 1}

	cmd := &cobra.Command{
		Use:   "query FILE --at X,Y",
		Short: "Hit-test a view point against a graph",
		Long: `Resolve a point on the display canvas to the node or edge under it.

The canvas, image size, zoom and pan describe the view the same way the
editor does: the image is fitted into the canvas, scaled by the zoom,
centred, then shifted by the pan. Without an image size the view is the
image itself.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.canvas, "canvas", "", "canvas size WxH")
	cmd.Flags().StringVar(&opts.imageSize, "image-size", "", "floor plan size WxH")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", opts.zoom, "zoom factor (clamped to the configured limits)")
	cmd.Flags().StringVar(&opts.pan, "pan", "", "pan offset X,Y in view pixels")
	cmd.Flags().StringVar(&opts.at, "at", "", "view point X,Y to test")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

// viewTransform builds the transform described by the query flags.
func (c *CLI) viewTransform(opts queryOpts) (view.Transform, error) {
	canvas, err := parseSize(opts.canvas)
	if err != nil {
		return view.Transform{}, err
	}
	image, err := parseSize(opts.imageSize)
	if err != nil {
		return view.Transform{}, err
	}
	pan, err := parsePoint(opts.pan)
	if err != nil {
		return view.Transform{}, err
	}
	return view.Fit(canvas, image, c.Config.Limits().Clamp(opts.zoom), pan), nil
}

func runHitTest(g *floorplan.Graph, engine *spatial.Engine, t view.Transform, p view.Point) queryResult {
	res := queryResult{Image: t.ToImage(p)}
	if id, ok := engine.NodeAt(p, g, t); ok {
		res.Node = id
	} else if e, ok := engine.EdgeAt(p, g, t); ok {
		res.Edge = &e
	}
	return res
}

func (c *CLI) runQuery(ctx context.Context, path string, opts queryOpts) error {
	t, err := c.viewTransform(opts)
	if err != nil {
		return err
	}
	p, err := parsePoint(opts.at)
	if err != nil {
		return err
	}

	g, rep, err := fgio.ImportJSON(ctx, path)
	if err != nil {
		return err
	}
	printIssues(rep)

	res := runHitTest(g, c.Config.Engine(), t, p)
	switch {
	case res.Node != "":
		n, _ := g.Node(res.Node)
		printKeyValue("node", res.Node)
		printKeyValue("type", n.Type())
		printKeyValue("position", view.Pt(n.X, n.Y).String())
	case res.Edge != nil:
		printKeyValue("edge", fmt.Sprintf("%s - %s", res.Edge.Source, res.Edge.Target))
		printKeyValue("class", g.EdgeClass(*res.Edge).String())
	default:
		printInfo("Nothing at %s", p)
	}
	printKeyValue("image", res.Image.String())
	return nil
}
