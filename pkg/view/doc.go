// Package view maps between image space and view space.
//
// Image space is the pixel grid of the unscaled floor-plan image; node
// positions are stored there. View space is the drawing surface after the
// image has been fitted to the canvas, scaled by the user's zoom and moved by
// the pan offset:
//
//	view  = image*scale + offset
//	image = (view - offset) / scale
//
// A [Transform] is a value computed by [Fit] from the canvas size, the image
// size, the zoom level and the pan offset. It must be recomputed after any of
// those change. [State] holds zoom and pan for an interactive session and
// clamps zoom to its [Limits].
package view
