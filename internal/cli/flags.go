package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/floorgraph/pkg/view"
)

// parseSize parses "WxH" (for example "1920x1080"). An empty string is the
// empty size.
func parseSize(s string) (view.Size, error) {
	if s == "" {
		return view.Size{}, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return view.Size{}, fmt.Errorf("invalid size %q (want WxH)", s)
	}
	width, err1 := strconv.ParseFloat(strings.TrimSpace(w), 64)
	height, err2 := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err1 != nil || err2 != nil || width < 0 || height < 0 {
		return view.Size{}, fmt.Errorf("invalid size %q (want WxH)", s)
	}
	return view.Size{W: width, H: height}, nil
}

// parsePoint parses "X,Y". An empty string is the origin.
func parsePoint(s string) (view.Point, error) {
	if s == "" {
		return view.Point{}, nil
	}
	x, y, ok := strings.Cut(s, ",")
	if !ok {
		return view.Point{}, fmt.Errorf("invalid point %q (want X,Y)", s)
	}
	px, err1 := strconv.ParseFloat(strings.TrimSpace(x), 64)
	py, err2 := strconv.ParseFloat(strings.TrimSpace(y), 64)
	if err1 != nil || err2 != nil {
		return view.Point{}, fmt.Errorf("invalid point %q (want X,Y)", s)
	}
	return view.Pt(px, py), nil
}

// derivePath returns output, or input with its extension replaced by
// suffix+ext when output is empty.
func derivePath(output, input, suffix, ext string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix + "." + ext
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing; "-" is stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
