// Package config loads floorgraph settings from a TOML file.
//
// Every setting has a default, so the file is optional and may set any
// subset of keys:
//
//	[view]
//	min_zoom = 0.1
//	max_zoom = 5.0
//	zoom_step_in = 1.1
//	zoom_step_out = 0.9
//
//	[nodes]
//	room_radius = 8
//	corridor_radius = 4
//	transition_radius = 9
//	tolerance = 5
//	default_floor = "Ground_Floor"
//
//	[edges]
//	threshold = 10
//	width = 2
//
//	[server]
//	addr = ":8080"
//	watch = false
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/floorgraph/pkg/errors"
	"github.com/matzehuels/floorgraph/pkg/floorplan"
	"github.com/matzehuels/floorgraph/pkg/spatial"
	"github.com/matzehuels/floorgraph/pkg/view"
)

// FileName is the config file looked up in the working directory.
const FileName = "floorgraph.toml"

// Config holds all settings.
type Config struct {
	View   ViewConfig   `toml:"view"`
	Nodes  NodeConfig   `toml:"nodes"`
	Edges  EdgeConfig   `toml:"edges"`
	Server ServerConfig `toml:"server"`
}

// ViewConfig bounds zoom and sets the wheel steps.
type ViewConfig struct {
	MinZoom     float64 `toml:"min_zoom" validate:"gt=0"`
	MaxZoom     float64 `toml:"max_zoom" validate:"gtfield=MinZoom"`
	ZoomStepIn  float64 `toml:"zoom_step_in" validate:"gt=1"`
	ZoomStepOut float64 `toml:"zoom_step_out" validate:"gt=0,lt=1"`
}

// NodeConfig sets node radii and hit tolerance in view pixels, and the
// floor given to new rooms.
type NodeConfig struct {
	RoomRadius       float64 `toml:"room_radius" validate:"gt=0"`
	CorridorRadius   float64 `toml:"corridor_radius" validate:"gt=0"`
	TransitionRadius float64 `toml:"transition_radius" validate:"gt=0"`
	Tolerance        float64 `toml:"tolerance" validate:"gte=0"`
	DefaultFloor     string  `toml:"default_floor" validate:"required"`
}

// EdgeConfig sets the edge hit threshold and drawn width.
type EdgeConfig struct {
	Threshold float64 `toml:"threshold" validate:"gt=0"`
	Width     float64 `toml:"width" validate:"gt=0"`
}

// ServerConfig configures `floorgraph serve`.
type ServerConfig struct {
	Addr  string `toml:"addr" validate:"required,hostname_port"`
	Watch bool   `toml:"watch"`
}

// Default returns the built-in settings.
func Default() Config {
	limits := view.DefaultLimits()
	return Config{
		View: ViewConfig{
			MinZoom:     limits.MinZoom,
			MaxZoom:     limits.MaxZoom,
			ZoomStepIn:  limits.StepIn,
			ZoomStepOut: limits.StepOut,
		},
		Nodes: NodeConfig{
			RoomRadius:       spatial.DefaultRoomRadius,
			CorridorRadius:   spatial.DefaultCorridorRadius,
			TransitionRadius: spatial.DefaultTransitionRadius,
			Tolerance:        spatial.DefaultTolerance,
			DefaultFloor:     floorplan.DefaultFloor,
		},
		Edges: EdgeConfig{
			Threshold: spatial.DefaultEdgeThreshold,
			Width:     2,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errs.Wrap(errs.ErrCodeIO, err, "config %s", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Find returns the config file to use when none was given: FileName in the
// working directory, then floorgraph/config.toml under the user config
// directory. It returns "" when neither exists.
func Find() string {
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "floorgraph", "config.toml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// Validate checks every section against its constraints.
func (c Config) Validate() error {
	if err := errs.ValidateStruct(c); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid settings")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Limits returns the zoom limits for view.State.
func (c Config) Limits() view.Limits {
	return view.Limits{
		MinZoom: c.View.MinZoom,
		MaxZoom: c.View.MaxZoom,
		StepIn:  c.View.ZoomStepIn,
		StepOut: c.View.ZoomStepOut,
	}
}

// Radii returns the node radii.
func (c Config) Radii() spatial.Radii {
	return spatial.Radii{
		Room:       c.Nodes.RoomRadius,
		Corridor:   c.Nodes.CorridorRadius,
		Transition: c.Nodes.TransitionRadius,
	}
}

// Engine returns a hit-test engine configured from c.
func (c Config) Engine() *spatial.Engine {
	return spatial.New(
		spatial.WithRadii(c.Radii()),
		spatial.WithTolerance(c.Nodes.Tolerance),
		spatial.WithEdgeThreshold(c.Edges.Threshold),
	)
}
