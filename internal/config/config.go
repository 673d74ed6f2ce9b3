// Package config handles renderer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/ascii-donut/internal/raster"
	"github.com/Faultbox/ascii-donut/internal/torus"
	m "github.com/Faultbox/ascii-donut/pkg/math"
)

// Display names accepted by AnimationConfig.Display.
const (
	DisplayTermbox = "termbox"
	DisplayPlain   = "plain"
)

// Config holds all renderer settings.
type Config struct {
	Torus     TorusConfig     `yaml:"torus"`
	Stage     StageConfig     `yaml:"stage"`
	Animation AnimationConfig `yaml:"animation"`
	Export    ExportConfig    `yaml:"export"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TorusConfig holds the torus shape and sampling density.
type TorusConfig struct {
	R1       float64 `yaml:"r1"`        // Tube radius
	R2       float64 `yaml:"r2"`        // Revolution radius
	NumTheta int     `yaml:"num_theta"` // Samples around the tube
	NumPhi   int     `yaml:"num_phi"`   // Samples around the revolution axis
}

// StageConfig holds projection, lighting and rasterization settings.
type StageConfig struct {
	Light     [3]float64 `yaml:"light"`
	F         float64    `yaml:"f"` // Observer distance
	D         float64    `yaml:"d"` // Projection plane distance
	NumPixels int        `yaml:"num_pixels"`
	Palette   string     `yaml:"palette"`
	Clip      string     `yaml:"clip"` // clamp or discard
	Workers   int        `yaml:"workers"`
}

// AnimationConfig holds the terminal loop settings.
type AnimationConfig struct {
	InitialX   float64       `yaml:"initial_x"` // Rotation around X applied once before the loop
	DeltaX     float64       `yaml:"delta_x"`
	DeltaY     float64       `yaml:"delta_y"`
	FrameDelay time.Duration `yaml:"frame_delay"`
	MaxFrames  int           `yaml:"max_frames"` // 0 runs until interrupted
	Display    string        `yaml:"display"`
}

// ExportConfig holds image and GIF export settings.
type ExportConfig struct {
	OutputDir   string        `yaml:"output_dir"`
	Frames      int           `yaml:"frames"`
	FrameDelay  time.Duration `yaml:"frame_delay"`
	ScatterSize int           `yaml:"scatter_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Torus: TorusConfig{
			R1:       1,
			R2:       2,
			NumTheta: 100,
			NumPhi:   150,
		},
		Stage: StageConfig{
			Light:     [3]float64{0, -1, -1},
			F:         10,
			D:         5,
			NumPixels: 30,
			Palette:   raster.DefaultPalette,
			Clip:      "clamp",
			Workers:   1,
		},
		Animation: AnimationConfig{
			InitialX:   0.5235987755982988, // pi/6
			DeltaX:     0.1,
			DeltaY:     0.1,
			FrameDelay: 50 * time.Millisecond,
			MaxFrames:  0,
			Display:    DisplayTermbox,
		},
		Export: ExportConfig{
			OutputDir:   ".",
			Frames:      90,
			FrameDelay:  50 * time.Millisecond,
			ScatterSize: 600,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// TorusParams converts the torus section to surface parameters.
func (c *Config) TorusParams() torus.Params {
	return torus.Params{
		R1:       c.Torus.R1,
		R2:       c.Torus.R2,
		NumTheta: c.Torus.NumTheta,
		NumPhi:   c.Torus.NumPhi,
	}
}

// StageOptions converts the stage section to rasterizer options.
func (c *Config) StageOptions() (raster.Options, error) {
	clip, err := raster.ParseClipPolicy(c.Stage.Clip)
	if err != nil {
		return raster.Options{}, err
	}
	return raster.Options{
		Light:     m.Vec3{X: c.Stage.Light[0], Y: c.Stage.Light[1], Z: c.Stage.Light[2]},
		F:         c.Stage.F,
		D:         c.Stage.D,
		NumPixels: c.Stage.NumPixels,
		Palette:   c.Stage.Palette,
		Clip:      clip,
		Workers:   c.Stage.Workers,
	}, nil
}

// Validate checks the whole configuration without building anything.
func (c *Config) Validate() error {
	params := c.TorusParams()
	if err := params.Validate(); err != nil {
		return fmt.Errorf("torus: %w", err)
	}

	opts, err := c.StageOptions()
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	if err := opts.Validate(params.Radius()); err != nil {
		return fmt.Errorf("stage: %w", err)
	}

	var errs []error
	switch c.Animation.Display {
	case DisplayTermbox, DisplayPlain:
	default:
		errs = append(errs, fmt.Errorf("animation: unknown display %q", c.Animation.Display))
	}
	if c.Animation.FrameDelay < 0 {
		errs = append(errs, fmt.Errorf("animation: negative frame delay %v", c.Animation.FrameDelay))
	}
	if c.Animation.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("animation: negative max frames %d", c.Animation.MaxFrames))
	}
	if c.Export.Frames <= 0 {
		errs = append(errs, fmt.Errorf("export: frame count must be positive, got %d", c.Export.Frames))
	}
	if c.Export.FrameDelay < 0 {
		errs = append(errs, fmt.Errorf("export: negative frame delay %v", c.Export.FrameDelay))
	}
	if c.Export.ScatterSize <= 0 {
		errs = append(errs, fmt.Errorf("export: scatter size must be positive, got %d", c.Export.ScatterSize))
	}
	return errors.Join(errs...)
}
