package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/ascii-donut/internal/raster"
	"github.com/Faultbox/ascii-donut/internal/torus"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test torus defaults
	if cfg.Torus.R1 != 1 || cfg.Torus.R2 != 2 {
		t.Errorf("expected radii 1 and 2, got %v and %v", cfg.Torus.R1, cfg.Torus.R2)
	}
	if cfg.Torus.NumTheta != 100 || cfg.Torus.NumPhi != 150 {
		t.Errorf("expected 100x150 samples, got %dx%d", cfg.Torus.NumTheta, cfg.Torus.NumPhi)
	}

	// Test stage defaults
	if cfg.Stage.Light != [3]float64{0, -1, -1} {
		t.Errorf("expected light (0,-1,-1), got %v", cfg.Stage.Light)
	}
	if cfg.Stage.F != 10 || cfg.Stage.D != 5 {
		t.Errorf("expected f=10 d=5, got f=%v d=%v", cfg.Stage.F, cfg.Stage.D)
	}
	if cfg.Stage.NumPixels != 30 {
		t.Errorf("expected 30 pixels, got %d", cfg.Stage.NumPixels)
	}
	if cfg.Stage.Palette != raster.DefaultPalette {
		t.Errorf("expected default palette, got %q", cfg.Stage.Palette)
	}

	// Test animation defaults
	if cfg.Animation.DeltaX != 0.1 || cfg.Animation.DeltaY != 0.1 {
		t.Errorf("expected deltas 0.1, got %v and %v", cfg.Animation.DeltaX, cfg.Animation.DeltaY)
	}
	if cfg.Animation.FrameDelay != 50*time.Millisecond {
		t.Errorf("expected frame delay 50ms, got %v", cfg.Animation.FrameDelay)
	}
	if cfg.Animation.Display != DisplayTermbox {
		t.Errorf("expected termbox display, got %s", cfg.Animation.Display)
	}

	// Test export defaults
	if cfg.Export.Frames != 90 {
		t.Errorf("expected 90 export frames, got %d", cfg.Export.Frames)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Stage.Clip = "discard"
	cfg.Stage.Light = [3]float64{1, 2, 3}

	params := cfg.TorusParams()
	if params != (torus.Params{R1: 1, R2: 2, NumTheta: 100, NumPhi: 150}) {
		t.Errorf("unexpected torus params %+v", params)
	}

	opts, err := cfg.StageOptions()
	if err != nil {
		t.Fatalf("StageOptions: %v", err)
	}
	if opts.Clip != raster.ClipDiscard {
		t.Errorf("expected discard policy, got %v", opts.Clip)
	}
	if opts.Light.X != 1 || opts.Light.Y != 2 || opts.Light.Z != 3 {
		t.Errorf("unexpected light %v", opts.Light)
	}

	cfg.Stage.Clip = "wrap"
	if _, err := cfg.StageOptions(); err == nil {
		t.Error("expected error for unknown clip policy")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"stage inside torus", func(c *Config) {
			c.Torus.R1, c.Torus.R2 = 3, 3
			c.Stage.F, c.Stage.D = 5, 4
		}, raster.ErrConfiguration},
		{"zero samples", func(c *Config) { c.Torus.NumPhi = 0 }, torus.ErrInvalidParams},
		{"unknown display", func(c *Config) { c.Animation.Display = "sixel" }, nil},
		{"negative delay", func(c *Config) { c.Animation.FrameDelay = -time.Second }, nil},
		{"no export frames", func(c *Config) { c.Export.Frames = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "donut.yaml")

	yamlContent := `
torus:
  r1: 0.5
  r2: 1.5
  num_theta: 40
  num_phi: 60

stage:
  light: [1, -1, 0]
  f: 8
  d: 4
  num_pixels: 40
  palette: ".:-=+*#%@"
  clip: discard
  workers: 4

animation:
  delta_x: 0.07
  delta_y: 0.03
  frame_delay: 20ms
  max_frames: 500
  display: plain

export:
  output_dir: "out"
  frames: 30
  frame_delay: 100ms

logging:
  level: "debug"
  log_file: "donut.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Torus.R1 != 0.5 || cfg.Torus.R2 != 1.5 {
		t.Errorf("expected radii 0.5 and 1.5, got %v and %v", cfg.Torus.R1, cfg.Torus.R2)
	}
	if cfg.Torus.NumTheta != 40 || cfg.Torus.NumPhi != 60 {
		t.Errorf("expected 40x60 samples, got %dx%d", cfg.Torus.NumTheta, cfg.Torus.NumPhi)
	}
	if cfg.Stage.Light != [3]float64{1, -1, 0} {
		t.Errorf("expected light (1,-1,0), got %v", cfg.Stage.Light)
	}
	if cfg.Stage.NumPixels != 40 {
		t.Errorf("expected 40 pixels, got %d", cfg.Stage.NumPixels)
	}
	if cfg.Stage.Clip != "discard" {
		t.Errorf("expected clip discard, got %s", cfg.Stage.Clip)
	}
	if cfg.Stage.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Stage.Workers)
	}

	if cfg.Animation.FrameDelay != 20*time.Millisecond {
		t.Errorf("expected frame delay 20ms, got %v", cfg.Animation.FrameDelay)
	}
	if cfg.Animation.MaxFrames != 500 {
		t.Errorf("expected 500 frames, got %d", cfg.Animation.MaxFrames)
	}
	if cfg.Animation.Display != DisplayPlain {
		t.Errorf("expected plain display, got %s", cfg.Animation.Display)
	}
	// Not in the file, keeps the default
	if cfg.Animation.InitialX != Default().Animation.InitialX {
		t.Errorf("expected default initial_x, got %v", cfg.Animation.InitialX)
	}

	if cfg.Export.OutputDir != "out" || cfg.Export.Frames != 30 {
		t.Errorf("unexpected export section %+v", cfg.Export)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "donut.log" {
		t.Errorf("expected log file 'donut.log', got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should be valid: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
torus:
  r1: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/donut.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create donut.yaml in current directory
	configPath := filepath.Join(tmpDir, "donut.yaml")
	if err := os.WriteFile(configPath, []byte("stage:\n  num_pixels: 20\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find donut.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		setup  func()
		verify func(*Config)
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "pixels flag",
			setup: func() {
				*flagPixels = 48
			},
			verify: func(cfg *Config) {
				if cfg.Stage.NumPixels != 48 {
					t.Errorf("expected 48 pixels, got %d", cfg.Stage.NumPixels)
				}
			},
		},
		{
			name: "delay flag",
			setup: func() {
				*flagDelay = 10 * time.Millisecond
			},
			verify: func(cfg *Config) {
				if cfg.Animation.FrameDelay != 10*time.Millisecond {
					t.Errorf("expected animation delay 10ms, got %v", cfg.Animation.FrameDelay)
				}
				if cfg.Export.FrameDelay != 10*time.Millisecond {
					t.Errorf("expected export delay 10ms, got %v", cfg.Export.FrameDelay)
				}
			},
		},
		{
			name: "frames flag",
			setup: func() {
				*flagFrames = 12
			},
			verify: func(cfg *Config) {
				if cfg.Animation.MaxFrames != 12 || cfg.Export.Frames != 12 {
					t.Errorf("expected 12 frames, got %d and %d", cfg.Animation.MaxFrames, cfg.Export.Frames)
				}
			},
		},
		{
			name: "plain flag",
			setup: func() {
				*flagPlain = true
			},
			verify: func(cfg *Config) {
				if cfg.Animation.Display != DisplayPlain {
					t.Errorf("expected plain display, got %s", cfg.Animation.Display)
				}
			},
		},
		{
			name: "workers zero means GOMAXPROCS",
			setup: func() {
				*flagWorkers = 0
			},
			verify: func(cfg *Config) {
				if cfg.Stage.Workers != 0 {
					t.Errorf("expected 0 workers, got %d", cfg.Stage.Workers)
				}
			},
		},
		{
			name: "clip and output flags",
			setup: func() {
				*flagClip = "discard"
				*flagOutput = "/tmp/frames"
			},
			verify: func(cfg *Config) {
				if cfg.Stage.Clip != "discard" {
					t.Errorf("expected clip discard, got %s", cfg.Stage.Clip)
				}
				if cfg.Export.OutputDir != "/tmp/frames" {
					t.Errorf("expected output dir /tmp/frames, got %s", cfg.Export.OutputDir)
				}
			},
		},
		{
			name:  "unset flags keep defaults",
			setup: func() {},
			verify: func(cfg *Config) {
				if cfg.Stage.Workers != 1 {
					t.Errorf("expected default workers 1, got %d", cfg.Stage.Workers)
				}
				if cfg.Animation.Display != DisplayTermbox {
					t.Errorf("expected termbox display, got %s", cfg.Animation.Display)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer resetFlags()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestParseFlags(t *testing.T) {
	defer resetFlags()

	if err := ParseFlags([]string{"-pixels", "24", "-plain", "out.gif"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if *flagPixels != 24 || !*flagPlain {
		t.Errorf("flags not parsed: pixels=%d plain=%v", *flagPixels, *flagPlain)
	}
	if args := Args(); len(args) != 1 || args[0] != "out.gif" {
		t.Errorf("expected positional [out.gif], got %v", args)
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "donut.yaml")

	yamlContent := `
stage:
  num_pixels: 50
  f: 12
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagPixels = 64
	defer resetFlags()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Pixels should be from flag (64), not file (50)
	if cfg.Stage.NumPixels != 64 {
		t.Errorf("expected 64 pixels from flag, got %d", cfg.Stage.NumPixels)
	}

	// f should be from file (12) since no flag override
	if cfg.Stage.F != 12 {
		t.Errorf("expected f=12 from file, got %v", cfg.Stage.F)
	}
}

func TestLoadRejectsInvalidGeometry(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "donut.yaml")
	yamlContent := "torus:\n  r1: 3\n  r2: 3\nstage:\n  f: 5\n  d: 4\n"
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer resetFlags()

	if _, err := Load(); !errors.Is(err, raster.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "donut.yaml")

	cfg := Default()
	cfg.Stage.NumPixels = 44
	cfg.Animation.FrameDelay = 75 * time.Millisecond
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Stage.NumPixels != 44 {
		t.Errorf("expected 44 pixels, got %d", loaded.Stage.NumPixels)
	}
	if loaded.Animation.FrameDelay != 75*time.Millisecond {
		t.Errorf("expected frame delay 75ms, got %v", loaded.Animation.FrameDelay)
	}
}
