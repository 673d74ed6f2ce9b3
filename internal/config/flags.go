package config

import (
	"flag"
	"time"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagPixels  = flag.Int("pixels", 0, "Side of the character grid")
	flagDelay   = flag.Duration("delay", 0, "Delay between frames")
	flagFrames  = flag.Int("frames", 0, "Stop after N frames (run) or export N frames (gif)")
	flagPlain   = flag.Bool("plain", false, "Print frames to stdout instead of using termbox")
	flagWorkers = flag.Int("workers", -1, "Goroutines for per-point work (0 = GOMAXPROCS)")
	flagClip    = flag.String("clip", "", "Out-of-range pixel policy: clamp or discard")
	flagOutput  = flag.String("output", "", "Output directory for exported images")
)

// ParseFlags parses command-line flags that follow the subcommand.
func ParseFlags(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the positional arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagPixels > 0 {
		cfg.Stage.NumPixels = *flagPixels
	}
	if *flagDelay > 0 {
		cfg.Animation.FrameDelay = *flagDelay
		cfg.Export.FrameDelay = *flagDelay
	}
	if *flagFrames > 0 {
		cfg.Animation.MaxFrames = *flagFrames
		cfg.Export.Frames = *flagFrames
	}
	if *flagPlain {
		cfg.Animation.Display = DisplayPlain
	}
	if *flagWorkers >= 0 {
		cfg.Stage.Workers = *flagWorkers
	}
	if *flagClip != "" {
		cfg.Stage.Clip = *flagClip
	}
	if *flagOutput != "" {
		cfg.Export.OutputDir = *flagOutput
	}
}

// resetFlags restores flag defaults. Used by tests.
func resetFlags() {
	*flagConfig = ""
	*flagDebug = false
	*flagPixels = 0
	*flagDelay = time.Duration(0)
	*flagFrames = 0
	*flagPlain = false
	*flagWorkers = -1
	*flagClip = ""
	*flagOutput = ""
}
