// donut renders a rotating ASCII torus in the terminal and exports it as
// text, PNG and GIF.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/ascii-donut/internal/app"
	"github.com/Faultbox/ascii-donut/internal/config"
	"github.com/Faultbox/ascii-donut/internal/display"
	"github.com/Faultbox/ascii-donut/internal/export"
	"github.com/Faultbox/ascii-donut/internal/logger"
	"github.com/Faultbox/ascii-donut/internal/raster"
	"github.com/Faultbox/ascii-donut/internal/torus"
)

func main() {
	command := "run"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	var err error
	switch command {
	case "run":
		err = cmdRun(args)
	case "frame":
		err = cmdFrame(args)
	case "gif":
		err = cmdGIF(args)
	case "plot":
		err = cmdPlot(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`donut - rotating ASCII torus

Usage:
  donut [command] [options] [file]

Commands:
  run              Animate in the terminal (default)
  frame            Print a single frame, optionally saving a PNG (-output)
  gif [file]       Export an animated GIF and a PNG of the projection
  plot [file]      Export a 3D scatter plot of the point cloud
  config [file]    Print the effective config as YAML, or write it to file
  config save      Write the effective config to the user config directory

Options:
  -config <file>   Config file (default ./donut.yaml)
  -pixels <n>      Side of the character grid
  -delay <d>       Delay between frames, e.g. 50ms
  -frames <n>      Frames to run or export
  -plain           Print frames to stdout instead of using termbox
  -workers <n>     Goroutines for per-point work (0 = all CPUs)
  -clip <policy>   clamp or discard out-of-range points
  -output <dir>    Directory for exported files
  -debug           Debug logging

Examples:
  donut
  donut run -plain -frames 100
  donut gif -frames 90 -output ./out
  donut plot scatter.png`)
}

// setup parses flags, loads config and initializes logging.
func setup(args []string) (*config.Config, error) {
	if err := config.ParseFlags(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	console, logFile := logTargets(cfg)
	if err := logger.InitWithConsole(cfg.Logging.Level, logFile, console); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

// logTargets keeps log output off the terminal while termbox owns it. Without
// a configured file the log goes to donut.log in the config directory.
func logTargets(cfg *config.Config) (console bool, logFile string) {
	logFile = cfg.Logging.LogFile
	if cfg.Animation.Display != config.DisplayTermbox {
		return true, logFile
	}
	if logFile == "" {
		logFile = filepath.Join(config.ConfigDir(), "donut.log")
	}
	return false, logFile
}

// newStage builds the surface, applies the initial tilt and wraps it in a stage.
func newStage(cfg *config.Config) (*raster.Stage, error) {
	surface, err := torus.New(cfg.TorusParams())
	if err != nil {
		return nil, err
	}
	surface.RotateX(cfg.Animation.InitialX)

	opts, err := cfg.StageOptions()
	if err != nil {
		return nil, err
	}
	stage, err := raster.New(surface, opts)
	if err != nil {
		return nil, err
	}

	logger.Info("stage ready",
		zap.Int("points", surface.Len()),
		zap.Int("pixels", opts.NumPixels),
		zap.Float64("f", opts.F),
		zap.Float64("d", opts.D),
		zap.Stringer("clip", opts.Clip),
	)
	return stage, nil
}

func cmdRun(args []string) error {
	cfg, err := setup(args)
	if err != nil {
		return err
	}

	stage, err := newStage(cfg)
	if err != nil {
		return err
	}

	var disp display.Display
	switch cfg.Animation.Display {
	case config.DisplayTermbox:
		tb, err := display.NewTermbox()
		if err != nil {
			return err
		}
		disp = tb
	default:
		disp = display.NewPlain(os.Stdout, isTerminal(os.Stdout))
	}
	defer disp.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(stage, disp, app.Options{
		DeltaX:     cfg.Animation.DeltaX,
		DeltaY:     cfg.Animation.DeltaY,
		FrameDelay: cfg.Animation.FrameDelay,
		MaxFrames:  cfg.Animation.MaxFrames,
	}, logger.Named("app"))
	return a.Run(ctx)
}

func cmdFrame(args []string) error {
	cfg, err := setup(args)
	if err != nil {
		return err
	}
	stage, err := newStage(cfg)
	if err != nil {
		return err
	}

	if err := stage.RenderFrame(cfg.Animation.DeltaX, cfg.Animation.DeltaY); err != nil {
		return err
	}
	if _, err := stage.WriteTo(os.Stdout); err != nil {
		return err
	}

	if cfg.Export.OutputDir != "" && cfg.Export.OutputDir != "." {
		name, err := export.NewFrameCapture(cfg.Export.OutputDir, "donut").CaptureGrid(stage.Screen())
		if err != nil {
			return err
		}
		logger.Info("frame saved", zap.String("file", name))
	}
	return nil
}

func cmdGIF(args []string) error {
	cfg, err := setup(args)
	if err != nil {
		return err
	}
	stage, err := newStage(cfg)
	if err != nil {
		return err
	}

	path := outputPath(cfg, "projected_donut.gif")
	if err := writeProjection(stage, strings.TrimSuffix(path, filepath.Ext(path))+".png", cfg.Export.ScatterSize); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	logger.Info("creating gif", zap.String("file", path), zap.Int("frames", cfg.Export.Frames))
	err = export.WriteGIF(f, stage, export.GIFOptions{
		Frames: cfg.Export.Frames,
		DeltaX: cfg.Animation.DeltaX,
		DeltaY: cfg.Animation.DeltaY,
		Delay:  cfg.Export.FrameDelay,
	})
	if err != nil {
		return err
	}
	return f.Close()
}

// writeProjection saves the starting pose of the projected point cloud.
func writeProjection(stage *raster.Stage, path string, size int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WriteProjection(f, stage, size); err != nil {
		return err
	}
	logger.Info("projection saved", zap.String("file", path))
	return f.Close()
}

func cmdPlot(args []string) error {
	cfg, err := setup(args)
	if err != nil {
		return err
	}
	surface, err := torus.New(cfg.TorusParams())
	if err != nil {
		return err
	}
	surface.RotateX(cfg.Animation.InitialX)

	path := outputPath(cfg, "donut_scatter.png")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	logger.Info("plotting point cloud", zap.String("file", path), zap.Int("points", surface.Len()))
	if err := export.WriteScatter(f, surface.Points(), export.ScatterOptions{Size: cfg.Export.ScatterSize}); err != nil {
		return err
	}
	return f.Close()
}

func cmdConfig(args []string) error {
	cfg, err := setup(args)
	if err != nil {
		return err
	}

	rest := config.Args()
	switch {
	case len(rest) > 0 && rest[0] == "save":
		path, err := cfg.Save()
		if err != nil {
			return err
		}
		logger.Info("config written", zap.String("file", path))
		return nil
	case len(rest) > 0:
		if err := cfg.SaveTo(rest[0]); err != nil {
			return err
		}
		logger.Info("config written", zap.String("file", rest[0]))
		return nil
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// outputPath returns the positional file argument, or name inside the
// export directory.
func outputPath(cfg *config.Config, name string) string {
	if rest := config.Args(); len(rest) > 0 {
		return rest[0]
	}
	if err := os.MkdirAll(cfg.Export.OutputDir, 0755); err != nil {
		logger.Warn("cannot create output dir", zap.String("dir", cfg.Export.OutputDir), zap.Error(err))
	}
	return filepath.Join(cfg.Export.OutputDir, name)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
