package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// FrameCapture saves character grids as timestamped PNG files.
type FrameCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewFrameCapture creates a new frame capture handler.
func NewFrameCapture(outputDir, prefix string) *FrameCapture {
	return &FrameCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// CaptureGrid draws grid and saves it, returning the file name.
func (fc *FrameCapture) CaptureGrid(grid [][]byte) (string, error) {
	return fc.save(DrawGrid(grid))
}

// save writes img as PNG under the next file name.
func (fc *FrameCapture) save(img image.Image) (string, error) {
	// Create output directory if needed
	if fc.outputDir != "" {
		if err := os.MkdirAll(fc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := fc.nextFilename()

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	return filename, nil
}

// nextFilename returns the file name the next capture would use.
func (fc *FrameCapture) nextFilename() string {
	timestamp := fc.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", fc.prefix, timestamp)
	if fc.outputDir != "" {
		filename = filepath.Join(fc.outputDir, filename)
	}
	return filename
}
