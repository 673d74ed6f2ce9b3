package main

import (
	"path/filepath"
	"testing"

	"github.com/Faultbox/ascii-donut/internal/config"
)

func TestLogTargets(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	tests := []struct {
		name        string
		display     string
		logFile     string
		wantConsole bool
		wantFile    string
	}{
		{"plain", config.DisplayPlain, "", true, ""},
		{"plain with file", config.DisplayPlain, "run.log", true, "run.log"},
		{"termbox with file", config.DisplayTermbox, "run.log", false, "run.log"},
		{"termbox default file", config.DisplayTermbox, "", false, filepath.Join(config.ConfigDir(), "donut.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Animation.Display = tt.display
			cfg.Logging.LogFile = tt.logFile

			console, logFile := logTargets(cfg)
			if console != tt.wantConsole {
				t.Errorf("console = %v, want %v", console, tt.wantConsole)
			}
			if logFile != tt.wantFile {
				t.Errorf("log file = %q, want %q", logFile, tt.wantFile)
			}
		})
	}
}
