//go:build windows

package main

import (
	"os"
	"path/filepath"
)

// getConfigPath returns the platform-specific default config path
func getConfigPath() string {
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "pipecat", "config.yml")
}
