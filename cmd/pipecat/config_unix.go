//go:build !windows

package main

// getConfigPath returns the platform-specific default config path
func getConfigPath() string {
	return "/etc/pipecat/config.yml"
}
