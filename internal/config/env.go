package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables that override deck.json values.
const (
	EnvSourceDir    = "SLIDES_SRC_DIR"
	EnvOutputDir    = "SLIDES_OUT_DIR"
	EnvFrameworkDir = "SLIDES_FRAMEWORK_DIR"
	EnvPort         = "SLIDES_PORT"
)

// ApplyEnv overrides fields with any SLIDES_* environment variables that are set.
// An unparsable SLIDES_PORT is an error rather than a silent fallback.
func (c *Config) ApplyEnv() error {
	c.SourceDir = getEnvString(EnvSourceDir, c.SourceDir)
	c.OutputDir = getEnvString(EnvOutputDir, c.OutputDir)
	c.FrameworkDir = getEnvString(EnvFrameworkDir, c.FrameworkDir)

	if value := os.Getenv(EnvPort); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", EnvPort, err)
		}
		c.Port = port
	}

	return nil
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
