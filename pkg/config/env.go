// pkg/config/env.go
package config

import (
	"os"
	"strconv"
)

// Environment variables read by ApplyEnvironmentOverrides.
const (
	EnvConfigPath     = "BALLPIT_CONFIG"
	EnvArenaWidth     = "BALLPIT_ARENA_WIDTH"
	EnvArenaHeight    = "BALLPIT_ARENA_HEIGHT"
	EnvBodyCount      = "BALLPIT_BODY_COUNT"
	EnvSeed           = "BALLPIT_SEED"
	EnvTreeCapacity   = "BALLPIT_TREE_CAPACITY"
	EnvTreeMaxDepth   = "BALLPIT_TREE_MAX_DEPTH"
	EnvFriction       = "BALLPIT_FRICTION"
	EnvDedupPairs     = "BALLPIT_DEDUP_PAIRS"
	EnvTickRate       = "BALLPIT_TICK_RATE"
	EnvTicks          = "BALLPIT_TICKS"
	EnvReportInterval = "BALLPIT_REPORT_INTERVAL"
)

// ApplyEnvironmentOverrides replaces config values with any BALLPIT_*
// variables that are set and parse. Unparseable values are ignored.
func (c *SimConfig) ApplyEnvironmentOverrides() {
	c.Arena.Width = getEnvAsFloatOrDefault(EnvArenaWidth, c.Arena.Width)
	c.Arena.Height = getEnvAsFloatOrDefault(EnvArenaHeight, c.Arena.Height)
	c.Bodies.Count = getEnvAsIntOrDefault(EnvBodyCount, c.Bodies.Count)
	c.Bodies.Seed = getEnvAsUintOrDefault(EnvSeed, c.Bodies.Seed)
	c.Tree.Capacity = getEnvAsIntOrDefault(EnvTreeCapacity, c.Tree.Capacity)
	c.Physics.Friction = getEnvAsFloatOrDefault(EnvFriction, c.Physics.Friction)
	c.Physics.DedupPairs = getEnvAsBoolOrDefault(EnvDedupPairs, c.Physics.DedupPairs)
	c.Run.TickRate = getEnvAsIntOrDefault(EnvTickRate, c.Run.TickRate)
	c.Run.Ticks = getEnvAsIntOrDefault(EnvTicks, c.Run.Ticks)
	c.Run.ReportInterval = getEnvAsIntOrDefault(EnvReportInterval, c.Run.ReportInterval)

	// A negative depth removes the limit.
	if value := os.Getenv(EnvTreeMaxDepth); value != "" {
		if depth, err := strconv.Atoi(value); err == nil {
			if depth < 0 {
				c.Tree.MaxDepth = nil
			} else {
				c.Tree.MaxDepth = &depth
			}
		}
	}
}

// ConfigPath returns BALLPIT_CONFIG when set, otherwise defaultPath.
func ConfigPath(defaultPath string) string {
	return getEnvOrDefault(EnvConfigPath, defaultPath)
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsUintOrDefault(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
