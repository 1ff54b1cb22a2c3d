package config

import (
	"os"
	"strconv"
	"strings"
)

// Config 应用配置
type Config struct {
	Port        string
	JournalPath string // SQLite run journal; empty disables it
	JWTSecret   string
	TrackPath   string // GPX file served by the API

	OffsetSeconds int  // added to every track timestamp
	Workers       int  // photos processed concurrently
	FailFast      bool // abort the batch on the first failing photo
	DryRun        bool // resolve and log, but never rewrite photos

	LogLevel  string
	LogFormat string
}

// Load 加载配置
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", ":8080"),
		JournalPath:   getEnv("GEOTAG_JOURNAL", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TrackPath:     getEnv("GEOTAG_TRACK", ""),
		OffsetSeconds: getEnvInt("GEOTAG_OFFSET", 0),
		Workers:       getEnvInt("GEOTAG_WORKERS", 1),
		FailFast:      getEnvBool("GEOTAG_FAIL_FAST", true),
		DryRun:        getEnvBool("GEOTAG_DRY_RUN", false),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
