package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Live notification store.
	DatabaseDriver string
	DatabaseURL    string

	// Archive store, connected independently from the live store.
	ArchiveDatabaseDriver string
	ArchiveDatabaseURL    string

	// Tenant metadata store holding routing-config documents.
	RedisURL string

	// User directory collaborator (role -> member lookup).
	DirectoryURL string

	JWTSecret   string
	CORSOrigins string

	// Archival trigger.
	ArchivalSchedule string
	CleanupSchedule  string
	ArchiveRetention time.Duration
	TenantIDs        []int
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		ArchiveDatabaseDriver: getEnv("ARCHIVE_DATABASE_DRIVER", getEnv("DATABASE_DRIVER", "postgres")),
		ArchiveDatabaseURL:    getEnv("ARCHIVE_DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		DirectoryURL: getEnv("DIRECTORY_URL", "http://localhost:9443"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		ArchivalSchedule: getEnv("ARCHIVAL_SCHEDULE", "@hourly"),
		CleanupSchedule:  getEnv("ARCHIVE_CLEANUP_SCHEDULE", "@daily"),
		ArchiveRetention: getDurationEnv("ARCHIVE_RETENTION", 365*24*time.Hour),
		TenantIDs:        getIntListEnv("TENANT_IDS", []int{1}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntListEnv(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
