package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped; with no arguments ".env" is tried.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = envOr("CATALOG_ADDR", cfg.Server.Addr)
	cfg.Server.Port = envOr("PORT", cfg.Server.Port)
	cfg.Server.DataPath = envOr("CATALOG_DATA_PATH", cfg.Server.DataPath)
	cfg.Server.LogArchives = envIntOr("CATALOG_LOG_ARCHIVES", cfg.Server.LogArchives)

	cfg.YouTube.APIKey = envOr("YOUTUBE_API_KEY", cfg.YouTube.APIKey)
	cfg.YouTube.Endpoint = envOr("YOUTUBE_API_ENDPOINT", cfg.YouTube.Endpoint)
	cfg.YouTube.RequestTimeout = Duration(envDurationOr("YOUTUBE_REQUEST_TIMEOUT", time.Duration(cfg.YouTube.RequestTimeout)))
	cfg.YouTube.SearchMaxResults = int64(envIntOr("YOUTUBE_SEARCH_MAX_RESULTS", int(cfg.YouTube.SearchMaxResults)))
	cfg.YouTube.DetailConcurrency = envIntOr("YOUTUBE_DETAIL_CONCURRENCY", cfg.YouTube.DetailConcurrency)
	cfg.YouTube.HandlePageLookup = envBoolOr("YOUTUBE_HANDLE_PAGE_LOOKUP", cfg.YouTube.HandlePageLookup)

	cfg.HTTP.StaticDir = envOr("STATIC_DIR", cfg.HTTP.StaticDir)
	if origins := envOr("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.HTTP.AllowedOrigins = splitList(origins)
	}
}

func envOr(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
