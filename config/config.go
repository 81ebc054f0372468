// Package config loads the catalog server settings from config.json, .env
// files and the process environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAddr              = "0.0.0.0"
	defaultPort              = "3000"
	defaultReadTimeout       = 10 * time.Second
	defaultRequestTimeout    = 15 * time.Second
	defaultSearchMaxResults  = 10
	defaultDetailConcurrency = 1
	defaultDataPath          = "data"
	defaultLogArchives       = 10
)

// Duration decodes JSON strings such as "15s" as well as plain seconds.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
	case string:
		parsed, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case nil:
	default:
		return fmt.Errorf("invalid duration %s", data)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr        string   `json:"addr"`
	Port        string   `json:"port"`
	ReadTimeout Duration `json:"read_timeout"`
	// DataPath holds catalogserver.log and its logs/ archives. The -log-dir
	// flag takes precedence when set.
	DataPath string `json:"data_path"`
	// LogArchives caps how many archived logs are kept under DataPath/logs.
	LogArchives int `json:"log_archives"`
}

// YouTubeConfig configures the Data API client and the resolver.
type YouTubeConfig struct {
	APIKey string `json:"api_key"`
	// Endpoint overrides the Data API base URL, mainly for tests.
	Endpoint          string   `json:"endpoint"`
	RequestTimeout    Duration `json:"request_timeout"`
	SearchMaxResults  int64    `json:"search_max_results"`
	HandlePageLookup  bool     `json:"handle_page_lookup"`
	DetailConcurrency int      `json:"detail_concurrency"`
}

// HTTPConfig configures the public HTTP surface.
type HTTPConfig struct {
	StaticDir      string   `json:"static_dir"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// Config represents the combined runtime settings.
type Config struct {
	Server  ServerConfig  `json:"server"`
	YouTube YouTubeConfig `json:"youtube"`
	HTTP    HTTPConfig    `json:"http"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        defaultAddr,
			Port:        defaultPort,
			ReadTimeout: Duration(defaultReadTimeout),
			DataPath:    defaultDataPath,
			LogArchives: defaultLogArchives,
		},
		YouTube: YouTubeConfig{
			RequestTimeout:    Duration(defaultRequestTimeout),
			SearchMaxResults:  defaultSearchMaxResults,
			DetailConcurrency: defaultDetailConcurrency,
		},
	}
}

// Load reads the JSON config at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOptional behaves like Load but treats a missing file as empty.
func LoadOptional(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Load("")
	}
	return Load(path)
}

func (c *Config) applyDefaults() {
	def := Default()
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = def.Server.Addr
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		c.Server.Port = def.Server.Port
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if strings.TrimSpace(c.Server.DataPath) == "" {
		c.Server.DataPath = def.Server.DataPath
	}
	if c.Server.LogArchives <= 0 {
		c.Server.LogArchives = def.Server.LogArchives
	}
	if c.YouTube.RequestTimeout <= 0 {
		c.YouTube.RequestTimeout = def.YouTube.RequestTimeout
	}
	if c.YouTube.SearchMaxResults < defaultSearchMaxResults {
		c.YouTube.SearchMaxResults = defaultSearchMaxResults
	}
	if c.YouTube.SearchMaxResults > 50 {
		c.YouTube.SearchMaxResults = 50
	}
	if c.YouTube.DetailConcurrency < 1 {
		c.YouTube.DetailConcurrency = def.YouTube.DetailConcurrency
	}
}
