package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"channel-catalog/config"
	youtubeservice "channel-catalog/internal/platforms/youtube/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type testLogger struct{}

func (testLogger) Printf(string, ...any) {}

type capturingLogger struct {
	lines []string
}

func (l *capturingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{}
	normalized := opts.withDefaults()

	if normalized.ConfigPath != defaultConfigPath {
		t.Fatalf("expected default config path, got %q", normalized.ConfigPath)
	}
	if normalized.LogDir != "" {
		t.Fatalf("expected log dir to be left to server.data_path, got %q", normalized.LogDir)
	}
	if normalized.LogFile != defaultLogFileName {
		t.Fatalf("expected default log file, got %q", normalized.LogFile)
	}
}

func TestOptionsWithDefaultsRespectOverrides(t *testing.T) {
	opts := Options{
		ConfigPath:  "custom.json",
		LogDir:      "logs",
		LogFile:     "app.log",
		ReadTimeout: 5 * time.Second,
	}
	normalized := opts.withDefaults()

	if normalized.ConfigPath != opts.ConfigPath || normalized.LogDir != opts.LogDir ||
		normalized.LogFile != opts.LogFile || normalized.ReadTimeout != opts.ReadTimeout {
		t.Fatalf("expected overrides to remain unchanged")
	}
}

func TestRunRequiresContext(t *testing.T) {
	var ctx context.Context
	if err := Run(ctx, Options{}); err == nil {
		t.Fatalf("expected error for nil context")
	}
}

func TestBuildServicesWithoutAPIKey(t *testing.T) {
	logger := &capturingLogger{}
	registry := prometheus.NewRegistry()
	svc, err := buildServices(context.Background(), config.YouTubeConfig{}, logger, registry, nil)
	if err != nil {
		t.Fatalf("expected services without an API key, got %v", err)
	}
	if len(logger.lines) == 0 || !strings.Contains(logger.lines[0], "YouTube API key loaded: no") {
		t.Fatalf("expected a key status line, got %q", logger.lines)
	}

	if _, err := svc.resolver.Resolve(context.Background(), "some channel"); !errors.Is(err, youtubeservice.ErrUpstream) {
		t.Fatalf("expected ErrUpstream from resolver, got %v", err)
	}
	if _, err := svc.catalog.FetchPlaylist(context.Background(), "PLx"); !errors.Is(err, youtubeservice.ErrUpstream) {
		t.Fatalf("expected ErrUpstream from catalog, got %v", err)
	}
	if count, err := testutil.GatherAndCount(registry, "channel_catalog_youtube_units_total"); err != nil || count != 0 {
		t.Fatalf("expected no quota units recorded, count=%d err=%v", count, err)
	}
}

func TestBuildServicesWiresInstrumentedClient(t *testing.T) {
	const channelID = "UCuAXFkgsw1L7xaCfnd5JJOw"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/youtube/v3/channels" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{
				"id":      channelID,
				"snippet": map[string]any{"title": "Wired", "customUrl": "@wired"},
				"contentDetails": map[string]any{
					"relatedPlaylists": map[string]any{"uploads": "UUuAXFkgsw1L7xaCfnd5JJOw"},
				},
			}},
		})
	}))
	defer srv.Close()

	registry := prometheus.NewRegistry()
	cfg := config.YouTubeConfig{
		Endpoint:          srv.URL + "/",
		RequestTimeout:    config.Duration(time.Second),
		SearchMaxResults:  10,
		DetailConcurrency: 2,
	}
	svc, err := buildServices(context.Background(), cfg, testLogger{}, registry, srv.Client())
	if err != nil {
		t.Fatalf("buildServices: %v", err)
	}

	res, err := svc.resolver.Resolve(context.Background(), channelID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Channel == nil || res.Channel.Title != "Wired" {
		t.Fatalf("unexpected resolution %#v", res)
	}
	if svc.catalog.DetailConcurrency != 2 {
		t.Fatalf("expected detail concurrency to be wired, got %d", svc.catalog.DetailConcurrency)
	}

	count, err := testutil.GatherAndCount(registry, "channel_catalog_youtube_units_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one units series, got %d", count)
	}
}
