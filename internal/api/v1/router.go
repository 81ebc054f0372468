package v1

import (
	"encoding/json"
	"net/http"

	"channel-catalog/internal/logging"
	youtubehandlers "channel-catalog/internal/platforms/youtube/handlers"
	"channel-catalog/internal/syncstore"
	"channel-catalog/internal/ui"

	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RuntimeInfo describes the pieces of server configuration that the UI exposes.
type RuntimeInfo struct {
	Name             string `json:"name"`
	Addr             string `json:"addr"`
	Port             string `json:"port"`
	ReadTimeout      string `json:"readTimeout"`
	DataPath         string `json:"dataPath"`
	SearchMaxResults int64  `json:"searchMaxResults"`
	HandlePageLookup bool   `json:"handlePageLookup"`
}

// Options configures the HTTP router.
type Options struct {
	Logger      logging.Logger
	RuntimeInfo RuntimeInfo

	Resolver youtubehandlers.ChannelResolver
	Channels youtubehandlers.VideoChannelResolver
	Catalog  youtubehandlers.CatalogLister
	Sync     *syncstore.Store

	// Gatherer backs /metrics; the route is omitted when nil.
	Gatherer prometheus.Gatherer
	// StaticDir holds the UI assets served under /.
	StaticDir string
	// AllowedOrigins feeds the CORS middleware. Empty allows any origin.
	AllowedOrigins []string
}

// NewRouter constructs the HTTP router for the public API.
func NewRouter(opts Options) http.Handler {
	mux := http.NewServeMux()
	logger := opts.Logger

	lookup := youtubehandlers.NewChannelLookupHandler(youtubehandlers.ChannelLookupHandlerOptions{
		Resolver: opts.Resolver,
		Logger:   logger,
	})
	catalogOpts := youtubehandlers.CatalogHandlerOptions{Catalog: opts.Catalog, Logger: logger}

	mux.Handle("/api/channel", lookup)
	mux.Handle("/api/find-channel", youtubehandlers.NewChannelLookupHandler(youtubehandlers.ChannelLookupHandlerOptions{
		Resolver: opts.Resolver,
		Logger:   logger,
		Params:   []string{"handle", "q"},
	}))
	mux.Handle("/api/video-channel", youtubehandlers.NewVideoChannelHandler(youtubehandlers.VideoChannelHandlerOptions{
		Channels: opts.Channels,
		Logger:   logger,
	}))
	mux.Handle("/api/channel-videos", youtubehandlers.NewChannelVideosHandler(catalogOpts))
	mux.Handle("/api/channel-playlists", youtubehandlers.NewChannelPlaylistsHandler(catalogOpts))
	mux.Handle("/api/playlist/{playlistId}", youtubehandlers.NewPlaylistHandler(catalogOpts))
	mux.Handle("/api/sync", syncstore.NewHandler(syncstore.HandlerOptions{Store: opts.Sync, Logger: logger}))

	mux.HandleFunc("/api/server/config", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, opts.RuntimeInfo)
	})

	if opts.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Handle("/api/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown endpoint"})
	}))
	mux.Handle("/", ui.Handler(opts.StaticDir))

	return logging.WithHTTPLogging(withCORS(mux, opts.AllowedOrigins), logger)
}

func withCORS(next http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", logging.RequestIDHeader},
		ExposedHeaders: []string{logging.RequestIDHeader, syncstore.RevisionHeader},
		MaxAge:         300,
	})(next)
}

func respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
