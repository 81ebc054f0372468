package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"channel-catalog/config"
	apiv1 "channel-catalog/internal/api/v1"
	"channel-catalog/internal/httpserver"
	"channel-catalog/internal/logging"
	youtubeapi "channel-catalog/internal/platforms/youtube/api"
	youtubeservice "channel-catalog/internal/platforms/youtube/service"
	"channel-catalog/internal/syncstore"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	appName            = "channel-catalog"
	defaultConfigPath  = "config.json"
	defaultLogFileName = "catalogserver.log"
	shutdownTimeout    = 5 * time.Second
)

// Options controls how the application boots and where it loads configuration from.
type Options struct {
	ConfigPath string
	// EnvFiles are loaded into the environment before the config is read.
	EnvFiles []string
	// LogDir overrides server.data_path when set.
	LogDir  string
	LogFile string
	// ReadTimeout overrides server.read_timeout when positive.
	ReadTimeout time.Duration
}

// services groups the wired YouTube components served by the router.
type services struct {
	resolver *youtubeservice.Resolver
	channels youtubeservice.ChannelService
	catalog  youtubeservice.CatalogService
}

// Run wires dependencies together and blocks until the provided context is cancelled
// or the HTTP server exits with an error.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	opts = opts.withDefaults()

	if err := config.LoadDotEnv(opts.EnvFiles...); err != nil {
		return err
	}
	appCfg, err := config.LoadOptional(opts.ConfigPath)
	if err != nil {
		return err
	}

	logs := logSettingsFor(opts, appCfg.Server)
	logFile, err := configureLogging(logs)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logFile.Close()

	readTimeout := time.Duration(appCfg.Server.ReadTimeout)
	if opts.ReadTimeout > 0 {
		readTimeout = opts.ReadTimeout
	}
	logger := logging.New()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := buildServices(ctx, appCfg.YouTube, logger, registry, nil)
	if err != nil {
		return err
	}

	router := apiv1.NewRouter(apiv1.Options{
		Logger:         logger,
		Resolver:       svc.resolver,
		Channels:       svc.channels,
		Catalog:        svc.catalog,
		Sync:           syncstore.New(),
		Gatherer:       registry,
		StaticDir:      appCfg.HTTP.StaticDir,
		AllowedOrigins: appCfg.HTTP.AllowedOrigins,
		RuntimeInfo: apiv1.RuntimeInfo{
			Name:             appName,
			Addr:             appCfg.Server.Addr,
			Port:             appCfg.Server.Port,
			ReadTimeout:      readTimeout.String(),
			DataPath:         logs.Dir,
			SearchMaxResults: appCfg.YouTube.SearchMaxResults,
			HandlePageLookup: appCfg.YouTube.HandlePageLookup,
		},
	})

	serverCfg := httpserver.Config{
		Addr:        appCfg.Server.Addr,
		Port:        appCfg.Server.Port,
		ReadTimeout: readTimeout,
		Logger:      logger,
		Handler:     router,
	}
	srv, err := httpserver.New(serverCfg)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Printf("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("graceful shutdown failed: %v", err)
			_ = srv.Close()
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// buildServices constructs the Data API client and the services on top of
// it. httpClient replaces the API-key transport when set. Without a key the
// services are built over a DisabledClient so the rest of the server still runs.
func buildServices(ctx context.Context, cfg config.YouTubeConfig, logger logging.Logger, reg prometheus.Registerer, httpClient *http.Client) (services, error) {
	var client youtubeapi.Client
	if strings.TrimSpace(cfg.APIKey) == "" && httpClient == nil {
		logger.Printf("YouTube API key loaded: no (YouTube routes will fail until YOUTUBE_API_KEY is set)")
		client = youtubeapi.DisabledClient{}
	} else {
		logger.Printf("YouTube API key loaded: yes")
		dataClient, err := youtubeapi.NewDataClient(ctx, youtubeapi.DataClientOptions{
			APIKey:     cfg.APIKey,
			Timeout:    time.Duration(cfg.RequestTimeout),
			HTTPClient: httpClient,
			Endpoint:   cfg.Endpoint,
		})
		if err != nil {
			return services{}, fmt.Errorf("build youtube client: %w", err)
		}
		client = youtubeapi.Instrument(dataClient, youtubeapi.NewMetrics(reg))
	}

	resolverOpts := youtubeservice.ResolverOptions{
		API:              client,
		Logger:           logger,
		SearchMaxResults: cfg.SearchMaxResults,
	}
	if cfg.HandlePageLookup {
		resolverOpts.HandlePage = youtubeservice.HandlePageLookup{Timeout: time.Duration(cfg.RequestTimeout)}
	}

	return services{
		resolver: youtubeservice.NewResolver(resolverOpts),
		channels: youtubeservice.ChannelService{API: client},
		catalog:  youtubeservice.CatalogService{API: client, DetailConcurrency: cfg.DetailConcurrency},
	}, nil
}

func (o Options) withDefaults() Options {
	if o.ConfigPath == "" {
		o.ConfigPath = defaultConfigPath
	}
	if o.LogFile == "" {
		o.LogFile = defaultLogFileName
	}
	return o
}
