package api

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/youtube/v3"
)

// Operation names a billed Data API call.
type Operation string

const (
	OpSearch        Operation = "search.list"
	OpChannels      Operation = "channels.list"
	OpHandle        Operation = "channels.list.forHandle"
	OpPlaylistItems Operation = "playlistItems.list"
	OpVideos        Operation = "videos.list"
	OpPlaylists     Operation = "playlists.list"
)

// Cost returns the quota price of one call in remote units.
func (op Operation) Cost() int {
	if op == OpSearch {
		return 100
	}
	return 1
}

// Metrics holds the Prometheus collectors for remote calls.
type Metrics struct {
	Calls *prometheus.CounterVec
	Units *prometheus.CounterVec
}

// NewMetrics builds and registers the remote call collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channel_catalog_youtube_calls_total",
				Help: "YouTube Data API calls issued, by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		Units: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channel_catalog_youtube_units_total",
				Help: "Estimated YouTube Data API quota units spent, by operation.",
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Calls, m.Units)
	}
	return m
}

func (m *Metrics) observe(op Operation, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Calls.WithLabelValues(string(op), outcome).Inc()
	m.Units.WithLabelValues(string(op)).Add(float64(op.Cost()))
}

// Instrumented decorates a Client, counting calls and spent units.
type Instrumented struct {
	next    Client
	metrics *Metrics
}

// Instrument wraps next so every call is recorded on m.
func Instrument(next Client, m *Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

// SearchChannels implements Client.
func (i *Instrumented) SearchChannels(ctx context.Context, query string, maxResults int64) ([]*youtube.SearchResult, error) {
	items, err := i.next.SearchChannels(ctx, query, maxResults)
	i.metrics.observe(OpSearch, err)
	return items, err
}

// ListChannels implements Client.
func (i *Instrumented) ListChannels(ctx context.Context, ids []string) ([]*youtube.Channel, error) {
	items, err := i.next.ListChannels(ctx, ids)
	i.metrics.observe(OpChannels, err)
	return items, err
}

// ChannelIDForHandle implements Client.
func (i *Instrumented) ChannelIDForHandle(ctx context.Context, handle string) (string, error) {
	id, err := i.next.ChannelIDForHandle(ctx, handle)
	i.metrics.observe(OpHandle, err)
	return id, err
}

// ListPlaylistItems implements Client.
func (i *Instrumented) ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (*youtube.PlaylistItemListResponse, error) {
	resp, err := i.next.ListPlaylistItems(ctx, playlistID, pageToken)
	i.metrics.observe(OpPlaylistItems, err)
	return resp, err
}

// ListVideos implements Client.
func (i *Instrumented) ListVideos(ctx context.Context, ids []string, parts []string) ([]*youtube.Video, error) {
	items, err := i.next.ListVideos(ctx, ids, parts)
	i.metrics.observe(OpVideos, err)
	return items, err
}

// ListPlaylists implements Client.
func (i *Instrumented) ListPlaylists(ctx context.Context, query PlaylistQuery) (*youtube.PlaylistListResponse, error) {
	resp, err := i.next.ListPlaylists(ctx, query)
	i.metrics.observe(OpPlaylists, err)
	return resp, err
}
