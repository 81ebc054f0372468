package handlers

import (
	"context"
	"net/http"

	"channel-catalog/internal/logging"
	youtubeservice "channel-catalog/internal/platforms/youtube/service"
)

// CatalogLister enumerates channel uploads and playlists.
type CatalogLister interface {
	ListCatalogPage(ctx context.Context, channelID, cursor string) (youtubeservice.CatalogPage, error)
	ListChannelPlaylists(ctx context.Context, channelID string) ([]youtubeservice.PlaylistSummary, error)
	FetchPlaylist(ctx context.Context, playlistID string) (youtubeservice.Playlist, error)
}

// CatalogHandlerOptions configures the catalog handlers.
type CatalogHandlerOptions struct {
	Catalog CatalogLister
	Logger  logging.Logger
}

type catalogHandler struct {
	catalog CatalogLister
	logger  logging.Logger
}

type playlistsResponse struct {
	Playlists []youtubeservice.PlaylistSummary `json:"playlists"`
}

// NewChannelVideosHandler serves one page of a channel's uploads:
// ?channelId=...&pageToken=...
func NewChannelVideosHandler(opts CatalogHandlerOptions) http.Handler {
	if opts.Catalog == nil {
		return notConfigured("catalog service")
	}
	h := catalogHandler{catalog: opts.Catalog, logger: opts.Logger}
	return http.HandlerFunc(h.serveChannelVideos)
}

// NewChannelPlaylistsHandler lists the playlists owned by ?channelId=.
func NewChannelPlaylistsHandler(opts CatalogHandlerOptions) http.Handler {
	if opts.Catalog == nil {
		return notConfigured("catalog service")
	}
	h := catalogHandler{catalog: opts.Catalog, logger: opts.Logger}
	return http.HandlerFunc(h.serveChannelPlaylists)
}

// NewPlaylistHandler serves a fully enumerated playlist. The router must
// register it on a pattern with a {playlistId} wildcard.
func NewPlaylistHandler(opts CatalogHandlerOptions) http.Handler {
	if opts.Catalog == nil {
		return notConfigured("catalog service")
	}
	h := catalogHandler{catalog: opts.Catalog, logger: opts.Logger}
	return http.HandlerFunc(h.servePlaylist)
}

func (h catalogHandler) serveChannelVideos(w http.ResponseWriter, r *http.Request) {
	if !isGetRequest(r) {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	page, err := h.catalog.ListCatalogPage(r.Context(), firstQueryValue(r, "channelId"), firstQueryValue(r, "pageToken", "cursor"))
	if err != nil {
		respondError(w, h.logger, "list channel videos", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h catalogHandler) serveChannelPlaylists(w http.ResponseWriter, r *http.Request) {
	if !isGetRequest(r) {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	playlists, err := h.catalog.ListChannelPlaylists(r.Context(), firstQueryValue(r, "channelId"))
	if err != nil {
		respondError(w, h.logger, "list channel playlists", err)
		return
	}
	writeJSON(w, http.StatusOK, playlistsResponse{Playlists: playlists})
}

func (h catalogHandler) servePlaylist(w http.ResponseWriter, r *http.Request) {
	if !isGetRequest(r) {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	playlist, err := h.catalog.FetchPlaylist(r.Context(), r.PathValue("playlistId"))
	if err != nil {
		respondError(w, h.logger, "fetch playlist", err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}
