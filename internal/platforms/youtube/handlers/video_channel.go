package handlers

import (
	"context"
	"net/http"

	"channel-catalog/internal/logging"
	youtubeservice "channel-catalog/internal/platforms/youtube/service"
)

// VideoChannelResolver finds the channel that owns a video.
type VideoChannelResolver interface {
	ResolveChannelByVideo(ctx context.Context, videoID string) (youtubeservice.Channel, error)
}

// VideoChannelHandlerOptions configures the video owner lookup handler.
type VideoChannelHandlerOptions struct {
	Channels VideoChannelResolver
	Logger   logging.Logger
}

type videoChannelHandler struct {
	channels VideoChannelResolver
	logger   logging.Logger
}

// NewVideoChannelHandler returns the channel that owns ?videoId=.
func NewVideoChannelHandler(opts VideoChannelHandlerOptions) http.Handler {
	if opts.Channels == nil {
		return notConfigured("channel service")
	}
	h := videoChannelHandler{channels: opts.Channels, logger: opts.Logger}
	return http.HandlerFunc(h.ServeHTTP)
}

func (h videoChannelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !isGetRequest(r) {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	ch, err := h.channels.ResolveChannelByVideo(r.Context(), firstQueryValue(r, "videoId", "v"))
	if err != nil {
		respondError(w, h.logger, "resolve video channel", err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}
