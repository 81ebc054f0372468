package handlers

import (
	"context"
	"net/http"

	"channel-catalog/internal/logging"
	youtubeservice "channel-catalog/internal/platforms/youtube/service"
)

// ChannelResolver resolves free-form channel input.
type ChannelResolver interface {
	Resolve(ctx context.Context, input string) (youtubeservice.Resolution, error)
}

type candidatesResponse struct {
	Candidates []youtubeservice.CandidateChannel `json:"candidates"`
}

// ChannelLookupHandlerOptions configures the channel lookup handler.
type ChannelLookupHandlerOptions struct {
	Resolver ChannelResolver
	Logger   logging.Logger
	// Params lists the query parameters read for the input, first non-blank wins.
	// Defaults to q, input, handle, channelId.
	Params []string
}

type channelLookupHandler struct {
	resolver ChannelResolver
	logger   logging.Logger
	params   []string
}

// NewChannelLookupHandler resolves free-form input (ID, URL, @handle or
// search text) to a channel, or to a list of candidates when ambiguous.
func NewChannelLookupHandler(opts ChannelLookupHandlerOptions) http.Handler {
	if opts.Resolver == nil {
		return notConfigured("channel resolver")
	}
	params := opts.Params
	if len(params) == 0 {
		params = []string{"q", "input", "handle", "channelId"}
	}
	h := channelLookupHandler{resolver: opts.Resolver, logger: opts.Logger, params: params}
	return http.HandlerFunc(h.ServeHTTP)
}

func (h channelLookupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !isGetRequest(r) {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	input := firstQueryValue(r, h.params...)
	res, err := h.resolver.Resolve(r.Context(), input)
	if err != nil {
		respondError(w, h.logger, "resolve channel", err)
		return
	}

	if res.Channel != nil {
		writeJSON(w, http.StatusOK, res.Channel)
		return
	}
	writeJSON(w, http.StatusOK, candidatesResponse{Candidates: res.Candidates})
}
