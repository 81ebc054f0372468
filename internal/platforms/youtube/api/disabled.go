package api

import (
	"context"
	"errors"

	"google.golang.org/api/youtube/v3"
)

// ErrNotConfigured is returned by every DisabledClient call.
var ErrNotConfigured = errors.New("youtube api key is not configured")

// DisabledClient stands in for the Data API when no key is available, so the
// server still boots and the YouTube routes fail per request.
type DisabledClient struct{}

// SearchChannels implements Client.
func (DisabledClient) SearchChannels(context.Context, string, int64) ([]*youtube.SearchResult, error) {
	return nil, ErrNotConfigured
}

// ListChannels implements Client.
func (DisabledClient) ListChannels(context.Context, []string) ([]*youtube.Channel, error) {
	return nil, ErrNotConfigured
}

// ChannelIDForHandle implements Client.
func (DisabledClient) ChannelIDForHandle(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// ListPlaylistItems implements Client.
func (DisabledClient) ListPlaylistItems(context.Context, string, string) (*youtube.PlaylistItemListResponse, error) {
	return nil, ErrNotConfigured
}

// ListVideos implements Client.
func (DisabledClient) ListVideos(context.Context, []string, []string) ([]*youtube.Video, error) {
	return nil, ErrNotConfigured
}

// ListPlaylists implements Client.
func (DisabledClient) ListPlaylists(context.Context, PlaylistQuery) (*youtube.PlaylistListResponse, error) {
	return nil, ErrNotConfigured
}
