// Package api wraps the YouTube Data API v3 read operations the catalog
// service depends on.
package api

import (
	"context"
	"errors"

	"google.golang.org/api/youtube/v3"
)

// MaxPageSize is the largest page or ID batch the Data API accepts.
const MaxPageSize = 50

// ErrNoMatch is returned by ChannelIDForHandle when the handle maps to no channel.
var ErrNoMatch = errors.New("youtube api: no matching channel")

// PlaylistQuery selects playlists either by ID or by owning channel.
type PlaylistQuery struct {
	IDs       []string
	ChannelID string
	PageToken string
}

// Client is the subset of the Data API consumed by the service layer.
type Client interface {
	// SearchChannels runs a free-text search restricted to channels.
	SearchChannels(ctx context.Context, query string, maxResults int64) ([]*youtube.SearchResult, error)
	// ListChannels fetches snippet, statistics and contentDetails for up to 50 channel IDs.
	ListChannels(ctx context.Context, ids []string) ([]*youtube.Channel, error)
	// ChannelIDForHandle maps an @handle to its channel ID.
	ChannelIDForHandle(ctx context.Context, handle string) (string, error)
	// ListPlaylistItems returns one page of up to 50 items starting at pageToken.
	ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (*youtube.PlaylistItemListResponse, error)
	// ListVideos fetches the requested parts for up to 50 video IDs.
	ListVideos(ctx context.Context, ids []string, parts []string) ([]*youtube.Video, error)
	// ListPlaylists returns one page of playlists matching the query.
	ListPlaylists(ctx context.Context, query PlaylistQuery) (*youtube.PlaylistListResponse, error)
}
