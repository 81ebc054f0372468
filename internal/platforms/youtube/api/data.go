package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const defaultRequestTimeout = 15 * time.Second

var channelParts = []string{"snippet", "statistics", "contentDetails"}

// DataClientOptions configures the Data API backed client.
type DataClientOptions struct {
	APIKey string
	// Timeout bounds each remote call. Zero uses the default.
	Timeout time.Duration
	// HTTPClient replaces the transport built by the API library. It is used
	// as is, so the API key must be attached by the caller's transport.
	HTTPClient *http.Client
	// Endpoint overrides the API base URL.
	Endpoint string
}

// DataClient implements Client on top of google.golang.org/api/youtube/v3.
type DataClient struct {
	service *youtube.Service
	timeout time.Duration
}

// NewDataClient builds a DataClient authenticated with an API key.
func NewDataClient(ctx context.Context, opts DataClientOptions) (*DataClient, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" && opts.HTTPClient == nil {
		return nil, errors.New("youtube api key is required")
	}

	var clientOpts []option.ClientOption
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	} else {
		clientOpts = append(clientOpts, option.WithAPIKey(key))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &DataClient{service: service, timeout: timeout}, nil
}

func (c *DataClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// SearchChannels implements Client.
func (c *DataClient) SearchChannels(ctx context.Context, query string, maxResults int64) ([]*youtube.SearchResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search.list: %w", err)
	}
	return resp.Items, nil
}

// ListChannels implements Client.
func (c *DataClient) ListChannels(ctx context.Context, ids []string) ([]*youtube.Channel, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.service.Channels.List(channelParts).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("channels.list: %w", err)
	}
	return resp.Items, nil
}

// ChannelIDForHandle implements Client.
func (c *DataClient) ChannelIDForHandle(ctx context.Context, handle string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.service.Channels.List([]string{"id"}).
		ForHandle(handle).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("channels.list forHandle: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == "" {
		return "", ErrNoMatch
	}
	return resp.Items[0].Id, nil
}

// ListPlaylistItems implements Client.
func (c *DataClient) ListPlaylistItems(ctx context.Context, playlistID, pageToken string) (*youtube.PlaylistItemListResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(MaxPageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("playlistItems.list: %w", err)
	}
	return resp, nil
}

// ListVideos implements Client.
func (c *DataClient) ListVideos(ctx context.Context, ids []string, parts []string) ([]*youtube.Video, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.service.Videos.List(parts).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("videos.list: %w", err)
	}
	return resp.Items, nil
}

// ListPlaylists implements Client.
func (c *DataClient) ListPlaylists(ctx context.Context, query PlaylistQuery) (*youtube.PlaylistListResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	call := c.service.Playlists.List([]string{"snippet", "contentDetails"}).
		MaxResults(MaxPageSize).
		Context(ctx)
	switch {
	case len(query.IDs) > 0:
		call = call.Id(query.IDs...)
	case query.ChannelID != "":
		call = call.ChannelId(query.ChannelID)
	default:
		return nil, errors.New("playlists.list: playlist IDs or channel ID required")
	}
	if query.PageToken != "" {
		call = call.PageToken(query.PageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("playlists.list: %w", err)
	}
	return resp, nil
}
