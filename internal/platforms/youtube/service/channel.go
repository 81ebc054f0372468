package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"channel-catalog/internal/platforms/youtube/api"

	"google.golang.org/api/youtube/v3"
)

// Channel is the canonical channel record returned to clients.
type Channel struct {
	ChannelID         string  `json:"channelId"`
	Handle            *string `json:"handle"`
	Title             string  `json:"title"`
	ThumbnailURL      string  `json:"thumbnailUrl"`
	VideoCount        int64   `json:"videoCount"`
	UploadsPlaylistID *string `json:"uploadsPlaylistId"`
}

// CandidateChannel summarises one search hit when input matched several channels.
type CandidateChannel struct {
	ChannelID    string `json:"channelId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// ChannelService looks up channel details through the Data API.
type ChannelService struct {
	API api.Client
}

// FetchChannel issues one channels.list lookup and normalises the result.
// A lookup that returns no items yields ErrNotFound.
func (s ChannelService) FetchChannel(ctx context.Context, channelID string) (Channel, error) {
	id := strings.TrimSpace(channelID)
	if id == "" {
		return Channel{}, fmt.Errorf("%w: channel ID is required", ErrValidation)
	}

	items, err := s.API.ListChannels(ctx, []string{id})
	if err != nil {
		return Channel{}, upstreamError("fetch channel details", err)
	}
	if len(items) == 0 || items[0] == nil {
		return Channel{}, fmt.Errorf("%w: channel %s", ErrNotFound, id)
	}
	return normaliseChannel(items[0], id), nil
}

// ResolveChannelByVideo looks up the video's owning channel and fetches its details.
func (s ChannelService) ResolveChannelByVideo(ctx context.Context, videoID string) (Channel, error) {
	id := strings.TrimSpace(videoID)
	if id == "" {
		return Channel{}, fmt.Errorf("%w: video ID is required", ErrValidation)
	}

	videos, err := s.API.ListVideos(ctx, []string{id}, []string{"snippet"})
	if err != nil {
		return Channel{}, upstreamError("fetch video", err)
	}
	if len(videos) == 0 || videos[0] == nil || videos[0].Snippet == nil || videos[0].Snippet.ChannelId == "" {
		return Channel{}, fmt.Errorf("%w: video %s", ErrNotFound, id)
	}
	return s.FetchChannel(ctx, videos[0].Snippet.ChannelId)
}

func candidateFromSearch(hit *youtube.SearchResult) (CandidateChannel, bool) {
	if hit == nil {
		return CandidateChannel{}, false
	}
	var c CandidateChannel
	if hit.Id != nil {
		c.ChannelID = hit.Id.ChannelId
	}
	if hit.Snippet != nil {
		c.ChannelID = firstNonEmpty(c.ChannelID, hit.Snippet.ChannelId)
		c.Title = firstNonEmpty(hit.Snippet.Title, hit.Snippet.ChannelTitle)
		c.Description = hit.Snippet.Description
		c.ThumbnailURL = thumbnailURL(hit.Snippet.Thumbnails)
	}
	if c.ChannelID == "" {
		return CandidateChannel{}, false
	}
	return c, true
}

func normaliseChannel(item *youtube.Channel, requestedID string) Channel {
	ch := Channel{ChannelID: firstNonEmpty(item.Id, requestedID)}

	if item.Snippet != nil {
		ch.Title = item.Snippet.Title
		ch.ThumbnailURL = thumbnailURL(item.Snippet.Thumbnails)
		if custom := strings.TrimSpace(item.Snippet.CustomUrl); strings.HasPrefix(custom, handlePrefix) {
			ch.Handle = &custom
		}
	}
	if item.Statistics != nil {
		ch.VideoCount = countOrZero(item.Statistics.VideoCount)
	}
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
		if uploads := strings.TrimSpace(item.ContentDetails.RelatedPlaylists.Uploads); uploads != "" {
			ch.UploadsPlaylistID = &uploads
		}
	}
	return ch
}

// countOrZero converts a decoded API counter, treating values that do not
// fit a signed count as unknown.
func countOrZero(v uint64) int64 {
	if v > math.MaxInt64 {
		return 0
	}
	return int64(v)
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*youtube.Thumbnail{t.Medium, t.Default, t.High} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
