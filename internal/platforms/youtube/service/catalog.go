package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"channel-catalog/internal/platforms/youtube/api"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/youtube/v3"
)

// VideoItem is one entry of a channel or playlist catalog.
type VideoItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	PublishedAt  time.Time `json:"publishedAt"`
	// Duration is an ISO-8601 duration; nil when no detail record matched.
	Duration *string `json:"duration"`
}

// CatalogPage is one page of a channel's uploads. TotalCount is the
// channel's reported video count and may differ from what is enumerable.
type CatalogPage struct {
	Videos     []VideoItem `json:"videos"`
	NextCursor *string     `json:"nextCursor"`
	TotalCount int64       `json:"totalCount"`
}

// Playlist is a fully enumerated playlist in original item order.
type Playlist struct {
	PlaylistTitle string      `json:"playlistTitle"`
	TotalCount    int         `json:"totalCount"`
	Videos        []VideoItem `json:"videos"`
}

// PlaylistSummary describes one playlist owned by a channel.
type PlaylistSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ItemCount    int64  `json:"itemCount"`
}

var (
	durationParts = []string{"contentDetails"}
	detailParts   = []string{"snippet", "contentDetails"}
)

// CatalogService walks paginated listings and joins per-video details.
type CatalogService struct {
	API api.Client
	// DetailConcurrency bounds how many 50-ID detail batches FetchPlaylist
	// issues at once. Values below 2 fetch batches sequentially.
	DetailConcurrency int
}

// ListCatalogPage returns one page of the channel's uploads starting at
// cursor, with durations filled in from a single batched detail lookup.
func (s CatalogService) ListCatalogPage(ctx context.Context, channelID, cursor string) (CatalogPage, error) {
	ch, err := ChannelService{API: s.API}.FetchChannel(ctx, channelID)
	if err != nil {
		return CatalogPage{}, err
	}
	if ch.UploadsPlaylistID == nil {
		return CatalogPage{}, fmt.Errorf("%w: channel %s has no uploads playlist", ErrNotFound, ch.ChannelID)
	}

	resp, err := s.API.ListPlaylistItems(ctx, *ch.UploadsPlaylistID, strings.TrimSpace(cursor))
	if err != nil {
		return CatalogPage{}, upstreamError("list playlist items", err)
	}

	videos := make([]VideoItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		if v, ok := videoFromPlaylistItem(item); ok {
			videos = append(videos, v)
		}
	}

	if len(videos) > 0 {
		ids := make([]string, len(videos))
		index := make(map[string]int, len(videos))
		for i, v := range videos {
			ids[i] = v.ID
			index[v.ID] = i
		}
		details, err := s.API.ListVideos(ctx, ids, durationParts)
		if err != nil {
			return CatalogPage{}, upstreamError("list video details", err)
		}
		for _, d := range details {
			if d == nil || d.ContentDetails == nil || d.ContentDetails.Duration == "" {
				continue
			}
			if i, ok := index[d.Id]; ok {
				duration := d.ContentDetails.Duration
				videos[i].Duration = &duration
			}
		}
	}

	page := CatalogPage{Videos: videos, TotalCount: ch.VideoCount}
	if next := resp.NextPageToken; next != "" {
		page.NextCursor = &next
	}
	return page, nil
}

// ListAllVideoIDs follows continuation tokens until the playlist is
// exhausted and returns item video IDs in arrival order. Pages are fetched
// one after another since each cursor comes from the previous response.
func (s CatalogService) ListAllVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID is required", ErrValidation)
	}

	var ids []string
	pageToken := ""
	for {
		resp, err := s.API.ListPlaylistItems(ctx, playlistID, pageToken)
		if err != nil {
			return nil, upstreamError("list playlist items", err)
		}
		for _, item := range resp.Items {
			if id := playlistItemVideoID(item); id != "" {
				ids = append(ids, id)
			}
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			return ids, nil
		}
	}
}

// FetchPlaylist enumerates a playlist and returns full video details in
// playlist order. Items whose details cannot be fetched are dropped.
func (s CatalogService) FetchPlaylist(ctx context.Context, playlistID string) (Playlist, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return Playlist{}, fmt.Errorf("%w: playlist ID is required", ErrValidation)
	}

	meta, err := s.API.ListPlaylists(ctx, api.PlaylistQuery{IDs: []string{playlistID}})
	if err != nil {
		return Playlist{}, upstreamError("fetch playlist", err)
	}
	if len(meta.Items) == 0 || meta.Items[0] == nil {
		return Playlist{}, fmt.Errorf("%w: playlist %s", ErrNotFound, playlistID)
	}
	var title string
	if meta.Items[0].Snippet != nil {
		title = meta.Items[0].Snippet.Title
	}

	ids, err := s.ListAllVideoIDs(ctx, playlistID)
	if err != nil {
		return Playlist{}, err
	}
	if len(ids) == 0 {
		return Playlist{PlaylistTitle: title, Videos: []VideoItem{}}, nil
	}

	details, err := s.fetchVideoDetails(ctx, ids)
	if err != nil {
		return Playlist{}, err
	}

	videos := make([]VideoItem, 0, len(ids))
	for _, id := range ids {
		if v, ok := details[id]; ok {
			videos = append(videos, v)
		}
	}
	return Playlist{PlaylistTitle: title, TotalCount: len(ids), Videos: videos}, nil
}

// fetchVideoDetails looks up ids in batches of api.MaxPageSize and returns
// the results keyed by video ID.
func (s CatalogService) fetchVideoDetails(ctx context.Context, ids []string) (map[string]VideoItem, error) {
	batches := chunk(ids, api.MaxPageSize)
	results := make([][]*youtube.Video, len(batches))

	if s.DetailConcurrency < 2 {
		for i, batch := range batches {
			items, err := s.API.ListVideos(ctx, batch, detailParts)
			if err != nil {
				return nil, upstreamError("list video details", err)
			}
			results[i] = items
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.DetailConcurrency)
		for i, batch := range batches {
			g.Go(func() error {
				items, err := s.API.ListVideos(gctx, batch, detailParts)
				if err != nil {
					return upstreamError("list video details", err)
				}
				results[i] = items
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	byID := make(map[string]VideoItem, len(ids))
	for _, items := range results {
		for _, item := range items {
			if item == nil || item.Id == "" {
				continue
			}
			byID[item.Id] = videoFromDetail(item)
		}
	}
	return byID, nil
}

// ListChannelPlaylists returns every playlist owned by the channel.
func (s CatalogService) ListChannelPlaylists(ctx context.Context, channelID string) ([]PlaylistSummary, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, fmt.Errorf("%w: channel ID is required", ErrValidation)
	}

	playlists := []PlaylistSummary{}
	pageToken := ""
	for {
		resp, err := s.API.ListPlaylists(ctx, api.PlaylistQuery{ChannelID: channelID, PageToken: pageToken})
		if err != nil {
			return nil, upstreamError("list channel playlists", err)
		}
		for _, item := range resp.Items {
			if item == nil {
				continue
			}
			summary := PlaylistSummary{ID: item.Id}
			if item.Snippet != nil {
				summary.Title = item.Snippet.Title
				summary.ThumbnailURL = thumbnailURL(item.Snippet.Thumbnails)
			}
			if item.ContentDetails != nil {
				summary.ItemCount = item.ContentDetails.ItemCount
			}
			playlists = append(playlists, summary)
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			return playlists, nil
		}
	}
}

func playlistItemVideoID(item *youtube.PlaylistItem) string {
	if item == nil {
		return ""
	}
	if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
		return item.ContentDetails.VideoId
	}
	if item.Snippet != nil && item.Snippet.ResourceId != nil {
		return item.Snippet.ResourceId.VideoId
	}
	return ""
}

func videoFromPlaylistItem(item *youtube.PlaylistItem) (VideoItem, bool) {
	id := playlistItemVideoID(item)
	if id == "" {
		return VideoItem{}, false
	}
	v := VideoItem{ID: id}
	var published string
	if item.ContentDetails != nil {
		published = item.ContentDetails.VideoPublishedAt
	}
	if item.Snippet != nil {
		v.Title = item.Snippet.Title
		v.ThumbnailURL = thumbnailURL(item.Snippet.Thumbnails)
		published = firstNonEmpty(published, item.Snippet.PublishedAt)
	}
	v.PublishedAt = parseTimestamp(published)
	return v, true
}

func videoFromDetail(item *youtube.Video) VideoItem {
	v := VideoItem{ID: item.Id}
	if item.Snippet != nil {
		v.Title = item.Snippet.Title
		v.ThumbnailURL = thumbnailURL(item.Snippet.Thumbnails)
		v.PublishedAt = parseTimestamp(item.Snippet.PublishedAt)
	}
	if item.ContentDetails != nil && item.ContentDetails.Duration != "" {
		duration := item.ContentDetails.Duration
		v.Duration = &duration
	}
	return v
}

func parseTimestamp(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[start:end])
	}
	return out
}
