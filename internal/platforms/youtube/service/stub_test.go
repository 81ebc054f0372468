package service

import (
	"context"
	"fmt"
	"sync"

	"channel-catalog/internal/platforms/youtube/api"

	"google.golang.org/api/youtube/v3"
)

// stubAPI is a scriptable api.Client that counts every call by operation.
type stubAPI struct {
	mu sync.Mutex

	channels    map[string]*youtube.Channel
	channelsErr error

	handles   map[string]string
	handleErr error

	searchHits  []*youtube.SearchResult
	searchErr   error
	searchQuery string
	searchMax   int64

	// pages is keyed by page token; "" is the first page.
	pages    map[string]*youtube.PlaylistItemListResponse
	pagesErr error

	videos map[string]*youtube.Video
	// videoOrder, when set, overrides the response order of ListVideos.
	videoOrder   []string
	videosErr    error
	videoBatches [][]string

	playlists      map[string]*youtube.Playlist
	channelLists   map[string]*youtube.PlaylistListResponse
	playlistsErr   error
	playlistTokens []string

	calls map[api.Operation]int
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		channels:     map[string]*youtube.Channel{},
		handles:      map[string]string{},
		pages:        map[string]*youtube.PlaylistItemListResponse{},
		videos:       map[string]*youtube.Video{},
		playlists:    map[string]*youtube.Playlist{},
		channelLists: map[string]*youtube.PlaylistListResponse{},
		calls:        map[api.Operation]int{},
	}
}

func (s *stubAPI) count(op api.Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
}

func (s *stubAPI) callCount(op api.Operation) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *stubAPI) unitsSpent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for op, n := range s.calls {
		total += op.Cost() * n
	}
	return total
}

func (s *stubAPI) SearchChannels(_ context.Context, query string, maxResults int64) ([]*youtube.SearchResult, error) {
	s.count(api.OpSearch)
	s.searchQuery = query
	s.searchMax = maxResults
	return s.searchHits, s.searchErr
}

func (s *stubAPI) ListChannels(_ context.Context, ids []string) ([]*youtube.Channel, error) {
	s.count(api.OpChannels)
	if s.channelsErr != nil {
		return nil, s.channelsErr
	}
	var out []*youtube.Channel
	for _, id := range ids {
		if ch, ok := s.channels[id]; ok {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (s *stubAPI) ChannelIDForHandle(_ context.Context, handle string) (string, error) {
	s.count(api.OpHandle)
	if s.handleErr != nil {
		return "", s.handleErr
	}
	if id, ok := s.handles[handle]; ok {
		return id, nil
	}
	return "", api.ErrNoMatch
}

func (s *stubAPI) ListPlaylistItems(_ context.Context, playlistID, pageToken string) (*youtube.PlaylistItemListResponse, error) {
	s.count(api.OpPlaylistItems)
	if s.pagesErr != nil {
		return nil, s.pagesErr
	}
	if page, ok := s.pages[pageToken]; ok {
		return page, nil
	}
	return nil, fmt.Errorf("unexpected page token %q for %s", pageToken, playlistID)
}

func (s *stubAPI) ListVideos(_ context.Context, ids []string, _ []string) ([]*youtube.Video, error) {
	s.count(api.OpVideos)
	s.mu.Lock()
	s.videoBatches = append(s.videoBatches, append([]string(nil), ids...))
	s.mu.Unlock()
	if s.videosErr != nil {
		return nil, s.videosErr
	}

	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}
	order := ids
	if s.videoOrder != nil {
		order = s.videoOrder
	}
	var out []*youtube.Video
	for _, id := range order {
		if v, ok := s.videos[id]; ok && requested[id] {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubAPI) ListPlaylists(_ context.Context, query api.PlaylistQuery) (*youtube.PlaylistListResponse, error) {
	s.count(api.OpPlaylists)
	if s.playlistsErr != nil {
		return nil, s.playlistsErr
	}
	if len(query.IDs) > 0 {
		resp := &youtube.PlaylistListResponse{}
		for _, id := range query.IDs {
			if p, ok := s.playlists[id]; ok {
				resp.Items = append(resp.Items, p)
			}
		}
		return resp, nil
	}
	s.playlistTokens = append(s.playlistTokens, query.PageToken)
	if resp, ok := s.channelLists[query.PageToken]; ok {
		return resp, nil
	}
	return &youtube.PlaylistListResponse{}, nil
}

func testChannel(id, title string, videoCount uint64, uploads string) *youtube.Channel {
	ch := &youtube.Channel{
		Id: id,
		Snippet: &youtube.ChannelSnippet{
			Title:     title,
			CustomUrl: "@" + title,
			Thumbnails: &youtube.ThumbnailDetails{
				Default: &youtube.Thumbnail{Url: "https://img.example/" + id + "/default.jpg"},
				Medium:  &youtube.Thumbnail{Url: "https://img.example/" + id + "/medium.jpg"},
			},
		},
		Statistics: &youtube.ChannelStatistics{VideoCount: videoCount},
	}
	if uploads != "" {
		ch.ContentDetails = &youtube.ChannelContentDetails{
			RelatedPlaylists: &youtube.ChannelContentDetailsRelatedPlaylists{Uploads: uploads},
		}
	}
	return ch
}

func searchHit(channelID, title string) *youtube.SearchResult {
	return &youtube.SearchResult{
		Id: &youtube.ResourceId{Kind: "youtube#channel", ChannelId: channelID},
		Snippet: &youtube.SearchResultSnippet{
			ChannelId:   channelID,
			Title:       title,
			Description: title + " description",
			Thumbnails: &youtube.ThumbnailDetails{
				Default: &youtube.Thumbnail{Url: "https://img.example/" + channelID + ".jpg"},
			},
		},
	}
}

func playlistItem(videoID string) *youtube.PlaylistItem {
	return &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			Title:       "video " + videoID,
			PublishedAt: "2024-01-02T03:04:05Z",
			ResourceId:  &youtube.ResourceId{Kind: "youtube#video", VideoId: videoID},
		},
		ContentDetails: &youtube.PlaylistItemContentDetails{
			VideoId:          videoID,
			VideoPublishedAt: "2023-12-31T10:00:00Z",
		},
	}
}

func videoDetail(id, duration string) *youtube.Video {
	return &youtube.Video{
		Id: id,
		Snippet: &youtube.VideoSnippet{
			Title:       "detail " + id,
			PublishedAt: "2023-12-31T10:00:00Z",
			ChannelId:   "UCowner00000000000000000",
		},
		ContentDetails: &youtube.VideoContentDetails{Duration: duration},
	}
}
