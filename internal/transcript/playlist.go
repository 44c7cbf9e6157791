package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tubebrief/tubebrief/internal/urlutil"
)

const (
	dataAPIPlaylistURL = "https://www.googleapis.com/youtube/v3/playlistItems"
	playlistPageSize   = 50
	playlistMaxVideos  = 200 // hard cap; a summary run over more makes no sense
)

// ErrPlaylistUnsupported marks playlist enumeration attempted without a
// Data API key; there is no scrape fallback for playlists.
var ErrPlaylistUnsupported = errors.New("playlist enumeration requires a YouTube API key")

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// FetchPlaylist returns the playlist's video identifiers in playlist
// order.
func (f *Fetcher) FetchPlaylist(ctx context.Context, rawURL string) ([]string, error) {
	playlistID, err := urlutil.ExtractPlaylistID(rawURL)
	if err != nil {
		return nil, err
	}
	if f.apiKey == "" {
		return nil, ErrPlaylistUnsupported
	}

	var ids []string
	pageToken := ""
	for {
		page, err := f.fetchPlaylistPage(ctx, playlistID, pageToken)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if item.ContentDetails.VideoID != "" {
				ids = append(ids, item.ContentDetails.VideoID)
			}
		}
		if page.NextPageToken == "" || len(ids) >= playlistMaxVideos {
			break
		}
		pageToken = page.NextPageToken
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("empty or private playlist: %w", ErrVideoNotFound)
	}
	if len(ids) > playlistMaxVideos {
		ids = ids[:playlistMaxVideos]
	}
	return ids, nil
}

func (f *Fetcher) fetchPlaylistPage(ctx context.Context, playlistID, pageToken string) (*playlistItemsResponse, error) {
	q := url.Values{}
	q.Set("playlistId", playlistID)
	q.Set("part", "contentDetails")
	q.Set("maxResults", fmt.Sprintf("%d", playlistPageSize))
	q.Set("key", f.apiKey)
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dataAPIPlaylistURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create playlist request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("playlist: %w", ErrVideoNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("playlist API error: %d", resp.StatusCode)
	}

	var page playlistItemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode playlist response: %w", err)
	}
	return &page, nil
}
