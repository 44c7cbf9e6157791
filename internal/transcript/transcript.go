// Package transcript retrieves a video's transcript and metadata, and
// enumerates playlists. Metadata comes from the YouTube Data API v3 when
// a key is configured, and from the watch page's own markup otherwise;
// caption text always comes from the track URLs the watch page exposes.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tubebrief/tubebrief/internal/model"
	"github.com/tubebrief/tubebrief/internal/urlutil"
)

var (
	// ErrVideoNotFound marks an identifier that resolves to no video.
	ErrVideoNotFound = errors.New("video not found")

	// ErrTranscriptUnavailable marks a video with no usable caption track.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
)

const (
	dataAPIVideosURL = "https://www.googleapis.com/youtube/v3/videos"
	watchPageLimit   = 5 << 20 // watch pages embed large player JSON
	fetchTimeout     = 20 * time.Second
)

// Fetcher retrieves VideoInfo for video URLs or identifiers.
type Fetcher struct {
	apiKey string
	client *http.Client
}

// NewFetcher creates a Fetcher. apiKey is the YouTube Data API key and
// may be empty; metadata then falls back to scraping the watch page, and
// playlist enumeration is unavailable.
func NewFetcher(apiKey string) *Fetcher {
	return &Fetcher{
		apiKey: apiKey,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch resolves a video URL or bare identifier into its metadata and
// transcript. The language steers caption track selection; when no track
// matches, any available track is used.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, lang model.Language) (*model.VideoInfo, error) {
	videoID, err := urlutil.ValidateVideoURL(rawURL)
	if err != nil {
		return nil, err
	}

	page, err := f.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}

	info := &model.VideoInfo{VideoID: videoID}
	if f.apiKey != "" {
		if err := f.applyDataAPIMetadata(ctx, info); err != nil {
			if errors.Is(err, ErrVideoNotFound) {
				return nil, err
			}
			// API trouble is not fatal: the watch page carries enough.
			applyScrapedMetadata(page, info)
		}
	} else {
		applyScrapedMetadata(page, info)
	}

	transcriptText, err := f.fetchCaptions(ctx, page, lang)
	if err != nil {
		return nil, err
	}
	info.Transcript = transcriptText

	return info, nil
}

func (f *Fetcher) fetchWatchPage(ctx context.Context, videoID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlutil.WatchURL(videoID), nil)
	if err != nil {
		return "", fmt.Errorf("create watch request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; tubebrief/1.0)")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8,fr;q=0.6")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrVideoNotFound
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("watch page HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, watchPageLimit))
	if err != nil {
		return "", fmt.Errorf("read watch page: %w", err)
	}

	page := string(body)
	if strings.Contains(page, `"playabilityStatus":{"status":"ERROR"`) {
		return "", ErrVideoNotFound
	}
	return page, nil
}

// Data API response shapes, snippet + contentDetails parts only.
type videosResponse struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (f *Fetcher) applyDataAPIMetadata(ctx context.Context, info *model.VideoInfo) error {
	apiURL := fmt.Sprintf("%s?id=%s&part=snippet,contentDetails&key=%s",
		dataAPIVideosURL,
		url.QueryEscape(info.VideoID),
		url.QueryEscape(f.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create API request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch YouTube API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("YouTube API error: %d", resp.StatusCode)
	}

	var apiResp videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode API response: %w", err)
	}
	if len(apiResp.Items) == 0 {
		return ErrVideoNotFound
	}

	item := apiResp.Items[0]
	info.Title = item.Snippet.Title
	info.Channel = item.Snippet.ChannelTitle
	info.DurationS = parseISODuration(item.ContentDetails.Duration)
	return nil
}
