// Package urlutil validates YouTube URLs and extracts video and playlist
// identifiers from their many formats.
package urlutil

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidURL marks input that is not a recognizable YouTube video or
// playlist reference.
var ErrInvalidURL = errors.New("invalid YouTube URL")

var (
	videoIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?(?:[^#]*&)?v=|youtu\.be/|youtube\.com/shorts/|youtube\.com/embed/|youtube\.com/live/)([a-zA-Z0-9_-]{11})`)
	bareIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	playlistIDPat  = regexp.MustCompile(`[?&]list=([a-zA-Z0-9_-]+)`)
)

// ExtractVideoID returns the 11-character video identifier from a YouTube
// URL, or from a bare identifier. Empty when none is found.
func ExtractVideoID(raw string) string {
	raw = strings.TrimSpace(raw)
	if bareIDPattern.MatchString(raw) {
		return raw
	}
	if m := videoIDPattern.FindStringSubmatch(raw); len(m) > 1 {
		return m[1]
	}
	return ""
}

// ValidateVideoURL extracts the video identifier or fails with
// ErrInvalidURL.
func ValidateVideoURL(raw string) (string, error) {
	if id := ExtractVideoID(raw); id != "" {
		return id, nil
	}
	return "", ErrInvalidURL
}

// IsPlaylistURL reports whether the URL references a playlist. A watch
// URL carrying a list parameter counts: the original was opened from a
// playlist.
func IsPlaylistURL(raw string) bool {
	return playlistIDPat.MatchString(raw)
}

// ExtractPlaylistID returns the playlist identifier or fails with
// ErrInvalidURL.
func ExtractPlaylistID(raw string) (string, error) {
	if m := playlistIDPat.FindStringSubmatch(strings.TrimSpace(raw)); len(m) > 1 {
		return m[1], nil
	}
	return "", ErrInvalidURL
}

// WatchURL builds the canonical watch URL for a video identifier.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
