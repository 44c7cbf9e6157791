package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/tubebrief/tubebrief/internal/model"
)

const captionTracksMarker = `"captionTracks":`

// captionTrack is one entry of the player response's caption list.
// Kind "asr" marks an auto-generated track.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// fetchCaptions discovers the caption tracks embedded in the watch page,
// picks the best track for the requested language and downloads its
// timedtext document.
func (f *Fetcher) fetchCaptions(ctx context.Context, page string, lang model.Language) (string, error) {
	tracks, err := parseCaptionTracks(page)
	if err != nil {
		return "", err
	}

	track := selectTrack(tracks, string(lang))
	text, err := f.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptUnavailable, err)
	}
	if text == "" {
		return "", ErrTranscriptUnavailable
	}
	return text, nil
}

// parseCaptionTracks extracts the caption track array from the player
// JSON. The array is decoded in place with a json.Decoder, which stops
// at the end of the value, so the surrounding script is never parsed.
func parseCaptionTracks(page string) ([]captionTrack, error) {
	idx := strings.Index(page, captionTracksMarker)
	if idx < 0 {
		return nil, ErrTranscriptUnavailable
	}

	dec := json.NewDecoder(strings.NewReader(page[idx+len(captionTracksMarker):]))
	var tracks []captionTrack
	if err := dec.Decode(&tracks); err != nil {
		return nil, fmt.Errorf("%w: malformed caption list", ErrTranscriptUnavailable)
	}
	if len(tracks) == 0 {
		return nil, ErrTranscriptUnavailable
	}
	return tracks, nil
}

// selectTrack prefers a human track in the requested language, then an
// auto-generated one, then any human track, then whatever is first.
func selectTrack(tracks []captionTrack, lang string) captionTrack {
	var langASR, anyHuman *captionTrack
	for i := range tracks {
		t := &tracks[i]
		matches := t.LanguageCode == lang || strings.HasPrefix(t.LanguageCode, lang+"-")
		if matches && t.Kind != "asr" {
			return *t
		}
		if matches && langASR == nil {
			langASR = t
		}
		if t.Kind != "asr" && anyHuman == nil {
			anyHuman = t
		}
	}
	if langASR != nil {
		return *langASR
	}
	if anyHuman != nil {
		return *anyHuman
	}
	return tracks[0]
}

type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func (f *Fetcher) fetchTimedText(ctx context.Context, baseURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return "", fmt.Errorf("create timedtext request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, watchPageLimit))
	if err != nil {
		return "", fmt.Errorf("read timedtext: %w", err)
	}

	return flattenTimedText(body)
}

// flattenTimedText joins the caption segments into one text. The XML
// decoder unescapes once; YouTube double-escapes entities, so a second
// pass runs on each segment.
func flattenTimedText(data []byte) (string, error) {
	var doc timedText
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("decode timedtext: %w", err)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		segment := strings.TrimSpace(html.UnescapeString(t.Value))
		if segment == "" {
			continue
		}
		parts = append(parts, strings.ReplaceAll(segment, "\n", " "))
	}
	return strings.Join(parts, " "), nil
}
