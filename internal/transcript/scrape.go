package transcript

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tubebrief/tubebrief/internal/model"
	"golang.org/x/net/html"
)

// ISO 8601 duration pattern (PT#H#M#S)
var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// parseISODuration converts an ISO 8601 duration to seconds.
func parseISODuration(duration string) int {
	matches := isoDurationPattern.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var hours, minutes, seconds int
	if matches[1] != "" {
		hours, _ = strconv.Atoi(matches[1])
	}
	if matches[2] != "" {
		minutes, _ = strconv.Atoi(matches[2])
	}
	if matches[3] != "" {
		seconds, _ = strconv.Atoi(matches[3])
	}

	return hours*3600 + minutes*60 + seconds
}

// applyScrapedMetadata fills title, channel and duration from the watch
// page's own markup: og:title, the itemprop duration meta, and the
// channel's itemprop name link. Used when no Data API key is configured.
func applyScrapedMetadata(page string, info *model.VideoInfo) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return
	}
	walkWatchPage(doc, info)
}

func walkWatchPage(n *html.Node, info *model.VideoInfo) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "meta":
			property := attr(n, "property")
			itemprop := attr(n, "itemprop")
			content := attr(n, "content")
			switch {
			case property == "og:title" && info.Title == "":
				info.Title = content
			case itemprop == "duration" && info.DurationS == 0:
				info.DurationS = parseISODuration(content)
			}
		case "link":
			if attr(n, "itemprop") == "name" && info.Channel == "" {
				info.Channel = attr(n, "content")
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkWatchPage(c, info)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
