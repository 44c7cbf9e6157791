// Package format renders human-readable figures for summaries and
// exports, worded per output language.
package format

import (
	"fmt"
	"strings"

	"github.com/tubebrief/tubebrief/internal/model"
)

const readingWordsPerMinute = 200

// Duration formats a length in seconds the way each language writes it,
// e.g. "1 h 05 min" (fr) or "1h 05m" (en).
func Duration(seconds int, lang model.Language) string {
	if seconds <= 0 {
		return ""
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if lang == model.LanguageFrench {
		switch {
		case hours > 0:
			return fmt.Sprintf("%d h %02d min", hours, minutes)
		case minutes > 0:
			if secs > 0 {
				return fmt.Sprintf("%d min %02d s", minutes, secs)
			}
			return fmt.Sprintf("%d min", minutes)
		default:
			return fmt.Sprintf("%d s", secs)
		}
	}

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	case minutes > 0:
		if secs > 0 {
			return fmt.Sprintf("%dm %02ds", minutes, secs)
		}
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ReadingMinutes estimates reading time for a text, never below one
// minute.
func ReadingMinutes(wordCount int) int {
	minutes := (wordCount + readingWordsPerMinute/2) / readingWordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
