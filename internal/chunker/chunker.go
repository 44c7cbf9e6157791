// Package chunker splits transcripts into segments that fit a provider's
// context budget. Chunks are exact substrings of the input, so joining
// them in index order reconstructs the transcript byte for byte.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/tubebrief/tubebrief/internal/model"
)

// bytesPerToken is the approximation used for budget accounting. Real
// tokenizers vary per provider; 4 bytes per token is a conservative
// estimate for both English and French prose.
const bytesPerToken = 4

// ApproxTokens estimates the token count of a text.
func ApproxTokens(text string) int {
	return (len(text) + bytesPerToken - 1) / bytesPerToken
}

// Fits reports whether the text fits within maxTokens.
func Fits(text string, maxTokens int) bool {
	return ApproxTokens(text) <= maxTokens
}

// Split cuts text into ordered chunks of at most maxTokens each, greedily
// filling every chunk so the count is minimal. Cuts land on paragraph or
// sentence boundaries when one exists in the second half of the window,
// on a word boundary otherwise, and only as a last resort inside a word
// (at a rune boundary); the latter two are flagged HardSplit.
func Split(text string, maxTokens int) []model.Chunk {
	if maxTokens < 1 {
		maxTokens = 1
	}
	budget := maxTokens * bytesPerToken

	if len(text) <= budget {
		return []model.Chunk{{
			Index:        0,
			Text:         text,
			ApproxTokens: ApproxTokens(text),
		}}
	}

	var chunks []model.Chunk
	remaining := text
	for len(remaining) > budget {
		window := remaining[:runeAlignedCut(remaining, budget)]
		cut, hard := splitPoint(window)

		piece := remaining[:cut]
		chunks = append(chunks, model.Chunk{
			Index:        len(chunks),
			Text:         piece,
			ApproxTokens: ApproxTokens(piece),
			HardSplit:    hard,
		})
		remaining = remaining[cut:]
	}

	chunks = append(chunks, model.Chunk{
		Index:        len(chunks),
		Text:         remaining,
		ApproxTokens: ApproxTokens(remaining),
	})
	return chunks
}

// Excerpt returns the leading slice of text that fits maxTokens. Used for
// bounded prompt excerpts, e.g. classification.
func Excerpt(text string, maxTokens int) string {
	return Split(text, maxTokens)[0].Text
}

var sentenceEnds = []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}

// splitPoint finds where to cut a window that is already budget-sized.
// The returned offset is always in (0, len(window)].
func splitPoint(window string) (int, bool) {
	half := len(window) / 2

	// Paragraph break in the second half wins.
	if i := strings.LastIndex(window, "\n\n"); i+2 > half {
		return i + 2, false
	}

	// Then the latest sentence end.
	best := -1
	for _, end := range sentenceEnds {
		if i := strings.LastIndex(window, end); i >= 0 && i+len(end) > best {
			best = i + len(end)
		}
	}
	if best > half {
		return best, false
	}

	// No sentence boundary fits: cut the sentence at a word boundary.
	if i := strings.LastIndexByte(window, ' '); i > 0 {
		return i + 1, true
	}
	if i := strings.LastIndexByte(window, '\n'); i > 0 {
		return i + 1, true
	}

	// Single word longer than the budget: cut inside it.
	return len(window), true
}

// runeAlignedCut backs a byte offset off to the nearest rune start so a
// window never ends inside a multi-byte rune.
func runeAlignedCut(s string, n int) int {
	if n >= len(s) {
		return len(s)
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	if n == 0 {
		n = 1 // degenerate budget, advance at least one byte
	}
	return n
}
