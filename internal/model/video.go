package model

// VideoInfo holds the identity and content of one source video.
// It is produced once per request by the transcript fetcher and never
// mutated afterwards.
type VideoInfo struct {
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	Channel    string `json:"channel"`
	DurationS  int    `json:"duration_seconds"`
	Transcript string `json:"-"`
}

// Chunk is a bounded contiguous slice of a transcript. Chunks are exact
// substrings: concatenating Text in Index order reproduces the original
// transcript byte for byte.
type Chunk struct {
	Index        int
	Text         string
	ApproxTokens int

	// HardSplit marks a chunk whose end was forced mid-sentence because
	// no paragraph or sentence boundary fit the budget.
	HardSplit bool
}
