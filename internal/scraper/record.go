// Package scraper implements the capture, filter, dedup and persist pipeline
// that runs against a live TikTok feed.
package scraper

// FieldMissing is the sentinel written for fields whose sibling list is
// shorter than the username list. Visible UI lists legitimately lag each
// other by a few items while the feed renders incrementally, so partial
// records are expected.
const FieldMissing = "N/A"

// VideoRecord is one video captured from the feed. All engagement counts
// keep their raw display text ("1.2M", "334.5K"); nothing is numeric-
// normalized at capture time. Username is the identity used for dedup.
type VideoRecord struct {
	Username    string `json:"username"`
	Likes       string `json:"likes"`
	Comments    string `json:"comments"`
	Favorites   string `json:"favorites"`
	Shares      string `json:"shares"`
	UploadDate  string `json:"upload_date"`
	Description string `json:"description"`
	MusicText   string `json:"music_text"`
}
