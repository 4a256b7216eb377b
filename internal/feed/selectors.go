package feed

// TikTok DOM selectors
// These are isolated here because TikTok changes their DOM frequently
// Update these when scraping breaks

const (
	// One parallel list per video attribute. Username is the reference list:
	// records are aligned positionally against it.
	Username   = `h3[data-e2e="video-author-uniqueid"]`
	LikeCount  = `strong[data-e2e="like-count"]`
	Comments   = `strong[data-e2e="comment-count"]`
	Favorites  = `button[aria-label*="Favorites"]`
	Shares     = `strong[data-e2e="share-count"]`
	UploadDate = `a.e1g2yhv81`
	Desc       = `h1[data-e2e="video-desc"]`
	MusicText  = `div.css-pvx3oa-DivMusicText`
)

// Common wait conditions
const (
	// WaitForFeed confirms the feed has rendered after login and that new
	// content has loaded after a scroll.
	WaitForFeed = LikeCount
)
