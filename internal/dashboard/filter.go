package dashboard

import (
	"sort"
	"strings"

	"github.com/DankoOfficial/angrybird/internal/store"
)

// Filter narrows and orders the dataset the way the dashboard sidebar does.
type Filter struct {
	Uploader    string // case-insensitive substring match
	MinLikes    int
	MinComments int
	SortBy      string // uploader, upload_date, likes, comments, favorites, shares
	Descending  bool
	Limit       int // 0 = no cap
}

// Apply returns the videos passing the filter, sorted and capped.
func (f Filter) Apply(videos []store.Video) []store.Video {
	out := make([]store.Video, 0, len(videos))
	needle := strings.ToLower(f.Uploader)
	for _, v := range videos {
		if needle != "" && !strings.Contains(strings.ToLower(v.Uploader), needle) {
			continue
		}
		if v.Likes < f.MinLikes || v.Comments < f.MinComments {
			continue
		}
		out = append(out, v)
	}

	if f.SortBy != "" {
		less := lessFunc(f.SortBy)
		sort.SliceStable(out, func(i, j int) bool {
			if f.Descending {
				return less(out[j], out[i])
			}
			return less(out[i], out[j])
		})
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func lessFunc(sortBy string) func(a, b store.Video) bool {
	switch sortBy {
	case "likes":
		return func(a, b store.Video) bool { return a.Likes < b.Likes }
	case "comments":
		return func(a, b store.Video) bool { return a.Comments < b.Comments }
	case "shares":
		return func(a, b store.Video) bool { return a.Shares < b.Shares }
	case "favorites":
		return func(a, b store.Video) bool {
			return store.ParseMetric(a.Favorites) < store.ParseMetric(b.Favorites)
		}
	case "uploader":
		return func(a, b store.Video) bool { return a.Uploader < b.Uploader }
	default: // upload_date; raw display text, lexical order is best effort
		return func(a, b store.Video) bool { return a.UploadDate < b.UploadDate }
	}
}
