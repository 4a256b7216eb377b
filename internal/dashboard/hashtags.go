package dashboard

import (
	"regexp"
	"sort"

	"github.com/DankoOfficial/angrybird/internal/store"
)

var hashtagRe = regexp.MustCompile(`#\w+`)

// HashtagStat aggregates engagement for one hashtag across the dataset.
type HashtagStat struct {
	Tag      string `json:"tag"`
	Videos   int    `json:"videos"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
	Shares   int    `json:"shares"`
	Total    int    `json:"total_engagement"`
}

// TopHashtags extracts hashtags from descriptions and returns the n with
// the highest summed likes+comments+shares engagement.
func TopHashtags(videos []store.Video, n int) []HashtagStat {
	byTag := make(map[string]*HashtagStat)
	for _, v := range videos {
		for _, tag := range hashtagRe.FindAllString(v.Description, -1) {
			s, ok := byTag[tag]
			if !ok {
				s = &HashtagStat{Tag: tag}
				byTag[tag] = s
			}
			s.Videos++
			s.Likes += v.Likes
			s.Comments += v.Comments
			s.Shares += v.Shares
			s.Total += v.Likes + v.Comments + v.Shares
		}
	}

	stats := make([]HashtagStat, 0, len(byTag))
	for _, s := range byTag {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].Tag < stats[j].Tag
	})

	if n > 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}
