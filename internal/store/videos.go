package store

import (
	"strconv"
	"strings"
)

// Video is a dataset row as the dashboard consumes it: engagement columns
// parsed to numbers, everything else kept as captured.
type Video struct {
	Uploader    string `json:"uploader"`
	UploadDate  string `json:"upload_date"`
	Description string `json:"description"`
	Likes       int    `json:"likes"`
	Comments    int    `json:"comments"`
	Favorites   string `json:"favorites"`
	Shares      int    `json:"shares"`
	MusicText   string `json:"music_text"`
}

// LoadVideos reads the dataset file and parses the numeric columns
// leniently: "1.2K" becomes 1200, anything unparseable becomes 0.
func LoadVideos(path string) ([]Video, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(rows))
	for _, r := range rows {
		videos = append(videos, Video{
			Uploader:    r.Username,
			UploadDate:  r.UploadDate,
			Description: r.Description,
			Likes:       ParseMetric(r.Likes),
			Comments:    ParseMetric(r.Comments),
			Favorites:   r.Favorites,
			Shares:      ParseMetric(r.Shares),
			MusicText:   r.MusicText,
		})
	}
	return videos, nil
}

// ParseMetric converts abbreviated display counts like "1.2K", "5.7M", or
// "423" to integers. Unparseable input yields 0.
func ParseMetric(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(strings.ToUpper(s), "K"):
		multiplier = 1000
		s = s[:len(s)-1]
	case strings.HasSuffix(strings.ToUpper(s), "M"):
		multiplier = 1000000
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(value * multiplier)
}
