package scraper

import (
	"context"
	"strings"

	"github.com/DankoOfficial/angrybird/internal/feed"
)

// dateSeparator splits "handle · 3d ago" style labels; the upload date is
// the second segment.
const dateSeparator = "·"

// Extract captures the currently visible feed items as aligned records.
//
// Eight parallel attribute lists are queried and aligned positionally
// against the username list. Any list shorter than the username list
// degrades the affected fields to the "N/A" sentinel instead of failing the
// cycle. If the same username appears twice in one capture (duplicate DOM
// entries), the later occurrence overwrites the earlier one's fields but
// keeps its position, so emission order stays extraction order.
func Extract(ctx context.Context, src feed.Source) ([]VideoRecord, error) {
	usernames, err := src.QueryAll(ctx, feed.Username)
	if err != nil {
		return nil, err
	}

	likes, err := src.QueryAll(ctx, feed.LikeCount)
	if err != nil {
		return nil, err
	}
	comments, err := src.QueryAll(ctx, feed.Comments)
	if err != nil {
		return nil, err
	}
	favorites, err := src.QueryAll(ctx, feed.Favorites)
	if err != nil {
		return nil, err
	}
	shares, err := src.QueryAll(ctx, feed.Shares)
	if err != nil {
		return nil, err
	}
	dates, err := src.QueryAll(ctx, feed.UploadDate)
	if err != nil {
		return nil, err
	}
	descriptions, err := src.QueryAll(ctx, feed.Desc)
	if err != nil {
		return nil, err
	}
	music, err := src.QueryAll(ctx, feed.MusicText)
	if err != nil {
		return nil, err
	}

	records := make([]VideoRecord, 0, len(usernames))
	position := make(map[string]int, len(usernames))

	for i, username := range usernames {
		rec := VideoRecord{
			Username:    username,
			Likes:       fieldAt(likes, i),
			Comments:    fieldAt(comments, i),
			Favorites:   fieldAt(favorites, i),
			Shares:      fieldAt(shares, i),
			UploadDate:  dateAt(dates, i),
			Description: fieldAt(descriptions, i),
			MusicText:   fieldAt(music, i),
		}

		if at, seen := position[username]; seen {
			records[at] = rec
			continue
		}
		position[username] = len(records)
		records = append(records, rec)
	}

	return records, nil
}

// fieldAt returns list[i] or the sentinel when the list is short.
func fieldAt(list []string, i int) string {
	if i >= len(list) {
		return FieldMissing
	}
	return list[i]
}

// dateAt extracts the upload date from a "handle · date" label.
func dateAt(dates []string, i int) string {
	if i >= len(dates) {
		return FieldMissing
	}
	_, after, ok := strings.Cut(dates[i], dateSeparator)
	if !ok {
		return FieldMissing
	}
	return strings.TrimSpace(after)
}
