package feed

import (
	"strings"

	"github.com/d60-Lab/doremi/internal/social"
)

// Entry is one displayable feed item, derived from a raw post record.
// Entries are replaced, never mutated in place: a confirmed toggle swaps in
// a copy with only the viewer-state fields changed.
type Entry struct {
	PostID              int64
	AuthorID            string
	AuthorName          string
	ImageRef            string
	Text                string
	Hashtags            []string // lowercased; order carries no meaning
	LikeCount           int
	CommentCount        int
	ViewerHasLiked      bool
	ViewerHasBookmarked bool
}

// FromPost flattens a raw post: hashtag objects become a lowercased name
// set, absent optional fields default to empty or zero.
func FromPost(p social.Post) Entry {
	e := Entry{
		PostID:       p.PostID,
		AuthorID:     p.UserID,
		AuthorName:   p.Username,
		ImageRef:     p.ImageDir,
		Text:         p.Content,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
	}
	for _, h := range p.Hashtags {
		name := strings.ToLower(strings.TrimSpace(h.HashtagName))
		if name != "" {
			e.Hashtags = append(e.Hashtags, name)
		}
	}
	return e
}

// normalizeQuery trims whitespace and a leading '#'.
func normalizeQuery(q string) string {
	return strings.TrimPrefix(strings.TrimSpace(q), "#")
}

// FilterByHashtag keeps entries whose hashtag set contains the query as a
// case-insensitive substring. The query is trimmed and a leading '#' is
// stripped. An empty query is the identity: the input slice itself comes
// back, same entries, same order.
func FilterByHashtag(entries []Entry, query string) []Entry {
	q := strings.TrimSpace(query)
	q = strings.TrimPrefix(q, "#")
	if q == "" {
		return entries
	}
	q = strings.ToLower(q)

	var out []Entry
	for _, e := range entries {
		for _, h := range e.Hashtags {
			if strings.Contains(h, q) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
