package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/doremi/internal/social"
)

func TestFromPostFlattensHashtags(t *testing.T) {
	e := FromPost(social.Post{
		PostID:   7,
		UserID:   "alice",
		Username: "Alice",
		Content:  "hello",
		ImageDir: "img/7.jpg",
		Hashtags: []social.PostHashtag{
			{HashtagID: 1, HashtagName: "  Cats "},
			{HashtagID: 2, HashtagName: "dogs"},
			{HashtagID: 3, HashtagName: "   "},
		},
		LikeCount:    3,
		CommentCount: 2,
	})

	assert.Equal(t, int64(7), e.PostID)
	assert.Equal(t, []string{"cats", "dogs"}, e.Hashtags, "lowercased, trimmed, blanks dropped")
	assert.Equal(t, 3, e.LikeCount)
	assert.False(t, e.ViewerHasLiked, "viewer state starts unknown")
}

func TestFromPostSparseRecordDefaults(t *testing.T) {
	e := FromPost(social.Post{PostID: 1, UserID: "bob"})
	assert.Empty(t, e.Hashtags)
	assert.Empty(t, e.ImageRef)
	assert.Zero(t, e.LikeCount)
}

func feedFixture() []Entry {
	return []Entry{
		{PostID: 1, Hashtags: []string{"cats", "cute"}},
		{PostID: 2, Hashtags: []string{"dogs"}},
		{PostID: 3, Hashtags: []string{"catsofinstagram"}},
		{PostID: 4},
	}
}

func TestFilterByHashtagEmptyQueryIsIdentity(t *testing.T) {
	in := feedFixture()
	for _, q := range []string{"", "   ", "#", " # "} {
		out := FilterByHashtag(in, q)
		require.Len(t, out, len(in), "query %q", q)
		assert.Equal(t, in, out, "query %q returns the input unchanged", q)
	}
}

func TestFilterByHashtagSubstringMatch(t *testing.T) {
	out := FilterByHashtag(feedFixture(), "cat")
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].PostID)
	assert.Equal(t, int64(3), out[1].PostID)
}

func TestFilterByHashtagStripsHashAndCase(t *testing.T) {
	out := FilterByHashtag(feedFixture(), " #DOGS ")
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].PostID)
}

func TestFilterByHashtagNoMatch(t *testing.T) {
	assert.Empty(t, FilterByHashtag(feedFixture(), "birds"))
}
