package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/doremi/internal/repository"
	"github.com/d60-Lab/doremi/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db          *gorm.DB
	users       repository.UserRepository
	posts       repository.PostRepository
	comments    repository.CommentRepository
	engagements repository.EngagementRepository
	follows     repository.FollowRepository
	hashtags    repository.HashtagRepository
	timeline    repository.TimelineRepository
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		db:          db,
		users:       repository.NewUserRepository(db),
		posts:       repository.NewPostRepository(db),
		comments:    repository.NewCommentRepository(db),
		engagements: repository.NewEngagementRepository(db),
		follows:     repository.NewFollowRepository(db),
		hashtags:    repository.NewHashtagRepository(db),
		timeline:    repository.NewTimelineRepository(db),
	}
}

func (f *fixture) postService() PostService {
	return NewPostService(f.db, f.posts, f.users, f.engagements, f.hashtags, f.timeline)
}

func (f *fixture) register(t *testing.T, auth AuthService, id string) {
	t.Helper()
	require.NoError(t, auth.Register(context.Background(), RegisterInput{
		UserID: id, Password: "pass" + id, Name: "name-" + id, Sex: "F", BirthDate: "19950101",
	}))
}

func TestAuthRegisterLoginRoundTrip(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, "secret", time.Hour)
	ctx := context.Background()

	f.register(t, auth, "alice")

	cnt, err := auth.CheckID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt, "taken id counts as one")

	token, u, err := auth.Login(ctx, "alice", "passalice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "name-alice", u.Name)

	_, _, err = auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = auth.Register(ctx, RegisterInput{UserID: "alice", Password: "x", Name: "y", Sex: "M", BirthDate: "19900101"})
	assert.ErrorIs(t, err, ErrUserIDTaken)
}

func TestAuthResetPassword(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, "secret", time.Hour)
	ctx := context.Background()
	f.register(t, auth, "alice")

	_, err := auth.ResetPassword(ctx, "name-alice", "alice", "M", "19950101")
	assert.ErrorIs(t, err, ErrAccountMismatch, "sex mismatch rejected")

	temp, err := auth.ResetPassword(ctx, "name-alice", "alice", "F", "19950101")
	require.NoError(t, err)
	require.NotEmpty(t, temp)

	_, _, err = auth.Login(ctx, "alice", "passalice")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "old password rotated out")
	_, _, err = auth.Login(ctx, "alice", temp)
	assert.NoError(t, err)
}

func TestRelationshipToggleAndCounts(t *testing.T) {
	f := newFixture(t)
	rel := NewRelationshipService(f.follows, nil, time.Minute)
	ctx := context.Background()

	following, err := rel.Toggle(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, following)

	state, err := rel.State(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, state)

	followers, followingCnt, err := rel.Counts(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)
	assert.Equal(t, int64(0), followingCnt)

	// Second toggle unfollows.
	following, err = rel.Toggle(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, following)

	followers, _, err = rel.Counts(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), followers)

	_, err = rel.Toggle(ctx, "alice", "alice")
	assert.ErrorIs(t, err, ErrFollowSelf)
}

func TestRelationshipFollowerCountCache(t *testing.T) {
	f := newFixture(t)
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rel := NewRelationshipService(f.follows, cache, time.Minute)
	ctx := context.Background()

	_, err := rel.Toggle(ctx, "alice", "bob")
	require.NoError(t, err)

	followers, _, err := rel.Counts(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)
	assert.True(t, mr.Exists("followers:count:bob"), "count cached after read")

	// Toggle invalidates; the next read recomputes.
	_, err = rel.Toggle(ctx, "carol", "bob")
	require.NoError(t, err)
	assert.False(t, mr.Exists("followers:count:bob"))

	followers, _, err = rel.Counts(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), followers)
}

func TestEngagementToggleLike(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, "secret", time.Hour)
	f.register(t, auth, "alice")
	ps := f.postService()
	eng := NewEngagementService(f.engagements, f.posts)
	ctx := context.Background()

	postID, err := ps.Publish(ctx, "alice", "hello", "", "")
	require.NoError(t, err)

	liked, err := eng.ToggleLike(ctx, postID, "bob")
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = eng.ToggleLike(ctx, postID, "bob")
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = eng.ToggleLike(ctx, 9999, "bob")
	assert.ErrorIs(t, err, ErrPostGone)
}

func TestEngagementBookmarks(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, "secret", time.Hour)
	f.register(t, auth, "alice")
	ps := f.postService()
	eng := NewEngagementService(f.engagements, f.posts)
	ctx := context.Background()

	p1, err := ps.Publish(ctx, "alice", "one", "", "")
	require.NoError(t, err)
	p2, err := ps.Publish(ctx, "alice", "two", "", "")
	require.NoError(t, err)

	require.NoError(t, eng.AddBookmark(ctx, p1, "bob"))
	require.NoError(t, eng.AddBookmark(ctx, p2, "bob"))
	require.NoError(t, eng.AddBookmark(ctx, p1, "bob"), "duplicate add is idempotent")

	ids, err := eng.BookmarkedPostIDs(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	marked, err := eng.CheckBookmark(ctx, p1, "bob")
	require.NoError(t, err)
	assert.True(t, marked)

	require.NoError(t, eng.DeleteBookmark(ctx, p1, "bob"))
	marked, err = eng.CheckBookmark(ctx, p1, "bob")
	require.NoError(t, err)
	assert.False(t, marked)

	assert.ErrorIs(t, eng.AddBookmark(ctx, 9999, "bob"), ErrPostGone)
}

func TestPostPublishWithHashtags(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, "secret", time.Hour)
	f.register(t, auth, "alice")
	ps := f.postService()
	ctx := context.Background()

	id, err := ps.Publish(ctx, "alice", "cat pic", " #Cats, cute ,, cats ", "img/1.jpg")
	require.NoError(t, err)

	view, err := ps.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cat pic", view.Content)
	assert.Equal(t, "name-alice", view.Username)
	require.Len(t, view.Hashtags, 2, "tags trimmed, lowercased, deduplicated")
	names := []string{view.Hashtags[0].HashtagName, view.Hashtags[1].HashtagName}
	assert.ElementsMatch(t, []string{"cats", "cute"}, names)
}

func TestParseHashtags(t *testing.T) {
	assert.Equal(t, []string{"cats", "cute"}, ParseHashtags("#Cats, cute, CATS"))
	assert.Empty(t, ParseHashtags("  , ,, "))
}

func TestPostDeleteCascades(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, "secret", time.Hour)
	f.register(t, auth, "alice")
	ps := f.postService()
	cs := NewCommentService(f.comments, f.posts, f.users)
	eng := NewEngagementService(f.engagements, f.posts)
	ctx := context.Background()

	id, err := ps.Publish(ctx, "alice", "doomed", "tag", "")
	require.NoError(t, err)
	_, err = cs.Create(ctx, id, "bob", "nice")
	require.NoError(t, err)
	_, err = eng.ToggleLike(ctx, id, "bob")
	require.NoError(t, err)

	assert.ErrorIs(t, ps.Delete(ctx, id, "mallory"), ErrPostGone, "only the author deletes")
	require.NoError(t, ps.Delete(ctx, id, "alice"))
	_, err = ps.Get(ctx, id)
	assert.ErrorIs(t, err, ErrPostGone)

	tree, err := cs.ListTree(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, tree, "comments go with the post")
}

func TestCommentTreeAndCascade(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, "secret", time.Hour)
	f.register(t, auth, "alice")
	ps := f.postService()
	cs := NewCommentService(f.comments, f.posts, f.users)
	ctx := context.Background()

	postID, err := ps.Publish(ctx, "alice", "post", "", "")
	require.NoError(t, err)

	rootID, err := cs.Create(ctx, postID, "alice", "root")
	require.NoError(t, err)
	r1, err := cs.Reply(ctx, rootID, "bob", "r1")
	require.NoError(t, err)
	_, err = cs.Reply(ctx, rootID, "carol", "r2")
	require.NoError(t, err)

	_, err = cs.Reply(ctx, r1, "dave", "too deep")
	assert.ErrorIs(t, err, ErrReplyToReply)

	_, err = cs.Create(ctx, postID, "bob", "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	tree, err := cs.ListTree(ctx, postID)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Len(t, tree[0].Replies, 2)
	assert.Equal(t, "name-alice", tree[0].Username)

	require.NoError(t, cs.Delete(ctx, rootID))
	tree, err = cs.ListTree(ctx, postID)
	require.NoError(t, err)
	assert.Empty(t, tree, "replies removed with their parent")
}

func TestFanoutFillsFollowingFeed(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, "secret", time.Hour)
	f.register(t, auth, "celeb")
	f.register(t, auth, "fan")
	ps := f.postService()
	rel := NewRelationshipService(f.follows, nil, time.Minute)
	worker := NewFanoutWorker(f.timeline, f.follows, nil)
	ctx := context.Background()

	_, err := rel.Toggle(ctx, "fan", "celeb")
	require.NoError(t, err)

	p1, err := ps.Publish(ctx, "celeb", "first", "", "")
	require.NoError(t, err)
	p2, err := ps.Publish(ctx, "celeb", "second", "", "")
	require.NoError(t, err)

	require.NoError(t, worker.ProcessOnce(ctx))
	require.NoError(t, worker.ProcessOnce(ctx), "second pass is a no-op")

	views, err := ps.Following(ctx, "fan", 10)
	require.NoError(t, err)
	require.Len(t, views, 2)
	ids := []int64{views[0].PostID, views[1].PostID}
	assert.Contains(t, ids, p1)
	assert.Contains(t, ids, p2)

	// Non-followers see nothing.
	views, err = ps.Following(ctx, "stranger", 10)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestHashtagAutocompleteAndSearch(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.users, "secret", time.Hour)
	f.register(t, auth, "alice")
	ps := f.postService()
	hs := NewHashtagService(f.hashtags)
	ctx := context.Background()

	p1, err := ps.Publish(ctx, "alice", "a", "cats,cute", "")
	require.NoError(t, err)
	p2, err := ps.Publish(ctx, "alice", "b", "cats", "")
	require.NoError(t, err)
	_, err = ps.Publish(ctx, "alice", "c", "dogs", "")
	require.NoError(t, err)

	rows, err := hs.Autocomplete(ctx, "#Ca", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "cats", rows[0].HashtagName)
	assert.Equal(t, 2, rows[0].PostCount)

	ids, err := hs.PostIDsByName(ctx, "cats")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{p1, p2}, ids)

	tags, err := hs.TagsByPost(ctx, p1)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}
