package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialFeed/domain"
	"socialFeed/errs"
)

func TestCore_WritesRequireIdentity(t *testing.T) {
	ctx := context.Background()
	c, db := newTestCore(t)
	aliceCtx, _ := signUp(t, c, "alice")
	post, err := c.CreatePost(aliceCtx, domain.PostInput{Content: "hello"})
	require.NoError(t, err)

	_, err = c.CreatePost(ctx, domain.PostInput{Content: "anonymous"})
	assert.Equal(t, errs.AuthRequired, err)

	_, err = c.AddComment(ctx, post.ID, domain.CommentInput{Content: "anonymous"})
	assert.Equal(t, errs.AuthRequired, err)

	_, err = c.LikePost(ctx, post.ID)
	assert.Equal(t, errs.AuthRequired, err)

	// The gate runs before the existence check.
	_, err = c.LikePost(ctx, post.ID+100)
	assert.Equal(t, errs.AuthRequired, err)

	assert.EqualValues(t, 1, countRows(t, db, &domain.Post{}))
	assert.Zero(t, countRows(t, db, &domain.Comment{}))
	assert.Zero(t, countRows(t, db, &domain.Like{}))
}

func TestCore_Scenario(t *testing.T) {
	c, _ := newTestCore(t)
	aliceCtx, alice := signUp(t, c, "alice")

	post, err := c.CreatePost(aliceCtx, domain.PostInput{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, alice.User, post.Author)
	assert.Zero(t, post.LikesCount)
	assert.Zero(t, post.CommentsCount)

	like, err := c.LikePost(aliceCtx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, like.Post)
	assert.Equal(t, alice.User, like.User)

	_, err = c.LikePost(aliceCtx, post.ID)
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
	assert.Equal(t, "Already liked", errs.ErrorMessage(err))

	comment, err := c.AddComment(aliceCtx, post.ID, domain.CommentInput{Content: "nice"})
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.Post)
	assert.Equal(t, alice.User, comment.Author)

	got, err := c.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, 1, got.CommentsCount)
	assert.Equal(t, "alice", got.Author.Username)

	comments, err := c.ListComments(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice", comments[0].Content)
}

func TestCore_AddComment(t *testing.T) {
	c, db := newTestCore(t)
	aliceCtx, _ := signUp(t, c, "alice")
	post, err := c.CreatePost(aliceCtx, domain.PostInput{Content: "hello"})
	require.NoError(t, err)

	_, err = c.AddComment(aliceCtx, post.ID+1, domain.CommentInput{Content: "lost"})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	_, err = c.AddComment(aliceCtx, post.ID, domain.CommentInput{Content: ""})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	_, err = c.AddComment(aliceCtx, post.ID, domain.CommentInput{Content: "   "})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	assert.Zero(t, countRows(t, db, &domain.Comment{}))
}

func TestCore_LikePost(t *testing.T) {
	c, _ := newTestCore(t)
	aliceCtx, _ := signUp(t, c, "alice")
	bobCtx, _ := signUp(t, c, "bob")
	post, err := c.CreatePost(aliceCtx, domain.PostInput{Content: "hello"})
	require.NoError(t, err)

	t.Run("missing post", func(t *testing.T) {
		_, err := c.LikePost(aliceCtx, post.ID+1)
		assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	})

	t.Run("different users may like the same post", func(t *testing.T) {
		_, err := c.LikePost(aliceCtx, post.ID)
		require.NoError(t, err)
		_, err = c.LikePost(bobCtx, post.ID)
		require.NoError(t, err)

		got, err := c.GetPost(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.LikesCount)
	})
}

func TestCore_LikePostConcurrent(t *testing.T) {
	c, db := newTestCore(t)
	aliceCtx, _ := signUp(t, c, "alice")
	post, err := c.CreatePost(aliceCtx, domain.PostInput{Content: "hello"})
	require.NoError(t, err)

	const attempts = 10
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.LikePost(aliceCtx, post.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch errs.ErrorCode(err) {
		case "":
			succeeded++
		case errs.ECONFLICT:
			conflicted++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
	assert.EqualValues(t, 1, countRows(t, db, &domain.Like{}))
}

func TestCore_ListPosts(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCore(t)
	aliceCtx, _ := signUp(t, c, "alice")

	var created []*domain.PostView
	for i := 1; i <= 5; i++ {
		post, err := c.CreatePost(aliceCtx, domain.PostInput{Content: fmt.Sprintf("post %d", i)})
		require.NoError(t, err)
		created = append(created, post)
	}
	_, err := c.LikePost(aliceCtx, created[4].ID)
	require.NoError(t, err)

	t.Run("first caps to the newest posts", func(t *testing.T) {
		posts, err := c.ListPosts(ctx, domain.PostFilter{First: 2})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, created[4].ID, posts[0].ID)
		assert.Equal(t, created[3].ID, posts[1].ID)
		assert.Equal(t, 1, posts[0].LikesCount)
		assert.Zero(t, posts[1].LikesCount)
	})

	t.Run("skip past the end is empty", func(t *testing.T) {
		posts, err := c.ListPosts(ctx, domain.PostFilter{Skip: 10})
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("negative values are invalid", func(t *testing.T) {
		_, err := c.ListPosts(ctx, domain.PostFilter{First: -1})
		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
	})

	t.Run("is public", func(t *testing.T) {
		posts, err := c.ListPosts(ctx, domain.PostFilter{})
		require.NoError(t, err)
		assert.Len(t, posts, 5)
	})
}

func TestCore_GetPost(t *testing.T) {
	c, _ := newTestCore(t)

	_, err := c.GetPost(context.Background(), 12345)
	assert.Equal(t, errs.PostNotFound, err)

	_, err = c.ListComments(context.Background(), 12345)
	assert.Equal(t, errs.PostNotFound, err)
}
