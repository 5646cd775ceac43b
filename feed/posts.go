package feed

import (
	"context"

	"go.uber.org/zap"

	"socialFeed/domain"
	"socialFeed/errs"
)

// CreatePost publishes a post authored by the caller.
func (c *Core) CreatePost(ctx context.Context, in domain.PostInput) (*domain.PostView, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.input.check(in); err != nil {
		return nil, err
	}

	post := &domain.Post{
		Content:  in.Content,
		AuthorID: user.ID,
	}
	if err := c.stores.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = *user
	c.metrics.PostCreated()

	view := domain.NewPostView(post, domain.PostCounts{})
	return &view, nil
}

// AddComment adds a comment by the caller to an existing post.
func (c *Core) AddComment(ctx context.Context, postID int, in domain.CommentInput) (*domain.CommentView, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.input.check(in); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:   postID,
		AuthorID: user.ID,
		Content:  in.Content,
	}
	if err := c.stores.Comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *user
	c.metrics.CommentCreated()

	view := domain.NewCommentView(comment)
	return &view, nil
}

// LikePost records that the caller likes a post. A second like of the same
// post by the same user fails with ECONFLICT; the store's unique index decides.
func (c *Core) LikePost(ctx context.Context, postID int) (*domain.LikeView, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	like := &domain.Like{
		PostID: postID,
		UserID: user.ID,
	}
	if err := c.stores.Likes.Create(ctx, like); err != nil {
		if errs.ErrorCode(err) == errs.ECONFLICT {
			c.metrics.LikeConflict()
			c.logger.Debug("duplicate like rejected", zap.Int("post_id", postID), zap.Int("user_id", user.ID))
		}
		return nil, err
	}
	like.User = *user
	c.metrics.LikeCreated()

	view := domain.NewLikeView(like)
	return &view, nil
}

// ListPosts returns posts newest first, with their counts.
func (c *Core) ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.PostView, error) {
	posts, err := c.stores.Posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	counts, err := c.stores.Posts.Counts(ctx, ids...)
	if err != nil {
		return nil, err
	}

	views := make([]domain.PostView, len(posts))
	for i := range posts {
		views[i] = domain.NewPostView(&posts[i], counts[posts[i].ID])
	}
	return views, nil
}

// GetPost returns one post with its counts, or errs.PostNotFound.
func (c *Core) GetPost(ctx context.Context, id int) (*domain.PostView, error) {
	post, err := c.stores.Posts.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := c.stores.Posts.Counts(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	view := domain.NewPostView(post, counts[post.ID])
	return &view, nil
}

// ListComments returns the comments of a post, oldest first.
func (c *Core) ListComments(ctx context.Context, postID int) ([]domain.CommentView, error) {
	comments, err := c.stores.Comments.ByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	views := make([]domain.CommentView, len(comments))
	for i := range comments {
		views[i] = domain.NewCommentView(&comments[i])
	}
	return views, nil
}
