package domain

import "context"

// FeedService is what the REST and the GraphQL facade expose. Writes take the
// caller's identity from the context and fail when there is none.
type FeedService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthView, error)
	Login(ctx context.Context, in LoginInput) (*AuthView, error)
	Refresh(ctx context.Context, in RefreshInput) (*AccessView, error)
	Identify(ctx context.Context, token string) (*User, error)
	Me(ctx context.Context) (*UserView, error)

	CreatePost(ctx context.Context, in PostInput) (*PostView, error)
	AddComment(ctx context.Context, postID int, in CommentInput) (*CommentView, error)
	LikePost(ctx context.Context, postID int) (*LikeView, error)

	ListPosts(ctx context.Context, filter PostFilter) ([]PostView, error)
	GetPost(ctx context.Context, id int) (*PostView, error)
	ListComments(ctx context.Context, postID int) ([]CommentView, error)
}
