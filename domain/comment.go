package domain

import (
	"context"
	"time"
)

// Comment is a reply to a Post. PostID and AuthorID are always set by the server,
// from the route and from the authenticated user.
type Comment struct {
	ID       int    `gorm:"primaryKey"`
	PostID   int    `gorm:"notNull;index"`
	Post     Post   `gorm:"foreignKey:PostID"`
	AuthorID int    `gorm:"notNull;index"`
	Author   User   `gorm:"foreignKey:AuthorID"`
	Content  string `gorm:"notNull"`

	CreatedAt time.Time
}

// CommentService is the content store for comments.
type CommentService interface {
	Create(ctx context.Context, comment *Comment) error
	ByPostID(ctx context.Context, postID int) ([]Comment, error)
}

// CommentInput is the body of an add comment request.
type CommentInput struct {
	Content string `json:"content" validate:"required"`
}

// CommentView is the public projection of a Comment.
type CommentView struct {
	ID        int       `json:"id"`
	Post      int       `json:"post"`
	Content   string    `json:"content"`
	Author    UserView  `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCommentView maps a Comment row with preloaded author to its public projection.
func NewCommentView(c *Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Post:      c.PostID,
		Content:   c.Content,
		Author:    NewUserView(&c.Author),
		CreatedAt: c.CreatedAt,
	}
}
