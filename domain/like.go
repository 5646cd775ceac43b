package domain

import (
	"context"
	"time"
)

// Like represents a many-to-many relationship between a User and a Post.
// The pair (PostID, UserID) is unique, which the database enforces through
// the idx_like_post_user index. Likes are never updated or deleted.
type Like struct {
	ID     int  `gorm:"primaryKey"`
	PostID int  `gorm:"notNull;uniqueIndex:idx_like_post_user"`
	Post   Post `gorm:"foreignKey:PostID"`
	UserID int  `gorm:"notNull;uniqueIndex:idx_like_post_user;index"`
	User   User `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
}

// LikeService is the content store for likes.
type LikeService interface {
	Create(ctx context.Context, like *Like) error
}

// LikeView is the public projection of a Like.
type LikeView struct {
	ID        int       `json:"id"`
	Post      int       `json:"post"`
	User      UserView  `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLikeView maps a Like row with preloaded user to its public projection.
func NewLikeView(l *Like) LikeView {
	return LikeView{
		ID:        l.ID,
		Post:      l.PostID,
		User:      NewUserView(&l.User),
		CreatedAt: l.CreatedAt,
	}
}
