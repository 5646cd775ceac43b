package domain

import (
	"context"
	"time"
)

// Post is a piece of content written by a user. Posts are never updated or deleted.
type Post struct {
	ID       int    `gorm:"primaryKey"`
	Content  string `gorm:"notNull"`
	AuthorID int    `gorm:"notNull;index"`
	Author   User   `gorm:"foreignKey:AuthorID"`

	CreatedAt time.Time `gorm:"index"`
}

// PostFilter holds the offset pagination of a post listing.
// A zero First means no cap.
type PostFilter struct {
	First int
	Skip  int
}

// PostCounts holds the number of likes and comments of a post at read time.
type PostCounts struct {
	Likes    int
	Comments int
}

// PostService is the content store for posts.
type PostService interface {
	ByID(ctx context.Context, id int) (*Post, error)
	List(ctx context.Context, filter PostFilter) ([]Post, error)
	Create(ctx context.Context, post *Post) error
	Counts(ctx context.Context, ids ...int) (map[int]PostCounts, error)
}

// PostInput is the body of a create post request.
type PostInput struct {
	Content string `json:"content" validate:"required"`
}

// PostView is the public projection of a Post.
type PostView struct {
	ID            int       `json:"id"`
	Content       string    `json:"content"`
	Author        UserView  `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
}

// NewPostView maps a Post row with preloaded author and its counts to its public projection.
func NewPostView(p *Post, counts PostCounts) PostView {
	return PostView{
		ID:            p.ID,
		Content:       p.Content,
		Author:        NewUserView(&p.Author),
		CreatedAt:     p.CreatedAt,
		LikesCount:    counts.Likes,
		CommentsCount: counts.Comments,
	}
}
