package crud

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialFeed/domain"
	"socialFeed/errs"
)

// MaxContentLength caps the content of posts and comments, in characters.
const MaxContentLength = 5000

// PostService manages Posts.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type postGorm struct {
	guard *guard
}

// NewPostService returns an instance of PostService.
func NewPostService(g *guard) *PostService {
	return &PostService{
		postValidator{
			postGorm{
				guard: g,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
func (pv *postValidator) Create(ctx context.Context, post *domain.Post) error {
	err := runPostValFns(post,
		pv.authorIdValid,
		pv.contentMinLength,
		pv.contentMaxLength)
	if err != nil {
		return err
	}
	return pv.postGorm.Create(ctx, post)
}

// List runs validations on the pagination of a post listing.
func (pv *postValidator) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	if filter.First < 0 || filter.Skip < 0 {
		return nil, errs.Errorf(errs.EINVALID, "first and skip must not be negative.")
	}
	return pv.postGorm.List(ctx, filter)
}

// runPostValFns runs any number of functions of type postValFn on the passed in Post object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object and returns an error.
type postValFn = func(post *domain.Post) error

// contentMinLength makes sure that the Post's content is not blank.
func (pv *postValidator) contentMinLength(post *domain.Post) error {
	if strings.TrimSpace(post.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Post content must not be empty.")
	}
	return nil
}

// contentMaxLength makes sure that the Post's content does not exceed the maximum content length.
func (pv *postValidator) contentMaxLength(post *domain.Post) error {
	if utf8.RuneCountInString(post.Content) > MaxContentLength {
		return errs.Errorf(errs.EINVALID, "Post content max length is %d characters.", MaxContentLength)
	}
	return nil
}

// authorIdValid ensures that the author is set.
func (pv *postValidator) authorIdValid(post *domain.Post) error {
	if post.AuthorID <= 0 {
		return errs.UserIDInvalid
	}
	return nil
}

// ByID retrieves a single Post by ID, along with its author.
// If the record doesn't exist, it returns errs.ENOTFOUND.
func (pg *postGorm) ByID(ctx context.Context, id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.guard.run(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Author").First(&post, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.PostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// List retrieves posts newest first, skipping filter.Skip posts and returning at most
// filter.First of them. Offsets shift when posts are created between two calls.
func (pg *postGorm) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.guard.run(ctx, func(tx *gorm.DB) error {
		q := tx.Preload("Author").
			Order("created_at desc").
			Order("id desc")
		if filter.Skip > 0 {
			q = q.Offset(filter.Skip)
		}
		if filter.First > 0 {
			q = q.Limit(filter.First)
		}
		return q.Find(&posts).Error
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// countRow is one row of a grouped count query.
type countRow struct {
	PostID int
	N      int
}

// Counts counts the likes and comments of the given posts at read time.
// Posts without any likes or comments are present in the result with zero counts.
func (pg *postGorm) Counts(ctx context.Context, ids ...int) (map[int]domain.PostCounts, error) {
	counts := make(map[int]domain.PostCounts, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	for _, id := range ids {
		counts[id] = domain.PostCounts{}
	}

	var likes, comments []countRow
	err := pg.guard.run(ctx, func(tx *gorm.DB) error {
		err := tx.Model(&domain.Like{}).
			Select("post_id, count(*) as n").
			Where("post_id IN ?", ids).
			Group("post_id").
			Scan(&likes).Error
		if err != nil {
			return err
		}
		return tx.Model(&domain.Comment{}).
			Select("post_id, count(*) as n").
			Where("post_id IN ?", ids).
			Group("post_id").
			Scan(&comments).Error
	})
	if err != nil {
		return nil, err
	}

	for _, row := range likes {
		c := counts[row.PostID]
		c.Likes = row.N
		counts[row.PostID] = c
	}
	for _, row := range comments {
		c := counts[row.PostID]
		c.Comments = row.N
		counts[row.PostID] = c
	}
	return counts, nil
}

// Create stores the data from the Post object in a new database record.
func (pg *postGorm) Create(ctx context.Context, post *domain.Post) error {
	return pg.guard.run(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(post).Error
	})
}
