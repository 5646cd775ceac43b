package crud

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialFeed/domain"
	"socialFeed/errs"
)

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

type commentValidator struct {
	commentGorm
}

type commentGorm struct {
	guard *guard
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(g *guard) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				guard: g,
			},
		},
	}
}

var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
// The post's existence is checked first so that a missing post reports
// errs.ENOTFOUND and no row is written.
func (cv *commentValidator) Create(ctx context.Context, comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.authorIdValid,
		cv.contentMinLength,
		cv.contentMaxLength)
	if err != nil {
		return err
	}
	if err := cv.postExists(ctx, comment.PostID); err != nil {
		return err
	}
	return cv.commentGorm.Create(ctx, comment)
}

func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

type commentValFn = func(comment *domain.Comment) error

func (cv *commentValidator) authorIdValid(comment *domain.Comment) error {
	if comment.AuthorID <= 0 {
		return errs.UserIDInvalid
	}
	return nil
}

func (cv *commentValidator) contentMinLength(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Comment content must not be empty.")
	}
	return nil
}

func (cv *commentValidator) contentMaxLength(comment *domain.Comment) error {
	if utf8.RuneCountInString(comment.Content) > MaxContentLength {
		return errs.Errorf(errs.EINVALID, "Comment content max length is %d characters.", MaxContentLength)
	}
	return nil
}

// postExists makes sure that the commented post exists.
func (cv *commentValidator) postExists(ctx context.Context, postID int) error {
	return postExists(ctx, cv.guard, postID)
}

// ByPostID retrieves the comments of a post, oldest first, along with their authors.
func (cg *commentGorm) ByPostID(ctx context.Context, postID int) ([]domain.Comment, error) {
	if err := postExists(ctx, cg.guard, postID); err != nil {
		return nil, err
	}
	var comments []domain.Comment
	err := cg.guard.run(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Author").
			Where("post_id = ?", postID).
			Order("created_at asc").
			Order("id asc").
			Find(&comments).Error
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Create stores the data from the Comment object in a new database record.
func (cg *commentGorm) Create(ctx context.Context, comment *domain.Comment) error {
	return cg.guard.run(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(comment).Error
	})
}

// postExists returns errs.PostNotFound unless a post with the given ID exists.
func postExists(ctx context.Context, g *guard, postID int) error {
	if postID <= 0 {
		return errs.PostNotFound
	}
	var count int64
	err := g.run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&domain.Post{}).Where("id = ?", postID).Count(&count).Error
	})
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.PostNotFound
	}
	return nil
}
