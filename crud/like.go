package crud

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialFeed/domain"
	"socialFeed/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	guard *guard
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(g *guard) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				guard: g,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Create runs validations needed for creating new Like database records.
// Whether the user already likes the post is not checked here: the insert
// itself is the check, see likeGorm.Create.
func (lv *likeValidator) Create(ctx context.Context, like *domain.Like) error {
	if like.UserID <= 0 {
		return errs.UserIDInvalid
	}
	if err := postExists(ctx, lv.guard, like.PostID); err != nil {
		return err
	}
	return lv.likeGorm.Create(ctx, like)
}

// Create stores the data from the Like object in a new database record.
// Concurrent likes of the same post by the same user all reach the insert,
// and the idx_like_post_user unique index lets exactly one of them through.
// The others report errs.ECONFLICT.
func (lg *likeGorm) Create(ctx context.Context, like *domain.Like) error {
	err := lg.guard.run(ctx, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(like).Error
	})
	if isUniqueViolation(err) {
		return errs.AlreadyLiked
	}
	return err
}
