package crud

import "gorm.io/gorm"

// A ServicesConfig is any function that takes in a pointer to a Services
// object and returns an error. It's basically just wrapping the constructor
// method of any given crud service. It exists to be able to easily create
// the crud services using functional options in main.go.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud services.
// The crud services all share the database connection and the guard provided by Services.
type Services struct {
	db      *gorm.DB
	guard   *guard
	User    *UserService
	Post    *PostService
	Comment *CommentService
	Like    *LikeService
}

// NewServices returns a new Services object, containing any crud services
// it's told to create by one of the passed in ServicesConfig functions.
// It shares the passed in database connection with any crud service it creates.
func NewServices(db *gorm.DB, cfgs ...ServicesConfig) (*Services, error) {
	s := Services{
		db:    db,
		guard: newGuard(db, DefaultGuardConfig()),
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// WithGuard replaces the default guard configuration. The guard is shared by
// pointer, so services created before this option see the new settings too.
func WithGuard(cfg GuardConfig) ServicesConfig {
	return func(s *Services) error {
		*s.guard = *newGuard(s.db, cfg)
		return nil
	}
}

// WithUser wraps the constructor of UserService, NewUserService.
func WithUser(pepper string, bcryptCost int) ServicesConfig {
	return func(s *Services) (err error) {
		s.User, err = NewUserService(s.guard, pepper, bcryptCost)
		return err
	}
}

// WithPost wraps the constructor of PostService, NewPostService.
func WithPost() ServicesConfig {
	return func(s *Services) error {
		s.Post = NewPostService(s.guard)
		return nil
	}
}

// WithComment wraps the constructor of CommentService, NewCommentService.
func WithComment() ServicesConfig {
	return func(s *Services) error {
		s.Comment = NewCommentService(s.guard)
		return nil
	}
}

// WithLike wraps the constructor of LikeService, NewLikeService.
func WithLike() ServicesConfig {
	return func(s *Services) error {
		s.Like = NewLikeService(s.guard)
		return nil
	}
}
