package feed

import (
	"context"

	"go.uber.org/zap"

	"socialFeed/auth"
	"socialFeed/domain"
	"socialFeed/errs"
	"socialFeed/metrics"
)

// TokenIssuer mints and checks the tokens handed out by Register, Login and Refresh.
type TokenIssuer interface {
	Issue(userID int) (access, refresh string, err error)
	Refresh(refresh string) (access string, err error)
	Verify(access string) (userID int, err error)
}

// Stores groups the crud services the core works on.
type Stores struct {
	Users    domain.UserService
	Posts    domain.PostService
	Comments domain.CommentService
	Likes    domain.LikeService
}

// Core holds the rules shared by the REST and the GraphQL facade: who may write,
// who a write is attributed to, and what each operation returns. Neither facade
// talks to the stores directly.
type Core struct {
	stores  Stores
	tokens  TokenIssuer
	input   *inputValidator
	metrics *metrics.Collector
	logger  *zap.Logger
}

// Ensure the Core implements the interfaces of both facades and of the auth middleware.
var (
	_ domain.FeedService = &Core{}
	_ auth.Identifier    = &Core{}
)

// An Option configures optional parts of a Core.
type Option func(*Core)

// WithMetrics makes the core count created posts, comments and likes.
func WithMetrics(c *metrics.Collector) Option {
	return func(core *Core) {
		core.metrics = c
	}
}

// WithLogger sets the logger for events that don't fail a request.
func WithLogger(l *zap.Logger) Option {
	return func(core *Core) {
		if l != nil {
			core.logger = l
		}
	}
}

// New returns a Core working on the given stores.
func New(stores Stores, tokens TokenIssuer, opts ...Option) *Core {
	c := &Core{
		stores: stores,
		tokens: tokens,
		input:  newInputValidator(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// requireUser is the authorization gate of every write. It runs before any
// store call, so an anonymous write never touches the database.
func requireUser(ctx context.Context) (*domain.User, error) {
	user := auth.GetUser(ctx)
	if user == nil || user.ID <= 0 {
		return nil, errs.AuthRequired
	}
	return user, nil
}
