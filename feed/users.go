package feed

import (
	"context"

	"go.uber.org/zap"

	"socialFeed/domain"
	"socialFeed/errs"
)

// Register creates a user and signs them in.
func (c *Core) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthView, error) {
	if err := c.input.check(in); err != nil {
		return nil, err
	}
	user := &domain.User{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	}
	if err := c.stores.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	c.logger.Info("user registered", zap.Int("user_id", user.ID))
	return c.signIn(user)
}

// Login checks a username and password pair and signs the user in.
// Unknown usernames and wrong passwords fail with the same error.
func (c *Core) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthView, error) {
	if err := c.input.check(in); err != nil {
		return nil, err
	}
	user, err := c.stores.Users.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}
	return c.signIn(user)
}

// Refresh exchanges a refresh token for a new access token.
func (c *Core) Refresh(_ context.Context, in domain.RefreshInput) (*domain.AccessView, error) {
	if err := c.input.check(in); err != nil {
		return nil, err
	}
	access, err := c.tokens.Refresh(in.Refresh)
	if err != nil {
		return nil, err
	}
	return &domain.AccessView{Access: access}, nil
}

// Identify returns the user an access token was issued for.
// A token of a user that no longer exists is invalid.
func (c *Core) Identify(ctx context.Context, token string) (*domain.User, error) {
	userID, err := c.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := c.stores.Users.ByID(ctx, userID)
	if err != nil {
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil, errs.InvalidToken
		}
		return nil, err
	}
	return user, nil
}

// Me returns the authenticated user.
func (c *Core) Me(ctx context.Context) (*domain.UserView, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	view := domain.NewUserView(user)
	return &view, nil
}

func (c *Core) signIn(user *domain.User) (*domain.AuthView, error) {
	access, refresh, err := c.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.AuthView{
		User:    domain.NewUserView(user),
		Access:  access,
		Refresh: refresh,
	}, nil
}
