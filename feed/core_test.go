package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"socialFeed/auth"
	"socialFeed/crud"
	"socialFeed/database/databasetest"
	"socialFeed/domain"
)

// newTestCore returns a Core over a fresh sqlite database, plus that database.
func newTestCore(t *testing.T) (*Core, *gorm.DB) {
	t.Helper()
	db := databasetest.Open(t)
	services, err := crud.NewServices(db,
		crud.WithUser("pepper", bcrypt.MinCost),
		crud.WithPost(),
		crud.WithComment(),
		crud.WithLike(),
	)
	require.NoError(t, err)

	tokens, err := auth.NewTokens(auth.TokensConfig{
		Secret:     "test-secret",
		Issuer:     "social-feed",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)

	core := New(Stores{
		Users:    services.User,
		Posts:    services.Post,
		Comments: services.Comment,
		Likes:    services.Like,
	}, tokens)
	return core, db
}

// signUp registers a user and returns a context authenticated as them.
func signUp(t *testing.T, c *Core, username string) (context.Context, *domain.AuthView) {
	t.Helper()
	ctx := context.Background()
	view, err := c.Register(ctx, domain.RegisterInput{Username: username, Password: "pw123"})
	require.NoError(t, err)

	user, err := c.Identify(ctx, view.Access)
	require.NoError(t, err)
	return auth.SetUser(ctx, user), view
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
