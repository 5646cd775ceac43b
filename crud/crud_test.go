package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"socialFeed/database/databasetest"
	"socialFeed/domain"
)

// newTestServices returns every crud service backed by a fresh sqlite database.
func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := databasetest.Open(t)
	services, err := NewServices(db,
		WithUser("pepper", bcrypt.MinCost),
		WithPost(),
		WithComment(),
		WithLike(),
	)
	require.NoError(t, err)
	return services, db
}

func mustCreateUser(t *testing.T, s *Services, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Password: "pw123"}
	require.NoError(t, s.User.Create(context.Background(), user))
	return user
}

func mustCreatePost(t *testing.T, s *Services, author *domain.User, content string) *domain.Post {
	t.Helper()
	post := &domain.Post{AuthorID: author.ID, Content: content}
	require.NoError(t, s.Post.Create(context.Background(), post))
	return post
}
