package graph

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"socialFeed/auth"
	"socialFeed/crud"
	"socialFeed/database/databasetest"
	"socialFeed/domain"
	"socialFeed/feed"
)

type testEnv struct {
	core   *feed.Core
	schema graphql.Schema
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	services, err := crud.NewServices(databasetest.Open(t),
		crud.WithUser("pepper", bcrypt.MinCost),
		crud.WithPost(),
		crud.WithComment(),
		crud.WithLike(),
	)
	require.NoError(t, err)
	tokens, err := auth.NewTokens(auth.TokensConfig{Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	require.NoError(t, err)

	core := feed.New(feed.Stores{
		Users:    services.User,
		Posts:    services.Post,
		Comments: services.Comment,
		Likes:    services.Like,
	}, tokens)
	schema, err := NewSchema(core)
	require.NoError(t, err)
	return &testEnv{core: core, schema: schema}
}

// exec runs a query and decodes its data into out, which may be nil.
func (e *testEnv) exec(t *testing.T, ctx context.Context, query string, vars map[string]interface{}, out interface{}) *graphql.Result {
	t.Helper()
	result := graphql.Do(graphql.Params{
		Schema:         e.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
	if out != nil {
		data, err := json.Marshal(result.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, out))
	}
	return result
}

// signUp registers a user through the schema and returns a context authenticated as them.
func (e *testEnv) signUp(t *testing.T, username string) context.Context {
	t.Helper()
	var data struct {
		Register struct {
			Access string `json:"access"`
		} `json:"register"`
	}
	result := e.exec(t, context.Background(),
		`mutation($u: String!) { register(username: $u, password: "pw123") { access } }`,
		map[string]interface{}{"u": username}, &data)
	require.Empty(t, result.Errors)

	user, err := e.core.Identify(context.Background(), data.Register.Access)
	require.NoError(t, err)
	return auth.SetUser(context.Background(), user)
}

func errorCode(t *testing.T, result *graphql.Result) string {
	t.Helper()
	require.Len(t, result.Errors, 1)
	code, _ := result.Errors[0].Extensions["code"].(string)
	return code
}

func TestSchema_RegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	var reg struct {
		Register struct {
			Message string          `json:"message"`
			User    domain.UserView `json:"user"`
			Access  string          `json:"access"`
			Refresh string          `json:"refresh"`
		} `json:"register"`
	}
	result := e.exec(t, ctx, `mutation {
		register(username: "alice", email: "alice@example.com", password: "pw123") {
			message user { id username email } access refresh
		}
	}`, nil, &reg)
	require.Empty(t, result.Errors)
	assert.Equal(t, "User registered successfully", reg.Register.Message)
	assert.Equal(t, "alice", reg.Register.User.Username)
	assert.NotEmpty(t, reg.Register.Access)

	var refreshed struct {
		RefreshToken struct {
			Access string `json:"access"`
		} `json:"refreshToken"`
	}
	result = e.exec(t, ctx, `mutation($r: String!) { refreshToken(refresh: $r) { access } }`,
		map[string]interface{}{"r": reg.Register.Refresh}, &refreshed)
	require.Empty(t, result.Errors)
	assert.NotEmpty(t, refreshed.RefreshToken.Access)

	result = e.exec(t, ctx, `mutation { register(username: "alice", password: "x") { access } }`, nil, nil)
	assert.Equal(t, "invalid", errorCode(t, result))
	assert.Equal(t, "Username already exists", result.Errors[0].Message)

	wrong := e.exec(t, ctx, `mutation { login(username: "alice", password: "nope") { access } }`, nil, nil)
	unknown := e.exec(t, ctx, `mutation { login(username: "bob", password: "pw123") { access } }`, nil, nil)
	assert.Equal(t, "unauthenticated", errorCode(t, wrong))
	assert.Equal(t, wrong.Errors[0].Message, unknown.Errors[0].Message)
	assert.Equal(t, "Invalid credentials", wrong.Errors[0].Message)
}

func TestSchema_WritesRequireIdentity(t *testing.T) {
	e := newTestEnv(t)

	result := e.exec(t, context.Background(), `mutation { createPost(content: "hi") { post { id } } }`, nil, nil)
	assert.Equal(t, "unauthorized", errorCode(t, result))
	assert.Equal(t, "Authentication required", result.Errors[0].Message)

	result = e.exec(t, context.Background(), `mutation { likePost(postId: 1) { message } }`, nil, nil)
	assert.Equal(t, "unauthorized", errorCode(t, result))

	result = e.exec(t, context.Background(), `query { me { id } }`, nil, nil)
	assert.Equal(t, "unauthorized", errorCode(t, result))
}

func TestSchema_Scenario(t *testing.T) {
	e := newTestEnv(t)
	ctx := e.signUp(t, "alice")

	var created struct {
		CreatePost struct {
			Post struct {
				ID     int `json:"id"`
				Author struct {
					Username string `json:"username"`
				} `json:"author"`
				LikesCount int `json:"likesCount"`
			} `json:"post"`
		} `json:"createPost"`
	}
	result := e.exec(t, ctx, `mutation { createPost(content: "hello") { post { id author { username } likesCount } } }`, nil, &created)
	require.Empty(t, result.Errors)
	postID := created.CreatePost.Post.ID
	assert.Equal(t, "alice", created.CreatePost.Post.Author.Username)
	assert.Zero(t, created.CreatePost.Post.LikesCount)

	vars := map[string]interface{}{"id": postID}

	var liked struct {
		LikePost struct {
			Message string `json:"message"`
			Like    struct {
				PostID int `json:"postId"`
			} `json:"like"`
		} `json:"likePost"`
	}
	result = e.exec(t, ctx, `mutation($id: Int!) { likePost(postId: $id) { message like { postId } } }`, vars, &liked)
	require.Empty(t, result.Errors)
	assert.Equal(t, "Post liked", liked.LikePost.Message)
	assert.Equal(t, postID, liked.LikePost.Like.PostID)

	result = e.exec(t, ctx, `mutation($id: Int!) { likePost(postId: $id) { message } }`, vars, nil)
	assert.Equal(t, "conflict", errorCode(t, result))
	assert.Equal(t, "Already liked", result.Errors[0].Message)

	result = e.exec(t, ctx, `mutation($id: Int!) { addComment(postId: $id, content: "nice") { message comment { postId content } } }`, vars, nil)
	require.Empty(t, result.Errors)

	var got struct {
		PostByID struct {
			LikesCount    int `json:"likesCount"`
			CommentsCount int `json:"commentsCount"`
			Comments      []struct {
				Content string `json:"content"`
				Author  struct {
					Username string `json:"username"`
				} `json:"author"`
			} `json:"comments"`
		} `json:"postById"`
	}
	result = e.exec(t, context.Background(), `query($id: Int!) {
		postById(id: $id) { likesCount commentsCount comments { content author { username } } }
	}`, vars, &got)
	require.Empty(t, result.Errors)
	assert.Equal(t, 1, got.PostByID.LikesCount)
	assert.Equal(t, 1, got.PostByID.CommentsCount)
	require.Len(t, got.PostByID.Comments, 1)
	assert.Equal(t, "nice", got.PostByID.Comments[0].Content)
	assert.Equal(t, "alice", got.PostByID.Comments[0].Author.Username)
}

func TestSchema_Queries(t *testing.T) {
	e := newTestEnv(t)
	ctx := e.signUp(t, "alice")
	for _, content := range []string{"one", "two", "three"} {
		result := e.exec(t, ctx, `mutation($c: String!) { createPost(content: $c) { post { id } } }`,
			map[string]interface{}{"c": content}, nil)
		require.Empty(t, result.Errors)
	}

	t.Run("allPosts pages newest first", func(t *testing.T) {
		var data struct {
			AllPosts []struct {
				Content string `json:"content"`
			} `json:"allPosts"`
		}
		result := e.exec(t, context.Background(), `{ allPosts(first: 2) { content } }`, nil, &data)
		require.Empty(t, result.Errors)
		require.Len(t, data.AllPosts, 2)
		assert.Equal(t, "three", data.AllPosts[0].Content)
		assert.Equal(t, "two", data.AllPosts[1].Content)

		result = e.exec(t, context.Background(), `{ allPosts(skip: 2) { content } }`, nil, &data)
		require.Empty(t, result.Errors)
		require.Len(t, data.AllPosts, 1)
		assert.Equal(t, "one", data.AllPosts[0].Content)
	})

	t.Run("postById of a missing post is not found", func(t *testing.T) {
		var data struct {
			PostByID *struct{} `json:"postById"`
		}
		result := e.exec(t, context.Background(), `{ postById(id: 999) { id } }`, nil, &data)
		assert.Equal(t, "not_found", errorCode(t, result))
		assert.Equal(t, "Post not found", result.Errors[0].Message)
		assert.Nil(t, data.PostByID)
	})

	t.Run("me returns the caller", func(t *testing.T) {
		var data struct {
			Me domain.UserView `json:"me"`
		}
		result := e.exec(t, ctx, `{ me { id username } }`, nil, &data)
		require.Empty(t, result.Errors)
		assert.Equal(t, "alice", data.Me.Username)
	})
}
