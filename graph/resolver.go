package graph

import (
	"context"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"

	"socialFeed/domain"
	"socialFeed/errs"
	"socialFeed/logging"
)

type resolver struct {
	feed domain.FeedService
}

func (r *resolver) allPosts(p graphql.ResolveParams) (interface{}, error) {
	first, _ := p.Args["first"].(int)
	skip, _ := p.Args["skip"].(int)
	posts, err := r.feed.ListPosts(p.Context, domain.PostFilter{First: first, Skip: skip})
	if err != nil {
		return nil, present(p.Context, err)
	}
	return posts, nil
}

// postByID fails with a not_found error for a missing post, just like
// GET /posts/{id}/ answers 404.
func (r *resolver) postByID(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(int)
	post, err := r.feed.GetPost(p.Context, id)
	if err != nil {
		return nil, present(p.Context, err)
	}
	return post, nil
}

func (r *resolver) me(p graphql.ResolveParams) (interface{}, error) {
	user, err := r.feed.Me(p.Context)
	if err != nil {
		return nil, present(p.Context, err)
	}
	return user, nil
}

func (r *resolver) register(p graphql.ResolveParams) (interface{}, error) {
	in := domain.RegisterInput{}
	in.Username, _ = p.Args["username"].(string)
	in.Email, _ = p.Args["email"].(string)
	in.Password, _ = p.Args["password"].(string)

	view, err := r.feed.Register(p.Context, in)
	if err != nil {
		return nil, present(p.Context, err)
	}
	return authPayload(view, "User registered successfully"), nil
}

func (r *resolver) login(p graphql.ResolveParams) (interface{}, error) {
	in := domain.LoginInput{}
	in.Username, _ = p.Args["username"].(string)
	in.Password, _ = p.Args["password"].(string)

	view, err := r.feed.Login(p.Context, in)
	if err != nil {
		return nil, present(p.Context, err)
	}
	return authPayload(view, ""), nil
}

func (r *resolver) refreshToken(p graphql.ResolveParams) (interface{}, error) {
	refresh, _ := p.Args["refresh"].(string)
	view, err := r.feed.Refresh(p.Context, domain.RefreshInput{Refresh: refresh})
	if err != nil {
		return nil, present(p.Context, err)
	}
	return view, nil
}

func (r *resolver) createPost(p graphql.ResolveParams) (interface{}, error) {
	content, _ := p.Args["content"].(string)
	post, err := r.feed.CreatePost(p.Context, domain.PostInput{Content: content})
	if err != nil {
		return nil, present(p.Context, err)
	}
	return map[string]interface{}{"post": post}, nil
}

func (r *resolver) addComment(p graphql.ResolveParams) (interface{}, error) {
	postID, _ := p.Args["postId"].(int)
	content, _ := p.Args["content"].(string)
	comment, err := r.feed.AddComment(p.Context, postID, domain.CommentInput{Content: content})
	if err != nil {
		return nil, present(p.Context, err)
	}
	return map[string]interface{}{"message": "Comment added", "comment": comment}, nil
}

func (r *resolver) likePost(p graphql.ResolveParams) (interface{}, error) {
	postID, _ := p.Args["postId"].(int)
	like, err := r.feed.LikePost(p.Context, postID)
	if err != nil {
		return nil, present(p.Context, err)
	}
	return map[string]interface{}{"message": "Post liked", "like": like}, nil
}

func authPayload(view *domain.AuthView, message string) map[string]interface{} {
	payload := map[string]interface{}{
		"user":    view.User,
		"access":  view.Access,
		"refresh": view.Refresh,
	}
	if message != "" {
		payload["message"] = message
	}
	return payload
}

// gqlError is an application error as a GraphQL client sees it: the message
// is the error text and the code travels in extensions.
type gqlError struct {
	code    string
	message string
}

func (e *gqlError) Error() string {
	return e.message
}

func (e *gqlError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

// present converts err for a resolver result. Internal errors are logged,
// since their details are hidden from the client.
func present(ctx context.Context, err error) error {
	e := errs.Present(err)
	if e.Code == errs.EINTERNAL {
		logging.FromContext(ctx).Error("graphql resolver error", zap.Error(err))
	}
	return &gqlError{code: e.Code, message: e.Message}
}
