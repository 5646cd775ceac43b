package graph

import (
	"github.com/graphql-go/graphql"

	"socialFeed/domain"
)

// Object types resolve through graphql's default resolver, which matches
// field names against the view structs case-insensitively (likesCount -> LikesCount).

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":    &graphql.Field{Type: graphql.String},
	},
})

var commentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Comment",
	Fields: graphql.Fields{
		"id": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"postId": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch c := p.Source.(type) {
				case domain.CommentView:
					return c.Post, nil
				case *domain.CommentView:
					return c.Post, nil
				}
				return nil, nil
			},
		},
		"content":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"author":    &graphql.Field{Type: graphql.NewNonNull(userType)},
		"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var likeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Like",
	Fields: graphql.Fields{
		"id": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"postId": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch l := p.Source.(type) {
				case domain.LikeView:
					return l.Post, nil
				case *domain.LikeView:
					return l.Post, nil
				}
				return nil, nil
			},
		},
		"user":      &graphql.Field{Type: graphql.NewNonNull(userType)},
		"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

// newPostType builds the Post type. Its comments field needs the feed service.
func newPostType(feed domain.FeedService) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"content":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"author":        &graphql.Field{Type: graphql.NewNonNull(userType)},
			"createdAt":     &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"likesCount":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"commentsCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"comments": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(commentType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					post, ok := postSource(p.Source)
					if !ok {
						return nil, nil
					}
					comments, err := feed.ListComments(p.Context, post.ID)
					if err != nil {
						return nil, present(p.Context, err)
					}
					return comments, nil
				},
			},
		},
	})
}

// postSource unwraps the two shapes a post is resolved from.
func postSource(source interface{}) (domain.PostView, bool) {
	switch v := source.(type) {
	case domain.PostView:
		return v, true
	case *domain.PostView:
		if v != nil {
			return *v, true
		}
	}
	return domain.PostView{}, false
}

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"message": &graphql.Field{Type: graphql.String},
		"user":    &graphql.Field{Type: graphql.NewNonNull(userType)},
		"access":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"refresh": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var refreshPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RefreshPayload",
	Fields: graphql.Fields{
		"access": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

// newPayloadType builds a mutation payload carrying a message and one created object.
func newPayloadType(name, field string, typ graphql.Output) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"message": &graphql.Field{Type: graphql.String},
			field:     &graphql.Field{Type: typ},
		},
	})
}
