package graph

import (
	"github.com/graphql-go/graphql"

	"socialFeed/domain"
)

// NewSchema builds the GraphQL schema on top of a feed service. The resolvers
// only translate arguments and results; every rule lives in the feed service.
func NewSchema(feed domain.FeedService) (graphql.Schema, error) {
	postType := newPostType(feed)
	r := &resolver{feed: feed}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"allPosts": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(postType)),
				Args: graphql.FieldConfigArgument{
					"first": &graphql.ArgumentConfig{Type: graphql.Int},
					"skip":  &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.allPosts,
			},
			"postById": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.postByID,
			},
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.me,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.String},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.register,
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.login,
			},
			"refreshToken": &graphql.Field{
				Type: refreshPayloadType,
				Args: graphql.FieldConfigArgument{
					"refresh": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.refreshToken,
			},
			"createPost": &graphql.Field{
				Type: newPayloadType("CreatePostPayload", "post", postType),
				Args: graphql.FieldConfigArgument{
					"content": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.createPost,
			},
			"addComment": &graphql.Field{
				Type: newPayloadType("AddCommentPayload", "comment", commentType),
				Args: graphql.FieldConfigArgument{
					"postId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"content": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.addComment,
			},
			"likePost": &graphql.Field{
				Type: newPayloadType("LikePostPayload", "like", likeType),
				Args: graphql.FieldConfigArgument{
					"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.likePost,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
