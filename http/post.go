package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"socialFeed/domain"
	"socialFeed/errs"
)

// registerPostRoutes is a helper for registering all Post routes.
func (s *Server) registerPostRoutes(r *mux.Router) {
	// List posts, newest first. Public.
	handleFunc(r, "/posts/", s.handleListPosts, "GET")

	// Create a new post.
	handleFunc(r, "/posts/", s.requireAuth(s.handleCreatePost), "POST")

	// Get a single post. Public.
	handleFunc(r, "/posts/{id:[0-9]+}/", s.handleGetPost, "GET")
}

// handleListPosts handles the route "GET /posts/".
// It pages with ?first=&skip=, or their aliases ?limit=&offset=.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	// Parse the pagination parameters.
	filter, err := parsePostFilter(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Fetch the posts.
	posts, err := s.feed.ListPosts(r.Context(), filter)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Return the posts.
	writeJSON(w, r, http.StatusOK, posts)
}

// handleCreatePost handles the route "POST /posts/".
// The author is always the authenticated user, whatever the body says.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	// Parse the request's json body into a PostInput object.
	var in domain.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Create the post.
	post, err := s.feed.CreatePost(r.Context(), in)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Return the created post.
	writeJSON(w, r, http.StatusCreated, post)
}

// handleGetPost handles the route "GET /posts/{id}/".
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	// Parse the post ID from the url.
	id, err := parseID(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Fetch the post from the database.
	post, err := s.feed.GetPost(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Return the post.
	writeJSON(w, r, http.StatusOK, post)
}

// parsePostFilter reads the pagination of a post listing from the query string.
func parsePostFilter(r *http.Request) (domain.PostFilter, error) {
	var filter domain.PostFilter
	q := r.URL.Query()
	var err error
	if filter.First, err = intParam(q.Get("first"), q.Get("limit"), "first"); err != nil {
		return filter, err
	}
	if filter.Skip, err = intParam(q.Get("skip"), q.Get("offset"), "skip"); err != nil {
		return filter, err
	}
	return filter, nil
}

// intParam parses value, falling back to alias when value is empty.
// Both empty means zero.
func intParam(value, alias, name string) (int, error) {
	if value == "" {
		value = alias
	}
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errs.Errorf(errs.EINVALID, "%s must be an integer.", name)
	}
	return n, nil
}
