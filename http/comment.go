package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"socialFeed/domain"
	"socialFeed/errs"
)

// registerCommentRoutes is a helper for registering all Comment routes.
func (s *Server) registerCommentRoutes(r *mux.Router) {
	// List the comments of a post, oldest first. Public.
	handleFunc(r, "/posts/{id:[0-9]+}/comments/", s.handleListComments, "GET")

	// Comment on a post.
	handleFunc(r, "/posts/{id:[0-9]+}/comments/", s.requireAuth(s.handleCreateComment), "POST")
}

// handleListComments handles the route "GET /posts/{id}/comments/".
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	comments, err := s.feed.ListComments(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, comments)
}

// handleCreateComment handles the route "POST /posts/{id}/comments/".
// It reads the post ID from the url and the content from the json body.
// Post and author are never taken from the body.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	// Parse the post ID from the url.
	id, err := parseID(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Parse the request's json body into a CommentInput object.
	var in domain.CommentInput
	if err := decodeJSON(w, r, &in); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Create a new Comment database record.
	comment, err := s.feed.AddComment(r.Context(), id, in)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Return the created Comment.
	writeJSON(w, r, http.StatusCreated, comment)
}
