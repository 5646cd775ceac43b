package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"socialFeed/errs"
)

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Create a new like for a post (Like a post).
	handleFunc(r, "/posts/{id:[0-9]+}/like/", s.requireAuth(s.handleCreateLike), "POST")
}

// handleCreateLike handles the route "POST /posts/{id}/like/".
// It reads the post ID from the url and creates a new Like record in the database.
// Liking the same post twice answers 409.
func (s *Server) handleCreateLike(w http.ResponseWriter, r *http.Request) {
	// Parse the post ID from the url.
	id, err := parseID(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Create a new Like database record for the authed user.
	like, err := s.feed.LikePost(r.Context(), id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Return the created Like.
	writeJSON(w, r, http.StatusCreated, like)
}
