package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"socialFeed/errs"
)

func (s *Server) registerUserRoutes(r *mux.Router) {
	// Get the authenticated user's own data.
	handleFunc(r, "/auth/me/", s.requireAuth(s.handleMe), "GET")
}

// handleMe handles the route "GET /auth/me/".
// It returns the user the bearer token was issued for.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.feed.Me(r.Context())
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}
