package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"socialFeed/auth"
	"socialFeed/domain"
	"socialFeed/errs"
)

// registerAuthRoutes is a helper for registering all auth routes.
func (s *Server) registerAuthRoutes(r *mux.Router) {
	// Create a new user and sign them in.
	handleFunc(r, "/auth/register/", s.handleRegister, "POST")

	// Sign in with username and password.
	handleFunc(r, "/auth/login/", s.handleLogin, "POST")

	// Exchange a refresh token for a new access token.
	handleFunc(r, "/auth/refresh/", s.handleRefresh, "POST")
}

// handleRegister handles the route "POST /auth/register/".
// It reads the registration data from the json body, creates the user and
// returns them together with a fresh token pair.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	// Parse the request's json body into a RegisterInput object.
	var in domain.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Create the user and issue their tokens.
	view, err := s.feed.Register(r.Context(), in)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Return the user and the tokens.
	writeJSON(w, r, http.StatusCreated, view)
}

// handleLogin handles the route "POST /auth/login/".
// Unknown usernames and wrong passwords both get the same 401 response.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	view, err := s.feed.Login(r.Context(), in)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, view)
}

// handleRefresh handles the route "POST /auth/refresh/".
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in domain.RefreshInput
	if err := decodeJSON(w, r, &in); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	view, err := s.feed.Refresh(r.Context(), in)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, view)
}

// requireAuth answers 401 before next parses anything, unless the request
// carries an authenticated user.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			errs.ReturnError(w, r, errs.AuthRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
