package auth

import (
	"context"
	"net/http"
	"strings"

	"socialFeed/domain"
)

// Identifier resolves an access token to the user it was issued for.
type Identifier interface {
	Identify(ctx context.Context, token string) (*domain.User, error)
}

// UserMw looks up the user behind the request's bearer token and stores it in
// the request context. Requests without a valid token pass through anonymously;
// protected operations reject them further down.
type UserMw struct {
	Identifier
}

// Apply wraps next with the user lookup.
func (mw *UserMw) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := mw.Identify(r.Context(), token)
		if err != nil || user == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(SetUser(r.Context(), user)))
	})
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
// It returns an empty string if the header is missing or uses another scheme.
func BearerToken(r *http.Request) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
