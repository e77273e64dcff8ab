package auth

import (
	"net/http"

	"github.com/google/uuid"
)

// NoneAuthenticator is the development authenticator. It trusts the
// X-Cleanmatch-User and X-Cleanmatch-Role headers and falls back to a
// fixed client principal when they are absent.
type NoneAuthenticator struct{}

func NewNoneAuthenticator() (*NoneAuthenticator, error) {
	return &NoneAuthenticator{}, nil
}

func (n *NoneAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := User{
			ID:       uuid.UUID{},
			Role:     RoleClient,
			Username: "admin",
		}

		if id, err := uuid.Parse(r.Header.Get("X-Cleanmatch-User")); err == nil {
			user.ID = id
		}
		if role := r.Header.Get("X-Cleanmatch-Role"); role == RoleClient || role == RoleCleaner {
			user.Role = role
		}

		ctx := NewUserContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
