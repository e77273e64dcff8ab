package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalAuthenticator verifies HS256 tokens issued by the account service.
// Claims carry the principal id, role and username.
type LocalAuthenticator struct {
	signingKey []byte
}

func NewLocalAuthenticator(signingKey string) (*LocalAuthenticator, error) {
	if signingKey == "" {
		return nil, errors.New("jwt signing key must not be empty")
	}
	return &LocalAuthenticator{signingKey: []byte(signingKey)}, nil
}

func (l *LocalAuthenticator) Authenticate(token string) (User, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithExpirationRequired())
	t, err := parser.Parse(token, func(t *jwt.Token) (any, error) {
		return l.signingKey, nil
	})
	if err != nil {
		zap.S().Named("auth").Errorw("failed to parse or the token is invalid", "error", err)
		return User{}, fmt.Errorf("failed to authenticate token: %w", err)
	}

	if !t.Valid {
		return User{}, fmt.Errorf("failed to parse or validate token")
	}

	return l.parseToken(t)
}

func (l *LocalAuthenticator) parseToken(userToken *jwt.Token) (User, error) {
	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, errors.New("failed to parse jwt token claims")
	}

	rawID, ok := claims["id"].(string)
	if !ok {
		return User{}, errors.New("token has no principal id")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return User{}, fmt.Errorf("token principal id is not a uuid: %w", err)
	}

	role, ok := claims["role"].(string)
	if !ok || (role != RoleClient && role != RoleCleaner) {
		return User{}, errors.New("token has no valid role")
	}

	username, _ := claims["username"].(string)

	return User{
		ID:       id,
		Role:     role,
		Username: username,
		Token:    userToken,
	}, nil
}

func (l *LocalAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := r.Header.Get("Authorization")
		if accessToken == "" || len(accessToken) < len("Bearer ") {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		accessToken = accessToken[len("Bearer "):]
		user, err := l.Authenticate(accessToken)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusUnauthorized)
			return
		}

		ctx := NewUserContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects requests whose principal does not carry the given role.
func RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, found := UserFromContext(r.Context())
			if !found || user.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
