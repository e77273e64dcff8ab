package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RoleClient  string = "client"
	RoleCleaner string = "cleaner"
)

type userKeyType struct{}

var (
	userKey userKeyType
)

// User is the authenticated principal. The core trusts it as given and
// performs ownership and role comparison only.
type User struct {
	ID       uuid.UUID
	Role     string
	Username string
	Token    *jwt.Token
}

func UserFromContext(ctx context.Context) (User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return User{}, false
	}
	return val.(User), true
}

func MustHaveUser(ctx context.Context) User {
	user, found := UserFromContext(ctx)
	if !found {
		zap.S().Named("auth").Panic("failed to find user in context")
	}
	return user
}

func NewUserContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}
