package auth

import (
	"context"

	"github.com/kisanlog/kisanlog/internal/shared"
)

type userContextKey struct{}

// ContextWithUser stores the authenticated user in context, together with
// its ID for packages that only need ownership scoping.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	ctx = context.WithValue(ctx, userContextKey{}, user)
	return shared.ContextWithUserID(ctx, user.ID)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}
