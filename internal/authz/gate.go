// Package authz classifies the caller of a request into exactly one
// role (anonymous, owner or admin) and enforces it fail-closed.
package authz

import (
	"context"
	"strings"

	"bizconnect-backend/internal/domain"
	"bizconnect-backend/pkg/apperror"
)

type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
)

// Gate holds the configured administrator set. Identity comes from the
// request context (set by the auth middleware); admin status is decided
// purely by a case-insensitive email match. An empty set means no caller
// is ever admin.
type Gate struct {
	admins map[string]struct{}
}

func NewGate(adminEmails []string) *Gate {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = struct{}{}
		}
	}
	return &Gate{admins: admins}
}

// IsAdmin reports whether the verified email belongs to an administrator.
func (g *Gate) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	_, ok := g.admins[strings.ToLower(email)]
	return ok
}

// RoleFor resolves the caller's role with respect to the target profile.
func (g *Gate) RoleFor(ctx context.Context, targetProfileID string) Role {
	id, email, ok := IdentityFromContext(ctx)
	if !ok {
		return RoleAnonymous
	}
	if g.IsAdmin(email) {
		return RoleAdmin
	}
	if id == targetProfileID {
		return RoleOwner
	}
	return RoleAnonymous
}

// RequireAdmin rejects the call before any store access when the caller
// is not a configured administrator.
func (g *Gate) RequireAdmin(ctx context.Context) error {
	_, email, ok := IdentityFromContext(ctx)
	if !ok {
		return apperror.Unauthorized("User not authenticated")
	}
	if !g.IsAdmin(email) {
		return apperror.Forbidden("Administrator access required")
	}
	return nil
}

// RequireOwner ensures the caller acts on their own profile.
func (g *Gate) RequireOwner(ctx context.Context, targetProfileID string) error {
	id, _, ok := IdentityFromContext(ctx)
	if !ok {
		return apperror.Unauthorized("User not authenticated")
	}
	if id != targetProfileID {
		return apperror.Forbidden("You can only modify your own profile")
	}
	return nil
}

// IdentityFromContext extracts the authenticated identity. It accepts
// both Gin's string keys (c.Set) and typed keys (context.WithValue) so
// usecases behave the same under HTTP handlers and plain contexts.
func IdentityFromContext(ctx context.Context) (id, email string, ok bool) {
	id = ctxString(ctx, domain.KeyUserID)
	email = ctxString(ctx, domain.KeyUserEmail)
	return id, email, id != ""
}

func ctxString(ctx context.Context, key domain.CtxKey) string {
	if v, ok := ctx.Value(string(key)).(string); ok && v != "" {
		return v
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
