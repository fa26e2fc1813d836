package authz_test

import (
	"context"
	"testing"

	"bizconnect-backend/internal/authz"
	"bizconnect-backend/internal/domain"
	"bizconnect-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func identityCtx(id, email string) context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, id)
	return context.WithValue(ctx, domain.KeyUserEmail, email)
}

func TestIsAdmin(t *testing.T) {
	gate := authz.NewGate([]string{" Admin@Example.COM ", "second@example.com"})

	t.Run("Matches case-insensitively", func(t *testing.T) {
		assert.True(t, gate.IsAdmin("admin@example.com"))
		assert.True(t, gate.IsAdmin("ADMIN@EXAMPLE.COM"))
		assert.True(t, gate.IsAdmin("second@example.com"))
	})

	t.Run("Rejects everyone else", func(t *testing.T) {
		assert.False(t, gate.IsAdmin("admin@example.org"))
		assert.False(t, gate.IsAdmin(""))
	})

	t.Run("Empty set means nobody is admin", func(t *testing.T) {
		empty := authz.NewGate(nil)
		assert.False(t, empty.IsAdmin("admin@example.com"))

		blank := authz.NewGate([]string{"", "  "})
		assert.False(t, blank.IsAdmin(""))
	})
}

func TestRoleFor(t *testing.T) {
	gate := authz.NewGate([]string{"admin@example.com"})

	t.Run("No identity is anonymous", func(t *testing.T) {
		assert.Equal(t, authz.RoleAnonymous, gate.RoleFor(context.Background(), "user1"))
	})

	t.Run("Admin outranks ownership", func(t *testing.T) {
		ctx := identityCtx("user1", "admin@example.com")
		assert.Equal(t, authz.RoleAdmin, gate.RoleFor(ctx, "user1"))
	})

	t.Run("Matching id is owner", func(t *testing.T) {
		ctx := identityCtx("user1", "jane@example.com")
		assert.Equal(t, authz.RoleOwner, gate.RoleFor(ctx, "user1"))
	})

	t.Run("Mismatched id is anonymous", func(t *testing.T) {
		ctx := identityCtx("user1", "jane@example.com")
		assert.Equal(t, authz.RoleAnonymous, gate.RoleFor(ctx, "user2"))
	})
}

func TestRequireAdmin(t *testing.T) {
	gate := authz.NewGate([]string{"admin@example.com"})

	t.Run("Missing identity is unauthorized", func(t *testing.T) {
		err := gate.RequireAdmin(context.Background())
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 401, appErr.Code)
	})

	t.Run("Authenticated non-admin is forbidden", func(t *testing.T) {
		err := gate.RequireAdmin(identityCtx("user1", "jane@example.com"))
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("Admin passes", func(t *testing.T) {
		assert.NoError(t, gate.RequireAdmin(identityCtx("admin1", "admin@example.com")))
	})
}

func TestRequireOwner(t *testing.T) {
	gate := authz.NewGate(nil)

	t.Run("Owner passes", func(t *testing.T) {
		assert.NoError(t, gate.RequireOwner(identityCtx("user1", "jane@example.com"), "user1"))
	})

	t.Run("Someone else is forbidden", func(t *testing.T) {
		err := gate.RequireOwner(identityCtx("user1", "jane@example.com"), "user2")
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("Missing identity is unauthorized", func(t *testing.T) {
		err := gate.RequireOwner(context.Background(), "user1")
		assert.Error(t, err)
	})
}

func TestIdentityFromContext(t *testing.T) {
	t.Run("Reads typed keys", func(t *testing.T) {
		id, email, ok := authz.IdentityFromContext(identityCtx("user1", "jane@example.com"))
		assert.True(t, ok)
		assert.Equal(t, "user1", id)
		assert.Equal(t, "jane@example.com", email)
	})

	t.Run("Reads string keys the way Gin sets them", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), "UserID", "user1") //nolint:staticcheck
		ctx = context.WithValue(ctx, "Email", "jane@example.com")         //nolint:staticcheck

		id, email, ok := authz.IdentityFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "user1", id)
		assert.Equal(t, "jane@example.com", email)
	})

	t.Run("Empty context carries no identity", func(t *testing.T) {
		_, _, ok := authz.IdentityFromContext(context.Background())
		assert.False(t, ok)
	})
}
