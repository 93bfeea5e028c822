package middleware

import (
	"context"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/pkg/ctxutil"
)

// RequireUser returns the caller identity or domain.ErrUnauthorized.
// Use in REST handlers, not as HTTP middleware.
func RequireUser(ctx context.Context) (ctxutil.Identity, error) {
	ident, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return ctxutil.Identity{}, domain.ErrUnauthorized
	}
	return ident, nil
}

// RequireAdmin returns domain.ErrForbidden if the context user is not admin.
func RequireAdmin(ctx context.Context) error {
	ident, err := RequireUser(ctx)
	if err != nil {
		return err
	}
	if domain.ParseRole(ident.Role) != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
