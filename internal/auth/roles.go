package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-booking-service/internal/domain"
	apperrors "github.com/spec-kit/tour-booking-service/pkg/util/errorutil"
)

// RequireRole ensures the authenticated user holds one of the allowed roles.
// With no roles listed any authenticated user passes.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient privileges")
		}
		return c.Next()
	}
}

// RequireAdmin is shorthand for the admin-only guard.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
