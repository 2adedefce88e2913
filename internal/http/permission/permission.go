package permission

import (
	"github.com/gofiber/fiber/v2"

	"inscode/internal/apperror"
	"inscode/internal/http/middleware"
	"inscode/internal/model"
)

// Permission decides whether a request may proceed. Implementations
// return nil to allow, or an error carrying the HTTP status to deny.
type Permission interface {
	Allow(c *fiber.Ctx) error
}

// PermissionFunc adapts a function to the Permission interface.
type PermissionFunc func(c *fiber.Ctx) error

func (f PermissionFunc) Allow(c *fiber.Ctx) error { return f(c) }

// AllowAny admits every request, authenticated or not.
func AllowAny() Permission {
	return PermissionFunc(func(c *fiber.Ctx) error { return nil })
}

// IsAuthenticated admits only requests with a verified actor.
func IsAuthenticated() Permission {
	return PermissionFunc(func(c *fiber.Ctx) error {
		if _, ok := middleware.ActorFromCtx(c); !ok {
			return apperror.Unauthorized("authentication required")
		}
		return nil
	})
}

// HasRole admits actors carrying one of the given roles. Admins always
// pass. Anonymous requests are rejected with 401 rather than 403 so
// the client knows credentials are missing, not insufficient.
func HasRole(roles ...string) Permission {
	return PermissionFunc(func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return apperror.Unauthorized("authentication required")
		}
		if actor.Role == model.RoleAdmin {
			return nil
		}
		for _, r := range roles {
			if actor.Role == r {
				return nil
			}
		}
		return apperror.Forbidden("insufficient role")
	})
}

// IsOwner admits the actor whose ID matches the owner of the target
// resource, resolved per request. Admins always pass. Anonymous
// requests get 401, everyone else who is not the owner gets 403.
func IsOwner(resolve func(c *fiber.Ctx) (string, error)) Permission {
	return PermissionFunc(func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return apperror.Unauthorized("authentication required")
		}
		if actor.Role == model.RoleAdmin {
			return nil
		}
		owner, err := resolve(c)
		if err != nil {
			return err
		}
		if actor.ID == owner {
			return nil
		}
		return apperror.Forbidden("not the resource owner")
	})
}

// Require composes permissions into a route middleware. All must allow
// the request.
func Require(perms ...Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, p := range perms {
			if err := p.Allow(c); err != nil {
				return err
			}
		}
		return c.Next()
	}
}
