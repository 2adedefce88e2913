package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"inscode/internal/apperror"
	"inscode/internal/config"
	"inscode/internal/model"
)

// ActorLocalKey is the key under which the authenticated actor is
// stored in Fiber's context locals.
const ActorLocalKey = "actor"

// AuthClaims is the JWT payload the service issues and verifies.
// The actor ID travels in the registered Subject claim.
type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth verifies a Bearer token when one is present. Requests without
// an Authorization header pass through anonymously; permission checks
// decide later whether an actor is required. A present but invalid
// token is rejected outright. With no signing secret configured every
// bearer token is rejected: an empty HMAC key would otherwise verify
// attacker-minted tokens.
func Auth(cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}
		if cfg.Secret == "" {
			return apperror.Unauthorized("token verification is not configured")
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return apperror.Unauthorized("authorization header must use the Bearer scheme")
		}

		claims := &AuthClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(cfg.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return apperror.Unauthorized("invalid or expired token")
		}
		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			return apperror.Unauthorized("invalid token issuer")
		}

		actor := model.Actor{ID: claims.Subject, Role: claims.Role}
		c.Locals(ActorLocalKey, actor)
		// Propagate through the request context so services see the actor too
		c.SetUserContext(model.WithActor(c.UserContext(), actor))

		return c.Next()
	}
}

// ActorFromCtx returns the authenticated actor for the request, if any.
func ActorFromCtx(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(ActorLocalKey).(model.Actor)
	return actor, ok
}

// SignToken issues an HS256 token for the given actor. Used by tests
// and by tooling that needs a valid credential.
func SignToken(cfg config.AuthConfig, actor model.Actor) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}
