package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inscode/internal/apperror"
	"inscode/internal/config"
	"inscode/internal/model"
)

func authTestConfig() config.AuthConfig {
	return config.AuthConfig{
		Secret: "test-secret",
		Issuer: "inscode-test",
		TTL:    time.Hour,
	}
}

func newAuthApp(cfg config.AuthConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var apiErr *apperror.Error
			if errors.As(err, &apiErr) {
				return c.Status(apiErr.Status).JSON(fiber.Map{"message": apiErr.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Use(Auth(cfg))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(actor.ID + ":" + actor.Role)
	})
	return app
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestAuth(t *testing.T) {
	cfg := authTestConfig()

	t.Run("missing header passes through anonymously", func(t *testing.T) {
		app := newAuthApp(cfg)
		req := httptest.NewRequest("GET", "/whoami", nil)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "anonymous", readBody(t, resp))
	})

	t.Run("valid token sets the actor", func(t *testing.T) {
		app := newAuthApp(cfg)
		token, err := SignToken(cfg, model.Actor{ID: "user-1", Role: model.RoleEditor})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "user-1:editor", readBody(t, resp))
	})

	t.Run("malformed scheme is rejected", func(t *testing.T) {
		app := newAuthApp(cfg)
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Basic abc123")

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		app := newAuthApp(cfg)
		other := cfg
		other.Secret = "wrong-secret"
		token, err := SignToken(other, model.Actor{ID: "user-1"})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		app := newAuthApp(cfg)
		expired := cfg
		expired.TTL = -time.Minute
		token, err := SignToken(expired, model.Actor{ID: "user-1"})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("empty secret rejects every bearer token", func(t *testing.T) {
		unconfigured := config.AuthConfig{TTL: time.Hour}
		app := newAuthApp(unconfigured)

		// A token HMAC-signed with the empty key must not mint an actor.
		token, err := SignToken(unconfigured, model.Actor{ID: "forged", Role: model.RoleAdmin})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("empty secret still allows anonymous requests", func(t *testing.T) {
		app := newAuthApp(config.AuthConfig{})

		resp, _ := app.Test(httptest.NewRequest("GET", "/whoami", nil))

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "anonymous", readBody(t, resp))
	})

	t.Run("wrong issuer is rejected", func(t *testing.T) {
		app := newAuthApp(cfg)
		other := cfg
		other.Issuer = "someone-else"
		token, err := SignToken(other, model.Actor{ID: "user-1"})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
