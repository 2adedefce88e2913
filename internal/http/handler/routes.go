package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"inscode/internal/config"
	"inscode/internal/http/permission"
	"inscode/internal/model"
	"inscode/internal/service"
	"inscode/internal/timeutil"
)

// Services bundles the use-case layer dependencies of the HTTP routes.
type Services struct {
	Projects    service.CrudService[model.Project]
	Tags        service.CrudService[model.Tag]
	Attachments service.AttachmentService
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services, cfg *config.AppConfig) {
	loc := timeutil.LoadLocation(cfg.Timezone)

	// Serve the OpenAPI spec and a Swagger UI page
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoints: /health checks DB connectivity, /healthz is a
	// bare liveness probe.
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Projects require an authenticated actor for everything.
	projects := NewProjectResource(svcs.Projects, cfg, loc)
	projects.Register(app, "/projects", ActionsAll, permission.IsAuthenticated())

	// Tags are world-readable; mutations need the editor role.
	tags := NewTagResource(svcs.Tags, cfg, loc)
	tags.Register(app, "/tags", ActionsReadOnly, permission.AllowAny())
	tags.Register(app, "/tags", ActionCreate|ActionUpdate|ActionDelete, permission.HasRole(model.RoleEditor))

	// Attachments live under their project for upload/list and have
	// flat routes for item access.
	attachments := NewAttachmentHandler(svcs.Attachments, cfg, loc)
	authed := permission.Require(permission.IsAuthenticated())
	app.Post("/projects/:id/attachments", authed, attachments.Upload)
	app.Get("/projects/:id/attachments", authed, attachments.List)
	app.Get("/attachments/:id", authed, attachments.Get)
	app.Get("/attachments/:id/download", authed, attachments.Download)
	app.Delete("/attachments/:id", authed, attachments.Delete)
}
