package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inscode/internal/config"
	"inscode/internal/database"
	"inscode/internal/database/migration"
	handlers "inscode/internal/http/handler"
	"inscode/internal/http/middleware"
	"inscode/internal/otel"
	"inscode/internal/repository/postgres"
	"inscode/internal/service"
	"inscode/internal/storage"
	"inscode/internal/timeutil"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := timeutil.LoadLocation(cfg.Timezone)

	// Tracing first so database and HTTP instrumentation attach to it
	shutdownTracing, err := otel.Init(context.Background(), loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// PostgreSQL connection with pooling, instrumented via otelsql
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	migCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migration.EnsureMigrated(migCtx, db, loc, cfg.Database.Host); err != nil {
		cancel()
		log.Fatalf("failed to migrate database: %v", err)
	}
	cancel()

	// S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories and services
	projectRepo := postgres.NewProjectPostgres(db)
	tagRepo := postgres.NewTagPostgres(db)
	attachmentRepo := postgres.NewAttachmentPostgres(db)

	svcs := handlers.Services{
		Projects:    service.NewProjectService(projectRepo),
		Tags:        service.NewTagService(tagRepo),
		Attachments: service.NewAttachmentService(objStore, attachmentRepo, projectRepo),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Global middleware: request IDs, JSON access logs, tracing, auth
	// and HTTP metrics, in that order.
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(loc))
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Auth(cfg.Auth))

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, svcs, cfg)

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
