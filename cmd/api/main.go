package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"irs-portal/internal/config"
	"irs-portal/internal/handler"
	"irs-portal/internal/middleware"
	"irs-portal/internal/repository"
	"irs-portal/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (document upload will not work)", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, cfg, redisClient, minioClient)
	handlers := handler.NewHandlers(services)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := services.Template.SeedDefaults(ctx, cfg.TemplateSeedPath); err != nil {
		log.Printf("Warning: Failed to seed milestone templates: %v", err)
	}

	go services.Badges.Run(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services, repos)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, services *service.Services, repos *repository.Repositories) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	// Unauthenticated tracking lookup by code.
	public := v1.Group("/public")
	public.Get("/tracking/:code", h.Public.Track)

	auth := v1.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", h.Auth.Logout)

	protected := v1.Group("", middleware.AuthRequired(services.Auth, repos.User))

	protected.Get("/auth/me", h.Auth.Me)

	templates := protected.Group("/templates")
	templates.Get("/", middleware.RequireRole("staff"), h.Template.ListAll)
	templates.Get("/:category", middleware.RequireRole("staff"), h.Template.ListByCategory)
	templates.Put("/:category", middleware.RequireRole("admin"), h.Template.Update)

	requests := protected.Group("/requests")
	requests.Post("/", middleware.RequireRole("client"), h.Request.Submit)
	requests.Get("/", h.Request.List)
	requests.Get("/:id", h.Request.Get)
	requests.Post("/:id/approve", middleware.RequireRole("staff"), h.Request.Approve)
	requests.Post("/:id/reject", middleware.RequireRole("staff"), h.Request.Reject)
	requests.Post("/:id/cancel", h.Request.Cancel)

	projects := protected.Group("/projects")
	projects.Post("/", middleware.RequireRole("staff"), h.Project.Create)
	projects.Get("/", h.Project.List)
	projects.Get("/:id", h.Project.Get)
	projects.Patch("/:id/status", middleware.RequireRole("staff"), h.Project.UpdateStatus)
	projects.Get("/:id/activity", h.Project.ListActivity)
	projects.Post("/:id/activity", middleware.RequireRole("staff"), h.Project.AddActivity)
	projects.Get("/:id/documents", h.Document.List)
	projects.Post("/:id/documents", middleware.RequireRole("staff"), h.Document.Upload)

	protected.Patch("/milestones/:milestoneId", middleware.RequireRole("staff"), h.Project.ToggleMilestone)
	protected.Get("/documents/:documentId/download", h.Document.Download)

	conversations := protected.Group("/conversations")
	conversations.Post("/", middleware.RequireRole("staff"), h.Message.CreateConversation)
	conversations.Get("/", h.Message.ListConversations)
	conversations.Get("/:id", h.Message.GetConversation)
	conversations.Get("/:id/messages", h.Message.ListMessages)
	conversations.Post("/:id/messages", h.Message.Send)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/recent", h.Notification.ListRecent)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Get("/unread-counts", h.Notification.GetUnreadCounts)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Post("/mark-category-read/:type", h.Notification.MarkCategoryRead)

	protected.Get("/dashboard/stats", middleware.RequireRole("staff"), h.Dashboard.GetStats)
}
