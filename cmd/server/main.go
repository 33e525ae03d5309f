package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	"cardbase/internal/config"
	"cardbase/internal/database"
	"cardbase/internal/handlers"
	"cardbase/internal/jsonapi"
	"cardbase/internal/linkmeta"
	"cardbase/internal/middleware"
	"cardbase/internal/store"
	"cardbase/internal/webhook"

	_ "cardbase/docs/api" // Swagger docs
)

// @title Cardbase API
// @version 1.0.0
// @description Multi-tenant boards-of-cards backend speaking a JSON-API-style protocol

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Local .env files are optional
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("cardbase")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	st := store.New(db)
	wh := webhook.NewClient(cfg.WebhookTimeout)

	boards := &handlers.BoardsHandler{Store: st}
	cards := &handlers.CardsHandler{Store: st, Webhook: wh}
	columns := &handlers.ColumnsHandler{Store: st}
	elements := &handlers.ElementsHandler{Store: st}
	users := &handlers.UsersHandler{Store: st}
	shares := &handlers.SharesHandler{Store: st, Webhook: wh}
	links := &handlers.LinksHandler{
		Store:      st,
		Webhook:    wh,
		Parser:     linkmeta.NewHTTPParser(cfg.LinkFetchTimeout),
		Dispatcher: linkmeta.GoDispatcher{},
	}
	health := &handlers.HealthHandler{Config: cfg, DB: db}

	auth := middleware.RequireUser(st)
	apiKey := middleware.RequireAPIKey(st)

	app.Get("/health", health.Check)

	// Boards, with nested indexes for their children
	app.Get("/boards", auth, boards.Index)
	app.Post("/boards", auth, boards.Create)
	app.Get("/boards/:id", auth, boards.Show)
	app.Patch("/boards/:id", auth, boards.Update)
	app.Delete("/boards/:id", auth, boards.Destroy)
	app.Get("/boards/:id/cards", auth, cards.Index)
	app.Get("/boards/:id/columns", auth, columns.Index)
	app.Get("/boards/:id/elements", auth, elements.Index)

	// Cards
	app.Post("/cards", auth, cards.Create)
	app.Get("/cards/:id", auth, cards.Show)
	app.Patch("/cards/:id", auth, cards.Update)
	app.Delete("/cards/:id", auth, cards.Destroy)

	// Columns
	app.Post("/columns", auth, columns.Create)
	app.Get("/columns/:id", auth, columns.Show)
	app.Patch("/columns/:id", auth, columns.Update)
	app.Delete("/columns/:id", auth, columns.Destroy)

	// Elements
	app.Post("/elements", auth, elements.Create)
	app.Get("/elements/:id", auth, elements.Show)
	app.Patch("/elements/:id", auth, elements.Update)
	app.Delete("/elements/:id", auth, elements.Destroy)

	// Users; signup is the only unauthenticated endpoint
	app.Post("/users", users.Create)
	app.Get("/users/:id", auth, users.Show)
	app.Patch("/users/:id", auth, users.Update)
	app.Delete("/users/:id", auth, users.Destroy)

	// API-key-authenticated ingestion
	app.Post("/shares", apiKey, shares.Create)
	app.Post("/custom/links", apiKey, links.Create)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		doc := jsonapi.NotFound()
		return c.Status(doc.Status).JSON(doc, jsonapi.ContentType)
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// errorHandler renders anything a handler did not map itself as a JSON-API
// error envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	doc := jsonapi.ErrorDocument{
		Errors: []jsonapi.ErrorObject{{Code: strconv.Itoa(code), Title: message}},
	}
	return c.Status(code).JSON(doc, jsonapi.ContentType)
}
