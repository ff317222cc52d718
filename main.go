package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"vitrine/internal/handlers"
	"vitrine/internal/middleware"
	"vitrine/internal/models"
	"vitrine/internal/repositories"
	"vitrine/internal/services"
	"vitrine/pkg/rabbitmq"
)

// buildApp wires repositories, services, and handlers into a Fiber app.
// Split out of main so tests can boot the full HTTP surface against an
// in-memory database. mqClient may be nil when no broker is configured.
func buildApp(db *gorm.DB, jwtSecret string, mqClient *rabbitmq.Client) *fiber.App {
	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	analyticsRepo := repositories.NewGORMAnalyticsRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// --- Services ---
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	productService := services.NewProductService(productRepo)
	analyticsService := services.NewAnalyticsService(analyticsRepo, publisher)
	authService := services.NewAuthService(userRepo, jwtSecret)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(productService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	authRequired := middleware.AuthRequired(authService)
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1, authRequired)
	analyticsHandler.RegisterRoutes(apiV1, authRequired)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// openDatabase connects to PostgreSQL when a DSN is configured and
// falls back to a local SQLite file otherwise, so the service runs
// without any external dependency in development.
func openDatabase() (*gorm.DB, error) {
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), &gorm.Config{})
}

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("SQLITE_PATH", "vitrine.db")
	viper.SetDefault("JWT_SECRET", "dev_secret_change_me")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductAnalytics{}, &models.User{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	app := buildApp(db, viper.GetString("JWT_SECRET"), mqClient)

	// --- Track Event Consumer ---
	// Downstream processing of tracked events; for now they are logged.
	if mqClient != nil {
		log.Println("Starting RabbitMQ consumer for track events...")
		consumeErr := mqClient.ConsumeTrackEvents(func(msg amqp.Delivery) error {
			log.Printf("Received track event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		})
		if consumeErr != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", consumeErr)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
