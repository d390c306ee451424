package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/laka02/quickcart/internal/cart"
	"github.com/laka02/quickcart/internal/domain"
	"github.com/laka02/quickcart/internal/events"
	"github.com/laka02/quickcart/internal/report"
	"github.com/laka02/quickcart/internal/repository"
	"github.com/laka02/quickcart/internal/service"
	"github.com/laka02/quickcart/internal/storage"
	httpTransport "github.com/laka02/quickcart/internal/transport/http"
	websocketTransport "github.com/laka02/quickcart/internal/transport/websocket"
	"github.com/nicholasjackson/env"
)

// Environment variables
var (
	bindAddress = env.String("BIND_ADDRESS", false,
		":9090", "Bind address for the server")
	logLevel = env.String("LOG_LEVEL", false,
		"debug", "Log output level for the server [debug, info, trace]")
	mongoURI = env.String("MONGO_URI", false,
		"", "MongoDB connection string; empty runs on in-memory storage")
	mongoDB = env.String("MONGO_DB", false,
		"quickcart", "MongoDB database name")
	jwtSecret = env.String("JWT_SECRET", false,
		"development-secret", "Secret used to sign auth tokens")
	imagePath = env.String("IMAGE_PATH", false,
		"./imagestore", "Directory for uploaded product images")
	maxImageSize = env.Int("MAX_IMAGE_SIZE", false,
		5*1024*1024, "Maximum size of one uploaded image in bytes")
	allowedOrigins = env.String("ALLOWED_ORIGINS", false,
		"http://localhost:5175", "Comma-separated CORS origins")
)

func main() {
	env.Parse()

	// Initialize the logger
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "quickcart",
		Level: hclog.LevelFromString(*logLevel),
	})

	// Create a standard logger for the HTTP server
	standardLogger := logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})

	// Initialize the event bus - this will be shared between services
	eventBus := events.NewEventBus[any]()

	// Pick the storage backend
	var (
		productRepo  repository.ProductRepository
		supplierRepo repository.SupplierRepository
		userRepo     repository.UserRepository
	)
	if *mongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := repository.Connect(ctx, *mongoURI)
		cancel()
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer client.Disconnect(context.Background())

		db := client.Database(*mongoDB)
		productRepo = repository.NewMongoProductRepository(db)
		supplierRepo = repository.NewMongoSupplierRepository(db)
		userRepo = repository.NewMongoUserRepository(db)
		logger.Info("Using MongoDB storage", "database", *mongoDB)
	} else {
		productRepo = repository.NewMemoryProductRepository()
		supplierRepo = repository.NewMemorySupplierRepository()
		userRepo = repository.NewMemoryUserRepository()
		logger.Info("Using in-memory storage")
	}

	// Local blob store for product images
	blobs, err := storage.NewLocal(*imagePath, "/images", *maxImageSize)
	if err != nil {
		logger.Error("Failed to initialize image storage", "error", err)
		os.Exit(1)
	}

	// Services
	ps := service.NewProductService(
		productRepo,
		blobs,
		eventBus,
		logger.Named("product-service"),
	)
	ss := service.NewSupplierService(
		supplierRepo,
		productRepo,
		eventBus,
		logger.Named("supplier-service"),
	)
	as := service.NewAuthService(
		userRepo,
		[]byte(*jwtSecret),
		logger.Named("auth-service"),
	)

	// Initialize the validator
	validator := domain.NewValidation()

	// PDF renderer shared by the report endpoints
	renderer := report.NewPDFRenderer(logger.Named("pdf-renderer"))

	// Initialize HTTP handlers
	ph := httpTransport.NewProductHandler(ps, renderer, validator, logger.Named("product-handler"))
	sh := httpTransport.NewSupplierHandler(ss, renderer, logger.Named("supplier-handler"))
	ah := httpTransport.NewAuthHandler(as, validator, logger.Named("auth-handler"))
	ch := httpTransport.NewCartHandler(cart.NewStore(), ps, logger.Named("cart-handler"))
	ih := httpTransport.NewImageHandler(blobs, logger.Named("image-handler"))

	// Initialize the WebSocket handler with the event bus
	wh := websocketTransport.NewHandler(
		logger.Named("websocket-handler"),
		eventBus,
	)

	corsConfig := httpTransport.DefaultCORSConfig()
	corsConfig.AllowedOrigins = strings.Split(*allowedOrigins, ",")

	mw := httpTransport.NewMiddleware(logger.Named("middleware"), validator, as, corsConfig)

	// Initialize the router
	router := httpTransport.NewRouter(mw, ph, sh, ah, ch, ih, http.HandlerFunc(wh.HandleWebSocket))

	// Create the HTTP Server
	server := &http.Server{
		Addr:         *bindAddress,
		Handler:      router,
		ErrorLog:     standardLogger,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start the server in a new goroutine
	go func() {
		logger.Info("Starting server", "bind_address", *bindAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Error starting server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	<-sigChan
	logger.Info("Shutting down server")

	// Context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	server.Shutdown(shutdownCtx)
}
