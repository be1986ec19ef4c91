// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"channel-prospector/internal/app/service"
	"channel-prospector/internal/domain"
	"channel-prospector/internal/transport/httpserver/handler"
	"channel-prospector/internal/transport/httpserver/middleware"
	"channel-prospector/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port      int
	BodyLimit int
	Debug     bool
}

// Server wraps the Fiber app with its handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	discoverySvc *service.DiscoveryService,
	analysisSvc *service.AnalysisService,
	leadRepo domain.LeadRepository,
	db *gorm.DB,
	redisClient *redis.Client,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "channel-prospector",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(db, redisClient))

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(compress.New())

	discoveryHandler := handler.NewDiscoveryHandler(discoverySvc, v, logger)
	analysisHandler := handler.NewAnalysisHandler(analysisSvc, v, logger)
	leadHandler := handler.NewLeadHandler(leadRepo, v, logger)
	adminHandler := handler.NewAdminHandler(analysisSvc, logger)

	registerRoutes(app, discoveryHandler, analysisHandler, leadHandler, adminHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	discoveryHandler *handler.DiscoveryHandler,
	analysisHandler *handler.AnalysisHandler,
	leadHandler *handler.LeadHandler,
	adminHandler *handler.AdminHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	v1 := app.Group("/api/v1")

	v1.Post("/discovery", discoveryHandler.Run)
	v1.Get("/channels/:id/score", analysisHandler.Score)
	v1.Get("/leads", leadHandler.List)
	v1.Get("/cache/stats", analysisHandler.CacheStats)

	admin := v1.Group("/admin")
	admin.Post("/cache/clear", adminHandler.ClearCache)
	admin.Post("/refresh", adminHandler.Refresh)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
