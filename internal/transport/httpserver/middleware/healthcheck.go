// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness probe (app is running)
//   - GET /readyz - Readiness probe (DB and Redis reachable)
//
// This middleware should be registered BEFORE other routes.
func NewHealthCheck(db *gorm.DB, redisClient *redis.Client) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true
		},

		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			if db == nil {
				return false
			}
			sqlDB, err := db.DB()
			if err != nil || sqlDB.Ping() != nil {
				return false
			}

			if redisClient != nil {
				if err := redisClient.Ping(c.Context()).Err(); err != nil {
					return false
				}
			}

			return true
		},
	})
}
