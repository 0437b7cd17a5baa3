package middleware

import (
	"time"

	"github.com/Behyna/paygw/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TrackIDHeader = "X-Track-ID"
	TrackIDLocal  = "trackID"
)

// TrackID tags every request with an id that follows it into the services,
// the audit log and the response headers. An incoming id is reused.
func TrackID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		trackID := c.Get(TrackIDHeader)
		if trackID == "" {
			trackID = uuid.NewString()
		}

		c.Locals(TrackIDLocal, trackID)
		c.SetUserContext(service.WithTrackID(c.UserContext(), trackID))
		c.Set(TrackIDHeader, trackID)

		return c.Next()
	}
}

// HealthCheckMiddleware provides a simple health check endpoint
func HealthCheckMiddleware(serviceName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"status":    "healthy",
				"timestamp": time.Now().Unix(),
				"service":   serviceName,
			})
		}
		return c.Next()
	}
}
