package common

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders the error page for anything a handler did not deal
// with itself.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		title := "Something went wrong"
		if fe != nil && status < fiber.StatusInternalServerError {
			title = fe.Message
		} else {
			logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		c.Status(status)
		if renderErr := c.Render("error", fiber.Map{
			"Status":   status,
			"Title":    title,
			"Notices":  []Notice{},
			"Username": Ctx(c).Username,
			"Year":     time.Now().Year(),
		}, Layout); renderErr != nil {
			return c.SendString(title)
		}
		return nil
	}
}
