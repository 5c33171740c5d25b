// Package webapi serves the bank's HTML pages. It is organized into
// sub-packages per area:
// - auth: login and logout
// - account: dashboard, send money, history and account details
// - contact: about and contact pages
package webapi

import (
	"strings"

	"github.com/amirasaad/urbanbank/pkg/app"
	accountweb "github.com/amirasaad/urbanbank/webapi/account"
	authweb "github.com/amirasaad/urbanbank/webapi/auth"
	"github.com/amirasaad/urbanbank/webapi/common"
	contactweb "github.com/amirasaad/urbanbank/webapi/contact"
	"github.com/amirasaad/urbanbank/webapi/views"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config

	fiberApp := fiber.New(fiber.Config{
		Views:        views.NewEngine(),
		ErrorHandler: common.ErrorHandler(a.Deps.Logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// Uses X-Forwarded-For header when behind a proxy
	// Falls back to X-Real-IP or direct IP if needed
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please slow down.")
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	sessions := session.New(session.Config{
		Expiration:     cfg.Session.Expiration,
		KeyLookup:      "cookie:urbanbank_session",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Session.CookieSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
	fiberApp.Use(common.WithRequestContext(sessions))

	fiberApp.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	authweb.Routes(fiberApp, a.AuthService, cfg)
	accountweb.Routes(fiberApp, a.AccountService, a.TransferService, a.AuthService, cfg)
	contactweb.Routes(fiberApp, a.ContactService, a.AuthService, cfg)
	return fiberApp
}
