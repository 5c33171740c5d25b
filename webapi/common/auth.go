package common

import (
	"github.com/amirasaad/urbanbank/pkg/config"
	"github.com/amirasaad/urbanbank/pkg/middleware"
	authsvc "github.com/amirasaad/urbanbank/pkg/service/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Protected rejects requests without a valid session token and records the
// authenticated username in the request context.
func Protected(cfg *config.Jwt, authSvc *authsvc.Service) []fiber.Handler {
	return []fiber.Handler{
		middleware.JwtProtected(cfg, func(c *fiber.Ctx, err error) error {
			return FlashRedirect(c, middleware.LoginPath, NoticeInfo, "Please log in to continue.")
		}),
		identify(authSvc, true),
	}
}

// Identified records the username when a valid session token is present
// and lets anonymous requests through.
func Identified(cfg *config.Jwt, authSvc *authsvc.Service) []fiber.Handler {
	return []fiber.Handler{
		middleware.JwtProtected(cfg, func(c *fiber.Ctx, err error) error {
			return c.Next()
		}),
		identify(authSvc, false),
	}
}

func identify(authSvc *authsvc.Service, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals(middleware.TokenContextKey).(*jwt.Token)
		username, err := authSvc.GetCurrentUsername(token)
		if err != nil {
			if required {
				return FlashRedirect(c, middleware.LoginPath, NoticeInfo, "Please log in to continue.")
			}
			return c.Next()
		}
		Ctx(c).Username = username
		return c.Next()
	}
}

// SessionCookie builds the cookie carrying a signed session token.
func SessionCookie(cfg *config.App, token string) *fiber.Cookie {
	secure := cfg.Session != nil && cfg.Session.CookieSecure
	return &fiber.Cookie{
		Name:     cfg.Auth.Jwt.Cookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.Auth.Jwt.Expiry.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// EndSession clears the session token and everything stored for the
// browser session.
func EndSession(c *fiber.Ctx, cfg *config.App) error {
	c.ClearCookie(cfg.Auth.Jwt.Cookie)
	return Ctx(c).ResetSession()
}
