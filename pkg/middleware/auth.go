package middleware

import (
	"github.com/amirasaad/urbanbank/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// TokenContextKey is the c.Locals key holding the verified *jwt.Token.
const TokenContextKey = "user"

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// JwtProtected verifies the session token carried in the configured
// cookie. A missing or invalid token is passed to onError; a nil onError
// redirects to the login page.
func JwtProtected(cfg *config.Jwt, onError fiber.ErrorHandler) fiber.Handler {
	if onError == nil {
		onError = jwtError
	}
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.Secret)},
		TokenLookup:  "cookie:" + cfg.Cookie,
		ContextKey:   TokenContextKey,
		ErrorHandler: onError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	return c.Redirect(LoginPath, fiber.StatusSeeOther)
}
