package auth

import (
	"errors"

	"github.com/amirasaad/urbanbank/pkg/config"
	"github.com/amirasaad/urbanbank/pkg/domain"
	authsvc "github.com/amirasaad/urbanbank/pkg/service/auth"
	"github.com/amirasaad/urbanbank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(app *fiber.App, authSvc *authsvc.Service, cfg *config.App) {
	identified := common.Identified(cfg.Auth.Jwt, authSvc)
	for _, path := range []string{"/", "/login"} {
		app.Get(path, append(identified, LoginPage())...)
		app.Post(path, Login(authSvc, cfg))
	}
	app.Get("/logout", Logout(cfg))
}

// LoginPage renders the login form. Users already logged in go straight to
// their dashboard.
func LoginPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if common.Ctx(c).Authenticated() {
			return c.Redirect("/dashboard", fiber.StatusSeeOther)
		}
		return common.Render(c, "login", fiber.Map{"Identity": ""})
	}
}

// Login verifies the submitted credentials, sets the session cookie and
// redirects to the dashboard.
func Login(authSvc *authsvc.Service, cfg *config.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc := common.Ctx(c)
		input, err := common.BindAndValidate[LoginInput](c)
		if err != nil {
			rc.Flash(common.NoticeDanger, "Invalid username or password")
			return common.Render(c, "login", fiber.Map{"Identity": ""})
		}
		u, err := authSvc.Login(c.Context(), input.Username, input.Password)
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			rc.Flash(common.NoticeDanger, "Invalid username or password")
			return common.Render(c, "login", fiber.Map{"Identity": input.Username})
		}
		if err != nil {
			return err
		}
		token, err := authSvc.GenerateToken(u)
		if err != nil {
			return err
		}
		c.Cookie(common.SessionCookie(cfg, token))
		return common.FlashRedirect(c, "/dashboard", common.NoticeSuccess, "Login successful!")
	}
}

// Logout clears the session and returns to the login page.
func Logout(cfg *config.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := common.EndSession(c, cfg); err != nil {
			return err
		}
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
}
