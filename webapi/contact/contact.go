package contact

import (
	"errors"

	"github.com/amirasaad/urbanbank/pkg/config"
	authsvc "github.com/amirasaad/urbanbank/pkg/service/auth"
	contactsvc "github.com/amirasaad/urbanbank/pkg/service/contact"
	"github.com/amirasaad/urbanbank/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(app *fiber.App, contactSvc *contactsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	identified := common.Identified(cfg.Auth.Jwt, authSvc)
	app.Get("/about", append(identified, About())...)
	app.Get("/contact", append(identified, ContactPage())...)
	app.Post("/contact", append(identified, Contact(contactSvc))...)
}

func About() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.Render(c, "about", nil)
	}
}

func ContactPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.Render(c, "contact", nil)
	}
}

// Contact stores a contact form submission and redirects back to the form.
func Contact(contactSvc *contactsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ContactInput](c)
		if err != nil {
			return common.FlashRedirect(c, "/contact", common.NoticeWarning, common.ValidationMessage(err))
		}
		_, err = contactSvc.Submit(c.Context(), input.Name, input.Email, input.Message)
		if errors.Is(err, contactsvc.ErrEmptyMessage) {
			return common.FlashRedirect(c, "/contact", common.NoticeWarning, "Message is required.")
		}
		if err != nil {
			return err
		}
		return common.FlashRedirect(c, "/contact", common.NoticeSuccess, "Message sent!")
	}
}
