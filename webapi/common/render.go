package common

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Layout wraps every page.
const Layout = "layouts/main"

// Render renders view inside the main layout. The pending notices and the
// current username are added to data.
func Render(c *fiber.Ctx, view string, data fiber.Map) error {
	rc := Ctx(c)
	if data == nil {
		data = fiber.Map{}
	}
	data["Notices"] = rc.PopNotices()
	data["Username"] = rc.Username
	data["Year"] = time.Now().Year()
	return c.Render(view, data, Layout)
}

// FlashRedirect queues a notice and redirects with 303 See Other.
func FlashRedirect(c *fiber.Ctx, location, category, message string) error {
	Ctx(c).Flash(category, message)
	return c.Redirect(location, fiber.StatusSeeOther)
}
