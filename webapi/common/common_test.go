package common

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Name  string `form:"name" validate:"required"`
	Email string `form:"email" validate:"required,email"`
}

func TestBindAndValidate(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		input, err := BindAndValidate[form](c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(ValidationMessage(err))
		}
		return c.SendString(input.Name)
	})

	testCases := []struct {
		desc   string
		values url.Values
		status int
		body   string
	}{
		{"valid", url.Values{"name": {"Jane"}, "email": {"jane@example.com"}}, fiber.StatusOK, "Jane"},
		{"missing name", url.Values{"email": {"jane@example.com"}}, fiber.StatusBadRequest, "Name is required."},
		{"bad email", url.Values{"name": {"Jane"}, "email": {"nope"}}, fiber.StatusBadRequest, "Email must be a valid email address."},
		{"both", url.Values{}, fiber.StatusBadRequest, "Name is required, email is required."},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.values.Encode()))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.body, string(body))
		})
	}
}

func TestNoticesSurviveOneRedirect(t *testing.T) {
	app := fiber.New()
	app.Use(WithRequestContext(session.New()))
	app.Get("/set", func(c *fiber.Ctx) error {
		return FlashRedirect(c, "/show", NoticeSuccess, "Saved!")
	})
	app.Get("/show", func(c *fiber.Ctx) error {
		notices := Ctx(c).PopNotices()
		parts := make([]string, 0, len(notices))
		for _, n := range notices {
			parts = append(parts, n.Category+":"+n.Message)
		}
		return c.SendString(strings.Join(parts, ","))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/set", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	show := func() string {
		req := httptest.NewRequest(http.MethodGet, "/show", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return string(body)
	}
	assert.Equal(t, "success:Saved!", show())
	assert.Equal(t, "", show())
}

func TestCtxWithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		rc := Ctx(c)
		assert.False(t, rc.Authenticated())
		assert.NoError(t, rc.ResetSession())
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
