package common

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	requestContextKey = "request_context"
	noticesSessionKey = "notices"
)

// Notice categories, used as CSS classes by the templates.
const (
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeDanger  = "danger"
	NoticeInfo    = "info"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// RequestContext carries the authenticated identity and the notices of
// one request. It is created by WithRequestContext and read with Ctx.
type RequestContext struct {
	// Username is empty for anonymous requests.
	Username string

	sess    *session.Session
	notices []Notice
	dirty   bool
}

// Flash queues a notice for the next rendered page.
func (rc *RequestContext) Flash(category, message string) {
	rc.notices = append(rc.notices, Notice{Category: category, Message: message})
	rc.dirty = true
}

// PopNotices returns and clears the queued notices.
func (rc *RequestContext) PopNotices() []Notice {
	out := rc.notices
	if len(out) > 0 {
		rc.notices = nil
		rc.dirty = true
	}
	return out
}

// Authenticated reports whether a user is logged in.
func (rc *RequestContext) Authenticated() bool {
	return rc.Username != ""
}

// ResetSession drops everything stored for this browser session.
func (rc *RequestContext) ResetSession() error {
	rc.Username = ""
	rc.notices = nil
	rc.dirty = true
	if rc.sess == nil {
		return nil
	}
	return rc.sess.Regenerate()
}

// Ctx returns the request context installed by WithRequestContext.
func Ctx(c *fiber.Ctx) *RequestContext {
	if rc, ok := c.Locals(requestContextKey).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{}
}

// WithRequestContext loads the session notices before the handler runs
// and writes them back afterwards.
func WithRequestContext(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		rc := &RequestContext{sess: sess}
		if raw, ok := sess.Get(noticesSessionKey).(string); ok && raw != "" {
			_ = json.Unmarshal([]byte(raw), &rc.notices)
		}
		c.Locals(requestContextKey, rc)

		handlerErr := c.Next()

		if rc.dirty {
			if len(rc.notices) == 0 {
				sess.Delete(noticesSessionKey)
			} else if raw, err := json.Marshal(rc.notices); err == nil {
				sess.Set(noticesSessionKey, string(raw))
			}
			if err := sess.Save(); err != nil && handlerErr == nil {
				return err
			}
		}
		return handlerErr
	}
}
