package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

const cartKeyLocal = "cart_key"

// SessionCookie names the cookie that identifies a visitor's cart.
const SessionCookie = "storefront_session"

// CartSession makes sure the visitor has a session and exposes the key of its
// cart to handlers through CartKey. Saving on every request sets the cookie
// for new visitors and slides the expiry for returning ones.
//
// Behind AuthRequired the cart key also carries the user ID, so a session
// cookie replayed by another account never reaches the owner's cart.
func CartSession(store *session.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.Error("failed to load session", zap.Error(err))
			return sessionFailure(c, "Could not load session")
		}

		// Save releases sess, so read the ID first.
		id := sess.ID()
		if err := sess.Save(); err != nil {
			log.Error("failed to save session", zap.Error(err))
			return sessionFailure(c, "Could not save session")
		}

		var userID string
		if p := PrincipalFrom(c); p != nil {
			userID = p.UserID
		}
		c.Locals(cartKeyLocal, cartKey(id, userID))
		return c.Next()
	}
}

func cartKey(sessionID, userID string) string {
	if userID == "" {
		return sessionID
	}
	return sessionID + ":" + userID
}

// CartKey returns the cart key stored by CartSession.
func CartKey(c *fiber.Ctx) string {
	key, _ := c.Locals(cartKeyLocal).(string)
	return key
}

func sessionFailure(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   "session",
	})
}
