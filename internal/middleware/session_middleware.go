package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName identifies the browser's cart across reloads and
	// across login, so guest lines are still there to merge after
	// authentication.
	SessionCookieName = "cart_session"

	// SessionIDKey is the gin context key for the session id
	SessionIDKey = "session_id"

	sessionCookieMaxAge = 60 * 60 * 24 * 30 // 30 days
)

// SessionMiddleware ensures every request carries a cart session id,
// issuing a new cookie for first-time visitors.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(SessionCookieName, sessionID, sessionCookieMaxAge, "/", "", false, true)

			log := GetLoggerFromContext(c)
			log.Debug("Issued new cart session", map[string]interface{}{
				"session_id": sessionID,
			})
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID extracts the cart session id from context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}
	return sessionID.(string), true
}
