package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequireAuth lets authenticated sessions through and places user_id in the
// context. Others are sent to the form error page when their last form
// failed, and to the auth failure page otherwise.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if !sess.Authenticated || sess.UserID == uuid.Nil {
			target := "/authFail"
			if sess.FailForm {
				sess.FailForm = false
				target = "/user/invalidFormData"
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		c.Set("user_id", sess.UserID)
		c.Next()
	}
}

// GetUserID returns the authenticated user's id, or uuid.Nil
func GetUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
