package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler recovers panics and renders errors attached with c.Error.
// Browsers get the error page, API clients get {"error": ...}.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Error] panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				c.Abort()
				if !c.Writer.Written() {
					RenderError(c, http.StatusInternalServerError, "Internal Server Error")
				}
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last()
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		log.Printf("[Error] %s %s: %v", c.Request.Method, c.Request.URL.Path, err.Err)

		message := err.Error()
		if status >= http.StatusInternalServerError {
			message = http.StatusText(status)
		}
		RenderError(c, status, message)
	}
}

// RenderError writes the error page or JSON error with status
func RenderError(c *gin.Context, status int, message string) {
	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: "error",
		HTMLData: gin.H{"Status": status, "Message": message},
		JSONData: ErrorResponse{Error: message},
	})
}
