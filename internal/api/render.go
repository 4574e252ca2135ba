package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/middleware"
	"github.com/nutrifit/backend/internal/models"
	"github.com/nutrifit/backend/internal/service"
)

// render serves the named template to browsers and data as JSON to API clients
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: name,
		Data:     data,
	})
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// statusFor maps service errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, service.ErrUnknownTag),
		errors.Is(err, service.ErrInvalidFilter),
		errors.Is(err, service.ErrEmptyPlan),
		errors.Is(err, errInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errInvalidInput = errors.New("invalid input")

// fail hands err to middleware.ErrorHandler with the matching status
func fail(c *gin.Context, err error) {
	c.Status(statusFor(err))
	_ = c.Error(err)
	c.Abort()
}

func invalid(c *gin.Context, format string, args ...interface{}) {
	fail(c, fmt.Errorf("%w: %s", errInvalidInput, fmt.Sprintf(format, args...)))
}

// parseID reads a uuid form value, failing the request when it is malformed
func parseID(c *gin.Context, field string) (uuid.UUID, bool) {
	raw := c.PostForm(field)
	id, err := uuid.Parse(raw)
	if err != nil {
		invalid(c, "%s must be an id", field)
		return uuid.Nil, false
	}
	return id, true
}

// preferenceMode reads "type" from the form, the query, or the query of the referring page
func preferenceMode(c *gin.Context) (models.PreferenceMode, error) {
	t := c.PostForm("type")
	if t == "" {
		t = c.Query("type")
	}
	if t == "" {
		if ref, err := url.Parse(c.Request.Referer()); err == nil {
			t = ref.Query().Get("type")
		}
	}
	mode := models.PreferenceMode(t)
	if !mode.Valid() {
		return "", service.ErrInvalidMode
	}
	return mode, nil
}

// currentUser loads the authenticated user with their preferences
func currentUser(c *gin.Context, users service.IUserService) (*models.User, bool) {
	user, err := users.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return user, true
}
