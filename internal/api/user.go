package api

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/middleware"
	"github.com/nutrifit/backend/internal/service"
)

// UserHandler serves signup, login and password reset under /user
type UserHandler struct {
	users service.IUserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users service.IUserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes registers the account routes
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	{
		user.GET("/login", h.page("user/login"))
		user.POST("/login", h.Login)
		user.GET("/signup", h.page("user/signup"))
		user.POST("/signup", h.Signup)
		user.GET("/getEmail", h.page("user/getEmail"))
		user.POST("/getEmail", h.GetEmail)
		user.GET("/checkSecurity", h.CheckSecurityPage)
		user.POST("/checkSecurity", h.CheckSecurity)
		user.GET("/changePassword", h.ChangePasswordPage)
		user.POST("/changePassword", h.ChangePassword)
		user.GET("/changePasswordSuccess", h.page("user/changePasswordSuccess"))
		user.GET("/invalidFormData", h.InvalidFormData)
		user.GET("/noMatchFound", h.NoMatchFound)
		user.GET("/incorrectAnswer", h.page("user/incorrectAnswer"))
	}
}

func (h *UserHandler) page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, 200, name, nil)
	}
}

// SignupForm is the body of POST /user/signup. ID is the chosen username.
type SignupForm struct {
	ID       string `form:"id"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Answer   string `form:"answer"`
}

// Signup creates an account and logs the session in
func (h *UserHandler) Signup(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		invalid(c, "malformed signup form")
		return
	}
	sess := middleware.GetSession(c)

	if label := service.FirstInvalid(
		service.FieldCheck{Label: "ID", Value: form.ID, Rule: service.RuleBasic},
		service.FieldCheck{Label: "Email", Value: form.Email, Rule: service.RuleEmail},
		service.FieldCheck{Label: "Password", Value: form.Password, Rule: service.RulePassword},
		service.FieldCheck{Label: "Answer", Value: form.Answer, Rule: service.RuleAnswer},
	); label != "" {
		sess.InvalidField = label
		redirect(c, "/user/invalidFormData")
		return
	}

	user, err := h.users.Signup(c.Request.Context(), form.ID, form.Email, form.Password, form.Answer)
	var exists *service.UserExistsError
	if errors.As(err, &exists) {
		sess.Match = exists.Field
		redirect(c, "/alreadyExists")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	sess.Login(user.ID)
	redirect(c, "/members")
}

// LoginForm is the body of POST /user/login. Email holds an email or a username.
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Login authenticates the session
func (h *UserHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		invalid(c, "malformed login form")
		return
	}
	sess := middleware.GetSession(c)

	if label := service.FirstInvalid(
		service.FieldCheck{Label: "Email or ID", Value: form.Email, Rule: service.RuleBasic},
		service.FieldCheck{Label: "Password", Value: form.Password, Rule: service.RulePassword},
	); label != "" {
		sess.InvalidField = label
		redirect(c, "/user/invalidFormData")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), form.Email, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		log.Printf("[Auth] Failed login for %q", form.Email)
		sess.FailForm = true
		sess.InvalidField = "Email and Password"
		redirect(c, "/user/noMatchFound")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	sess.Login(user.ID)
	redirect(c, "/members")
}

// GetEmail starts a password reset for the account with the given email
func (h *UserHandler) GetEmail(c *gin.Context) {
	email := c.PostForm("email")
	sess := middleware.GetSession(c)

	if !service.ValidField(email, service.RuleEmail) {
		sess.InvalidField = "Email"
		redirect(c, "/user/invalidFormData")
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), email)
	if errors.Is(err, service.ErrNotFound) {
		redirect(c, "/user/noMatchFound")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	sess.ResetUserID = user.ID
	sess.ResetVerified = false
	redirect(c, "/user/checkSecurity")
}

// CheckSecurityPage asks for the security answer of the account being reset
func (h *UserHandler) CheckSecurityPage(c *gin.Context) {
	if middleware.GetSession(c).ResetUserID == uuid.Nil {
		redirect(c, "/user/getEmail")
		return
	}
	render(c, 200, "user/checkSecurity", nil)
}

// CheckSecurity verifies the security answer
func (h *UserHandler) CheckSecurity(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess.ResetUserID == uuid.Nil {
		redirect(c, "/user/getEmail")
		return
	}

	answer := c.PostForm("answer")
	if !service.ValidField(answer, service.RuleAnswer) {
		sess.InvalidField = "Answer"
		redirect(c, "/user/invalidFormData")
		return
	}

	err := h.users.VerifyAnswer(c.Request.Context(), sess.ResetUserID, answer)
	switch {
	case errors.Is(err, service.ErrIncorrectAnswer):
		redirect(c, "/user/incorrectAnswer")
	case errors.Is(err, service.ErrNotFound):
		sess.ResetUserID = uuid.Nil
		redirect(c, "/user/noMatchFound")
	case err != nil:
		fail(c, err)
	default:
		sess.ResetVerified = true
		redirect(c, "/user/changePassword")
	}
}

// ChangePasswordPage shows the new password form once the answer was verified
func (h *UserHandler) ChangePasswordPage(c *gin.Context) {
	if !middleware.GetSession(c).ResetVerified {
		redirect(c, "/user/getEmail")
		return
	}
	render(c, 200, "user/changePassword", nil)
}

// ChangePassword stores the new password and ends the reset
func (h *UserHandler) ChangePassword(c *gin.Context) {
	sess := middleware.GetSession(c)
	if !sess.ResetVerified || sess.ResetUserID == uuid.Nil {
		redirect(c, "/user/getEmail")
		return
	}

	password := c.PostForm("password")
	if !service.ValidField(password, service.RulePassword) {
		sess.InvalidField = "Password"
		redirect(c, "/user/invalidFormData")
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), sess.ResetUserID, password); err != nil {
		fail(c, err)
		return
	}
	log.Printf("[Auth] Password changed for user %s", sess.ResetUserID)

	sess.ResetUserID = uuid.Nil
	sess.ResetVerified = false
	redirect(c, "/user/changePasswordSuccess")
}

// InvalidFormData names the field that failed validation
func (h *UserHandler) InvalidFormData(c *gin.Context) {
	sess := middleware.GetSession(c)
	render(c, 200, "user/invalidFormData", gin.H{
		"referer":      c.Request.Referer(),
		"invalidField": sess.InvalidField,
	})
}

// NoMatchFound reports a failed login or an unknown reset email
func (h *UserHandler) NoMatchFound(c *gin.Context) {
	render(c, 200, "user/noMatchFound", gin.H{
		"invalidField": middleware.GetSession(c).InvalidField,
	})
}
