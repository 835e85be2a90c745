package handler

import (
	"net/http"

	"managerpanel/internal/api"
	"managerpanel/internal/model"
	"managerpanel/internal/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	backend *api.Client
	store   *session.Store
}

// NewAuthHandler sets up the login/logout endpoints.
func NewAuthHandler(backend *api.Client, store *session.Store) *AuthHandler {
	return &AuthHandler{backend: backend, store: store}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/login", h.ShowLogin)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
}

// LoginForm is the credentials form on the login page.
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// ShowLogin renders the login page, or sends authenticated users straight to
// the dashboard.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if _, err := h.store.Read(c); err == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flash": session.TakeFlash(c),
	})
}

// Login forwards credentials to the backend and admits manager/admin roles
// only. A token for any other role is discarded without touching the session,
// whatever the backend answered.
func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		session.SetFlash(c, session.FlashError, "Email and password are required")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	result, err := h.backend.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		session.SetFlash(c, session.FlashError, "Login failed: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	if !model.IsManagerRole(result.User.Role) {
		session.SetFlash(c, session.FlashError, "Manager/Admin access only!")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	sess := session.Session{
		Token: result.Token,
		Name:  result.User.Name,
		Role:  result.User.Role,
	}
	if err := h.store.Issue(c, sess); err != nil {
		session.SetFlash(c, session.FlashError, "Login failed: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session. Always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.store.Clear(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
