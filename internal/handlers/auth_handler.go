package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberbook/internal/config"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	"github.com/BruksfildServices01/barberbook/internal/store/identity"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

type AuthHandler struct {
	users  *identity.Store
	config *config.Config
}

func NewAuthHandler(users *identity.Store, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if len(req.Password) > identity.MaxPasswordBytes {
		httperr.BadRequest(c, "invalid_request", "password must be at most 72 bytes")
		return
	}

	ok, err := h.users.Register(c.Request.Context(), identity.RegisterInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Password: req.Password,
	})
	if err != nil {
		internalError(c, "register_failed", err)
		return
	}
	if !ok {
		httperr.Conflict(c, "registration_rejected", "This e-mail cannot be registered.")
		return
	}

	httpresp.Created(c, gin.H{"registered": true})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user, err := h.users.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		internalError(c, "login_failed", err)
		return
	}
	if user == nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail or password is incorrect.")
		return
	}

	now := timezone.NowIn(h.config.Timezone)
	token, err := middleware.IssueToken(h.config, user.ID, user.Email, h.config.AppRole, now)
	if err != nil {
		internalError(c, "failed_to_generate_token", err)
		return
	}

	httpresp.OK(c, gin.H{
		"user":  user.Session(now),
		"token": token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context()); err != nil {
		internalError(c, "logout_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Session reports this instance's current user; session is null when nobody is
// logged in.
func (h *AuthHandler) Session(c *gin.Context) {
	sess, err := h.users.CurrentSession(c.Request.Context())
	if err != nil {
		internalError(c, "session_failed", err)
		return
	}
	httpresp.OK(c, gin.H{"session": sess})
}
