package api

import (
	"net/http"

	"github.com/bobby0007/internal-CRM/internal/session"
	"github.com/bobby0007/internal-CRM/pkg/models"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Sessions      *session.Store
	AllowedDomain string
}

func NewAuthHandler(store *session.Store, allowedDomain string) *AuthHandler {
	return &AuthHandler{Sessions: store, AllowedDomain: allowedDomain}
}

// Callback receives the identity-widget completion payload, verifies the
// operator's email domain and mints a session.
func (h *AuthHandler) Callback(c *gin.Context) {
	var user models.OtplessUser
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, err := session.VerifyCallback(user, h.AllowedDomain)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.Sessions.Login(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": sess.Token, "email": sess.Email})
}

// Session reports whether the caller holds a live session.
func (h *AuthHandler) Session(c *gin.Context) {
	sess, err := h.Sessions.Get(session.TokenFromRequest(c))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "email": sess.Email})
}

// Logout clears the caller's session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Sessions.Logout(session.TokenFromRequest(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
