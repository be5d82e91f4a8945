// Package authhandler exposes the login, registration, and logout flows.
package authhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"obrolan/chat-client/internal/gateway/authapi"
	"obrolan/chat-client/internal/interfaces/httpserver/middlewares"
	"obrolan/chat-client/internal/utils/platformerrors"
)

// AuthHandler proxies the token-issuing endpoints.
type AuthHandler struct {
	auth     *authapi.Client
	profiles authapi.ProfileStore
	logger   zerolog.Logger
}

func NewAuthHandler(auth *authapi.Client, profiles authapi.ProfileStore, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, profiles: profiles, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name"`
}

// Login exchanges credentials for a bearer token and user id.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	session, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn().Err(err).Msg("login failed")
		c.JSON(platformerrors.HTTPStatus(err), gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": session.AccessToken,
		"user_id":      session.UserID,
	})
}

// Register creates an account, falling back to a password grant when signup
// returns no session, and writes the profile row.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, password and username are required"})
		return
	}

	session, err := h.auth.SignUp(c.Request.Context(), authapi.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		FullName: req.FullName,
	}, h.profiles)
	if err != nil {
		h.logger.Warn().Err(err).Msg("registration failed")
		c.JSON(platformerrors.HTTPStatus(err), gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token": session.AccessToken,
		"user_id":      session.UserID,
	})
}

// Profile returns the caller's profiles row for the account view.
func (h *AuthHandler) Profile(c *gin.Context) {
	session, _ := middlewares.SessionFromContext(c)

	profile, err := h.profiles.GetProfile(c.Request.Context(), session, session.UserID)
	if err != nil {
		h.logger.Warn().Err(err).Msg("profile fetch failed")
		c.JSON(platformerrors.HTTPStatus(err), gin.H{"error": "failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Logout revokes the session server-side. The client clears its stored
// token and user id regardless.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := middlewares.SessionFromContext(c)
	if ok {
		if err := h.auth.SignOut(c.Request.Context(), session); err != nil {
			h.logger.Warn().Err(err).Msg("logout revocation failed")
		}
	}
	c.Status(http.StatusNoContent)
}
