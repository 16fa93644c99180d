package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/caseline-backend/internal/http/resources"
	"github.com/yungbote/caseline-backend/internal/http/response"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
	"github.com/yungbote/caseline-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	transformer resources.Transformer
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, transformer resources.Transformer) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService, transformer: transformer}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResource struct {
	AccessToken string                 `json:"access_token"`
	TokenType   string                 `json:"token_type"`
	ExpiresIn   int                    `json:"expires_in"`
	User        resources.UserResource `json:"user"`
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, ah.log, response.BindError(err))
		return
	}
	token, user, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		response.RespondAPIError(c, ah.log, &apierr.Error{
			Status:  http.StatusUnauthorized,
			Code:    "invalid_credentials",
			Message: "These credentials do not match our records.",
		})
		return
	}
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	response.RespondOK(c, tokenResource{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(ah.authService.GetAccessTTL().Seconds()),
		User:        ah.transformer.User(user),
	})
}

// GET /api/me
func (ah *AuthHandler) Me(c *gin.Context) {
	user, err := ah.authService.Me(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	response.RespondOK(c, ah.transformer.User(user))
}
