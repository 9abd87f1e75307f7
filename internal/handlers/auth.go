package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-assignment-api/internal/dto"
	"github.com/yukikurage/task-assignment-api/internal/services"
)

// AuthHandler serves the token endpoints.
type AuthHandler struct {
	tokenService *services.TokenService
	log          logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(tokenService *services.TokenService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		tokenService: tokenService,
		log:          log,
	}
}

// ObtainToken exchanges credentials for an access/refresh token pair.
func (h *AuthHandler) ObtainToken(c *gin.Context) {
	type ObtainTokenRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req ObtainTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pair, err := h.tokenService.Obtain(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.log, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.TokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// RefreshToken issues a new access token for a valid refresh token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	type RefreshTokenRequest struct {
		Refresh string `json:"refresh" binding:"required"`
	}

	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	access, _, err := h.tokenService.Refresh(req.Refresh)
	if err != nil {
		respondServiceError(c, h.log, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.AccessTokenResponse{Access: access})
}
