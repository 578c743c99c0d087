package handler

import (
	"github.com/gin-gonic/gin"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/service"
	"oragh/backend/pkg/response"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login issues a token pair.
// POST /api/v1/auth/token
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Refresh exchanges a refresh token for a new pair.
// POST /api/v1/auth/token/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Logout revokes the access token of the request.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := MustGetUserID(c); !ok {
		return
	}
	jti, exp := tokenMeta(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		respondError(c, err)
		return
	}
	response.OKWithMessage(c, "Logged out", nil)
}
