package handler

import (
	"github.com/gin-gonic/gin"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/service"
	"oragh/backend/pkg/response"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Me
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.userSvc.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// UpdateMe edits the caller's profile and musician data.
// PUT /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Permissions
// GET /api/v1/users/permissions
func (h *UserHandler) Permissions(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	response.OK(c, h.userSvc.Permissions(p))
}

// ChangePassword
// POST /api/v1/users/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.userSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondError(c, err)
		return
	}
	response.OKWithMessage(c, "Password changed", nil)
}

// ListMusicians
// GET /api/v1/users/musicians
func (h *UserHandler) ListMusicians(c *gin.Context) {
	var req dto.MusicianListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.userSvc.ListMusicians(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// SetGroups replaces the groups of a user.
// PUT /api/v1/users/:id/groups
func (h *UserHandler) SetGroups(c *gin.Context) {
	var req dto.SetGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.userSvc.SetGroups(c.Request.Context(), c.Param("id"), req.Groups)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}
