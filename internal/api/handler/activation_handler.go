package handler

import (
	"github.com/gin-gonic/gin"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/service"
	"oragh/backend/pkg/response"
)

// ActivationHandler serves registration and the admin activation links.
// The token in the path is the capability; these routes are public.
type ActivationHandler struct {
	activationSvc service.ActivationService
}

func NewActivationHandler(activationSvc service.ActivationService) *ActivationHandler {
	return &ActivationHandler{activationSvc: activationSvc}
}

// Register creates an inactive account and notifies the administrator.
// POST /api/v1/users/register
func (h *ActivationHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.activationSvc.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, resp)
}

// Preview shows who an activation link belongs to.
// GET /api/v1/users/activate/:token
func (h *ActivationHandler) Preview(c *gin.Context) {
	resp, err := h.activationSvc.Preview(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Activate
// POST /api/v1/users/activate/:token
func (h *ActivationHandler) Activate(c *gin.Context) {
	resp, err := h.activationSvc.Activate(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKWithMessage(c, "Account activated", resp)
}

// Reject deletes the pending account.
// POST /api/v1/users/activate/:token/reject
func (h *ActivationHandler) Reject(c *gin.Context) {
	if err := h.activationSvc.Reject(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, err)
		return
	}
	response.OKWithMessage(c, "Registration rejected", nil)
}

// Pending lists unused activation tokens.
// GET /api/v1/users/pending-activations
func (h *ActivationHandler) Pending(c *gin.Context) {
	list, err := h.activationSvc.Pending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}
