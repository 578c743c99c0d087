package handler

import (
	"github.com/gin-gonic/gin"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/service"
	"oragh/backend/pkg/response"
)

// ConcertHandler serves concerts and musician sign-ups.
type ConcertHandler struct {
	concertSvc service.ConcertService
}

func NewConcertHandler(concertSvc service.ConcertService) *ConcertHandler {
	return &ConcertHandler{concertSvc: concertSvc}
}

// List
// GET /api/v1/concerts
func (h *ConcertHandler) List(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.ConcertListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.concertSvc.List(c.Request.Context(), p, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get
// GET /api/v1/concerts/:id
func (h *ConcertHandler) Get(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	concert, err := h.concertSvc.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, concert)
}

// Create
// POST /api/v1/concerts
func (h *ConcertHandler) Create(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateConcertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	concert, err := h.concertSvc.Create(c.Request.Context(), p, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, concert)
}

// Update
// PATCH /api/v1/concerts/:id
func (h *ConcertHandler) Update(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateConcertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	concert, err := h.concertSvc.Update(c.Request.Context(), p, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, concert)
}

// Delete
// DELETE /api/v1/concerts/:id
func (h *ConcertHandler) Delete(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	if err := h.concertSvc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.OKWithMessage(c, "Concert deleted", nil)
}

// Register signs the caller up or off, per the action field.
// POST /api/v1/concerts/:id/register
func (h *ConcertHandler) Register(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.ConcertRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.concertSvc.Register(c.Request.Context(), p, c.Param("id"), req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// Participants
// GET /api/v1/concerts/:id/participants
func (h *ConcertHandler) Participants(c *gin.Context) {
	list, err := h.concertSvc.Participants(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// Permissions
// GET /api/v1/concerts/permissions
func (h *ConcertHandler) Permissions(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	response.OK(c, h.concertSvc.Permissions(p))
}
