package handler

import (
	"github.com/gin-gonic/gin"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/service"
	"oragh/backend/pkg/response"
)

type EventHandler struct {
	eventSvc      service.EventService
	attendanceSvc service.AttendanceService
}

func NewEventHandler(eventSvc service.EventService, attendanceSvc service.AttendanceService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, attendanceSvc: attendanceSvc}
}

// List
// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.eventSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	resp, err := h.eventSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Create stores the event and backfills absent records for the roster.
// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.eventSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, resp)
}

// Update
// PATCH /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete
// DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.eventSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.OKWithMessage(c, "Event deleted", nil)
}

// Attendances lists the records of one event.
// GET /api/v1/events/:id/attendances
func (h *EventHandler) Attendances(c *gin.Context) {
	list, err := h.eventSvc.Attendances(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// Stats
// GET /api/v1/events/:id/stats
func (h *EventHandler) Stats(c *gin.Context) {
	stats, err := h.attendanceSvc.EventStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, stats)
}

// MarkAttendance upserts values for the listed users. Unknown users are
// returned in skipped.
// POST /api/v1/events/:id/mark_attendance
func (h *EventHandler) MarkAttendance(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.attendanceSvc.Mark(c.Request.Context(), c.Param("id"), req.Attendances, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}
