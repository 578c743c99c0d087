package handler

import (
	"github.com/gin-gonic/gin"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/service"
	"oragh/backend/pkg/response"
)

type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// List filters records by user, event, season and type.
// GET /api/v1/attendances
func (h *AttendanceHandler) List(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.attendanceSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}
