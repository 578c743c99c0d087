package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/service"
	"oragh/backend/pkg/response"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeICS  = "text/calendar; charset=utf-8"
)

// SeasonHandler serves seasons together with their roster, grid and exports.
type SeasonHandler struct {
	seasonSvc     service.SeasonService
	rosterSvc     service.RosterService
	eventSvc      service.EventService
	attendanceSvc service.AttendanceService
	exportSvc     service.ExportService
	calendarSvc   service.CalendarService
}

func NewSeasonHandler(
	seasonSvc service.SeasonService,
	rosterSvc service.RosterService,
	eventSvc service.EventService,
	attendanceSvc service.AttendanceService,
	exportSvc service.ExportService,
	calendarSvc service.CalendarService,
) *SeasonHandler {
	return &SeasonHandler{
		seasonSvc:     seasonSvc,
		rosterSvc:     rosterSvc,
		eventSvc:      eventSvc,
		attendanceSvc: attendanceSvc,
		exportSvc:     exportSvc,
		calendarSvc:   calendarSvc,
	}
}

// ── CRUD ──

// List
// GET /api/v1/seasons
func (h *SeasonHandler) List(c *gin.Context) {
	var req dto.SeasonListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.seasonSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Current returns the season in effect today.
// GET /api/v1/seasons/current
func (h *SeasonHandler) Current(c *gin.Context) {
	resp, err := h.seasonSvc.GetCurrent(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Get
// GET /api/v1/seasons/:id
func (h *SeasonHandler) Get(c *gin.Context) {
	resp, err := h.seasonSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Create
// POST /api/v1/seasons
func (h *SeasonHandler) Create(c *gin.Context) {
	var req dto.CreateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.seasonSvc.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, resp)
}

// Update
// PATCH|PUT /api/v1/seasons/:id
func (h *SeasonHandler) Update(c *gin.Context) {
	var req dto.UpdateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.seasonSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete removes the season with its events and records.
// DELETE /api/v1/seasons/:id
func (h *SeasonHandler) Delete(c *gin.Context) {
	resp, err := h.seasonSvc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKWithMessage(c, "Season deleted", resp)
}

// SetCurrent makes the season the only active one.
// POST /api/v1/seasons/:id/set_current
func (h *SeasonHandler) SetCurrent(c *gin.Context) {
	resp, err := h.seasonSvc.SetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// ── Roster ──

// Musicians lists the roster grouped by section.
// GET /api/v1/seasons/:id/musicians
func (h *SeasonHandler) Musicians(c *gin.Context) {
	sections, err := h.rosterSvc.Sections(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, sections)
}

// AvailableMusicians lists active musicians not yet on the roster.
// GET /api/v1/seasons/:id/available_musicians
func (h *SeasonHandler) AvailableMusicians(c *gin.Context) {
	list, err := h.rosterSvc.Available(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// AddMusicians
// POST /api/v1/seasons/:id/add_musicians
func (h *SeasonHandler) AddMusicians(c *gin.Context) {
	var req dto.MusicianIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.rosterSvc.AddMusicians(c.Request.Context(), c.Param("id"), req.MusicianIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// RemoveMusicians
// POST /api/v1/seasons/:id/remove_musicians
func (h *SeasonHandler) RemoveMusicians(c *gin.Context) {
	var req dto.MusicianIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.rosterSvc.RemoveMusicians(c.Request.Context(), c.Param("id"), req.MusicianIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, resp)
}

// ── Events, grid, statistics ──

// Events lists the season's events, optionally by type and month.
// GET /api/v1/seasons/:id/events
func (h *SeasonHandler) Events(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.eventSvc.SeasonEvents(c.Request.Context(), c.Param("id"), req.Type, req.Month)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// Grid
// GET /api/v1/seasons/:id/attendance_grid
func (h *SeasonHandler) Grid(c *gin.Context) {
	var req dto.GridRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	grid, err := h.attendanceSvc.Grid(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, grid)
}

// Stats
// GET /api/v1/seasons/:id/stats
func (h *SeasonHandler) Stats(c *gin.Context) {
	stats, err := h.attendanceSvc.SeasonStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, stats)
}

// ── Exports ──

// ExportGrid downloads the attendance grid as a workbook.
// GET /api/v1/seasons/:id/attendance_grid/export
func (h *SeasonHandler) ExportGrid(c *gin.Context) {
	var req dto.GridRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportGrid(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, filename)
	c.Data(http.StatusOK, mimeXLSX, buf.Bytes())
}

// Calendar downloads the season's events as iCalendar.
// GET /api/v1/seasons/:id/calendar.ics
func (h *SeasonHandler) Calendar(c *gin.Context) {
	data, filename, err := h.calendarSvc.SeasonCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, filename)
	c.Data(http.StatusOK, mimeICS, data)
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}
