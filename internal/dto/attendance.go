package dto

// ── Mark attendance ──

// MarkAttendanceEntry one user's value.
type MarkAttendanceEntry struct {
	UserID  string   `json:"user_id" binding:"required"`
	Present *float64 `json:"present" binding:"required,attendance_value"`
}

// MarkAttendanceRequest POST /events/:id/mark_attendance
type MarkAttendanceRequest struct {
	Attendances []MarkAttendanceEntry `json:"attendances" binding:"required,dive"`
}

// MarkAttendanceResponse reports what was applied. Skipped lists user ids
// that do not exist.
type MarkAttendanceResponse struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
}

// ── Records ──

// AttendanceListRequest GET /attendances
type AttendanceListRequest struct {
	PaginationRequest
	UserID   string `form:"user"`
	EventID  string `form:"event"`
	SeasonID string `form:"season"`
	Type     string `form:"type" binding:"omitempty,oneof=present absent half full"`
}

// AttendanceResponse one record.
type AttendanceResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	User      *UserBrief `json:"user,omitempty"`
	EventID   string     `json:"event_id"`
	EventName string     `json:"event_name,omitempty"`
	Present   float64    `json:"present"`
	MarkedBy  *UserBrief `json:"marked_by,omitempty"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

// ── Statistics ──

// StatsResponse aggregate attendance of a scope.
type StatsResponse struct {
	Total          int64   `json:"total"`
	Present        int64   `json:"present"`
	Absent         int64   `json:"absent"`
	Half           int64   `json:"half"`
	Full           int64   `json:"full"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// SeasonStatsResponse season level statistics.
type SeasonStatsResponse struct {
	StatsResponse
	TotalEvents int64 `json:"total_events"`
}

// ── Grid ──

// GridRequest GET /seasons/:id/attendance_grid
type GridRequest struct {
	EventType string `form:"event_type"`
	Month     int    `form:"month" binding:"omitempty,min=1,max=12"`
}

// GridResponse sectioned musicians x events matrix.
type GridResponse struct {
	Season         SeasonResponse  `json:"season"`
	Events         []EventResponse `json:"events"`
	Sections       []GridSection   `json:"sections"`
	RosterFallback bool            `json:"roster_fallback"`
}

// GridSection rows of one instrument section.
type GridSection struct {
	SectionName string    `json:"section_name"`
	Rows        []GridRow `json:"rows"`
}

// GridRow one musician's cells in event order.
type GridRow struct {
	User     UserBrief        `json:"user"`
	Musician MusicianResponse `json:"musician"`
	Cells    []GridCell       `json:"cells"`
}

// GridCell one musician x event value. AttendanceID is nil when no record exists.
type GridCell struct {
	EventID      string  `json:"event_id"`
	Present      float64 `json:"present"`
	AttendanceID *string `json:"attendance_id"`
}
