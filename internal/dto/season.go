package dto

// ── Seasons ──

// CreateSeasonRequest POST /seasons
type CreateSeasonRequest struct {
	Name      string `json:"name"       binding:"required,min=1,max=100"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
	IsActive  bool   `json:"is_active"`
}

// UpdateSeasonRequest PATCH/PUT /seasons/:id
type UpdateSeasonRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=1,max=100"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
}

// SeasonListRequest GET /seasons
type SeasonListRequest struct {
	PaginationRequest
	Active *bool  `form:"is_active"`
	Search string `form:"search"`
}

// SeasonResponse season summary.
type SeasonResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SeasonDetailResponse GET /seasons/:id
type SeasonDetailResponse struct {
	SeasonResponse
	EventsCount    int64               `json:"events_count"`
	MusiciansCount int64               `json:"musicians_count"`
	Stats          SeasonStatsResponse `json:"stats"`
}

// DeleteSeasonResponse DELETE /seasons/:id
type DeleteSeasonResponse struct {
	Warning string `json:"warning,omitempty"`
}

// ── Roster ──

// MusicianIDsRequest body of add_musicians / remove_musicians.
type MusicianIDsRequest struct {
	MusicianIDs []string `json:"musician_ids" binding:"required"`
}

// AddMusiciansResponse POST /seasons/:id/add_musicians
type AddMusiciansResponse struct {
	Added                    int    `json:"added"`
	AttendanceRecordsCreated int64  `json:"attendance_records_created"`
	TotalMusicians           int64  `json:"total_musicians"`
	Message                  string `json:"message"`
}

// RemoveMusiciansResponse POST /seasons/:id/remove_musicians
type RemoveMusiciansResponse struct {
	Removed                  int    `json:"removed"`
	AttendanceRecordsDeleted int64  `json:"attendance_records_deleted"`
	TotalMusicians           int64  `json:"total_musicians"`
	Message                  string `json:"message"`
}

// SectionResponse musicians of one instrument section.
type SectionResponse struct {
	SectionName string             `json:"section_name"`
	Musicians   []MusicianResponse `json:"musicians"`
}
