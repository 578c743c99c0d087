package dto

// CreateConcertRequest POST /concerts
type CreateConcertRequest struct {
	Name        string `json:"name"        binding:"required,max=100"`
	Date        string `json:"date"        binding:"required"`
	Location    string `json:"location"    binding:"max=200"`
	Description string `json:"description"`
	Setlist     string `json:"setlist"`
	Status      string `json:"status"      binding:"omitempty,oneof=planned confirmed completed cancelled"`
}

// UpdateConcertRequest PATCH /concerts/:id
type UpdateConcertRequest struct {
	Name        *string `json:"name"        binding:"omitempty,max=100"`
	Date        *string `json:"date"`
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Description *string `json:"description"`
	Setlist     *string `json:"setlist"`
	Status      *string `json:"status"      binding:"omitempty,oneof=planned confirmed completed cancelled"`
}

// ConcertListRequest GET /concerts
type ConcertListRequest struct {
	PaginationRequest
	Status   string `form:"status"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Search   string `form:"search"`
}

// Registration actions.
const (
	ConcertActionRegister   = "register"
	ConcertActionUnregister = "unregister"
)

// ConcertRegistrationRequest POST /concerts/:id/register
type ConcertRegistrationRequest struct {
	Action string `json:"action" binding:"required,oneof=register unregister"`
}

// ConcertRegistrationResponse outcome of a sign-up change.
type ConcertRegistrationResponse struct {
	Message           string `json:"message"`
	ParticipantsCount int64  `json:"participants_count"`
	IsRegistered      bool   `json:"is_registered"`
}

// ConcertResponse concert view. The caller dependent flags are resolved per
// request; Participants is only filled on the detail endpoint.
type ConcertResponse struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Date              string             `json:"date"`
	Location          string             `json:"location"`
	Description       string             `json:"description"`
	Setlist           string             `json:"setlist"`
	Status            string             `json:"status"`
	ParticipantsCount int64              `json:"participants_count"`
	IsRegistered      bool               `json:"is_registered"`
	CanEdit           bool               `json:"can_edit"`
	Participants      []MusicianResponse `json:"participants,omitempty"`
	CreatedBy         *UserBrief         `json:"created_by,omitempty"`
	CreatedAt         string             `json:"created_at"`
	UpdatedAt         string             `json:"updated_at"`
}

// ConcertParticipantsResponse GET /concerts/:id/participants
type ConcertParticipantsResponse struct {
	Participants []MusicianResponse `json:"participants"`
	Count        int                `json:"count"`
}

// ConcertPermissionsResponse GET /concerts/permissions
type ConcertPermissionsResponse struct {
	CanCreate bool `json:"can_create"`
}

// GetPageSize concerts page by 10, at most 50.
func (r *ConcertListRequest) GetPageSize() int {
	switch {
	case r.PageSize <= 0:
		return 10
	case r.PageSize > 50:
		return 50
	}
	return r.PageSize
}

// GetOffset returns the row offset of the page.
func (r *ConcertListRequest) GetOffset() int {
	return (r.GetPage() - 1) * r.GetPageSize()
}
