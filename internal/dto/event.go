package dto

// CreateEventRequest POST /events
type CreateEventRequest struct {
	Name     string `json:"name"      binding:"required,max=200"`
	Date     string `json:"date"      binding:"required"`
	Type     string `json:"type"      binding:"required,event_type"`
	SeasonID string `json:"season_id" binding:"required"`
}

// UpdateEventRequest PATCH /events/:id
type UpdateEventRequest struct {
	Name *string `json:"name" binding:"omitempty,max=200"`
	Date *string `json:"date"`
	Type *string `json:"type" binding:"omitempty,event_type"`
}

// EventListRequest GET /events and GET /seasons/:id/events
type EventListRequest struct {
	PaginationRequest
	SeasonID string `form:"season"`
	Type     string `form:"type"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Month    int    `form:"month"  binding:"omitempty,min=1,max=12"`
	Search   string `form:"search"`
}

// EventResponse event view.
type EventResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Date       string     `json:"date"`
	Type       string     `json:"type"`
	SeasonID   string     `json:"season_id"`
	SeasonName string     `json:"season_name,omitempty"`
	CreatedBy  *UserBrief `json:"created_by,omitempty"`
	CreatedAt  string     `json:"created_at"`
	UpdatedAt  string     `json:"updated_at"`
}
