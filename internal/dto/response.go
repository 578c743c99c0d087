package dto

// ── Pagination ──

// PaginationRequest common list paging parameters.
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage returns the page number with its default.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize returns the page size with its default.
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}

// GetOffset returns the row offset of the page.
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── Shared user shapes ──

// UserBrief is the compact user shape embedded in other responses.
type UserBrief struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// MusicianResponse musician profile.
type MusicianResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Instrument string     `json:"instrument"`
	Birthday   *string    `json:"birthday,omitempty"`
	PhotoRef   *string    `json:"photo_ref,omitempty"`
	Active     bool       `json:"active"`
	User       *UserBrief `json:"user,omitempty"`
}
