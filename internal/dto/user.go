package dto

// UserResponse full account view.
type UserResponse struct {
	ID          string            `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	FullName    string            `json:"full_name"`
	IsActive    bool              `json:"is_active"`
	IsStaff     bool              `json:"is_staff"`
	IsSuperuser bool              `json:"is_superuser"`
	Groups      []string          `json:"groups"`
	DateJoined  string            `json:"date_joined"`
	Musician    *MusicianResponse `json:"musician,omitempty"`
}

// UpdateProfileRequest PUT /users/me
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name" binding:"omitempty,max=150"`
	LastName   *string `json:"last_name"  binding:"omitempty,max=150"`
	Email      *string `json:"email"      binding:"omitempty,email,max=254"`
	Instrument *string `json:"instrument" binding:"omitempty,instrument"`
	Birthday   *string `json:"birthday"`
}

// ChangePasswordRequest POST /users/change-password
type ChangePasswordRequest struct {
	OldPassword  string `json:"old_password"  binding:"required"`
	NewPassword1 string `json:"new_password1" binding:"required"`
	NewPassword2 string `json:"new_password2" binding:"required"`
}

// PermissionsResponse GET /users/permissions
type PermissionsResponse struct {
	Groups      []string `json:"groups"`
	Permissions []string `json:"permissions"`
	IsBoard     bool     `json:"is_board"`
	IsStaff     bool     `json:"is_staff"`
	IsSuperuser bool     `json:"is_superuser"`
}

// SetGroupsRequest PUT /users/:id/groups
type SetGroupsRequest struct {
	Groups []string `json:"groups" binding:"required,dive,oneof=musician board conductor"`
}

// MusicianListRequest GET /users/musicians
type MusicianListRequest struct {
	PaginationRequest
	Instrument string `form:"instrument"`
	Search     string `form:"search"`
}
