package dto

// ── Auth ──

// LoginRequest POST /auth/token
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest POST /auth/token/refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse token pair.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// ── Registration & activation ──

// RegisterRequest POST /users/register
type RegisterRequest struct {
	Username   string  `json:"username"   binding:"required,min=3,max=150"`
	Email      string  `json:"email"      binding:"required,email,max=254"`
	FirstName  string  `json:"first_name" binding:"required,max=150"`
	LastName   string  `json:"last_name"  binding:"required,max=150"`
	Password1  string  `json:"password1"  binding:"required"`
	Password2  string  `json:"password2"  binding:"required"`
	Instrument string  `json:"instrument" binding:"required,instrument"`
	Birthday   *string `json:"birthday"`
}

// RegisterResponse is returned after registration. It carries no credentials.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}

// ActivationPreviewResponse GET /users/activate/:token
type ActivationPreviewResponse struct {
	Token      string       `json:"token"`
	User       UserResponse `json:"user"`
	Instrument string       `json:"instrument"`
	CreatedAt  string       `json:"created_at"`
	ExpiresAt  string       `json:"expires_at"`
}

// ActivationResponse POST /users/activate/:token
type ActivationResponse struct {
	User        UserResponse `json:"user"`
	ActivatedAt string       `json:"activated_at"`
}

// PendingActivationResponse one entry of GET /users/pending-activations
type PendingActivationResponse struct {
	Token      string       `json:"token"`
	User       UserResponse `json:"user"`
	Instrument string       `json:"instrument"`
	CreatedAt  string       `json:"created_at"`
	ExpiresAt  string       `json:"expires_at"`
	IsExpired  bool         `json:"is_expired"`
}
