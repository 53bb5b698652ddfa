package models

// LoginRequest carries the event access code entered by the operator
type LoginRequest struct {
	AccessCode string `json:"access_code" form:"access_code" binding:"required"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
