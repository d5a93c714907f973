package dto

type AdminSignup struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	// RedirectTo is echoed back so the client can return to the page it was
	// trying to open before it was sent to sign-in.
	RedirectTo string `json:"redirect_to,omitempty"`
}

type AdminLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID          uint   `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
	} `json:"user"`
}

type ProfileResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

// AuthResponse is the verified session placed in the request context.
type AuthResponse struct {
	UserID    uint    `json:"user_id"`
	Email     string  `json:"email"`
	SessionID string  `json:"session_id"`
	Iat       float64 `json:"iat"`
	Expiry    float64 `json:"expiry"`
}
