package dto

import "time"

// RegistrationRequest is the raw, untrusted form payload.
type RegistrationRequest struct {
	Group    string `json:"group"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type RegistrationResponse struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	GroupCode string    `json:"group_code"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
}

type RegistrationListResponse struct {
	Registrations []RegistrationResponse `json:"registrations"`
	Total         int                    `json:"total"`
	Visible       int                    `json:"visible"`
}

type ClearAllRequest struct {
	Confirm bool `json:"confirm"`
}
