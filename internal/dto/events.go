package dto

import "time"

// EventRegistrationCreated is the kafka message key for new registrations.
const EventRegistrationCreated = "registration.created"

type RegistrationCreatedEvent struct {
	EventID   string    `json:"event_id"`
	ID        uint      `json:"id"`
	GroupCode string    `json:"group_code"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
