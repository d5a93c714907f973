package services

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"github.com/ibrahimchallal/tournament_service/internal/dto"
	"github.com/ibrahimchallal/tournament_service/internal/interfaces"
	"github.com/ibrahimchallal/tournament_service/internal/repository"
	"github.com/ibrahimchallal/tournament_service/internal/validation"
)

type RegistrationService interface {
	Submit(input dto.RegistrationRequest) (*domain.Registration, *validation.FieldError, error)
	GroupOptions() []domain.GroupOption
}

type registrationService struct {
	repo     repository.RegistrationRepository
	producer interfaces.ProducerHandler
}

func NewRegistrationService(repo repository.RegistrationRepository, producer interfaces.ProducerHandler) RegistrationService {
	return &registrationService{
		repo:     repo,
		producer: producer,
	}
}

// Submit runs the validation pipeline and persists the normalized record.
// The field error and the store error are reported separately so the handler
// can surface them next to the form field vs. as a transient failure.
func (s *registrationService) Submit(input dto.RegistrationRequest) (*domain.Registration, *validation.FieldError, error) {
	rec, fieldErr := validation.Validate(input)
	if fieldErr != nil {
		return nil, fieldErr, nil
	}

	saved, err := s.repo.Create(&rec)
	if err != nil {
		return nil, nil, err
	}

	// publish event (optional, never fails the registration)
	if s.producer != nil {
		payload, err := json.Marshal(dto.RegistrationCreatedEvent{
			EventID:   uuid.NewString(),
			ID:        saved.ID,
			GroupCode: saved.GroupCode,
			FullName:  saved.FullName,
			Email:     saved.Email,
			CreatedAt: saved.CreatedAt,
		})
		if err == nil {
			if err := s.producer.PublishMessage([]byte(dto.EventRegistrationCreated), payload); err != nil {
				log.Printf("publish %s error: %v", dto.EventRegistrationCreated, err)
			}
		}
	}

	return saved, nil, nil
}

func (s *registrationService) GroupOptions() []domain.GroupOption {
	return domain.GroupOptions
}
