package repository

import (
	"errors"
	"log"
	"time"

	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"gorm.io/gorm"
)

// deleteEpoch is the sentinel for the bulk delete: every row has
// created_at after it, so "delete where created_at > epoch" clears the table.
var deleteEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

type RegistrationRepository interface {
	Create(reg *domain.Registration) (*domain.Registration, error)
	ListAll() ([]domain.Registration, error)
	DeleteAll() error
	Count() (int64, error)
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(reg *domain.Registration) (*domain.Registration, error) {
	if reg == nil {
		return nil, errors.New("nil registration")
	}

	if err := r.db.Create(reg).Error; err != nil {
		log.Printf("create registration error: %v", err)
		return nil, errors.New("failed to save registration")
	}
	return reg, nil
}

func (r *registrationRepository) ListAll() ([]domain.Registration, error) {
	var regs []domain.Registration

	if err := r.db.Order("created_at DESC").Find(&regs).Error; err != nil {
		log.Printf("list registrations error: %v", err)
		return nil, errors.New("failed to list registrations")
	}
	return regs, nil
}

func (r *registrationRepository) DeleteAll() error {
	if err := r.db.Where("created_at > ?", deleteEpoch).Delete(&domain.Registration{}).Error; err != nil {
		log.Printf("delete registrations error: %v", err)
		return errors.New("failed to delete registrations")
	}
	return nil
}

func (r *registrationRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Registration{}).Count(&count).Error; err != nil {
		log.Printf("count registrations error: %v", err)
		return 0, errors.New("failed to count registrations")
	}
	return count, nil
}
