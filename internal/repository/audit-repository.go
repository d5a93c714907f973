package repository

import (
	"errors"
	"log"

	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Record(entry *domain.AuditLog) error
	ListRecent(limit int) ([]domain.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(entry *domain.AuditLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		log.Printf("record audit entry error: %v", err)
		return errors.New("failed to record audit entry")
	}
	return nil
}

func (r *auditRepository) ListRecent(limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []domain.AuditLog
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		log.Printf("list audit entries error: %v", err)
		return nil, errors.New("failed to list audit entries")
	}
	return entries, nil
}
