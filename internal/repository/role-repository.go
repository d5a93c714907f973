package repository

import (
	"errors"
	"log"

	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"gorm.io/gorm"
)

var ErrRoleNotFound = errors.New("role not found")

type RoleRepository interface {
	FindByCode(code string) (*domain.Role, error)
	EnsureRole(code, name string) (*domain.Role, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByCode(code string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.Where("code = ?", code).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		log.Printf("find role by code error: %v", err)
		return nil, errors.New("failed to find role")
	}
	return &role, nil
}

// EnsureRole creates the role when it does not exist yet.
func (r *roleRepository) EnsureRole(code, name string) (*domain.Role, error) {
	role, err := r.FindByCode(code)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, ErrRoleNotFound) {
		return nil, err
	}

	role = &domain.Role{Code: code, Name: name}
	if err := r.db.Create(role).Error; err != nil {
		log.Printf("create role error: %v", err)
		return nil, errors.New("failed to create role")
	}
	return role, nil
}
