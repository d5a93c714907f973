package repository

import (
	"errors"

	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"gorm.io/gorm"
)

type UserRoleRepository interface {
	AssignRole(userID uint, roleID uint) error
	UserHasRole(userID uint, roleCode string) (bool, error)
}

type userRoleRepository struct {
	db *gorm.DB
}

func NewUserRoleRepository(db *gorm.DB) UserRoleRepository {
	return &userRoleRepository{db: db}
}

func (ur *userRoleRepository) AssignRole(userID uint, roleID uint) error {
	if userID == 0 || roleID == 0 {
		return errors.New("invalid user_id or role_id")
	}

	var count int64
	err := ur.db.
		Model(&domain.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return ur.db.Create(&domain.UserRole{
		UserID: userID,
		RoleID: roleID,
	}).Error
}

// UserHasRole is the on-demand role lookup the admin gate runs: a single
// limited join against user_roles, never cached in the session itself.
func (ur *userRoleRepository) UserHasRole(userID uint, roleCode string) (bool, error) {
	var count int64
	err := ur.db.
		Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.code = ?", userID, roleCode).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
