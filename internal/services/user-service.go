package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"github.com/ibrahimchallal/tournament_service/internal/dto"
	"github.com/ibrahimchallal/tournament_service/internal/helper"
	"github.com/ibrahimchallal/tournament_service/internal/repository"
)

var adminEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserService interface {
	SignUp(input dto.AdminSignup) (*domain.User, error)
	SignIn(input dto.AdminLogin) (dto.LoginResponse, error)
	SignOut(sessionID string) error
	IsAdmin(userID uint) (bool, error)
	Profile(userID uint) (dto.ProfileResponse, error)
	UpdateDisplayName(userID uint, displayName string) (*domain.User, error)
}

type userService struct {
	repo         repository.UserRepository
	userRoleRepo repository.UserRoleRepository
	auth         helper.Auth
	broker       *SessionBroker
}

func NewUserService(
	repo repository.UserRepository,
	userRoleRepo repository.UserRoleRepository,
	auth helper.Auth,
	broker *SessionBroker,
) UserService {
	return &userService{
		repo:         repo,
		userRoleRepo: userRoleRepo,
		auth:         auth,
		broker:       broker,
	}
}

// SignUp creates an account without any role. Admin membership is a separate
// user_roles row granted out of band (seed or an existing admin).
func (u *userService) SignUp(input dto.AdminSignup) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	if email == "" || len(email) > 255 || !adminEmailPattern.MatchString(email) {
		return nil, errors.New("enter a valid email")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return nil, errors.New("password is too long")
	}

	existing, err := u.repo.FindUserByEmail(email)
	if err == nil && existing != nil && existing.ID != 0 {
		return nil, errors.New("email already exists")
	}

	hashed, err := u.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	newUser := &domain.User{
		Email:        email,
		PasswordHash: hashed,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Status:       "active",
	}

	usr, err := u.repo.CreateUser(newUser)
	if err != nil {
		return nil, err
	}
	if usr == nil || usr.ID == 0 {
		return nil, errors.New("failed to create user")
	}
	return usr, nil
}

func (u *userService) SignIn(input dto.AdminLogin) (dto.LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	if email == "" || password == "" {
		return dto.LoginResponse{}, errors.New("invalid email or password")
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return dto.LoginResponse{}, errors.New("invalid email or password")
	}

	if user.Status != "" && user.Status != "active" {
		return dto.LoginResponse{}, errors.New("account is not active")
	}

	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return dto.LoginResponse{}, errors.New("invalid email or password")
	}

	token, sessionID, err := u.auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return dto.LoginResponse{}, errors.New("could not generate token")
	}

	u.broker.Register(Session{
		ID:        sessionID,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(u.auth.TTL),
	})

	resp := dto.LoginResponse{Token: token}
	resp.User.ID = user.ID
	resp.User.Email = user.Email
	resp.User.DisplayName = user.DisplayName
	return resp, nil
}

func (u *userService) SignOut(sessionID string) error {
	if sessionID == "" {
		return errors.New("missing session")
	}
	u.broker.Revoke(sessionID)
	return nil
}

func (u *userService) IsAdmin(userID uint) (bool, error) {
	if userID == 0 {
		return false, errors.New("invalid user_id")
	}
	return u.userRoleRepo.UserHasRole(userID, domain.RoleAdmin)
}

// Profile returns the signed-in account with its admin membership resolved.
func (u *userService) Profile(userID uint) (dto.ProfileResponse, error) {
	user, err := u.repo.FindUserById(userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	isAdmin, err := u.IsAdmin(userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	return dto.ProfileResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsAdmin:     isAdmin,
	}, nil
}

func (u *userService) UpdateDisplayName(userID uint, displayName string) (*domain.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, errors.New("display name is required")
	}
	if len(displayName) > 100 {
		return nil, errors.New("display name is too long")
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = displayName
	if err := u.repo.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}
