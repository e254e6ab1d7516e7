package service

import (
	"context"
	"errors"

	"stolik/internal/database"
	"stolik/internal/domain"
	"stolik/internal/models"

	"github.com/rs/zerolog"
)

// UserService handles customer registration and lookups.
type UserService struct {
	repo   domain.Repository
	logger zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger.With().Str("component", "user_service").Logger(),
	}
}

// RegisterUser creates a customer. Phone numbers are globally unique; an
// existing number is rejected before hitting the unique index so the caller
// gets a clean ErrDuplicatePhone either way.
func (s *UserService) RegisterUser(ctx context.Context, name, phone string) (*models.User, error) {
	user := &models.User{Name: name, Phone: phone}
	if !user.IsValid() {
		return nil, database.ErrInvalidUser
	}

	if _, err := s.repo.GetUserByPhone(ctx, phone); err == nil {
		return nil, database.ErrDuplicatePhone
	} else if !errors.Is(err, database.ErrUserNotFound) {
		return nil, err
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.repo.GetUserByPhone(ctx, phone)
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

// UpdateUser changes name and/or phone. Empty arguments keep the current
// value.
func (s *UserService) UpdateUser(ctx context.Context, id int64, name, phone string) (*models.User, error) {
	current, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		current.Name = name
	}
	if phone != "" && phone != current.Phone {
		if _, err := s.repo.GetUserByPhone(ctx, phone); err == nil {
			return nil, database.ErrDuplicatePhone
		} else if !errors.Is(err, database.ErrUserNotFound) {
			return nil, err
		}
		current.Phone = phone
	}

	if !current.IsValid() {
		return nil, database.ErrInvalidUser
	}

	if err := s.repo.UpdateUser(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// DeleteUser removes the customer and, by cascade, their bookings.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}
