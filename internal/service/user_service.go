package service

import (
	"context"
	"errors"
	"fmt"

	"swiftcare/internal/model"
	"swiftcare/internal/repository"

	"github.com/jackc/pgx/v5"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDoctorNotFound = errors.New("doctor not found")
)

// UserService exposes user profiles and the doctor directory
type UserService interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateDoctorProfile(ctx context.Context, doctorID, callerID, callerRole string, req model.DoctorUpdateRequest) (*model.DoctorProfile, error)
	SearchDoctors(ctx context.Context, filters model.DoctorFilters) ([]model.DoctorProfile, error)
	GetDoctorAvailability(ctx context.Context, doctorID string) (map[string][]string, bool, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetByID retrieves a single user profile
func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateDoctorProfile patches a doctor profile. Doctors may only edit their
// own profile; admins may edit any.
func (s *userService) UpdateDoctorProfile(ctx context.Context, doctorID, callerID, callerRole string, req model.DoctorUpdateRequest) (*model.DoctorProfile, error) {
	if callerRole != model.RoleAdmin && callerID != doctorID {
		return nil, ErrForbidden
	}

	if err := s.userRepo.UpdateDoctorProfile(ctx, doctorID, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to update doctor profile: %w", err)
	}

	profile, err := s.userRepo.FindDoctorProfile(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload doctor profile: %w", err)
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	return profile, nil
}

// SearchDoctors returns doctor profiles matching the filters. No match is an
// empty slice, not an error.
func (s *userService) SearchDoctors(ctx context.Context, filters model.DoctorFilters) ([]model.DoctorProfile, error) {
	doctors, err := s.userRepo.SearchDoctors(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search doctors: %w", err)
	}
	if doctors == nil {
		doctors = []model.DoctorProfile{}
	}
	return doctors, nil
}

// GetDoctorAvailability returns a doctor's weekly availability map and
// whether they currently accept bookings
func (s *userService) GetDoctorAvailability(ctx context.Context, doctorID string) (map[string][]string, bool, error) {
	profile, err := s.userRepo.FindDoctorProfile(ctx, doctorID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to find doctor: %w", err)
	}
	if profile == nil {
		return nil, false, ErrDoctorNotFound
	}
	availability := profile.Availability
	if availability == nil {
		availability = map[string][]string{}
	}
	return availability, profile.IsAvailable, nil
}
