package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"swiftcare/internal/model"
	"swiftcare/internal/repository"
	"swiftcare/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUserAlreadyExists      = errors.New("user with this email already exists")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAccountInactive        = errors.New("this account has been deactivated")
	ErrInvalidAccessCode      = errors.New("a valid access code is required for this role")
	ErrSpecializationRequired = errors.New("specialization is required for the doctor role")
)

// AuthService provides authentication related services
type AuthService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo         repository.UserRepository
	jwtUtil          *utils.JWTUtil
	emails           EmailService
	adminAccessCode  string
	doctorAccessCode string
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, emails EmailService, adminAccessCode, doctorAccessCode string) AuthService {
	return &authService{
		userRepo:         userRepo,
		jwtUtil:          jwtUtil,
		emails:           emails,
		adminAccessCode:  adminAccessCode,
		doctorAccessCode: doctorAccessCode,
	}
}

// Signup registers a new user account and issues an access token
func (s *authService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrUserAlreadyExists
	}

	role, err := s.resolveRole(req)
	if err != nil {
		return nil, "", err
	}
	if role == model.RoleDoctor && (req.Specialization == nil || *req.Specialization == "") {
		return nil, "", ErrSpecializationRequired
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:             uuid.New().String(),
		Email:          email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PasswordHash:   hashedPassword,
		Role:           role,
		Specialization: req.Specialization,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("User created but token generation failed")
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	// best-effort, never blocks or fails the signup
	go s.emails.SendWelcome(user)

	return user, token, nil
}

// resolveRole determines the account role. Privileged roles require the
// matching access code; an unset code disables that role entirely.
func (s *authService) resolveRole(req model.SignupRequest) (string, error) {
	role := req.Role
	if role == "" {
		role = model.RolePatient
	}
	if role == model.RolePatient {
		return role, nil
	}

	code := ""
	if req.AccessCode != nil {
		code = *req.AccessCode
	}
	switch role {
	case model.RoleAdmin:
		if s.adminAccessCode == "" || code != s.adminAccessCode {
			return "", ErrInvalidAccessCode
		}
	case model.RoleDoctor:
		if s.doctorAccessCode == "" || code != s.doctorAccessCode {
			return "", ErrInvalidAccessCode
		}
	}
	return role, nil
}

// Login authenticates a user and returns a signed access token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		// burn a hash compare anyway so response timing does not reveal
		// whether the account exists
		utils.CheckPasswordHash(password, "$2a$10$000000000000000000000uGyUVDdfXTN0fGyU1qnZ4kfnuNAMCAy")
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", ErrAccountInactive
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}
