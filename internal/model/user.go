package model

import "time"

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// User represents an account in the system
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PasswordHash   string    `json:"-"` // Do not expose password hash in JSON responses
	Role           string    `json:"role"`
	Specialization *string   `json:"specialization,omitempty"` // Doctors only
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SignupRequest is the payload for account registration
type SignupRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	FirstName      string  `json:"first_name" binding:"required,max=50"`
	LastName       string  `json:"last_name" binding:"required,max=50"`
	Password       string  `json:"password" binding:"required,min=8,max=72"`
	Role           string  `json:"role" binding:"omitempty,oneof=patient doctor admin"`
	Specialization *string `json:"specialization"`
	AccessCode     *string `json:"access_code"` // Required for doctor/admin roles
}

// LoginRequest is the payload for credential exchange
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// DoctorUpdateRequest patches a doctor profile. Pointers allow partial updates.
type DoctorUpdateRequest struct {
	Bio             *string             `json:"bio,omitempty"`
	ConsultationFee *int64              `json:"consultation_fee,omitempty" binding:"omitempty,gt=0"` // smallest currency unit
	Availability    map[string][]string `json:"availability,omitempty"`                              // weekday -> ["09:00","17:00"]
	Specialization  *string             `json:"specialization,omitempty"`
	IsAvailable     *bool               `json:"is_available,omitempty"`
}

// DoctorProfile is the public view of a doctor account
type DoctorProfile struct {
	User
	Bio             *string             `json:"bio,omitempty"`
	ConsultationFee *int64              `json:"consultation_fee,omitempty"`
	Availability    map[string][]string `json:"availability"`
	IsAvailable     bool                `json:"is_available"`
}

// DoctorFilters contains search parameters for doctor queries
type DoctorFilters struct {
	Specialization *string
	MaxFee         *int64
	Available      *bool
	Search         *string // matches name or bio
	Limit          int
	Offset         int
}
