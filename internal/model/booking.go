package model

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a scheduled appointment between a patient and a doctor
type Booking struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`     // Owning patient
	ProviderID    string    `json:"provider_id"` // Doctor
	ScheduledTime time.Time `json:"scheduled_time"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`
	MeetLink      *string   `json:"meet_link,omitempty"` // Assigned when the booking is confirmed
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateBookingRequest is used for creating a new booking
type CreateBookingRequest struct {
	ProviderID    string    `json:"provider_id" binding:"required"`
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
	Notes         *string   `json:"notes"`
}

// UpdateBookingRequest patches an existing booking. Pointers allow partial updates.
type UpdateBookingRequest struct {
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	Status        *string    `json:"status,omitempty" binding:"omitempty,oneof=pending confirmed completed cancelled"`
}

// BookingFilters contains optional equality filters for booking queries
type BookingFilters struct {
	UserID     *string
	ProviderID *string
	Status     *string
	StartDate  *time.Time // scheduled_time >=
	EndDate    *time.Time // scheduled_time <=
}
