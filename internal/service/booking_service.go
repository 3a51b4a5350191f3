package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"swiftcare/internal/model"
	"swiftcare/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrForbidden        = errors.New("forbidden: user does not have permission for this action")
	ErrInvalidProvider  = errors.New("provider does not exist or is not a doctor")
	ErrSlotInPast       = errors.New("scheduled_time must be in the future")
	ErrBookingCancelled = errors.New("booking is cancelled and can no longer be modified")
)

// BookingService defines operations for bookings
type BookingService interface {
	Create(ctx context.Context, ownerID string, req model.CreateBookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filters model.BookingFilters) ([]model.Booking, error)
	Update(ctx context.Context, id, callerID, callerRole string, req model.UpdateBookingRequest) (*model.Booking, error)
	Cancel(ctx context.Context, id, callerID, callerRole string) error
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	emails      EmailService
	meetBaseURL string
}

// NewBookingService creates a new BookingService
func NewBookingService(bookingRepo repository.BookingRepository, userRepo repository.UserRepository, emails EmailService, meetBaseURL string) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		emails:      emails,
		meetBaseURL: meetBaseURL,
	}
}

// Create books a new appointment for the owner with the given provider.
// The booking always starts in pending status.
func (s *bookingService) Create(ctx context.Context, ownerID string, req model.CreateBookingRequest) (*model.Booking, error) {
	if !req.ScheduledTime.After(time.Now()) {
		return nil, ErrSlotInPast
	}

	provider, err := s.userRepo.FindByID(ctx, req.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up provider: %w", err)
	}
	if provider == nil || provider.Role != model.RoleDoctor {
		return nil, ErrInvalidProvider
	}

	now := time.Now()
	booking := &model.Booking{
		ID:            uuid.New().String(),
		UserID:        ownerID,
		ProviderID:    req.ProviderID,
		ScheduledTime: req.ScheduledTime,
		Status:        model.BookingStatusPending,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking in repo: %w", err)
	}

	s.notifyOwner(ctx, booking)

	return booking, nil
}

// GetByID retrieves a single booking
func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// List retrieves bookings matching the filters. An empty result is a valid
// outcome, not an error.
func (s *bookingService) List(ctx context.Context, filters model.BookingFilters) ([]model.Booking, error) {
	bookings, err := s.bookingRepo.Find(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings from repo: %w", err)
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return bookings, nil
}

// Update applies a partial patch. Only the owner, the booking's provider, or
// an admin may mutate a booking; cancelled bookings are immutable. A
// transition to confirmed assigns a meeting link.
func (s *bookingService) Update(ctx context.Context, id, callerID, callerRole string, req model.UpdateBookingRequest) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find booking for update: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !canMutate(booking, callerID, callerRole) {
		return nil, ErrForbidden
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, ErrBookingCancelled
	}

	if req.ScheduledTime != nil {
		if !req.ScheduledTime.After(time.Now()) {
			return nil, ErrSlotInPast
		}
		booking.ScheduledTime = *req.ScheduledTime
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}

	confirming := false
	if req.Status != nil && *req.Status != booking.Status {
		confirming = *req.Status == model.BookingStatusConfirmed
		booking.Status = *req.Status
	}
	if confirming && booking.MeetLink == nil {
		link := newMeetLink(s.meetBaseURL)
		booking.MeetLink = &link
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// status flipped to cancelled under our feet
			return nil, ErrBookingCancelled
		}
		return nil, fmt.Errorf("failed to update booking in repo: %w", err)
	}

	if confirming {
		s.notifyOwner(ctx, booking)
	}

	return booking, nil
}

// Cancel sets the booking status to cancelled. Cancelling an
// already-cancelled booking is a no-op success.
func (s *bookingService) Cancel(ctx context.Context, id, callerID, callerRole string) error {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find booking for cancel: %w", err)
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	if !canMutate(booking, callerID, callerRole) {
		return ErrForbidden
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil
	}

	if err := s.bookingRepo.MarkCancelled(ctx, id); err != nil {
		return fmt.Errorf("failed to cancel booking in repo: %w", err)
	}
	return nil
}

// canMutate reports whether the caller may change the booking: the owning
// patient, the assigned doctor, or an admin.
func canMutate(b *model.Booking, callerID, callerRole string) bool {
	return callerRole == model.RoleAdmin || b.UserID == callerID || b.ProviderID == callerID
}

// notifyOwner fires a best-effort confirmation email to the booking owner
func (s *bookingService) notifyOwner(ctx context.Context, booking *model.Booking) {
	owner, err := s.userRepo.FindByID(ctx, booking.UserID)
	if err != nil || owner == nil {
		logrus.WithField("booking_id", booking.ID).Warn("Could not resolve booking owner for email")
		return
	}
	go s.emails.SendBookingConfirmation(owner, booking)
}
