package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"swiftcare/internal/model"

	"github.com/jackc/pgx/v5"
)

// BookingRepository defines operations for booking data
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	Find(ctx context.Context, filters model.BookingFilters) ([]model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	MarkCancelled(ctx context.Context, id string) error
}

type bookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create inserts a new booking into the database
func (r *bookingRepository) Create(ctx context.Context, b *model.Booking) error {
	sql := `INSERT INTO bookings (id, user_id, provider_id, scheduled_time, status, notes, meet_link, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, sql,
		b.ID, b.UserID, b.ProviderID, b.ScheduledTime, b.Status, b.Notes, b.MeetLink, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// FindByID retrieves a booking by its ID. Returns nil, nil when absent.
func (r *bookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	b := &model.Booking{}
	sql := `SELECT id, user_id, provider_id, scheduled_time, status, notes, meet_link, created_at, updated_at
            FROM bookings WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&b.ID, &b.UserID, &b.ProviderID, &b.ScheduledTime, &b.Status, &b.Notes,
		&b.MeetLink, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return b, nil
}

// Find retrieves bookings matching the optional filters
func (r *bookingRepository) Find(ctx context.Context, filters model.BookingFilters) ([]model.Booking, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, user_id, provider_id, scheduled_time, status, notes, meet_link, created_at, updated_at
                              FROM bookings WHERE 1=1`)
	args := []interface{}{}
	argCount := 1

	if filters.UserID != nil && *filters.UserID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND user_id = $%d", argCount))
		args = append(args, *filters.UserID)
		argCount++
	}
	if filters.ProviderID != nil && *filters.ProviderID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND provider_id = $%d", argCount))
		args = append(args, *filters.ProviderID)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.StartDate != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND scheduled_time >= $%d", argCount))
		args = append(args, *filters.StartDate)
		argCount++
	}
	if filters.EndDate != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND scheduled_time <= $%d", argCount))
		args = append(args, *filters.EndDate)
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY scheduled_time ASC, created_at ASC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.ProviderID, &b.ScheduledTime, &b.Status, &b.Notes,
			&b.MeetLink, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}
	return bookings, nil
}

// Update persists the mutable fields of a booking. Cancelled bookings are
// never touched; the guard in the WHERE clause makes the check atomic under
// concurrent writers.
func (r *bookingRepository) Update(ctx context.Context, b *model.Booking) error {
	sql := `UPDATE bookings
            SET scheduled_time = $1, status = $2, notes = $3, meet_link = $4, updated_at = NOW()
            WHERE id = $5 AND status != 'cancelled'
            RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql,
		b.ScheduledTime, b.Status, b.Notes, b.MeetLink, b.ID).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return nil
}

// MarkCancelled sets a booking's status to cancelled. Already-cancelled rows
// match zero rows, which callers treat as an idempotent success.
func (r *bookingRepository) MarkCancelled(ctx context.Context, id string) error {
	sql := `UPDATE bookings SET status = 'cancelled', updated_at = NOW()
            WHERE id = $1 AND status != 'cancelled'`
	_, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	return nil
}
