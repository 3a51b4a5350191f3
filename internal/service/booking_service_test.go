package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"swiftcare/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockBookingRepo is a testify mock of repository.BookingRepository
type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*model.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) Find(ctx context.Context, filters model.BookingFilters) ([]model.Booking, error) {
	args := m.Called(ctx, filters)
	if b := args.Get(0); b != nil {
		return b.([]model.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingRepo) Update(ctx context.Context, booking *model.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockBookingRepo) MarkCancelled(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

const meetBase = "https://meet.test"

func newBookingService(bookings *mockBookingRepo, users *mockUserRepo, emails EmailService) BookingService {
	return NewBookingService(bookings, users, emails, meetBase)
}

func doctor(id string) *model.User {
	return &model.User{ID: id, Role: model.RoleDoctor, Email: id + "@example.com", IsActive: true}
}

func patient(id string) *model.User {
	return &model.User{ID: id, Role: model.RolePatient, Email: id + "@example.com", IsActive: true}
}

func TestCreateBooking_SetsPendingStatus(t *testing.T) {
	bookings := new(mockBookingRepo)
	users := new(mockUserRepo)
	emails := newChanEmail()
	svc := newBookingService(bookings, users, emails)

	users.On("FindByID", mock.Anything, "doc-1").Return(doctor("doc-1"), nil)
	users.On("FindByID", mock.Anything, "pat-1").Return(patient("pat-1"), nil)
	bookings.On("Create", mock.Anything, mock.AnythingOfType("*model.Booking")).Return(nil)

	slot := time.Now().Add(48 * time.Hour)
	booking, err := svc.Create(context.Background(), "pat-1", model.CreateBookingRequest{
		ProviderID:    "doc-1",
		ScheduledTime: slot,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, "pat-1", booking.UserID)
	assert.Equal(t, "doc-1", booking.ProviderID)
	assert.Nil(t, booking.MeetLink)

	select {
	case id := <-emails.confirmations:
		assert.Equal(t, booking.ID, id)
	case <-time.After(time.Second):
		t.Fatal("confirmation email was never sent")
	}
}

func TestCreateBooking_RejectsNonDoctorProvider(t *testing.T) {
	bookings := new(mockBookingRepo)
	users := new(mockUserRepo)
	svc := newBookingService(bookings, users, newChanEmail())

	users.On("FindByID", mock.Anything, "pat-2").Return(patient("pat-2"), nil)

	_, err := svc.Create(context.Background(), "pat-1", model.CreateBookingRequest{
		ProviderID:    "pat-2",
		ScheduledTime: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidProvider)

	users.On("FindByID", mock.Anything, "ghost").Return(nil, nil)
	_, err = svc.Create(context.Background(), "pat-1", model.CreateBookingRequest{
		ProviderID:    "ghost",
		ScheduledTime: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidProvider)
}

func TestCreateBooking_RejectsPastSlot(t *testing.T) {
	svc := newBookingService(new(mockBookingRepo), new(mockUserRepo), newChanEmail())

	_, err := svc.Create(context.Background(), "pat-1", model.CreateBookingRequest{
		ProviderID:    "doc-1",
		ScheduledTime: time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestGetBooking_NotFound(t *testing.T) {
	bookings := new(mockBookingRepo)
	svc := newBookingService(bookings, new(mockUserRepo), newChanEmail())

	bookings.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListBookings_EmptyResultIsNotAnError(t *testing.T) {
	bookings := new(mockBookingRepo)
	svc := newBookingService(bookings, new(mockUserRepo), newChanEmail())

	bookings.On("Find", mock.Anything, mock.AnythingOfType("model.BookingFilters")).Return(nil, nil)

	status := model.BookingStatusConfirmed
	result, err := svc.List(context.Background(), model.BookingFilters{Status: &status})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestUpdateBooking_ForbiddenForStrangers(t *testing.T) {
	bookings := new(mockBookingRepo)
	svc := newBookingService(bookings, new(mockUserRepo), newChanEmail())

	bookings.On("FindByID", mock.Anything, "bk-1").Return(&model.Booking{
		ID: "bk-1", UserID: "pat-1", ProviderID: "doc-1", Status: model.BookingStatusPending,
	}, nil)

	notes := "hijack"
	_, err := svc.Update(context.Background(), "bk-1", "pat-99", model.RolePatient, model.UpdateBookingRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Cancel(context.Background(), "bk-1", "pat-99", model.RolePatient)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateBooking_AdminMayMutateAnyBooking(t *testing.T) {
	bookings := new(mockBookingRepo)
	svc := newBookingService(bookings, new(mockUserRepo), newChanEmail())

	bookings.On("FindByID", mock.Anything, "bk-1").Return(&model.Booking{
		ID: "bk-1", UserID: "pat-1", ProviderID: "doc-1", Status: model.BookingStatusPending,
		ScheduledTime: time.Now().Add(24 * time.Hour),
	}, nil)
	bookings.On("Update", mock.Anything, mock.AnythingOfType("*model.Booking")).Return(nil)

	notes := "rescheduled by front desk"
	updated, err := svc.Update(context.Background(), "bk-1", "admin-1", model.RoleAdmin, model.UpdateBookingRequest{Notes: &notes})

	require.NoError(t, err)
	assert.Equal(t, &notes, updated.Notes)
}

func TestUpdateBooking_CancelledIsImmutable(t *testing.T) {
	bookings := new(mockBookingRepo)
	svc := newBookingService(bookings, new(mockUserRepo), newChanEmail())

	bookings.On("FindByID", mock.Anything, "bk-1").Return(&model.Booking{
		ID: "bk-1", UserID: "pat-1", ProviderID: "doc-1", Status: model.BookingStatusCancelled,
	}, nil)

	notes := "too late"
	_, err := svc.Update(context.Background(), "bk-1", "pat-1", model.RolePatient, model.UpdateBookingRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrBookingCancelled)
}

func TestUpdateBooking_ConfirmAssignsMeetLink(t *testing.T) {
	bookings := new(mockBookingRepo)
	users := new(mockUserRepo)
	emails := newChanEmail()
	svc := newBookingService(bookings, users, emails)

	bookings.On("FindByID", mock.Anything, "bk-1").Return(&model.Booking{
		ID: "bk-1", UserID: "pat-1", ProviderID: "doc-1", Status: model.BookingStatusPending,
		ScheduledTime: time.Now().Add(24 * time.Hour),
	}, nil)
	bookings.On("Update", mock.Anything, mock.AnythingOfType("*model.Booking")).Return(nil)
	users.On("FindByID", mock.Anything, "pat-1").Return(patient("pat-1"), nil)

	status := model.BookingStatusConfirmed
	updated, err := svc.Update(context.Background(), "bk-1", "doc-1", model.RoleDoctor, model.UpdateBookingRequest{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, updated.Status)
	require.NotNil(t, updated.MeetLink)
	assert.True(t, strings.HasPrefix(*updated.MeetLink, meetBase+"/swiftcare-"))

	select {
	case id := <-emails.confirmations:
		assert.Equal(t, "bk-1", id)
	case <-time.After(time.Second):
		t.Fatal("confirmation email was never sent")
	}
}

func TestCancelBooking_Idempotent(t *testing.T) {
	bookings := new(mockBookingRepo)
	svc := newBookingService(bookings, new(mockUserRepo), newChanEmail())

	// already cancelled: no repo write, still a success
	bookings.On("FindByID", mock.Anything, "bk-1").Return(&model.Booking{
		ID: "bk-1", UserID: "pat-1", ProviderID: "doc-1", Status: model.BookingStatusCancelled,
	}, nil)

	err := svc.Cancel(context.Background(), "bk-1", "pat-1", model.RolePatient)
	require.NoError(t, err)
	bookings.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything)
}

func TestCancelBooking_OwnerCancelsPending(t *testing.T) {
	bookings := new(mockBookingRepo)
	svc := newBookingService(bookings, new(mockUserRepo), newChanEmail())

	bookings.On("FindByID", mock.Anything, "bk-1").Return(&model.Booking{
		ID: "bk-1", UserID: "pat-1", ProviderID: "doc-1", Status: model.BookingStatusPending,
	}, nil)
	bookings.On("MarkCancelled", mock.Anything, "bk-1").Return(nil)

	err := svc.Cancel(context.Background(), "bk-1", "pat-1", model.RolePatient)
	require.NoError(t, err)
	bookings.AssertExpectations(t)
}

func TestCancelBooking_NotFound(t *testing.T) {
	bookings := new(mockBookingRepo)
	svc := newBookingService(bookings, new(mockUserRepo), newChanEmail())

	bookings.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	err := svc.Cancel(context.Background(), "missing", "pat-1", model.RolePatient)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
