package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/services/rides"
)

const bookingColumns = `
	id, ride_id, passenger_id, seats_requested, status,
	pickup_location, dropoff_location, passenger_message, driver_response, rejection_reason,
	created_at, updated_at, accepted_at, completed_at, cancelled_at`

// CreateBooking inserts a new booking
func (s *rideStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := s.db.ExecContext(ctx, query,
		booking.ID, booking.RideID, booking.PassengerID, booking.SeatsRequested, booking.Status,
		booking.PickupLocation, booking.DropoffLocation, booking.PassengerMessage,
		booking.DriverResponse, booking.RejectionReason,
		booking.CreatedAt, booking.UpdatedAt, booking.AcceptedAt, booking.CompletedAt, booking.CancelledAt,
	)
	if err != nil {
		return wrapErr("failed to create booking", err)
	}
	return nil
}

// GetBooking retrieves a booking without locking it
func (s *rideStore) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	return s.getBooking(ctx, bookingID, false)
}

// GetBookingForUpdate retrieves a booking and locks its row for the rest of the transaction
func (s *rideStore) GetBookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	return s.getBooking(ctx, bookingID, true)
}

func (s *rideStore) getBooking(ctx context.Context, bookingID uuid.UUID, forUpdate bool) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var booking models.Booking
	if err := sqlx.GetContext(ctx, s.db, &booking, query, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, rides.ErrNotFound)
		}
		return nil, wrapErr("failed to get booking", err)
	}
	return &booking, nil
}

// UpdateBookingStatus moves a booking from status `from` to booking.Status.
// It fails with ErrInvalidStateTransition when the stored status is no longer `from`.
func (s *rideStore) UpdateBookingStatus(ctx context.Context, booking *models.Booking, from models.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1,
			driver_response = $2,
			rejection_reason = $3,
			accepted_at = $4,
			completed_at = $5,
			cancelled_at = $6,
			updated_at = $7
		WHERE id = $8 AND status = $9
	`

	result, err := s.db.ExecContext(ctx, query,
		booking.Status,
		booking.DriverResponse,
		booking.RejectionReason,
		booking.AcceptedAt,
		booking.CompletedAt,
		booking.CancelledAt,
		booking.UpdatedAt,
		booking.ID,
		from,
	)
	if err != nil {
		return wrapErr("failed to update booking status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapErr("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("booking %s is no longer %s: %w", booking.ID, from, rides.ErrInvalidStateTransition)
	}
	return nil
}

// ListBookingsByRideForUpdate locks and returns the ride's bookings in the given statuses
func (s *rideStore) ListBookingsByRideForUpdate(ctx context.Context, rideID uuid.UUID, statuses ...models.BookingStatus) ([]*models.Booking, error) {
	return s.listBookings(ctx, rideID, true, statuses...)
}

func (s *rideStore) listBookings(ctx context.Context, rideID uuid.UUID, forUpdate bool, statuses ...models.BookingStatus) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ride_id = $1`
	args := []interface{}{rideID}
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, status := range statuses {
			values[i] = string(status)
		}
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(values))
	}
	query += ` ORDER BY created_at, id`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var bookings []*models.Booking
	if err := sqlx.SelectContext(ctx, s.db, &bookings, query, args...); err != nil {
		return nil, wrapErr("failed to list bookings", err)
	}
	return bookings, nil
}

// HasActiveBooking reports whether the passenger already holds a pending or
// accepted booking on the ride
func (s *rideStore) HasActiveBooking(ctx context.Context, rideID, passengerID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE ride_id = $1 AND passenger_id = $2 AND status IN ('pending', 'accepted')
		)
	`

	var exists bool
	if err := sqlx.GetContext(ctx, s.db, &exists, query, rideID, passengerID); err != nil {
		return false, wrapErr("failed to check active booking", err)
	}
	return exists, nil
}
