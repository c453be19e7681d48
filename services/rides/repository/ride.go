package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/tebengan/internal/pkg/logger"
	"github.com/piresc/tebengan/internal/pkg/models"
	nrpkg "github.com/piresc/tebengan/internal/pkg/newrelic"
	"github.com/piresc/tebengan/services/rides"
)

const rideColumns = `
	id, driver_id, vehicle_id,
	origin_address, origin_latitude, origin_longitude,
	destination_address, destination_latitude, destination_longitude,
	waypoints, departure_time, total_seats, committed_seats, status,
	auto_accept_bookings, price_per_seat, allows_pets, allows_smoking, allows_luggage,
	cancellation_reason, created_at, updated_at, started_at, completed_at, cancelled_at`

type RideRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

func NewRideRepository(
	cfg *models.Config,
	db *sqlx.DB,
) *RideRepo {
	logger.Info("Initializing ride repository")
	return &RideRepo{
		cfg: cfg,
		db:  db,
	}
}

// WithinTx runs fn inside a single database transaction. The transaction
// commits only when fn returns nil.
func (r *RideRepo) WithinTx(ctx context.Context, fn func(store rides.RideStore) error) error {
	return nrpkg.WithSegment(ctx, "RideRepo.WithinTx", func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return wrapErr("failed to begin transaction", err)
		}
		defer tx.Rollback()

		if err := fn(&rideStore{db: tx}); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return wrapErr("failed to commit transaction", err)
		}
		return nil
	})
}

// GetRide retrieves a ride by ID
func (r *RideRepo) GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	return r.store().GetRide(ctx, rideID)
}

// GetBooking retrieves a booking by ID
func (r *RideRepo) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	return r.store().GetBooking(ctx, bookingID)
}

// ListBookingsByRide returns every booking of a ride, oldest first
func (r *RideRepo) ListBookingsByRide(ctx context.Context, rideID uuid.UUID) ([]*models.Booking, error) {
	return r.store().listBookings(ctx, rideID, false)
}

// RatingExists reports whether rater has already rated the booking
func (r *RideRepo) RatingExists(ctx context.Context, bookingID, raterID uuid.UUID) (bool, error) {
	return r.store().RatingExists(ctx, bookingID, raterID)
}

// ListRatingsByRatee returns the ratings a user has received, newest first
func (r *RideRepo) ListRatingsByRatee(ctx context.Context, rateeID uuid.UUID) ([]*models.Rating, error) {
	return r.store().ListRatingsByRatee(ctx, rateeID)
}

func (r *RideRepo) store() *rideStore {
	return &rideStore{db: r.db}
}

// rideStore runs queries against either the pool or an open transaction
type rideStore struct {
	db sqlx.ExtContext
}

// CreateRide inserts a new ride
func (s *rideStore) CreateRide(ctx context.Context, ride *models.Ride) error {
	dto := ride.ToDTO()
	query := `
		INSERT INTO rides (` + rideColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`

	_, err := s.db.ExecContext(ctx, query,
		dto.ID, dto.DriverID, dto.VehicleID,
		dto.OriginAddress, dto.OriginLatitude, dto.OriginLongitude,
		dto.DestinationAddress, dto.DestinationLatitude, dto.DestinationLongitude,
		dto.Waypoints, dto.DepartureTime, dto.TotalSeats, dto.CommittedSeats, dto.Status,
		dto.AutoAcceptBookings, dto.PricePerSeat, dto.AllowsPets, dto.AllowsSmoking, dto.AllowsLuggage,
		dto.CancellationReason, dto.CreatedAt, dto.UpdatedAt, dto.StartedAt, dto.CompletedAt, dto.CancelledAt,
	)
	if err != nil {
		return wrapErr("failed to create ride", err)
	}
	return nil
}

// GetRide retrieves a ride without locking it
func (s *rideStore) GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	return s.getRide(ctx, rideID, false)
}

// GetRideForUpdate retrieves a ride and locks its row for the rest of the transaction
func (s *rideStore) GetRideForUpdate(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	return s.getRide(ctx, rideID, true)
}

func (s *rideStore) getRide(ctx context.Context, rideID uuid.UUID, forUpdate bool) (*models.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var dto models.RideDTO
	if err := sqlx.GetContext(ctx, s.db, &dto, query, rideID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ride %s: %w", rideID, rides.ErrNotFound)
		}
		return nil, wrapErr("failed to get ride", err)
	}
	return dto.ToRide(), nil
}

// UpdateRideStatus moves a ride from status `from` to ride.Status, writing its
// lifecycle timestamps. It fails with ErrInvalidStateTransition when the
// stored status is no longer `from`.
func (s *rideStore) UpdateRideStatus(ctx context.Context, ride *models.Ride, from models.RideStatus) error {
	query := `
		UPDATE rides
		SET status = $1,
			cancellation_reason = $2,
			started_at = $3,
			completed_at = $4,
			cancelled_at = $5,
			updated_at = $6
		WHERE id = $7 AND status = $8
	`

	result, err := s.db.ExecContext(ctx, query,
		ride.Status,
		ride.CancellationReason,
		ride.StartedAt,
		ride.CompletedAt,
		ride.CancelledAt,
		ride.UpdatedAt,
		ride.ID,
		from,
	)
	if err != nil {
		return wrapErr("failed to update ride status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapErr("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("ride %s is no longer %s: %w", ride.ID, from, rides.ErrInvalidStateTransition)
	}
	return nil
}
