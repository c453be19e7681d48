package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/services/rides"
)

// TryReserve adds seats to the ride's committed count in a single
// conditional update. Postgres holds the row lock until the transaction
// ends, so concurrent reservations on the same ride are serialized.
// A missing ride is reported as ErrNotFound, not as a capacity failure.
func (s *rideStore) TryReserve(ctx context.Context, rideID uuid.UUID, seats int) error {
	if seats <= 0 {
		return fmt.Errorf("cannot reserve %d seats: %w", seats, rides.ErrInvalidRequest)
	}

	query := `
		UPDATE rides
		SET committed_seats = committed_seats + $1, updated_at = $2
		WHERE id = $3 AND committed_seats + $1 <= total_seats
	`

	result, err := s.db.ExecContext(ctx, query, seats, models.Now(), rideID)
	if err != nil {
		return wrapErr("failed to reserve seats", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapErr("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		if _, err := s.CommittedSeats(ctx, rideID); err != nil {
			return err
		}
		return fmt.Errorf("ride %s cannot fit %d more seats: %w", rideID, seats, rides.ErrInsufficientSeats)
	}
	return nil
}

// Release returns seats previously reserved on the ride
func (s *rideStore) Release(ctx context.Context, rideID uuid.UUID, seats int) error {
	if seats <= 0 {
		return fmt.Errorf("cannot release %d seats: %w", seats, rides.ErrInvalidRequest)
	}

	query := `
		UPDATE rides
		SET committed_seats = committed_seats - $1, updated_at = $2
		WHERE id = $3 AND committed_seats >= $1
	`

	result, err := s.db.ExecContext(ctx, query, seats, models.Now(), rideID)
	if err != nil {
		return wrapErr("failed to release seats", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return wrapErr("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("ride %s has fewer than %d committed seats to release", rideID, seats)
	}
	return nil
}

// CommittedSeats returns the ride's current committed count
func (s *rideStore) CommittedSeats(ctx context.Context, rideID uuid.UUID) (int, error) {
	var committed int
	err := sqlx.GetContext(ctx, s.db, &committed, `SELECT committed_seats FROM rides WHERE id = $1`, rideID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("ride %s: %w", rideID, rides.ErrNotFound)
		}
		return 0, wrapErr("failed to get committed seats", err)
	}
	return committed, nil
}
