package repository

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
	"github.com/piresc/tebengan/services/rides"
)

const (
	constraintActiveBooking = "bookings_active_passenger_idx"
	constraintRatingOnce    = "ratings_booking_id_rater_id_key"
	constraintSeatBounds    = "rides_committed_seats_check"
)

// wrapErr maps driver errors onto engine errors where the caller can act on
// them and annotates everything else with op.
func wrapErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == constraintActiveBooking:
			return fmt.Errorf("%s: %w", op, rides.ErrDuplicateBooking)
		case pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == constraintRatingOnce:
			return fmt.Errorf("%s: %w", op, rides.ErrAlreadyRated)
		case pqErr.Code.Name() == "check_violation" && pqErr.Constraint == constraintSeatBounds:
			return fmt.Errorf("%s: %w", op, rides.ErrInsufficientSeats)
		}
	}

	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, rides.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUnavailable reports whether err means the store could not serve the
// request and a retry may succeed.
func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53": // connection exception, insufficient resources
			return true
		}
		switch pqErr.Code.Name() {
		case "serialization_failure", "deadlock_detected", "admin_shutdown", "crash_shutdown", "cannot_connect_now":
			return true
		}
	}
	return false
}
