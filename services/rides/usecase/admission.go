package usecase

import (
	"context"
	"errors"

	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/internal/pkg/observability"
	"github.com/piresc/tebengan/services/rides"
)

// AdmissionOutcome is the result of asking the inventory for a booking's seats
type AdmissionOutcome string

const (
	AdmissionAccepted AdmissionOutcome = "accepted"
	AdmissionRejected AdmissionOutcome = "rejected"
)

// AdmissionController is the only path through which bookings take or
// return seats. It never changes booking status itself.
type AdmissionController struct{}

func NewAdmissionController() *AdmissionController {
	return &AdmissionController{}
}

// Admit reserves the booking's seats. Running out of seats is an outcome,
// not an error; errors are reserved for store failures.
func (a *AdmissionController) Admit(ctx context.Context, inventory rides.SeatInventory, booking *models.Booking) (AdmissionOutcome, error) {
	err := inventory.TryReserve(ctx, booking.RideID, booking.SeatsRequested)
	switch {
	case err == nil:
		observability.SeatAdmissions.WithLabelValues(string(AdmissionAccepted)).Inc()
		return AdmissionAccepted, nil
	case errors.Is(err, rides.ErrInsufficientSeats):
		observability.SeatAdmissions.WithLabelValues(string(AdmissionRejected)).Inc()
		return AdmissionRejected, nil
	default:
		return "", err
	}
}

// Withdraw returns the seats of an accepted booking to the inventory. For
// any other status it does nothing, so withdrawing twice is harmless as
// long as the caller moves the booking out of accepted in the same transaction.
func (a *AdmissionController) Withdraw(ctx context.Context, inventory rides.SeatInventory, booking *models.Booking) (bool, error) {
	if booking.Status != models.BookingStatusAccepted {
		return false, nil
	}

	if err := inventory.Release(ctx, booking.RideID, booking.SeatsRequested); err != nil {
		return false, err
	}
	observability.SeatsReleased.Add(float64(booking.SeatsRequested))
	return true, nil
}
