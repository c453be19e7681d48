package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/logger"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/services/rides"
)

// CreateBooking requests seats on a scheduled ride. On auto-accept rides the
// booking is admitted immediately and is created either accepted or rejected.
func (uc *RideUC) CreateBooking(ctx context.Context, actor models.Actor, rideID uuid.UUID, req models.CreateBookingRequest) (*models.Booking, error) {
	if actor.Role != models.RolePassenger {
		return nil, fmt.Errorf("only passengers can book seats: %w", rides.ErrNotAuthorized)
	}
	if req.SeatsRequested < 1 {
		return nil, fmt.Errorf("seats requested must be at least 1: %w", rides.ErrInvalidRequest)
	}

	var booking *models.Booking
	var events []models.LifecycleEvent

	err := uc.rideRepo.WithinTx(ctx, func(store rides.RideStore) error {
		ride, err := store.GetRideForUpdate(ctx, rideID)
		if err != nil {
			return err
		}
		if ride.DriverID == actor.ID {
			return fmt.Errorf("driver cannot book their own ride: %w", rides.ErrNotAuthorized)
		}
		if ride.Status != models.RideStatusScheduled {
			return fmt.Errorf("cannot book ride in status %s: %w", ride.Status, rides.ErrInvalidStateTransition)
		}
		if req.SeatsRequested > ride.TotalSeats {
			return fmt.Errorf("ride has only %d seats: %w", ride.TotalSeats, rides.ErrInvalidRequest)
		}

		active, err := store.HasActiveBooking(ctx, rideID, actor.ID)
		if err != nil {
			return err
		}
		if active {
			return fmt.Errorf("passenger %s already holds a booking on ride %s: %w", actor.ID, rideID, rides.ErrDuplicateBooking)
		}

		now := uc.now()
		booking = &models.Booking{
			ID:               uuid.New(),
			RideID:           rideID,
			PassengerID:      actor.ID,
			SeatsRequested:   req.SeatsRequested,
			Status:           models.BookingStatusPending,
			PickupLocation:   strings.TrimSpace(req.PickupLocation),
			DropoffLocation:  strings.TrimSpace(req.DropoffLocation),
			PassengerMessage: req.PassengerMessage,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		eventType := models.EventBookingRequested
		if ride.AutoAcceptBookings {
			outcome, err := uc.admission.Admit(ctx, store, booking)
			if err != nil {
				return err
			}
			if outcome == AdmissionAccepted {
				booking.Status = models.BookingStatusAccepted
				booking.AcceptedAt = models.TimePtr(now)
				eventType = models.EventBookingAccepted
			} else {
				booking.Status = models.BookingStatusRejected
				booking.RejectionReason = models.RejectionInsufficientSeats
				eventType = models.EventBookingRejected
			}
		}

		if err := store.CreateBooking(ctx, booking); err != nil {
			return err
		}
		events = append(events, uc.bookingEvent(eventType, ride, booking, actor.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, rideID, events)
	logger.InfoCtx(ctx, "Booking created",
		logger.String("booking_id", booking.ID.String()),
		logger.String("ride_id", rideID.String()),
		logger.String("status", string(booking.Status)),
		logger.Int("seats_requested", booking.SeatsRequested))
	return booking, nil
}

// GetBooking returns a booking to its passenger, the ride's driver or an admin
func (uc *RideUC) GetBooking(ctx context.Context, actor models.Actor, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := uc.rideRepo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.ID == booking.PassengerID || actor.IsAdmin() {
		return booking, nil
	}

	ride, err := uc.rideRepo.GetRide(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}
	if actor.ID != ride.DriverID {
		return nil, fmt.Errorf("actor %s cannot view booking %s: %w", actor.ID, bookingID, rides.ErrNotAuthorized)
	}
	return booking, nil
}

// AcceptBooking lets the driver admit a pending booking. When the seats do
// not fit the booking stays pending and ErrInsufficientSeats is returned.
func (uc *RideUC) AcceptBooking(ctx context.Context, actor models.Actor, bookingID uuid.UUID, response string) (*models.Booking, error) {
	var booking *models.Booking
	var ride *models.Ride
	var events []models.LifecycleEvent

	err := uc.rideRepo.WithinTx(ctx, func(store rides.RideStore) error {
		var err error
		ride, booking, err = uc.lockRideAndBooking(ctx, store, bookingID)
		if err != nil {
			return err
		}
		if actor.ID != ride.DriverID {
			return fmt.Errorf("actor %s does not drive ride %s: %w", actor.ID, ride.ID, rides.ErrNotAuthorized)
		}
		if booking.Status != models.BookingStatusPending {
			return fmt.Errorf("cannot accept booking in status %s: %w", booking.Status, rides.ErrInvalidStateTransition)
		}
		if ride.Status != models.RideStatusScheduled {
			return fmt.Errorf("cannot accept booking on ride in status %s: %w", ride.Status, rides.ErrInvalidStateTransition)
		}

		outcome, err := uc.admission.Admit(ctx, store, booking)
		if err != nil {
			return err
		}
		if outcome == AdmissionRejected {
			return fmt.Errorf("ride %s cannot fit %d more seats: %w", ride.ID, booking.SeatsRequested, rides.ErrInsufficientSeats)
		}

		now := uc.now()
		booking.Status = models.BookingStatusAccepted
		booking.DriverResponse = response
		booking.AcceptedAt = models.TimePtr(now)
		booking.UpdatedAt = now
		if err := store.UpdateBookingStatus(ctx, booking, models.BookingStatusPending); err != nil {
			return err
		}

		events = append(events, uc.bookingEvent(models.EventBookingAccepted, ride, booking, actor.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, ride.ID, events)
	logger.InfoCtx(ctx, "Booking accepted",
		logger.String("booking_id", bookingID.String()),
		logger.String("ride_id", ride.ID.String()))
	return booking, nil
}

// RejectBooking lets the driver decline a pending booking. No seats move.
func (uc *RideUC) RejectBooking(ctx context.Context, actor models.Actor, bookingID uuid.UUID, response string) (*models.Booking, error) {
	var booking *models.Booking
	var ride *models.Ride
	var events []models.LifecycleEvent

	err := uc.rideRepo.WithinTx(ctx, func(store rides.RideStore) error {
		var err error
		booking, err = store.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		ride, err = store.GetRide(ctx, booking.RideID)
		if err != nil {
			return err
		}
		if actor.ID != ride.DriverID {
			return fmt.Errorf("actor %s does not drive ride %s: %w", actor.ID, ride.ID, rides.ErrNotAuthorized)
		}
		if booking.Status != models.BookingStatusPending {
			return fmt.Errorf("cannot reject booking in status %s: %w", booking.Status, rides.ErrInvalidStateTransition)
		}

		booking.Status = models.BookingStatusRejected
		booking.RejectionReason = models.RejectionDriverRejected
		booking.DriverResponse = response
		booking.UpdatedAt = uc.now()
		if err := store.UpdateBookingStatus(ctx, booking, models.BookingStatusPending); err != nil {
			return err
		}

		events = append(events, uc.bookingEvent(models.EventBookingRejected, ride, booking, actor.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, ride.ID, events)
	logger.InfoCtx(ctx, "Booking rejected",
		logger.String("booking_id", bookingID.String()),
		logger.String("ride_id", ride.ID.String()))
	return booking, nil
}

// CancelBooking withdraws the passenger from a ride that has not started.
// Seats held by an accepted booking return to the ride.
func (uc *RideUC) CancelBooking(ctx context.Context, actor models.Actor, bookingID uuid.UUID) (*models.Booking, error) {
	var booking *models.Booking
	var ride *models.Ride
	var events []models.LifecycleEvent
	var released bool

	err := uc.rideRepo.WithinTx(ctx, func(store rides.RideStore) error {
		var err error
		ride, booking, err = uc.lockRideAndBooking(ctx, store, bookingID)
		if err != nil {
			return err
		}
		if actor.ID != booking.PassengerID && !actor.IsAdmin() {
			return fmt.Errorf("actor %s cannot cancel booking %s: %w", actor.ID, bookingID, rides.ErrNotAuthorized)
		}
		if !booking.Status.IsActive() {
			return fmt.Errorf("cannot cancel booking in status %s: %w", booking.Status, rides.ErrInvalidStateTransition)
		}
		if ride.Status != models.RideStatusScheduled {
			return fmt.Errorf("cannot cancel booking once ride is %s: %w", ride.Status, rides.ErrInvalidStateTransition)
		}

		released, err = uc.cancelBooking(ctx, store, booking, uc.now())
		if err != nil {
			return err
		}

		events = append(events, uc.bookingEvent(models.EventBookingCancelled, ride, booking, actor.ID))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, ride.ID, events)
	logger.InfoCtx(ctx, "Booking cancelled",
		logger.String("booking_id", bookingID.String()),
		logger.String("ride_id", ride.ID.String()),
		logger.Bool("seats_released", released))
	return booking, nil
}

// cancelBooking withdraws the booking's seats if it held any and moves it to
// cancelled. The caller must hold the ride and booking locks.
func (uc *RideUC) cancelBooking(ctx context.Context, store rides.RideStore, booking *models.Booking, at time.Time) (bool, error) {
	from := booking.Status

	released, err := uc.admission.Withdraw(ctx, store, booking)
	if err != nil {
		return false, err
	}

	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = models.TimePtr(at)
	booking.UpdatedAt = at
	if err := store.UpdateBookingStatus(ctx, booking, from); err != nil {
		return false, err
	}
	return released, nil
}

// lockRideAndBooking locks a booking's ride before the booking itself so
// that every seat-changing transaction takes locks in the same order.
func (uc *RideUC) lockRideAndBooking(ctx context.Context, store rides.RideStore, bookingID uuid.UUID) (*models.Ride, *models.Booking, error) {
	unlocked, err := store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	ride, err := store.GetRideForUpdate(ctx, unlocked.RideID)
	if err != nil {
		return nil, nil, err
	}
	booking, err := store.GetBookingForUpdate(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	return ride, booking, nil
}
