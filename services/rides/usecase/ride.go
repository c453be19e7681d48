package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/logger"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/internal/pkg/observability"
	"github.com/piresc/tebengan/services/rides"
)

// CreateRide offers a new scheduled ride on behalf of the driver
func (uc *RideUC) CreateRide(ctx context.Context, actor models.Actor, req models.CreateRideRequest) (*models.Ride, error) {
	if actor.Role != models.RoleDriver {
		return nil, fmt.Errorf("only drivers can offer rides: %w", rides.ErrNotAuthorized)
	}
	if err := uc.validateRideRequest(req); err != nil {
		return nil, err
	}

	now := uc.now()
	ride := &models.Ride{
		ID:                 uuid.New(),
		DriverID:           actor.ID,
		VehicleID:          req.VehicleID,
		Origin:             req.Origin,
		Destination:        req.Destination,
		Waypoints:          req.Waypoints,
		DepartureTime:      req.DepartureTime.UTC(),
		TotalSeats:         req.TotalSeats,
		CommittedSeats:     0,
		Status:             models.RideStatusScheduled,
		AutoAcceptBookings: req.AutoAcceptBookings,
		PricePerSeat:       req.PricePerSeat,
		AllowsPets:         req.AllowsPets,
		AllowsSmoking:      req.AllowsSmoking,
		AllowsLuggage:      req.AllowsLuggage,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := uc.rideRepo.WithinTx(ctx, func(store rides.RideStore) error {
		return store.CreateRide(ctx, ride)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Ride created",
		logger.String("ride_id", ride.ID.String()),
		logger.String("driver_id", ride.DriverID.String()),
		logger.Int("total_seats", ride.TotalSeats))
	return ride, nil
}

func (uc *RideUC) validateRideRequest(req models.CreateRideRequest) error {
	switch {
	case req.TotalSeats < 1:
		return fmt.Errorf("total seats must be at least 1: %w", rides.ErrInvalidRequest)
	case uc.cfg.Rides.MaxSeatsPerRide > 0 && req.TotalSeats > uc.cfg.Rides.MaxSeatsPerRide:
		return fmt.Errorf("total seats must not exceed %d: %w", uc.cfg.Rides.MaxSeatsPerRide, rides.ErrInvalidRequest)
	case req.PricePerSeat < 0:
		return fmt.Errorf("price per seat must not be negative: %w", rides.ErrInvalidRequest)
	case strings.TrimSpace(req.Origin.Address) == "" || strings.TrimSpace(req.Destination.Address) == "":
		return fmt.Errorf("origin and destination are required: %w", rides.ErrInvalidRequest)
	case req.DepartureTime.IsZero():
		return fmt.Errorf("departure time is required: %w", rides.ErrInvalidRequest)
	}
	return nil
}

// GetRide returns the latest committed state of a ride
func (uc *RideUC) GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	return uc.rideRepo.GetRide(ctx, rideID)
}

// GetAvailability serves seat counts from the cache when possible and
// falls back to the store on a miss or cache error. The store result is
// written back only on a clean miss, conditioned on the ride's cache
// generation so that a commit landing during the read wins.
func (uc *RideUC) GetAvailability(ctx context.Context, rideID uuid.UUID) (*models.RideAvailability, error) {
	writeBack := false
	var generation int64
	if uc.cache != nil {
		cached, gen, err := uc.cache.GetAvailability(ctx, rideID)
		switch {
		case err != nil:
			observability.CacheLookups.WithLabelValues("error").Inc()
			logger.WarnCtx(ctx, "Failed to read availability cache",
				logger.String("ride_id", rideID.String()),
				logger.Err(err))
		case cached != nil:
			observability.CacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			observability.CacheLookups.WithLabelValues("miss").Inc()
			writeBack = true
			generation = gen
		}
	}

	ride, err := uc.rideRepo.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	availability := ride.Availability()
	if writeBack {
		if err := uc.cache.SetAvailability(ctx, availability, generation); err != nil {
			logger.WarnCtx(ctx, "Failed to write availability cache",
				logger.String("ride_id", rideID.String()),
				logger.Err(err))
		}
	}
	return availability, nil
}

// ListRideBookings returns every booking on the ride to its driver or an admin
func (uc *RideUC) ListRideBookings(ctx context.Context, actor models.Actor, rideID uuid.UUID) ([]*models.Booking, error) {
	ride, err := uc.rideRepo.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if actor.ID != ride.DriverID && !actor.IsAdmin() {
		return nil, fmt.Errorf("actor %s cannot view bookings of ride %s: %w", actor.ID, rideID, rides.ErrNotAuthorized)
	}

	return uc.rideRepo.ListBookingsByRide(ctx, rideID)
}

// StartRide moves a scheduled ride to in_progress
func (uc *RideUC) StartRide(ctx context.Context, actor models.Actor, rideID uuid.UUID) (*models.Ride, error) {
	var ride *models.Ride
	var events []models.LifecycleEvent

	err := uc.rideRepo.WithinTx(ctx, func(store rides.RideStore) error {
		var err error
		ride, err = uc.lockDriverRide(ctx, store, actor, rideID)
		if err != nil {
			return err
		}
		if ride.Status != models.RideStatusScheduled {
			return fmt.Errorf("cannot start ride in status %s: %w", ride.Status, rides.ErrInvalidStateTransition)
		}

		accepted, err := store.ListBookingsByRideForUpdate(ctx, rideID, models.BookingStatusAccepted)
		if err != nil {
			return err
		}

		now := uc.now()
		ride.Status = models.RideStatusInProgress
		ride.StartedAt = models.TimePtr(now)
		ride.UpdatedAt = now
		if err := store.UpdateRideStatus(ctx, ride, models.RideStatusScheduled); err != nil {
			return err
		}

		recipients := append([]uuid.UUID{ride.DriverID}, passengerIDs(accepted)...)
		events = append(events, uc.rideEvent(models.EventRideStarted, ride, actor.ID, recipients))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, rideID, events)
	logger.InfoCtx(ctx, "Ride started", logger.String("ride_id", rideID.String()))
	return ride, nil
}

// CompleteRide finishes an in_progress ride. Accepted bookings complete
// with it and bookings still pending are cancelled.
func (uc *RideUC) CompleteRide(ctx context.Context, actor models.Actor, rideID uuid.UUID) (*models.Ride, error) {
	var ride *models.Ride
	var events []models.LifecycleEvent

	err := uc.rideRepo.WithinTx(ctx, func(store rides.RideStore) error {
		var err error
		ride, err = uc.lockDriverRide(ctx, store, actor, rideID)
		if err != nil {
			return err
		}
		if ride.Status != models.RideStatusInProgress {
			return fmt.Errorf("cannot complete ride in status %s: %w", ride.Status, rides.ErrInvalidStateTransition)
		}

		bookings, err := store.ListBookingsByRideForUpdate(ctx, rideID, models.BookingStatusPending, models.BookingStatusAccepted)
		if err != nil {
			return err
		}

		now := uc.now()
		ride.Status = models.RideStatusCompleted
		ride.CompletedAt = models.TimePtr(now)
		ride.UpdatedAt = now
		if err := store.UpdateRideStatus(ctx, ride, models.RideStatusInProgress); err != nil {
			return err
		}

		var passengers []uuid.UUID
		for _, booking := range bookings {
			from := booking.Status
			eventType := models.EventBookingCancelled
			if from == models.BookingStatusAccepted {
				booking.Status = models.BookingStatusCompleted
				booking.CompletedAt = models.TimePtr(now)
				eventType = models.EventBookingCompleted
				passengers = append(passengers, booking.PassengerID)
			} else {
				booking.Status = models.BookingStatusCancelled
				booking.CancelledAt = models.TimePtr(now)
			}
			booking.UpdatedAt = now

			if err := store.UpdateBookingStatus(ctx, booking, from); err != nil {
				return err
			}
			events = append(events, uc.bookingEvent(eventType, ride, booking, actor.ID))
		}

		recipients := append([]uuid.UUID{ride.DriverID}, passengers...)
		events = append([]models.LifecycleEvent{uc.rideEvent(models.EventRideCompleted, ride, actor.ID, recipients)}, events...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, rideID, events)
	logger.InfoCtx(ctx, "Ride completed",
		logger.String("ride_id", rideID.String()),
		logger.Int("bookings_closed", len(events)-1))
	return ride, nil
}

// CancelRide cancels a scheduled or in_progress ride together with every
// pending and accepted booking on it, returning accepted seats to inventory.
func (uc *RideUC) CancelRide(ctx context.Context, actor models.Actor, rideID uuid.UUID, reason string) (*models.Ride, error) {
	var ride *models.Ride
	var events []models.LifecycleEvent

	err := uc.rideRepo.WithinTx(ctx, func(store rides.RideStore) error {
		var err error
		ride, err = uc.lockDriverRide(ctx, store, actor, rideID)
		if err != nil {
			return err
		}
		if ride.Status.IsTerminal() {
			return fmt.Errorf("cannot cancel ride in status %s: %w", ride.Status, rides.ErrInvalidStateTransition)
		}

		bookings, err := store.ListBookingsByRideForUpdate(ctx, rideID, models.BookingStatusPending, models.BookingStatusAccepted)
		if err != nil {
			return err
		}

		now := uc.now()
		from := ride.Status
		ride.Status = models.RideStatusCancelled
		ride.CancellationReason = strings.TrimSpace(reason)
		ride.CancelledAt = models.TimePtr(now)
		ride.UpdatedAt = now
		if err := store.UpdateRideStatus(ctx, ride, from); err != nil {
			return err
		}

		events = append(events, uc.rideEvent(models.EventRideCancelled, ride, actor.ID,
			append([]uuid.UUID{ride.DriverID}, passengerIDs(bookings)...)))

		for _, booking := range bookings {
			seats := booking.SeatsRequested
			released, err := uc.cancelBooking(ctx, store, booking, now)
			if err != nil {
				return err
			}
			if released {
				ride.CommittedSeats -= seats
			}
			events = append(events, uc.bookingEvent(models.EventBookingCancelled, ride, booking, actor.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, rideID, events)
	logger.InfoCtx(ctx, "Ride cancelled",
		logger.String("ride_id", rideID.String()),
		logger.Int("bookings_cancelled", len(events)-1))
	return ride, nil
}

// lockDriverRide locks the ride and checks that the actor drives it
func (uc *RideUC) lockDriverRide(ctx context.Context, store rides.RideStore, actor models.Actor, rideID uuid.UUID) (*models.Ride, error) {
	ride, err := store.GetRideForUpdate(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if actor.ID != ride.DriverID {
		return nil, fmt.Errorf("actor %s does not drive ride %s: %w", actor.ID, rideID, rides.ErrNotAuthorized)
	}
	return ride, nil
}
