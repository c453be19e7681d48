package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/logger"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/internal/pkg/observability"
)

func (uc *RideUC) rideEvent(eventType models.EventType, ride *models.Ride, actorID uuid.UUID, recipients []uuid.UUID) models.LifecycleEvent {
	return models.LifecycleEvent{
		ID:         uuid.New(),
		Type:       eventType,
		RideID:     ride.ID,
		ActorID:    actorID,
		Recipients: recipients,
		Status:     string(ride.Status),
		Reason:     ride.CancellationReason,
		OccurredAt: ride.UpdatedAt,
	}
}

func (uc *RideUC) bookingEvent(eventType models.EventType, ride *models.Ride, booking *models.Booking, actorID uuid.UUID) models.LifecycleEvent {
	bookingID := booking.ID
	return models.LifecycleEvent{
		ID:         uuid.New(),
		Type:       eventType,
		RideID:     ride.ID,
		BookingID:  &bookingID,
		ActorID:    actorID,
		Recipients: []uuid.UUID{ride.DriverID, booking.PassengerID},
		Status:     string(booking.Status),
		Reason:     booking.RejectionReason,
		OccurredAt: booking.UpdatedAt,
	}
}

// afterCommit drops the ride's cached availability and queues the events of
// a committed transaction for publishing. Neither step can fail the
// operation and neither waits on the broker.
func (uc *RideUC) afterCommit(ctx context.Context, rideID uuid.UUID, events []models.LifecycleEvent) {
	uc.invalidateAvailability(ctx, rideID)

	for _, event := range events {
		observability.LifecycleEvents.WithLabelValues(string(event.Type)).Inc()
		if uc.dispatcher == nil {
			continue
		}

		if !uc.dispatcher.enqueue(ctx, event) {
			observability.NotificationFailures.WithLabelValues(string(event.Type)).Inc()
			logger.WarnCtx(ctx, "Dropped lifecycle event, notification queue unavailable",
				logger.String("event_type", string(event.Type)),
				logger.String("event_id", event.ID.String()),
				logger.String("ride_id", event.RideID.String()))
		}
	}
}

func (uc *RideUC) invalidateAvailability(ctx context.Context, rideID uuid.UUID) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateAvailability(ctx, rideID); err != nil {
		logger.WarnCtx(ctx, "Failed to invalidate availability cache",
			logger.String("ride_id", rideID.String()),
			logger.Err(err))
	}
}

func passengerIDs(bookings []*models.Booking) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(bookings))
	for _, booking := range bookings {
		ids = append(ids, booking.PassengerID)
	}
	return ids
}
