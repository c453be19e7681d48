package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/constants"
)

// EventType names a lifecycle transition; it doubles as the NATS subject
type EventType string

const (
	EventRideStarted      EventType = constants.SubjectRideStarted
	EventRideCompleted    EventType = constants.SubjectRideCompleted
	EventRideCancelled    EventType = constants.SubjectRideCancelled
	EventBookingRequested EventType = constants.SubjectBookingRequested
	EventBookingAccepted  EventType = constants.SubjectBookingAccepted
	EventBookingRejected  EventType = constants.SubjectBookingRejected
	EventBookingCancelled EventType = constants.SubjectBookingCancelled
	EventBookingCompleted EventType = constants.SubjectBookingCompleted
	EventRatingSubmitted  EventType = constants.SubjectRatingSubmitted
)

// LifecycleEvent is published after a committed transition so that
// participants can be notified. Delivery is best-effort.
type LifecycleEvent struct {
	ID         uuid.UUID   `json:"event_id"`
	Type       EventType   `json:"type"`
	RideID     uuid.UUID   `json:"ride_id"`
	BookingID  *uuid.UUID  `json:"booking_id,omitempty"`
	ActorID    uuid.UUID   `json:"actor_id"`
	Recipients []uuid.UUID `json:"recipients"`
	Status     string      `json:"status"`
	Reason     string      `json:"reason,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
