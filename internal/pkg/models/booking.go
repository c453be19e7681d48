package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsActive reports whether the booking still participates in the ride
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusAccepted
}

// IsTerminal reports whether no further transition is allowed from s
func (s BookingStatus) IsTerminal() bool {
	return !s.IsActive()
}

// Reasons recorded on rejected bookings
const (
	RejectionInsufficientSeats = "insufficient_seats"
	RejectionDriverRejected    = "driver_rejected"
)

// Booking is a passenger's request for seats on a ride
type Booking struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	RideID           uuid.UUID     `json:"ride_id" db:"ride_id"`
	PassengerID      uuid.UUID     `json:"passenger_id" db:"passenger_id"`
	SeatsRequested   int           `json:"seats_requested" db:"seats_requested"`
	Status           BookingStatus `json:"status" db:"status"`
	PickupLocation   string        `json:"pickup_location,omitempty" db:"pickup_location"`
	DropoffLocation  string        `json:"dropoff_location,omitempty" db:"dropoff_location"`
	PassengerMessage string        `json:"passenger_message,omitempty" db:"passenger_message"`
	DriverResponse   string        `json:"driver_response,omitempty" db:"driver_response"`
	RejectionReason  string        `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
	AcceptedAt       *time.Time    `json:"accepted_at,omitempty" db:"accepted_at"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
}

// CreateBookingRequest is the payload for requesting seats on a ride
type CreateBookingRequest struct {
	SeatsRequested   int    `json:"seats_requested"`
	PickupLocation   string `json:"pickup_location"`
	DropoffLocation  string `json:"dropoff_location"`
	PassengerMessage string `json:"passenger_message"`
}

// BookingDecisionRequest carries the driver's note when accepting or rejecting
type BookingDecisionRequest struct {
	Response string `json:"response"`
}
