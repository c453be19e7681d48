package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RideStatus represents the lifecycle state of a ride
type RideStatus string

const (
	RideStatusScheduled  RideStatus = "scheduled"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from s
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// Ride is a driver's offer of seats on a route at a departure time.
// CommittedSeats is the number of seats held by accepted bookings and is
// only changed through the seat inventory.
type Ride struct {
	ID                 uuid.UUID  `json:"id"`
	DriverID           uuid.UUID  `json:"driver_id"`
	VehicleID          uuid.UUID  `json:"vehicle_id"`
	Origin             Location   `json:"origin"`
	Destination        Location   `json:"destination"`
	Waypoints          []string   `json:"waypoints,omitempty"`
	DepartureTime      time.Time  `json:"departure_time"`
	TotalSeats         int        `json:"total_seats"`
	CommittedSeats     int        `json:"committed_seats"`
	Status             RideStatus `json:"status"`
	AutoAcceptBookings bool       `json:"auto_accept_bookings"`
	PricePerSeat       int64      `json:"price_per_seat"`
	AllowsPets         bool       `json:"allows_pets"`
	AllowsSmoking      bool       `json:"allows_smoking"`
	AllowsLuggage      bool       `json:"allows_luggage"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
}

// AvailableSeats returns the seats still open for admission
func (r *Ride) AvailableSeats() int {
	return r.TotalSeats - r.CommittedSeats
}

// Availability returns a snapshot of the ride's seat counts
func (r *Ride) Availability() *RideAvailability {
	return &RideAvailability{
		RideID:         r.ID,
		TotalSeats:     r.TotalSeats,
		CommittedSeats: r.CommittedSeats,
		AvailableSeats: r.AvailableSeats(),
		Status:         r.Status,
	}
}

// RideDTO is the flattened database representation of a Ride
type RideDTO struct {
	ID                   uuid.UUID      `db:"id"`
	DriverID             uuid.UUID      `db:"driver_id"`
	VehicleID            uuid.UUID      `db:"vehicle_id"`
	OriginAddress        string         `db:"origin_address"`
	OriginLatitude       float64        `db:"origin_latitude"`
	OriginLongitude      float64        `db:"origin_longitude"`
	DestinationAddress   string         `db:"destination_address"`
	DestinationLatitude  float64        `db:"destination_latitude"`
	DestinationLongitude float64        `db:"destination_longitude"`
	Waypoints            pq.StringArray `db:"waypoints"`
	DepartureTime        time.Time      `db:"departure_time"`
	TotalSeats           int            `db:"total_seats"`
	CommittedSeats       int            `db:"committed_seats"`
	Status               RideStatus     `db:"status"`
	AutoAcceptBookings   bool           `db:"auto_accept_bookings"`
	PricePerSeat         int64          `db:"price_per_seat"`
	AllowsPets           bool           `db:"allows_pets"`
	AllowsSmoking        bool           `db:"allows_smoking"`
	AllowsLuggage        bool           `db:"allows_luggage"`
	CancellationReason   string         `db:"cancellation_reason"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
	StartedAt            *time.Time     `db:"started_at"`
	CompletedAt          *time.Time     `db:"completed_at"`
	CancelledAt          *time.Time     `db:"cancelled_at"`
}

// ToDTO converts a Ride to its database representation
func (r *Ride) ToDTO() *RideDTO {
	return &RideDTO{
		ID:                   r.ID,
		DriverID:             r.DriverID,
		VehicleID:            r.VehicleID,
		OriginAddress:        r.Origin.Address,
		OriginLatitude:       r.Origin.Latitude,
		OriginLongitude:      r.Origin.Longitude,
		DestinationAddress:   r.Destination.Address,
		DestinationLatitude:  r.Destination.Latitude,
		DestinationLongitude: r.Destination.Longitude,
		Waypoints:            pq.StringArray(r.Waypoints),
		DepartureTime:        r.DepartureTime,
		TotalSeats:           r.TotalSeats,
		CommittedSeats:       r.CommittedSeats,
		Status:               r.Status,
		AutoAcceptBookings:   r.AutoAcceptBookings,
		PricePerSeat:         r.PricePerSeat,
		AllowsPets:           r.AllowsPets,
		AllowsSmoking:        r.AllowsSmoking,
		AllowsLuggage:        r.AllowsLuggage,
		CancellationReason:   r.CancellationReason,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
		StartedAt:            r.StartedAt,
		CompletedAt:          r.CompletedAt,
		CancelledAt:          r.CancelledAt,
	}
}

// ToRide converts the database representation back to a Ride
func (d *RideDTO) ToRide() *Ride {
	return &Ride{
		ID:        d.ID,
		DriverID:  d.DriverID,
		VehicleID: d.VehicleID,
		Origin: Location{
			Address:   d.OriginAddress,
			Latitude:  d.OriginLatitude,
			Longitude: d.OriginLongitude,
		},
		Destination: Location{
			Address:   d.DestinationAddress,
			Latitude:  d.DestinationLatitude,
			Longitude: d.DestinationLongitude,
		},
		Waypoints:          []string(d.Waypoints),
		DepartureTime:      d.DepartureTime,
		TotalSeats:         d.TotalSeats,
		CommittedSeats:     d.CommittedSeats,
		Status:             d.Status,
		AutoAcceptBookings: d.AutoAcceptBookings,
		PricePerSeat:       d.PricePerSeat,
		AllowsPets:         d.AllowsPets,
		AllowsSmoking:      d.AllowsSmoking,
		AllowsLuggage:      d.AllowsLuggage,
		CancellationReason: d.CancellationReason,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		StartedAt:          d.StartedAt,
		CompletedAt:        d.CompletedAt,
		CancelledAt:        d.CancelledAt,
	}
}

// RideAvailability is the read model served to ride search
type RideAvailability struct {
	RideID         uuid.UUID  `json:"ride_id"`
	TotalSeats     int        `json:"total_seats"`
	CommittedSeats int        `json:"committed_seats"`
	AvailableSeats int        `json:"available_seats"`
	Status         RideStatus `json:"status"`
}

// CreateRideRequest is the payload for offering a new ride
type CreateRideRequest struct {
	VehicleID          uuid.UUID `json:"vehicle_id"`
	Origin             Location  `json:"origin"`
	Destination        Location  `json:"destination"`
	Waypoints          []string  `json:"waypoints"`
	DepartureTime      time.Time `json:"departure_time"`
	TotalSeats         int       `json:"total_seats"`
	AutoAcceptBookings bool      `json:"auto_accept_bookings"`
	PricePerSeat       int64     `json:"price_per_seat"`
	AllowsPets         bool      `json:"allows_pets"`
	AllowsSmoking      bool      `json:"allows_smoking"`
	AllowsLuggage      bool      `json:"allows_luggage"`
}

// CancelRideRequest carries the driver's reason for cancelling
type CancelRideRequest struct {
	Reason string `json:"reason"`
}
