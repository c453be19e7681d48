package rides

import (
	"context"

	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/models"
)

// RideRepo defines the interface for ride data access operations.
// Reads outside WithinTx see the latest committed state; every mutation
// happens inside WithinTx so that it commits or rolls back as a whole.
// go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/tebengan/services/rides RideRepo,RideStore,AvailabilityCache
type RideRepo interface {
	WithinTx(ctx context.Context, fn func(store RideStore) error) error
	GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	ListBookingsByRide(ctx context.Context, rideID uuid.UUID) ([]*models.Booking, error)
	RatingExists(ctx context.Context, bookingID, raterID uuid.UUID) (bool, error)
	ListRatingsByRatee(ctx context.Context, rateeID uuid.UUID) ([]*models.Rating, error)
}

// SeatInventory owns the committed seat count of each ride.
// TryReserve fails with ErrInsufficientSeats and leaves the count unchanged
// when the seats do not fit.
type SeatInventory interface {
	TryReserve(ctx context.Context, rideID uuid.UUID, seats int) error
	Release(ctx context.Context, rideID uuid.UUID, seats int) error
	CommittedSeats(ctx context.Context, rideID uuid.UUID) (int, error)
}

// RideStore is the transaction scoped view handed to WithinTx callbacks.
// The ForUpdate reads lock the returned rows until the transaction ends;
// callers lock a ride before any of its bookings.
type RideStore interface {
	SeatInventory

	CreateRide(ctx context.Context, ride *models.Ride) error
	GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	GetRideForUpdate(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	UpdateRideStatus(ctx context.Context, ride *models.Ride, from models.RideStatus) error

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	GetBookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, booking *models.Booking, from models.BookingStatus) error
	ListBookingsByRideForUpdate(ctx context.Context, rideID uuid.UUID, statuses ...models.BookingStatus) ([]*models.Booking, error)
	HasActiveBooking(ctx context.Context, rideID, passengerID uuid.UUID) (bool, error)

	RatingExists(ctx context.Context, bookingID, raterID uuid.UUID) (bool, error)
	CreateRating(ctx context.Context, rating *models.Rating) error
}

// AvailabilityCache is a non-authoritative read-through cache of seat counts.
// GetAvailability returns nil without error on a miss, together with the
// generation to hand back to SetAvailability. SetAvailability drops the
// write when the ride was invalidated since that generation was read.
type AvailabilityCache interface {
	GetAvailability(ctx context.Context, rideID uuid.UUID) (*models.RideAvailability, int64, error)
	SetAvailability(ctx context.Context, availability *models.RideAvailability, generation int64) error
	InvalidateAvailability(ctx context.Context, rideID uuid.UUID) error
}
