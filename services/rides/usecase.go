package rides

import (
	"context"

	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/models"
)

// RideUC defines the interface for ride lifecycle business logic
// go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/tebengan/services/rides RideUC,BookingUC,RatingUC
type RideUC interface {
	CreateRide(ctx context.Context, actor models.Actor, req models.CreateRideRequest) (*models.Ride, error)
	GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	GetAvailability(ctx context.Context, rideID uuid.UUID) (*models.RideAvailability, error)
	ListRideBookings(ctx context.Context, actor models.Actor, rideID uuid.UUID) ([]*models.Booking, error)
	StartRide(ctx context.Context, actor models.Actor, rideID uuid.UUID) (*models.Ride, error)
	CompleteRide(ctx context.Context, actor models.Actor, rideID uuid.UUID) (*models.Ride, error)
	CancelRide(ctx context.Context, actor models.Actor, rideID uuid.UUID, reason string) (*models.Ride, error)
}

// BookingUC defines the interface for booking business logic
type BookingUC interface {
	CreateBooking(ctx context.Context, actor models.Actor, rideID uuid.UUID, req models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, actor models.Actor, bookingID uuid.UUID) (*models.Booking, error)
	AcceptBooking(ctx context.Context, actor models.Actor, bookingID uuid.UUID, response string) (*models.Booking, error)
	RejectBooking(ctx context.Context, actor models.Actor, bookingID uuid.UUID, response string) (*models.Booking, error)
	CancelBooking(ctx context.Context, actor models.Actor, bookingID uuid.UUID) (*models.Booking, error)
}

// RatingUC defines the interface for post-ride rating business logic
type RatingUC interface {
	CanRate(ctx context.Context, raterID, bookingID uuid.UUID) (bool, error)
	SubmitRating(ctx context.Context, actor models.Actor, bookingID uuid.UUID, req models.SubmitRatingRequest) (*models.Rating, error)
	ListRatingsForUser(ctx context.Context, userID uuid.UUID) (*models.RatingSummary, error)
}
