package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/logger"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/services/rides"
)

// CanRate reports whether rater may still rate the booking
func (uc *RideUC) CanRate(ctx context.Context, raterID, bookingID uuid.UUID) (bool, error) {
	booking, err := uc.rideRepo.GetBooking(ctx, bookingID)
	if err != nil {
		return false, err
	}
	ride, err := uc.rideRepo.GetRide(ctx, booking.RideID)
	if err != nil {
		return false, err
	}

	if _, err := rateeFor(ride, booking, raterID); err != nil {
		if errors.Is(err, rides.ErrNotEligible) {
			return false, nil
		}
		return false, err
	}

	exists, err := uc.rideRepo.RatingExists(ctx, bookingID, raterID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// SubmitRating records the actor's rating of the other participant of a
// completed booking. Concurrent submissions for the same booking and rater
// store exactly one rating; the rest fail with ErrAlreadyRated.
func (uc *RideUC) SubmitRating(ctx context.Context, actor models.Actor, bookingID uuid.UUID, req models.SubmitRatingRequest) (*models.Rating, error) {
	if req.Score < models.MinRatingScore || req.Score > models.MaxRatingScore {
		return nil, fmt.Errorf("score must be between %d and %d: %w", models.MinRatingScore, models.MaxRatingScore, rides.ErrInvalidRequest)
	}

	var rating *models.Rating
	var rideID uuid.UUID
	var events []models.LifecycleEvent

	err := uc.rideRepo.WithinTx(ctx, func(store rides.RideStore) error {
		booking, err := store.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		ride, err := store.GetRide(ctx, booking.RideID)
		if err != nil {
			return err
		}
		rideID = ride.ID

		rateeID, err := rateeFor(ride, booking, actor.ID)
		if err != nil {
			return err
		}

		exists, err := store.RatingExists(ctx, bookingID, actor.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("booking %s already rated by %s: %w", bookingID, actor.ID, rides.ErrAlreadyRated)
		}

		rating = &models.Rating{
			ID:        uuid.New(),
			BookingID: bookingID,
			RaterID:   actor.ID,
			RateeID:   rateeID,
			Score:     req.Score,
			Comment:   strings.TrimSpace(req.Comment),
			CreatedAt: uc.now(),
		}
		if err := store.CreateRating(ctx, rating); err != nil {
			return err
		}

		events = append(events, models.LifecycleEvent{
			ID:         uuid.New(),
			Type:       models.EventRatingSubmitted,
			RideID:     ride.ID,
			BookingID:  &rating.BookingID,
			ActorID:    actor.ID,
			Recipients: []uuid.UUID{rateeID},
			Status:     string(booking.Status),
			OccurredAt: rating.CreatedAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, rideID, events)
	logger.InfoCtx(ctx, "Rating submitted",
		logger.String("booking_id", bookingID.String()),
		logger.String("rater_id", actor.ID.String()),
		logger.Int("score", rating.Score))
	return rating, nil
}

// ListRatingsForUser returns the ratings a user has received with their average
func (uc *RideUC) ListRatingsForUser(ctx context.Context, userID uuid.UUID) (*models.RatingSummary, error) {
	ratings, err := uc.rideRepo.ListRatingsByRatee(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.RatingSummary{
		UserID:  userID,
		Count:   len(ratings),
		Ratings: ratings,
	}
	if summary.Ratings == nil {
		summary.Ratings = []*models.Rating{}
	}
	if len(ratings) > 0 {
		total := 0
		for _, rating := range ratings {
			total += rating.Score
		}
		summary.Average = float64(total) / float64(len(ratings))
	}
	return summary, nil
}

// rateeFor returns the participant rater would rate on this booking
func rateeFor(ride *models.Ride, booking *models.Booking, raterID uuid.UUID) (uuid.UUID, error) {
	if booking.Status != models.BookingStatusCompleted {
		return uuid.Nil, fmt.Errorf("booking %s is %s, not completed: %w", booking.ID, booking.Status, rides.ErrNotEligible)
	}

	switch raterID {
	case booking.PassengerID:
		return ride.DriverID, nil
	case ride.DriverID:
		return booking.PassengerID, nil
	default:
		return uuid.Nil, fmt.Errorf("user %s did not take part in booking %s: %w", raterID, booking.ID, rides.ErrNotEligible)
	}
}
