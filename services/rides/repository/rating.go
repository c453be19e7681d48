package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/tebengan/internal/pkg/models"
)

// RatingExists reports whether rater has already rated the booking
func (s *rideStore) RatingExists(ctx context.Context, bookingID, raterID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ratings WHERE booking_id = $1 AND rater_id = $2)`

	var exists bool
	if err := sqlx.GetContext(ctx, s.db, &exists, query, bookingID, raterID); err != nil {
		return false, wrapErr("failed to check rating", err)
	}
	return exists, nil
}

// CreateRating inserts a rating. A second rating by the same rater for the
// same booking violates ratings_booking_id_rater_id_key.
func (s *rideStore) CreateRating(ctx context.Context, rating *models.Rating) error {
	query := `
		INSERT INTO ratings (id, booking_id, rater_id, ratee_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		rating.ID,
		rating.BookingID,
		rating.RaterID,
		rating.RateeID,
		rating.Score,
		rating.Comment,
		rating.CreatedAt,
	)
	if err != nil {
		return wrapErr("failed to create rating", err)
	}
	return nil
}

// ListRatingsByRatee returns the ratings a user has received, newest first
func (s *rideStore) ListRatingsByRatee(ctx context.Context, rateeID uuid.UUID) ([]*models.Rating, error) {
	query := `
		SELECT id, booking_id, rater_id, ratee_id, score, comment, created_at
		FROM ratings
		WHERE ratee_id = $1
		ORDER BY created_at DESC
	`

	var ratings []*models.Rating
	if err := sqlx.SelectContext(ctx, s.db, &ratings, query, rateeID); err != nil {
		return nil, wrapErr("failed to list ratings", err)
	}
	return ratings, nil
}
