package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// Rating is one participant's score of the other for a completed booking
type Rating struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BookingID uuid.UUID `json:"booking_id" db:"booking_id"`
	RaterID   uuid.UUID `json:"rater_id" db:"rater_id"`
	RateeID   uuid.UUID `json:"ratee_id" db:"ratee_id"`
	Score     int       `json:"score" db:"score"`
	Comment   string    `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SubmitRatingRequest is the payload for rating a booking counterpart
type SubmitRatingRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// RatingEligibility answers whether a user may rate a booking
type RatingEligibility struct {
	BookingID uuid.UUID `json:"booking_id"`
	RaterID   uuid.UUID `json:"rater_id"`
	Eligible  bool      `json:"eligible"`
}

// RatingSummary aggregates the ratings a user has received
type RatingSummary struct {
	UserID  uuid.UUID `json:"user_id"`
	Count   int       `json:"count"`
	Average float64   `json:"average"`
	Ratings []*Rating `json:"ratings"`
}
