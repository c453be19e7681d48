package constants

// NATS Subjects
const (
	// Ride lifecycle
	SubjectRideStarted   = "ride.started"
	SubjectRideCompleted = "ride.completed"
	SubjectRideCancelled = "ride.cancelled"

	// Booking lifecycle
	SubjectBookingRequested = "booking.requested"
	SubjectBookingAccepted  = "booking.accepted"
	SubjectBookingRejected  = "booking.rejected"
	SubjectBookingCancelled = "booking.cancelled"
	SubjectBookingCompleted = "booking.completed"

	// Ratings
	SubjectRatingSubmitted = "rating.submitted"
)
