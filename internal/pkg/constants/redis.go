package constants

// Redis key formats
const (
	KeyRideAvailability           = "ride:availability:%s"     // Format: ride:availability:{ride_id}
	KeyRideAvailabilityGeneration = "ride:availability:gen:%s" // Format: ride:availability:gen:{ride_id}
)

// Redis hash fields
const (
	FieldTotalSeats     = "total"
	FieldCommittedSeats = "committed"
	FieldStatus         = "status"
)
