package handler

import (
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/services/rides"
	httpHandler "github.com/piresc/tebengan/services/rides/handler/http"
)

// Handler combines all handlers for the rides service
type Handler struct {
	ridesHTTP *httpHandler.RidesHandler
	cfg       *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(
	rideUC rides.RideUC,
	bookingUC rides.BookingUC,
	ratingUC rides.RatingUC,
	cfg *models.Config,
) *Handler {
	return &Handler{
		ridesHTTP: httpHandler.NewRidesHandler(rideUC, bookingUC, ratingUC),
		cfg:       cfg,
	}
}
