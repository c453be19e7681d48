package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/piresc/tebengan/internal/pkg/middleware"
	"github.com/piresc/tebengan/internal/pkg/models"
	nrpkg "github.com/piresc/tebengan/internal/pkg/newrelic"
	"github.com/piresc/tebengan/internal/utils"
	"github.com/piresc/tebengan/services/rides"
)

// RidesHandler handles HTTP requests for rides, bookings and ratings
type RidesHandler struct {
	rideUC    rides.RideUC
	bookingUC rides.BookingUC
	ratingUC  rides.RatingUC
}

// NewRidesHandler creates a new rides HTTP handler
func NewRidesHandler(rideUC rides.RideUC, bookingUC rides.BookingUC, ratingUC rides.RatingUC) *RidesHandler {
	return &RidesHandler{
		rideUC:    rideUC,
		bookingUC: bookingUC,
		ratingUC:  ratingUC,
	}
}

// begin names the New Relic transaction and returns the authenticated actor
func begin(c echo.Context, name string) (models.Actor, bool) {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, name)

	actor, ok := middleware.GetActor(c)
	if ok {
		nrpkg.AddTransactionAttribute(txn, "user.id", actor.ID.String())
	}
	return actor, ok
}

func parseID(c echo.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	return id, err == nil
}

// CreateRide handles POST /rides
func (h *RidesHandler) CreateRide(c echo.Context) error {
	actor, ok := begin(c, "Rides.CreateRide")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.CreateRideRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	ride, err := h.rideUC.CreateRide(c.Request().Context(), actor, req)
	if err != nil {
		return respondError(c, "CreateRide", err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Ride created", ride)
}

// GetRide handles GET /rides/:rideID
func (h *RidesHandler) GetRide(c echo.Context) error {
	if _, ok := begin(c, "Rides.GetRide"); !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	rideID, valid := parseID(c, "rideID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	ride, err := h.rideUC.GetRide(c.Request().Context(), rideID)
	if err != nil {
		return respondError(c, "GetRide", err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", ride)
}

// GetAvailability handles GET /rides/:rideID/availability
func (h *RidesHandler) GetAvailability(c echo.Context) error {
	if _, ok := begin(c, "Rides.GetAvailability"); !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	rideID, valid := parseID(c, "rideID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	availability, err := h.rideUC.GetAvailability(c.Request().Context(), rideID)
	if err != nil {
		return respondError(c, "GetAvailability", err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", availability)
}

// ListRideBookings handles GET /rides/:rideID/bookings
func (h *RidesHandler) ListRideBookings(c echo.Context) error {
	actor, ok := begin(c, "Rides.ListRideBookings")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	rideID, valid := parseID(c, "rideID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	bookings, err := h.rideUC.ListRideBookings(c.Request().Context(), actor, rideID)
	if err != nil {
		return respondError(c, "ListRideBookings", err)
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return utils.SuccessResponse(c, http.StatusOK, "", bookings)
}

// StartRide handles POST /rides/:rideID/start
func (h *RidesHandler) StartRide(c echo.Context) error {
	actor, ok := begin(c, "Rides.StartRide")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	rideID, valid := parseID(c, "rideID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	ride, err := h.rideUC.StartRide(c.Request().Context(), actor, rideID)
	if err != nil {
		return respondError(c, "StartRide", err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride started", ride)
}

// CompleteRide handles POST /rides/:rideID/complete
func (h *RidesHandler) CompleteRide(c echo.Context) error {
	actor, ok := begin(c, "Rides.CompleteRide")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	rideID, valid := parseID(c, "rideID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	ride, err := h.rideUC.CompleteRide(c.Request().Context(), actor, rideID)
	if err != nil {
		return respondError(c, "CompleteRide", err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride completed", ride)
}

// CancelRide handles POST /rides/:rideID/cancel
func (h *RidesHandler) CancelRide(c echo.Context) error {
	actor, ok := begin(c, "Rides.CancelRide")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	rideID, valid := parseID(c, "rideID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	var req models.CancelRideRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	ride, err := h.rideUC.CancelRide(c.Request().Context(), actor, rideID, req.Reason)
	if err != nil {
		return respondError(c, "CancelRide", err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride cancelled", ride)
}
