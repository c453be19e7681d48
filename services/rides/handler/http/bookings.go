package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/internal/utils"
)

// CreateBooking handles POST /rides/:rideID/bookings
func (h *RidesHandler) CreateBooking(c echo.Context) error {
	actor, ok := begin(c, "Rides.CreateBooking")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	rideID, valid := parseID(c, "rideID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid ride ID")
	}

	var req models.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	booking, err := h.bookingUC.CreateBooking(c.Request().Context(), actor, rideID, req)
	if err != nil {
		return respondError(c, "CreateBooking", err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Booking created", booking)
}

// GetBooking handles GET /bookings/:bookingID
func (h *RidesHandler) GetBooking(c echo.Context) error {
	actor, ok := begin(c, "Rides.GetBooking")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	bookingID, valid := parseID(c, "bookingID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid booking ID")
	}

	booking, err := h.bookingUC.GetBooking(c.Request().Context(), actor, bookingID)
	if err != nil {
		return respondError(c, "GetBooking", err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", booking)
}

// AcceptBooking handles POST /bookings/:bookingID/accept
func (h *RidesHandler) AcceptBooking(c echo.Context) error {
	actor, ok := begin(c, "Rides.AcceptBooking")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	bookingID, valid := parseID(c, "bookingID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid booking ID")
	}

	var req models.BookingDecisionRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	booking, err := h.bookingUC.AcceptBooking(c.Request().Context(), actor, bookingID, req.Response)
	if err != nil {
		return respondError(c, "AcceptBooking", err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Booking accepted", booking)
}

// RejectBooking handles POST /bookings/:bookingID/reject
func (h *RidesHandler) RejectBooking(c echo.Context) error {
	actor, ok := begin(c, "Rides.RejectBooking")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	bookingID, valid := parseID(c, "bookingID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid booking ID")
	}

	var req models.BookingDecisionRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	booking, err := h.bookingUC.RejectBooking(c.Request().Context(), actor, bookingID, req.Response)
	if err != nil {
		return respondError(c, "RejectBooking", err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Booking rejected", booking)
}

// CancelBooking handles POST /bookings/:bookingID/cancel
func (h *RidesHandler) CancelBooking(c echo.Context) error {
	actor, ok := begin(c, "Rides.CancelBooking")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	bookingID, valid := parseID(c, "bookingID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid booking ID")
	}

	booking, err := h.bookingUC.CancelBooking(c.Request().Context(), actor, bookingID)
	if err != nil {
		return respondError(c, "CancelBooking", err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Booking cancelled", booking)
}
