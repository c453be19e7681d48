package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/internal/utils"
)

// CanRate handles GET /bookings/:bookingID/rating-eligibility
func (h *RidesHandler) CanRate(c echo.Context) error {
	actor, ok := begin(c, "Rides.CanRate")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	bookingID, valid := parseID(c, "bookingID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid booking ID")
	}

	eligible, err := h.ratingUC.CanRate(c.Request().Context(), actor.ID, bookingID)
	if err != nil {
		return respondError(c, "CanRate", err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", models.RatingEligibility{
		BookingID: bookingID,
		RaterID:   actor.ID,
		Eligible:  eligible,
	})
}

// SubmitRating handles POST /bookings/:bookingID/ratings
func (h *RidesHandler) SubmitRating(c echo.Context) error {
	actor, ok := begin(c, "Rides.SubmitRating")
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	bookingID, valid := parseID(c, "bookingID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid booking ID")
	}

	var req models.SubmitRatingRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	rating, err := h.ratingUC.SubmitRating(c.Request().Context(), actor, bookingID, req)
	if err != nil {
		return respondError(c, "SubmitRating", err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Rating submitted", rating)
}

// ListRatingsForUser handles GET /users/:userID/ratings
func (h *RidesHandler) ListRatingsForUser(c echo.Context) error {
	if _, ok := begin(c, "Rides.ListRatingsForUser"); !ok {
		return utils.UnauthorizedResponse(c, "")
	}
	userID, valid := parseID(c, "userID")
	if !valid {
		return utils.BadRequestResponse(c, "Invalid user ID")
	}

	summary, err := h.ratingUC.ListRatingsForUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, "ListRatingsForUser", err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", summary)
}
