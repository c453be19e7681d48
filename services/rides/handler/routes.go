package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/tebengan/internal/pkg/middleware"
)

// RegisterRoutes registers all HTTP routes under /api/v1. Every route
// requires a bearer token.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1", middleware.JWTAuthMiddleware(h.cfg.JWT))

	ridesGroup := api.Group("/rides")
	ridesGroup.POST("", h.ridesHTTP.CreateRide)
	ridesGroup.GET("/:rideID", h.ridesHTTP.GetRide)
	ridesGroup.GET("/:rideID/availability", h.ridesHTTP.GetAvailability)
	ridesGroup.GET("/:rideID/bookings", h.ridesHTTP.ListRideBookings)
	ridesGroup.POST("/:rideID/bookings", h.ridesHTTP.CreateBooking)
	ridesGroup.POST("/:rideID/start", h.ridesHTTP.StartRide)
	ridesGroup.POST("/:rideID/complete", h.ridesHTTP.CompleteRide)
	ridesGroup.POST("/:rideID/cancel", h.ridesHTTP.CancelRide)

	bookingsGroup := api.Group("/bookings")
	bookingsGroup.GET("/:bookingID", h.ridesHTTP.GetBooking)
	bookingsGroup.POST("/:bookingID/accept", h.ridesHTTP.AcceptBooking)
	bookingsGroup.POST("/:bookingID/reject", h.ridesHTTP.RejectBooking)
	bookingsGroup.POST("/:bookingID/cancel", h.ridesHTTP.CancelBooking)
	bookingsGroup.GET("/:bookingID/rating-eligibility", h.ridesHTTP.CanRate)
	bookingsGroup.POST("/:bookingID/ratings", h.ridesHTTP.SubmitRating)

	api.GET("/users/:userID/ratings", h.ridesHTTP.ListRatingsForUser)
}
