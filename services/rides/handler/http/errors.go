package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/tebengan/internal/pkg/logger"
	nrpkg "github.com/piresc/tebengan/internal/pkg/newrelic"
	"github.com/piresc/tebengan/internal/utils"
	"github.com/piresc/tebengan/services/rides"
)

// storeRetryAfterSeconds is sent with 503 responses caused by a store outage
const storeRetryAfterSeconds = 2

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{rides.ErrInvalidRequest, http.StatusBadRequest, "invalid_request", ""},
	{rides.ErrNotAuthorized, http.StatusForbidden, "not_authorized", "You are not allowed to perform this action"},
	{rides.ErrNotFound, http.StatusNotFound, "not_found", "Resource not found"},
	{rides.ErrInvalidStateTransition, http.StatusConflict, "invalid_state_transition", ""},
	{rides.ErrInsufficientSeats, http.StatusConflict, "insufficient_seats", "Not enough seats left on this ride"},
	{rides.ErrDuplicateBooking, http.StatusConflict, "duplicate_booking", "You already hold an active booking on this ride"},
	{rides.ErrAlreadyRated, http.StatusConflict, "already_rated", "You have already rated this booking"},
	{rides.ErrNotEligible, http.StatusUnprocessableEntity, "not_eligible", ""},
}

// respondError writes the response for a usecase error. Unknown errors
// become a 500 without leaking their text.
func respondError(c echo.Context, operation string, err error) error {
	ctx := c.Request().Context()
	nrpkg.NoticeTransactionError(nrpkg.FromEchoContext(c), err)

	if errors.Is(err, rides.ErrStoreUnavailable) {
		logger.WarnCtx(ctx, "Store unavailable",
			logger.String("operation", operation),
			logger.Err(err))
		return utils.ServiceUnavailableResponse(c, "store_unavailable",
			"The ride store is temporarily unavailable, please retry", storeRetryAfterSeconds)
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			message := m.message
			if message == "" {
				message = err.Error()
			}
			logger.DebugCtx(ctx, "Request rejected",
				logger.String("operation", operation),
				logger.String("code", m.code),
				logger.Err(err))
			return utils.ErrorResponseHandler(c, m.status, m.code, message)
		}
	}

	logger.ErrorCtx(ctx, "Unexpected error",
		logger.String("operation", operation),
		logger.Err(err))
	return utils.InternalServerErrorResponse(c, "")
}
