package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/tebengan/internal/pkg/jwt"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/services/rides/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*echo.Echo, *mocks.MockRideUC, *mocks.MockBookingUC, *mocks.MockRatingUC, *models.Config) {
	ctrl := gomock.NewController(t)
	rideUC := mocks.NewMockRideUC(ctrl)
	bookingUC := mocks.NewMockBookingUC(ctrl)
	ratingUC := mocks.NewMockRatingUC(ctrl)

	cfg := &models.Config{JWT: models.JWTConfig{Secret: "routes-test-secret", Expiration: 5}}
	e := echo.New()
	NewHandler(rideUC, bookingUC, ratingUC, cfg).RegisterRoutes(e)
	return e, rideUC, bookingUC, ratingUC, cfg
}

func TestRegisterRoutes_RequiresToken(t *testing.T) {
	e, _, _, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rides/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRoutes_Dispatch(t *testing.T) {
	e, rideUC, bookingUC, ratingUC, cfg := newTestServer(t)
	actor := models.Actor{ID: uuid.New(), Role: models.RoleDriver}
	token, _, err := jwtpkg.GenerateToken(actor, cfg.JWT)
	require.NoError(t, err)

	rideID := uuid.New()
	bookingID := uuid.New()
	userID := uuid.New()

	rideUC.EXPECT().GetAvailability(gomock.Any(), rideID).Return(&models.RideAvailability{RideID: rideID}, nil)
	rideUC.EXPECT().StartRide(gomock.Any(), actor, rideID).Return(&models.Ride{ID: rideID}, nil)
	bookingUC.EXPECT().AcceptBooking(gomock.Any(), actor, bookingID, "").Return(&models.Booking{ID: bookingID}, nil)
	ratingUC.EXPECT().CanRate(gomock.Any(), actor.ID, bookingID).Return(false, nil)
	ratingUC.EXPECT().ListRatingsForUser(gomock.Any(), userID).Return(&models.RatingSummary{UserID: userID}, nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/rides/" + rideID.String() + "/availability"},
		{http.MethodPost, "/api/v1/rides/" + rideID.String() + "/start"},
		{http.MethodPost, "/api/v1/bookings/" + bookingID.String() + "/accept"},
		{http.MethodGet, "/api/v1/bookings/" + bookingID.String() + "/rating-eligibility"},
		{http.MethodGet, "/api/v1/users/" + userID.String() + "/ratings"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}
}
