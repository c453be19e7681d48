package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/database"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/services/rides/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pausingRepo holds the first GetRide result until release is closed, so a
// reader can be parked between its store read and its cache write-back.
type pausingRepo struct {
	*memStore
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func (p *pausingRepo) GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	ride, err := p.memStore.GetRide(ctx, rideID)
	p.once.Do(func() {
		close(p.reached)
		<-p.release
	})
	return ride, err
}

func TestGetAvailability_CommitDuringCacheFillIsNotMasked(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisClient := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { redisClient.Close() })

	cfg := &models.Config{Rides: models.RidesConfig{AvailabilityCacheTTL: 30}}
	cache := repository.NewAvailabilityCache(cfg, redisClient)

	store := newMemStore()
	now := time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC)
	driver := models.Actor{ID: uuid.New(), Role: models.RoleDriver}
	ride := &models.Ride{
		ID:                 uuid.New(),
		DriverID:           driver.ID,
		DepartureTime:      now.Add(24 * time.Hour),
		TotalSeats:         2,
		Status:             models.RideStatusScheduled,
		AutoAcceptBookings: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	store.putRide(ride)

	repo := &pausingRepo{memStore: store, reached: make(chan struct{}), release: make(chan struct{})}
	uc, err := NewRideUC(cfg, repo, nil, cache)
	require.NoError(t, err)
	ctx := context.Background()

	// Reader misses the cache and reads committed=0 from the store
	staleRead := make(chan *models.RideAvailability, 1)
	go func() {
		availability, err := uc.GetAvailability(ctx, ride.ID)
		assert.NoError(t, err)
		staleRead <- availability
	}()
	<-repo.reached

	// A booking takes both seats while the reader is parked
	booking, err := uc.CreateBooking(ctx, newPassenger(), ride.ID, models.CreateBookingRequest{SeatsRequested: 2})
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusAccepted, booking.Status)

	close(repo.release)
	assert.Equal(t, 0, (<-staleRead).CommittedSeats)

	availability, err := uc.GetAvailability(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, availability.CommittedSeats)
	assert.Equal(t, 0, availability.AvailableSeats)
}
