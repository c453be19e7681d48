package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/constants"
	"github.com/piresc/tebengan/internal/pkg/database"
	"github.com/piresc/tebengan/internal/pkg/models"
)

// generationTTL bounds how long an idle ride's generation counter is kept
const generationTTL = 24 * time.Hour

// setIfGeneration writes the availability hash only while the ride's
// generation still equals the one read before the store was queried.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[3], ARGV[4], ARGV[5], ARGV[6], ARGV[7], ARGV[8])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

// invalidate drops the hash and bumps the generation so that any write-back
// started before the change is refused.
var invalidate = redis.NewScript(`
redis.call('DEL', KEYS[1])
redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[1])
return 1
`)

// AvailabilityCache keeps a short-lived copy of each ride's seat counts in
// Redis. Postgres remains the source of truth; entries are dropped after
// every committed seat or status change, and a per-ride generation counter
// keeps a slow reader from writing back counts older than that change.
type AvailabilityCache struct {
	redisClient *database.RedisClient
	ttl         time.Duration
}

func NewAvailabilityCache(cfg *models.Config, redisClient *database.RedisClient) *AvailabilityCache {
	return &AvailabilityCache{
		redisClient: redisClient,
		ttl:         time.Duration(cfg.Rides.AvailabilityCacheTTL) * time.Second,
	}
}

// GetAvailability returns the cached availability. On a miss it returns nil
// and the ride's current generation, which SetAvailability needs.
func (c *AvailabilityCache) GetAvailability(ctx context.Context, rideID uuid.UUID) (*models.RideAvailability, int64, error) {
	fields, err := c.redisClient.HGetAll(ctx, availabilityKey(rideID))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read availability: %w", err)
	}
	if len(fields) == 0 {
		generation, err := c.generation(ctx, rideID)
		if err != nil {
			return nil, 0, err
		}
		return nil, generation, nil
	}

	total, err := strconv.Atoi(fields[constants.FieldTotalSeats])
	if err != nil {
		return nil, 0, fmt.Errorf("invalid cached total seats: %w", err)
	}
	committed, err := strconv.Atoi(fields[constants.FieldCommittedSeats])
	if err != nil {
		return nil, 0, fmt.Errorf("invalid cached committed seats: %w", err)
	}

	return &models.RideAvailability{
		RideID:         rideID,
		TotalSeats:     total,
		CommittedSeats: committed,
		AvailableSeats: total - committed,
		Status:         models.RideStatus(fields[constants.FieldStatus]),
	}, 0, nil
}

// SetAvailability stores the availability until the configured TTL expires,
// unless the ride was invalidated after generation was read. A refused
// write is not an error.
func (c *AvailabilityCache) SetAvailability(ctx context.Context, availability *models.RideAvailability, generation int64) error {
	if c.ttl <= 0 {
		return nil
	}

	_, err := c.redisClient.RunScript(ctx, setIfGeneration,
		[]string{availabilityKey(availability.RideID), generationKey(availability.RideID)},
		strconv.FormatInt(generation, 10),
		c.ttl.Milliseconds(),
		constants.FieldTotalSeats, availability.TotalSeats,
		constants.FieldCommittedSeats, availability.CommittedSeats,
		constants.FieldStatus, string(availability.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to write availability: %w", err)
	}
	return nil
}

// InvalidateAvailability drops the cached entry for the ride
func (c *AvailabilityCache) InvalidateAvailability(ctx context.Context, rideID uuid.UUID) error {
	_, err := c.redisClient.RunScript(ctx, invalidate,
		[]string{availabilityKey(rideID), generationKey(rideID)},
		generationTTL.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to invalidate availability: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) generation(ctx context.Context, rideID uuid.UUID) (int64, error) {
	raw, err := c.redisClient.Get(ctx, generationKey(rideID))
	if err != nil {
		return 0, fmt.Errorf("failed to read availability generation: %w", err)
	}
	if raw == "" {
		return 0, nil
	}
	generation, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid availability generation: %w", err)
	}
	return generation, nil
}

func availabilityKey(rideID uuid.UUID) string {
	return fmt.Sprintf(constants.KeyRideAvailability, rideID)
}

func generationKey(rideID uuid.UUID) string {
	return fmt.Sprintf(constants.KeyRideAvailabilityGeneration, rideID)
}
