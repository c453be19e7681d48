package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/piresc/tebengan/internal/pkg/circuitbreaker"
	"github.com/piresc/tebengan/internal/pkg/logger"
	"github.com/piresc/tebengan/internal/pkg/models"
	natspkg "github.com/piresc/tebengan/internal/pkg/nats"
	"github.com/piresc/tebengan/services/rides"
)

// RideGW publishes lifecycle events to NATS, one subject per event type.
// Publishing goes through a circuit breaker so that a broker outage costs
// one failed call per transition instead of a reconnect wait.
type RideGW struct {
	natsClient *natspkg.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// NewRideGW creates a new ride gateway
func NewRideGW(client *natspkg.Client) rides.RideGW {
	return NewRideGWWithBreaker(client, circuitbreaker.DefaultConfig("nats-lifecycle-events"))
}

// NewRideGWWithBreaker creates a ride gateway with a custom breaker configuration
func NewRideGWWithBreaker(client *natspkg.Client, cfg circuitbreaker.Config) *RideGW {
	return &RideGW{
		natsClient: client,
		breaker:    circuitbreaker.New(cfg),
	}
}

// Notify publishes event as JSON on the subject named by its type
func (g *RideGW) Notify(ctx context.Context, event models.LifecycleEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	err = g.breaker.Execute(ctx, func(context.Context) error {
		return g.natsClient.Publish(string(event.Type), data)
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	logger.DebugCtx(ctx, "Lifecycle event published",
		logger.String("event_type", string(event.Type)),
		logger.String("event_id", event.ID.String()),
		logger.String("ride_id", event.RideID.String()))
	return nil
}
