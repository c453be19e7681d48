package gateway

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/piresc/tebengan/internal/pkg/circuitbreaker"
	"github.com/piresc/tebengan/internal/pkg/constants"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	natsserver "github.com/nats-io/nats-server/v2/test"
	natspkg "github.com/piresc/tebengan/internal/pkg/nats"
)

var testNatsURL = "nats://127.0.0.1:8369"

func TestMain(m *testing.M) {
	opts := natsserver.DefaultTestOptions
	opts.Port = 8369
	testNatsServer := natsserver.RunServer(&opts)
	code := m.Run()
	testNatsServer.Shutdown()
	os.Exit(code)
}

func receiveOne(t *testing.T, nc *natspkg.Client, subject string) <-chan *nats.Msg {
	t.Helper()
	msgCh := make(chan *nats.Msg, 1)
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		msgCh <- msg
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Unsubscribe() })
	require.NoError(t, nc.GetConn().Flush())
	return msgCh
}

func TestNotify_BookingAccepted(t *testing.T) {
	nc, err := natspkg.NewClient(testNatsURL)
	require.NoError(t, err, "Failed to connect to NATS server")
	defer nc.Close()

	bookingID := uuid.New()
	driverID, passengerID := uuid.New(), uuid.New()
	event := models.LifecycleEvent{
		ID:         uuid.New(),
		Type:       models.EventBookingAccepted,
		RideID:     uuid.New(),
		BookingID:  &bookingID,
		ActorID:    driverID,
		Recipients: []uuid.UUID{driverID, passengerID},
		Status:     string(models.BookingStatusAccepted),
		OccurredAt: time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC),
	}
	msgCh := receiveOne(t, nc, constants.SubjectBookingAccepted)

	err = NewRideGW(nc).Notify(context.Background(), event)
	require.NoError(t, err)

	select {
	case msg := <-msgCh:
		var published models.LifecycleEvent
		require.NoError(t, json.Unmarshal(msg.Data, &published))
		assert.Equal(t, event.ID, published.ID)
		assert.Equal(t, event.Type, published.Type)
		assert.Equal(t, bookingID, *published.BookingID)
		assert.ElementsMatch(t, event.Recipients, published.Recipients)
		assert.True(t, event.OccurredAt.Equal(published.OccurredAt))
	case <-time.After(2 * time.Second):
		t.Fatal("Did not receive published message")
	}
}

func TestNotify_RideCancelledUsesRideSubject(t *testing.T) {
	nc, err := natspkg.NewClient(testNatsURL)
	require.NoError(t, err)
	defer nc.Close()

	event := models.LifecycleEvent{
		ID:     uuid.New(),
		Type:   models.EventRideCancelled,
		RideID: uuid.New(),
		Status: string(models.RideStatusCancelled),
		Reason: "flat tyre",
	}
	msgCh := receiveOne(t, nc, "ride.*")

	require.NoError(t, NewRideGW(nc).Notify(context.Background(), event))

	select {
	case msg := <-msgCh:
		assert.Equal(t, constants.SubjectRideCancelled, msg.Subject)
		var published models.LifecycleEvent
		require.NoError(t, json.Unmarshal(msg.Data, &published))
		assert.Equal(t, "flat tyre", published.Reason)
		assert.Nil(t, published.BookingID)
	case <-time.After(2 * time.Second):
		t.Fatal("Did not receive published message")
	}
}

func TestNotify_ClosedConnection(t *testing.T) {
	nc, err := natspkg.NewClient(testNatsURL)
	require.NoError(t, err)
	nc.GetConn().Close()

	err = NewRideGW(nc).Notify(context.Background(), models.LifecycleEvent{
		ID:   uuid.New(),
		Type: models.EventBookingRequested,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "booking.requested")
}

func TestNotify_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	nc, err := natspkg.NewClient(testNatsURL)
	require.NoError(t, err)
	nc.GetConn().Close()

	cfg := circuitbreaker.DefaultConfig("test-notify")
	cfg.FailureThreshold = 2
	gw := NewRideGWWithBreaker(nc, cfg)
	event := models.LifecycleEvent{ID: uuid.New(), Type: models.EventRideStarted}

	for i := 0; i < 2; i++ {
		err := gw.Notify(context.Background(), event)
		require.Error(t, err)
		assert.NotErrorIs(t, err, circuitbreaker.ErrCircuitBreakerOpen)
	}

	err = gw.Notify(context.Background(), event)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitBreakerOpen)
	assert.Equal(t, circuitbreaker.StateOpen, gw.breaker.State())
}
