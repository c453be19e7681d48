package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingGW holds every Notify call until release is closed
type blockingGW struct {
	recordingGW
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newBlockingGW() *blockingGW {
	return &blockingGW{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *blockingGW) Notify(ctx context.Context, event models.LifecycleEvent) error {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return g.recordingGW.Notify(ctx, event)
}

func testEvent(eventType models.EventType) models.LifecycleEvent {
	return models.LifecycleEvent{ID: uuid.New(), Type: eventType, RideID: uuid.New()}
}

func TestBookingReturnsWhileBrokerIsStalled(t *testing.T) {
	// Arrange
	f := newFixture(t, 2, true)
	gw := newBlockingGW()
	uc, err := NewRideUC(&models.Config{}, f.store, gw, nil)
	require.NoError(t, err)

	// Act
	done := make(chan *models.Booking, 1)
	go func() {
		booking, err := uc.CreateBooking(context.Background(), newPassenger(), f.ride.ID, models.CreateBookingRequest{SeatsRequested: 1})
		assert.NoError(t, err)
		done <- booking
	}()

	// Assert
	select {
	case booking := <-done:
		require.NotNil(t, booking)
		assert.Equal(t, models.BookingStatusAccepted, booking.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("CreateBooking waited for the broker")
	}
	assert.Empty(t, gw.types())

	close(gw.release)
	require.NoError(t, uc.Close(context.Background()))
	assert.Equal(t, []models.EventType{models.EventBookingAccepted}, gw.types())
}

func TestEventDispatcher_DropsWhenQueueIsFull(t *testing.T) {
	gw := newBlockingGW()
	d := newEventDispatcher(gw, 1)

	require.True(t, d.enqueue(context.Background(), testEvent(models.EventRideStarted)))
	<-gw.started

	assert.True(t, d.enqueue(context.Background(), testEvent(models.EventBookingAccepted)))
	assert.False(t, d.enqueue(context.Background(), testEvent(models.EventBookingRejected)))

	close(gw.release)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, []models.EventType{models.EventRideStarted, models.EventBookingAccepted}, gw.types())
}

func TestEventDispatcher_RequestCancellationDoesNotReachBroker(t *testing.T) {
	gw := &recordingGW{}
	d := newEventDispatcher(gw, 4)

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, d.enqueue(ctx, testEvent(models.EventRideCancelled)))
	cancel()

	require.NoError(t, d.Close(context.Background()))
	require.Len(t, gw.events, 1)
	assert.Equal(t, models.EventRideCancelled, gw.events[0].Type)
}

func TestEventDispatcher_Close(t *testing.T) {
	t.Run("refuses events once closed", func(t *testing.T) {
		gw := &recordingGW{}
		d := newEventDispatcher(gw, 4)

		require.NoError(t, d.Close(context.Background()))
		require.NoError(t, d.Close(context.Background()))

		assert.False(t, d.enqueue(context.Background(), testEvent(models.EventRideStarted)))
		assert.Empty(t, gw.types())
	})

	t.Run("gives up when the deadline passes", func(t *testing.T) {
		gw := newBlockingGW()
		d := newEventDispatcher(gw, 4)
		require.True(t, d.enqueue(context.Background(), testEvent(models.EventRideStarted)))
		<-gw.started

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

		close(gw.release)
		<-d.done
		assert.Equal(t, []models.EventType{models.EventRideStarted}, gw.types())
	})
}
