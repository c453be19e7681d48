package usecase

import (
	"context"
	"sync"

	"github.com/piresc/tebengan/internal/pkg/logger"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/internal/pkg/observability"
	"github.com/piresc/tebengan/services/rides"
)

const defaultNotificationQueueSize = 256

type queuedEvent struct {
	ctx   context.Context
	event models.LifecycleEvent
}

// eventDispatcher hands lifecycle events to the gateway from a single
// background worker. Enqueue never blocks: when the queue is full or the
// dispatcher is closed the event is dropped and counted as a failure.
type eventDispatcher struct {
	gw    rides.RideGW
	queue chan queuedEvent
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func newEventDispatcher(gw rides.RideGW, size int) *eventDispatcher {
	if size <= 0 {
		size = defaultNotificationQueueSize
	}
	d := &eventDispatcher{
		gw:    gw,
		queue: make(chan queuedEvent, size),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

// enqueue detaches the event from the request's cancellation while keeping
// its values for logging
func (d *eventDispatcher) enqueue(ctx context.Context, event models.LifecycleEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	select {
	case d.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return true
	default:
		return false
	}
}

func (d *eventDispatcher) run() {
	defer close(d.done)
	for item := range d.queue {
		d.publish(item.ctx, item.event)
	}
}

func (d *eventDispatcher) publish(ctx context.Context, event models.LifecycleEvent) {
	if err := d.gw.Notify(ctx, event); err != nil {
		observability.NotificationFailures.WithLabelValues(string(event.Type)).Inc()
		logger.WarnCtx(ctx, "Failed to dispatch lifecycle event",
			logger.String("event_type", string(event.Type)),
			logger.String("event_id", event.ID.String()),
			logger.String("ride_id", event.RideID.String()),
			logger.Err(err))
	}
}

// Close stops accepting events and waits until the queued ones are
// published or ctx expires
func (d *eventDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
