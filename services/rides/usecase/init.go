package usecase

import (
	"context"
	"time"

	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/services/rides"
)

// RideUC implements rides.RideUC, rides.BookingUC and rides.RatingUC on top
// of a single repository so that ride, booking and seat changes commit together.
type RideUC struct {
	cfg        *models.Config
	rideRepo   rides.RideRepo
	cache      rides.AvailabilityCache
	dispatcher *eventDispatcher
	admission  *AdmissionController
	now        func() time.Time
}

// NewRideUC creates a new ride use case. rideGW and cache may be nil, in
// which case notifications and availability caching are skipped.
func NewRideUC(
	cfg *models.Config,
	rideRepo rides.RideRepo,
	rideGW rides.RideGW,
	cache rides.AvailabilityCache,
) (*RideUC, error) {
	uc := &RideUC{
		cfg:       cfg,
		rideRepo:  rideRepo,
		cache:     cache,
		admission: NewAdmissionController(),
		now:       models.Now,
	}
	if rideGW != nil {
		uc.dispatcher = newEventDispatcher(rideGW, cfg.Rides.NotificationQueueSize)
	}
	return uc, nil
}

// Close flushes queued lifecycle events. Events produced afterwards are
// dropped.
func (uc *RideUC) Close(ctx context.Context) error {
	if uc.dispatcher == nil {
		return nil
	}
	return uc.dispatcher.Close(ctx)
}
