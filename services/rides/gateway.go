package rides

import (
	"context"

	"github.com/piresc/tebengan/internal/pkg/models"
)

// RideGW publishes committed lifecycle transitions to participants
// go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/tebengan/services/rides RideGW
type RideGW interface {
	Notify(ctx context.Context, event models.LifecycleEvent) error
}
