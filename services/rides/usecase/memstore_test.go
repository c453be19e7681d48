package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/services/rides"
)

// memStore is an in-memory rides.RideRepo. WithinTx holds a single mutex for
// the whole callback and restores a snapshot when the callback fails, which
// gives the same all-or-nothing behaviour the Postgres repository provides.
type memStore struct {
	mu       sync.Mutex
	rides    map[uuid.UUID]*models.Ride
	bookings map[uuid.UUID]*models.Booking
	order    []uuid.UUID
	ratings  []*models.Rating
}

func newMemStore() *memStore {
	return &memStore{
		rides:    make(map[uuid.UUID]*models.Ride),
		bookings: make(map[uuid.UUID]*models.Booking),
	}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(store rides.RideStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rideSnap := make(map[uuid.UUID]*models.Ride, len(m.rides))
	for id, ride := range m.rides {
		rideSnap[id] = cloneRide(ride)
	}
	bookingSnap := make(map[uuid.UUID]*models.Booking, len(m.bookings))
	for id, booking := range m.bookings {
		bookingSnap[id] = cloneBooking(booking)
	}
	orderSnap := append([]uuid.UUID(nil), m.order...)
	ratingSnap := append([]*models.Rating(nil), m.ratings...)

	if err := fn(&memTx{m: m}); err != nil {
		m.rides, m.bookings, m.order, m.ratings = rideSnap, bookingSnap, orderSnap, ratingSnap
		return err
	}
	return nil
}

func (m *memStore) GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{m: m}).GetRide(ctx, rideID)
}

func (m *memStore) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{m: m}).GetBooking(ctx, bookingID)
}

func (m *memStore) ListBookingsByRide(ctx context.Context, rideID uuid.UUID) ([]*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{m: m}).ListBookingsByRideForUpdate(ctx, rideID)
}

func (m *memStore) RatingExists(ctx context.Context, bookingID, raterID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{m: m}).RatingExists(ctx, bookingID, raterID)
}

func (m *memStore) ListRatingsByRatee(ctx context.Context, rateeID uuid.UUID) ([]*models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Rating
	for _, rating := range m.ratings {
		if rating.RateeID == rateeID {
			copied := *rating
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memStore) putRide(ride *models.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = cloneRide(ride)
}

func (m *memStore) putBooking(booking *models.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = cloneBooking(booking)
	m.order = append(m.order, booking.ID)
}

func (m *memStore) committed(rideID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rides[rideID].CommittedSeats
}

func (m *memStore) bookingStatus(bookingID uuid.UUID) models.BookingStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[bookingID].Status
}

// memTx is the RideStore view handed to WithinTx; the caller holds m.mu
type memTx struct {
	m *memStore
}

func (t *memTx) TryReserve(ctx context.Context, rideID uuid.UUID, seats int) error {
	ride, ok := t.m.rides[rideID]
	if !ok {
		return rides.ErrNotFound
	}
	if ride.CommittedSeats+seats > ride.TotalSeats {
		return rides.ErrInsufficientSeats
	}
	ride.CommittedSeats += seats
	return nil
}

func (t *memTx) Release(ctx context.Context, rideID uuid.UUID, seats int) error {
	ride, ok := t.m.rides[rideID]
	if !ok {
		return rides.ErrNotFound
	}
	if ride.CommittedSeats < seats {
		return fmt.Errorf("ride %s has fewer than %d committed seats to release", rideID, seats)
	}
	ride.CommittedSeats -= seats
	return nil
}

func (t *memTx) CommittedSeats(ctx context.Context, rideID uuid.UUID) (int, error) {
	ride, ok := t.m.rides[rideID]
	if !ok {
		return 0, rides.ErrNotFound
	}
	return ride.CommittedSeats, nil
}

func (t *memTx) CreateRide(ctx context.Context, ride *models.Ride) error {
	t.m.rides[ride.ID] = cloneRide(ride)
	return nil
}

func (t *memTx) GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	ride, ok := t.m.rides[rideID]
	if !ok {
		return nil, rides.ErrNotFound
	}
	return cloneRide(ride), nil
}

func (t *memTx) GetRideForUpdate(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	return t.GetRide(ctx, rideID)
}

func (t *memTx) UpdateRideStatus(ctx context.Context, ride *models.Ride, from models.RideStatus) error {
	stored, ok := t.m.rides[ride.ID]
	if !ok || stored.Status != from {
		return rides.ErrInvalidStateTransition
	}
	stored.Status = ride.Status
	stored.CancellationReason = ride.CancellationReason
	stored.StartedAt = ride.StartedAt
	stored.CompletedAt = ride.CompletedAt
	stored.CancelledAt = ride.CancelledAt
	stored.UpdatedAt = ride.UpdatedAt
	return nil
}

func (t *memTx) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.Status.IsActive() {
		for _, existing := range t.m.bookings {
			if existing.RideID == booking.RideID && existing.PassengerID == booking.PassengerID && existing.Status.IsActive() {
				return rides.ErrDuplicateBooking
			}
		}
	}
	t.m.bookings[booking.ID] = cloneBooking(booking)
	t.m.order = append(t.m.order, booking.ID)
	return nil
}

func (t *memTx) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	booking, ok := t.m.bookings[bookingID]
	if !ok {
		return nil, rides.ErrNotFound
	}
	return cloneBooking(booking), nil
}

func (t *memTx) GetBookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	return t.GetBooking(ctx, bookingID)
}

func (t *memTx) UpdateBookingStatus(ctx context.Context, booking *models.Booking, from models.BookingStatus) error {
	stored, ok := t.m.bookings[booking.ID]
	if !ok || stored.Status != from {
		return rides.ErrInvalidStateTransition
	}
	stored.Status = booking.Status
	stored.DriverResponse = booking.DriverResponse
	stored.RejectionReason = booking.RejectionReason
	stored.AcceptedAt = booking.AcceptedAt
	stored.CompletedAt = booking.CompletedAt
	stored.CancelledAt = booking.CancelledAt
	stored.UpdatedAt = booking.UpdatedAt
	return nil
}

func (t *memTx) ListBookingsByRideForUpdate(ctx context.Context, rideID uuid.UUID, statuses ...models.BookingStatus) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, id := range t.m.order {
		booking := t.m.bookings[id]
		if booking.RideID != rideID {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, booking.Status) {
			continue
		}
		out = append(out, cloneBooking(booking))
	}
	return out, nil
}

func (t *memTx) HasActiveBooking(ctx context.Context, rideID, passengerID uuid.UUID) (bool, error) {
	for _, booking := range t.m.bookings {
		if booking.RideID == rideID && booking.PassengerID == passengerID && booking.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) RatingExists(ctx context.Context, bookingID, raterID uuid.UUID) (bool, error) {
	for _, rating := range t.m.ratings {
		if rating.BookingID == bookingID && rating.RaterID == raterID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) CreateRating(ctx context.Context, rating *models.Rating) error {
	if exists, _ := t.RatingExists(ctx, rating.BookingID, rating.RaterID); exists {
		return rides.ErrAlreadyRated
	}
	copied := *rating
	t.m.ratings = append(t.m.ratings, &copied)
	return nil
}

func containsStatus(statuses []models.BookingStatus, status models.BookingStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func cloneRide(ride *models.Ride) *models.Ride {
	copied := *ride
	copied.Waypoints = append([]string(nil), ride.Waypoints...)
	return &copied
}

func cloneBooking(booking *models.Booking) *models.Booking {
	copied := *booking
	return &copied
}

// recordingGW collects published events and optionally fails every publish
type recordingGW struct {
	mu     sync.Mutex
	events []models.LifecycleEvent
	err    error
}

func (g *recordingGW) Notify(ctx context.Context, event models.LifecycleEvent) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, event)
	return g.err
}

func (g *recordingGW) types() []models.EventType {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]models.EventType, 0, len(g.events))
	for _, event := range g.events {
		out = append(out, event.Type)
	}
	return out
}
