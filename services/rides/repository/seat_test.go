package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/services/rides"
	"github.com/piresc/tebengan/services/rides/repository"
	"github.com/stretchr/testify/assert"
)

func TestTryReserve(t *testing.T) {
	tests := []struct {
		name         string
		seats        int
		rowsAffected int64
		expectExec   bool
		lookupRows   *sqlmock.Rows
		expectedErr  error
	}{
		{
			name:         "Seats fit",
			seats:        2,
			rowsAffected: 1,
			expectExec:   true,
		},
		{
			name:         "Seats exceed remaining capacity",
			seats:        3,
			rowsAffected: 0,
			expectExec:   true,
			lookupRows:   sqlmock.NewRows([]string{"committed_seats"}).AddRow(3),
			expectedErr:  rides.ErrInsufficientSeats,
		},
		{
			name:         "Ride does not exist",
			seats:        1,
			rowsAffected: 0,
			expectExec:   true,
			lookupRows:   sqlmock.NewRows([]string{"committed_seats"}),
			expectedErr:  rides.ErrNotFound,
		},
		{
			name:        "Non-positive seat count",
			seats:       0,
			expectedErr: rides.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := repository.NewRideRepository(&models.Config{}, db)
			rideID := uuid.New()

			mock.ExpectBegin()
			if tt.expectExec {
				mock.ExpectExec(regexp.QuoteMeta("SET committed_seats = committed_seats + $1, updated_at = $2 WHERE id = $3 AND committed_seats + $1 <= total_seats")).
					WithArgs(tt.seats, sqlmock.AnyArg(), rideID).
					WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			}
			if tt.lookupRows != nil {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT committed_seats FROM rides WHERE id = $1")).
					WithArgs(rideID).
					WillReturnRows(tt.lookupRows)
			}
			if tt.expectedErr == nil {
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err := repo.WithinTx(context.Background(), func(store rides.RideStore) error {
				return store.TryReserve(context.Background(), rideID, tt.seats)
			})

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				if tt.expectedErr == rides.ErrNotFound {
					assert.NotErrorIs(t, err, rides.ErrInsufficientSeats)
				}
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRelease_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewRideRepository(&models.Config{}, db)
	rideID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET committed_seats = committed_seats - $1, updated_at = $2 WHERE id = $3 AND committed_seats >= $1")).
		WithArgs(2, sqlmock.AnyArg(), rideID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithinTx(context.Background(), func(store rides.RideStore) error {
		return store.Release(context.Background(), rideID, 2)
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelease_Underflow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewRideRepository(&models.Config{}, db)
	rideID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET committed_seats = committed_seats - $1")).
		WithArgs(5, sqlmock.AnyArg(), rideID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.WithinTx(context.Background(), func(store rides.RideStore) error {
		return store.Release(context.Background(), rideID, 5)
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fewer than 5 committed seats")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommittedSeats(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewRideRepository(&models.Config{}, db)
	rideID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT committed_seats FROM rides WHERE id = $1")).
		WithArgs(rideID).
		WillReturnRows(sqlmock.NewRows([]string{"committed_seats"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT committed_seats FROM rides WHERE id = $1")).
		WithArgs(rideID).
		WillReturnRows(sqlmock.NewRows([]string{"committed_seats"}))
	mock.ExpectRollback()

	err := repo.WithinTx(context.Background(), func(store rides.RideStore) error {
		committed, err := store.CommittedSeats(context.Background(), rideID)
		assert.NoError(t, err)
		assert.Equal(t, 2, committed)

		_, err = store.CommittedSeats(context.Background(), rideID)
		return err
	})

	assert.ErrorIs(t, err, rides.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
