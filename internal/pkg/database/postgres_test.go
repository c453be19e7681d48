package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	t.Run("Local config", func(t *testing.T) {
		config := models.DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Username: "testuser",
			Password: "testpass",
			Database: "testdb",
			SSLMode:  "disable",
		}

		expectedDSN := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
		assert.Equal(t, expectedDSN, BuildDSN(config))
	})

	t.Run("SSL enabled", func(t *testing.T) {
		config := models.DatabaseConfig{
			Host:     "prod-db.example.com",
			Port:     5432,
			Username: "produser",
			Password: "prodpass",
			Database: "proddb",
			SSLMode:  "require",
		}

		expectedDSN := "host=prod-db.example.com port=5432 user=produser password=prodpass dbname=proddb sslmode=require"
		assert.Equal(t, expectedDSN, BuildDSN(config))
	})
}

func TestPostgresClient_GetDB(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	sqlxDB := sqlx.NewDb(mockDB, "postgres")
	client := &PostgresClient{db: sqlxDB}

	assert.Equal(t, sqlxDB, client.GetDB())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_Ping(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectPing()

	client := &PostgresClient{db: sqlx.NewDb(mockDB, "postgres")}

	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_Close(t *testing.T) {
	t.Run("Close database connection successfully", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectClose()

		client := &PostgresClient{db: sqlx.NewDb(mockDB, "postgres")}

		assert.NoError(t, client.Close())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Close database connection with error", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectClose().WillReturnError(sql.ErrConnDone)

		client := &PostgresClient{db: sqlx.NewDb(mockDB, "postgres")}

		err = client.Close()
		assert.Error(t, err)
		assert.Equal(t, sql.ErrConnDone, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Close nil client", func(t *testing.T) {
		var client *PostgresClient
		assert.Panics(t, func() {
			client.Close()
		})
	})
}
