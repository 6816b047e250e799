package main

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectDB(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectPing()

		tc := newTestAPIConfig(t)
		tc.dbQueries = nil
		tc.dbURL = "postgres://example"
		tc.newDBClientFunc = func(driverName, dataSourceName string) (*sql.DB, error) {
			assert.Equal(t, "postgres", driverName)
			assert.Equal(t, "postgres://example", dataSourceName)
			return db, nil
		}

		require.NoError(t, tc.ConnectDB())
		assert.NotNil(t, tc.dbQueries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Open fails", func(t *testing.T) {
		tc := newTestAPIConfig(t)
		before := tc.dbQueries
		tc.newDBClientFunc = func(driverName, dataSourceName string) (*sql.DB, error) {
			return nil, errors.New("bad dsn")
		}

		err := tc.ConnectDB()

		assert.EqualError(t, err, "bad dsn")
		assert.Same(t, before, tc.dbQueries)
	})

	t.Run("Ping fails", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		tc := newTestAPIConfig(t)
		before := tc.dbQueries
		tc.newDBClientFunc = func(driverName, dataSourceName string) (*sql.DB, error) {
			return db, nil
		}

		err = tc.ConnectDB()

		assert.EqualError(t, err, "connection refused")
		assert.Same(t, before, tc.dbQueries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
