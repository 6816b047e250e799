package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var locationColumns = []string{
	"id", "city_name", "latitude", "longitude", "country_code", "utc_offset_seconds", "created_at", "updated_at",
}

func newMockQueries(t *testing.T) (*Queries, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestGetLocationByAlias(t *testing.T) {
	q, mock := newMockQueries(t)
	id := uuid.New()
	created := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)

	mock.ExpectQuery(getLocationByAlias).
		WithArgs("calcutta").
		WillReturnRows(sqlmock.NewRows(locationColumns).
			AddRow(id, "Kolkata", 22.5726, 88.3639, "IN", 19800, created, created))

	loc, err := q.GetLocationByAlias(context.Background(), "calcutta")

	require.NoError(t, err)
	assert.Equal(t, id, loc.ID)
	assert.Equal(t, "Kolkata", loc.CityName)
	assert.Equal(t, sql.NullInt32{Int32: 19800, Valid: true}, loc.UtcOffsetSeconds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLocationByAlias_NoRows(t *testing.T) {
	q, mock := newMockQueries(t)
	mock.ExpectQuery(getLocationByAlias).
		WithArgs("atlantis").
		WillReturnRows(sqlmock.NewRows(locationColumns))

	_, err := q.GetLocationByAlias(context.Background(), "atlantis")

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLocations(t *testing.T) {
	q, mock := newMockQueries(t)
	now := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)

	mock.ExpectQuery(listLocations).
		WillReturnRows(sqlmock.NewRows(locationColumns).
			AddRow(uuid.New(), "Kolkata", 22.5726, 88.3639, "IN", 19800, now, now).
			AddRow(uuid.New(), "Wrocław", 51.1079, 17.0385, "PL", nil, now, now))

	locations, err := q.ListLocations(context.Background())

	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Wrocław", locations[1].CityName)
	assert.False(t, locations[1].UtcOffsetSeconds.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUTCOffset(t *testing.T) {
	q, mock := newMockQueries(t)
	id := uuid.New()
	offset := sql.NullInt32{Int32: 7200, Valid: true}

	mock.ExpectExec(updateUTCOffset).
		WithArgs(id, offset).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := q.UpdateUTCOffset(context.Background(), UpdateUTCOffsetParams{ID: id, UtcOffsetSeconds: offset})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
