package gym

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gymCols = []string{"id", "name", "slug", "address", "city", "country", "phone", "email", "latitude", "longitude",
	"description", "amenities", "is_active", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestGetAllGyms(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM gyms WHERE is_active = true ORDER BY name`).
		WillReturnRows(sqlmock.NewRows(gymCols).
			AddRow(1, "Downtown", "downtown", "1 Main St", "Berlin", "DE", nil, nil, 52.52, 13.405, nil, "{sauna,pool}", true, now, now).
			AddRow(2, "Harbour", "harbour", "9 Dock Rd", "Hamburg", "DE", nil, nil, nil, nil, nil, "{}", true, now, now))

	gyms, err := repo.GetAllGyms(context.Background())
	require.NoError(t, err)
	require.Len(t, gyms, 2)
	assert.Equal(t, []string{"sauna", "pool"}, []string(gyms[0].Amenities))
	require.NotNil(t, gyms[0].Latitude)
	assert.Nil(t, gyms[1].Latitude)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGymByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM gyms WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetGymByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrGymNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchGyms(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`\(name ILIKE \$1 OR city ILIKE \$1 OR address ILIKE \$1\) AND city = \$2 ORDER BY name`).
		WithArgs("%main%", "Berlin").
		WillReturnRows(sqlmock.NewRows(gymCols))
	mock.ExpectQuery(`address ILIKE \$1\) ORDER BY name`).
		WithArgs("%main%").
		WillReturnRows(sqlmock.NewRows(gymCols))

	gyms, err := repo.SearchGyms(context.Background(), "main", "Berlin")
	require.NoError(t, err)
	assert.NotNil(t, gyms)

	_, err = repo.SearchGyms(context.Background(), "main", "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClassesFilters(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM classes WHERE is_active = true AND gym_id = \$1 AND category = \$2 ORDER BY name`).
		WithArgs(int64(3), "yoga").
		WillReturnRows(sqlmock.NewRows([]string{"id", "gym_id", "name", "description", "category", "duration_minutes",
			"max_capacity", "difficulty", "instructor_name", "is_active", "created_at"}).
			AddRow(7, 3, "Morning Flow", nil, "yoga", 60, 15, "beginner", "Ana", true, time.Now()))

	classes, err := repo.GetClasses(context.Background(), ClassFilter{GymID: 3, Category: "yoga"})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, 15, classes[0].MaxCapacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSchedulesMarksFull(t *testing.T) {
	repo, mock := newMockRepo(t)
	from := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)
	cols := []string{"id", "gym_id", "class_id", "scheduled_at", "capacity", "spots_remaining", "is_cancelled", "created_at",
		"class_name", "class_category", "duration_minutes", "instructor_name"}

	mock.ExpectQuery(`WHERE s.is_cancelled = false AND s.scheduled_at > \$1 AND s.scheduled_at <= \$2 AND s.class_id = \$3`).
		WithArgs(from, to, int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 3, 7, from.Add(time.Hour), 10, 0, false, from, "Spin", "cardio", 45, nil).
			AddRow(2, 3, 7, from.Add(25*time.Hour), 10, 4, false, from, "Spin", "cardio", 45, nil))

	schedules, err := repo.GetSchedules(context.Background(), ScheduleWindow{ClassID: 7, From: from, To: &to})
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.True(t, schedules[0].IsFull)
	assert.False(t, schedules[1].IsFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchedule(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO class_schedules .* VALUES \(\$1, \$2, \$3, \$4, \$4\)`).
		WithArgs(int64(2), int64(4), at, 12).
		WillReturnRows(sqlmock.NewRows([]string{"id", "gym_id", "class_id", "scheduled_at", "capacity", "spots_remaining", "is_cancelled", "created_at"}).
			AddRow(30, 2, 4, at, 12, 12, false, time.Now()))

	s := &Schedule{GymID: 2, ClassID: 4, ScheduledAt: at, Capacity: 12}
	require.NoError(t, repo.CreateSchedule(context.Background(), s))
	assert.Equal(t, int64(30), s.ID)
	assert.Equal(t, 12, s.SpotsRemaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}
