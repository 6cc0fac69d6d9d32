package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewRepository(sqlx.NewDb(conn, "sqlmock")), mock
}

var bookingCols = []string{"id", "user_id", "class_schedule_id", "status", "booked_at", "cancelled_at"}

func TestRepositoryInsertBooking(t *testing.T) {
	repo, mock := setupMockRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	at := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings (user_id, class_schedule_id, status, booked_at)")).
		WithArgs(userID.String(), int64(3), "confirmed", at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))

	b := &Booking{UserID: userID, ScheduleID: 3, Status: StatusConfirmed, BookedAt: at}
	require.NoError(t, repo.InsertBooking(ctx, b))
	assert.Equal(t, int64(17), b.ID)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_one_active_per_user"})

	err := repo.InsertBooking(ctx, &Booking{UserID: userID, ScheduleID: 3, Status: StatusWaitlist, BookedAt: at})
	assert.ErrorIs(t, err, ErrAlreadyBooked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryLockBooking(t *testing.T) {
	repo, mock := setupMockRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	at := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(4, userID.String(), 3, "waitlist", at, nil))

	b, err := repo.LockBooking(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, userID, b.UserID)
	assert.Equal(t, StatusWaitlist, b.Status)
	assert.Nil(t, b.CancelledAt)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err = repo.GetBooking(ctx, 5)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateStatusIsConditional(t *testing.T) {
	repo, mock := setupMockRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $3 AND status = $4")).
		WithArgs("cancelled", sqlmock.AnyArg(), int64(4), "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $3 AND status = $4")).
		WithArgs("confirmed", sqlmock.AnyArg(), int64(5), "waitlist").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateStatus(ctx, 4, StatusConfirmed, StatusCancelled, &at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateStatus(ctx, 5, StatusWaitlist, StatusConfirmed, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryOldestWaitlisted(t *testing.T) {
	repo, mock := setupMockRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY booked_at, id LIMIT 1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(9, uuid.New().String(), 3, "waitlist", at, nil))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY booked_at, id LIMIT 1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	b, err := repo.OldestWaitlisted(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(9), b.ID)

	_, err = repo.OldestWaitlisted(ctx, 3)
	assert.ErrorIs(t, err, ErrNoWaitlist)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListUserBookingsUpcoming(t *testing.T) {
	repo, mock := setupMockRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	cols := append(append([]string{}, bookingCols...),
		"gym_id", "class_id", "scheduled_at", "class_name", "class_category", "duration_minutes", "instructor_name", "gym_name")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.user_id = $1 AND b.status IN ('confirmed', 'waitlist') AND s.scheduled_at > $2 ORDER BY b.booked_at DESC")).
		WithArgs(userID.String(), now).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, userID.String(), 3, "confirmed", now, nil, 1, 2, now.Add(time.Hour), "Spin", "cardio", 45, "Ana", "Downtown"))

	bookings, err := repo.ListUserBookings(ctx, userID, ListFilter{Upcoming: true}, now)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Spin", bookings[0].ClassName)
	require.NotNil(t, bookings[0].InstructorName)
	assert.Equal(t, "Ana", *bookings[0].InstructorName)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.user_id = $1 AND b.status = $2 ORDER BY")).
		WithArgs(userID.String(), "cancelled").
		WillReturnRows(sqlmock.NewRows(cols))

	bookings, err = repo.ListUserBookings(ctx, userID, ListFilter{Status: StatusCancelled}, now)
	require.NoError(t, err)
	assert.Empty(t, bookings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryWithinTx(t *testing.T) {
	repo, mock := setupMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("spots_remaining > 0")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithinTx(ctx, func(tx Repository) error {
		_, err := tx.DecrementSpots(ctx, 3)
		return err
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = repo.WithinTx(ctx, func(tx Repository) error { return boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
