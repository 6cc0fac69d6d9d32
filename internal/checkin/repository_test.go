package checkin

import (
	"context"
	"regexp"
	"testing"
	"time"

	"fitclub/internal/guard"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkInCols = []string{"id", "user_id", "gym_id", "membership_id", "checked_in_at", "checked_out_at", "duration_minutes"}

func setupCheckInMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewRepository(sqlx.NewDb(conn, "sqlmock")), mock
}

func TestInsertOpenMapsUniqueIndex(t *testing.T) {
	repo, mock := setupCheckInMock(t)
	ctx := context.Background()
	userID := uuid.New()
	at := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO check_ins (user_id, gym_id, membership_id, checked_in_at)")).
		WithArgs(userID.String(), int64(1), int64(9), at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO check_ins")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "check_ins_one_open_per_user"})

	c := &CheckIn{UserID: userID, GymID: 1, MembershipID: 9, CheckedInAt: at}
	require.NoError(t, repo.InsertOpen(ctx, c))
	assert.Equal(t, int64(3), c.ID)

	err := repo.InsertOpen(ctx, &CheckIn{UserID: userID, GymID: 1, MembershipID: 9, CheckedInAt: at})
	assert.ErrorIs(t, err, guard.ErrAlreadyOpen)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseInsideTransaction(t *testing.T) {
	repo, mock := setupCheckInMock(t)
	ctx := context.Background()
	userID := uuid.New()
	at := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	closedAt := at.Add(37 * time.Minute)
	minutes := 37

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND checked_out_at IS NULL AND id = $2 FOR UPDATE")).
		WithArgs(userID.String(), int64(3)).
		WillReturnRows(sqlmock.NewRows(checkInCols).AddRow(3, userID.String(), 1, 9, at, nil, nil))
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $3 AND checked_out_at IS NULL")).
		WithArgs(closedAt, int64(37), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithinTx(ctx, func(tx Repository) error {
		c, err := tx.LockOpen(ctx, userID, 3)
		if err != nil {
			return err
		}
		c.CheckedOutAt = &closedAt
		c.DurationMinutes = &minutes
		ok, err := tx.MarkClosed(ctx, c)
		assert.True(t, ok)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLockOpenWithoutID(t *testing.T) {
	repo, mock := setupCheckInMock(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND checked_out_at IS NULL FOR UPDATE")).
		WithArgs(userID.String()).
		WillReturnRows(sqlmock.NewRows(checkInCols))

	_, err := repo.LockOpen(context.Background(), userID, 0)
	assert.ErrorIs(t, err, guard.ErrNotOpen)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryCountsClosedOnly(t *testing.T) {
	repo, mock := setupCheckInMock(t)
	userID := uuid.New()
	at := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM check_ins WHERE user_id = $1 AND checked_out_at IS NOT NULL")).
		WithArgs(userID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY c.checked_in_at DESC LIMIT $2 OFFSET $3")).
		WithArgs(userID.String(), 2, 4).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, checkInCols...), "gym_name", "gym_city")).
			AddRow(5, userID.String(), 1, 9, at, at.Add(time.Hour), 60, "Downtown", "Lisbon"))

	list, total, err := repo.History(context.Background(), userID, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Downtown", list[0].GymName)
	require.NoError(t, mock.ExpectationsWereMet())
}
