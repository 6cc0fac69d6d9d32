package email

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"fitclub/internal/logger"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

var testNow = time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

func newTestService(rdb *redis.Client, deliver func(Job) error) *Service {
	s := New(Config{
		From:     "noreply@fitclub.app",
		FromName: "FitClub",
		SMTPHost: "smtp.test.com",
		SMTPPort: "587",
	}, rdb)
	s.retryDelay = 0
	s.now = func() time.Time { return testNow }
	if deliver != nil {
		s.deliver = deliver
	}
	return s
}

func encode(t *testing.T, job Job) string {
	t.Helper()
	data, err := json.Marshal(job)
	require.NoError(t, err)
	return string(data)
}

func TestSend(t *testing.T) {
	db, mock := redismock.NewClientMock()
	want := encode(t, Job{
		Type:    TypeBookingConfirmed,
		To:      "user@example.com",
		Name:    "User",
		Subject: "Hello",
		Body:    "Test body",
		Created: testNow,
	})
	mock.ExpectLPush("emails", []byte(want)).SetVal(1)

	svc := newTestService(db, nil)
	err := svc.Send(context.Background(), TypeBookingConfirmed, "user@example.com", "User", "Hello", "Test body")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush("emails", `.*`).SetErr(assert.AnError)

	svc := newTestService(db, nil)
	err := svc.Send(context.Background(), TypeBookingConfirmed, "user@example.com", "User", "Hello", "Test body")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingTemplates(t *testing.T) {
	when := time.Date(2024, 3, 14, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		send        func(*Service) error
		wantType    string
		wantSubject string
		wantBody    []string
	}{
		{
			name: "confirmed",
			send: func(s *Service) error {
				return s.SendBookingConfirmation(context.Background(), "jo@example.com", "Jo", "Yoga Flow", "Downtown", when, false)
			},
			wantType:    TypeBookingConfirmed,
			wantSubject: "Booking Confirmed - Yoga Flow",
			wantBody:    []string{"Hi Jo", "Gym: Downtown", "Mar 14, 2024 at 6:30 PM", "- FitClub Team"},
		},
		{
			name: "waitlisted",
			send: func(s *Service) error {
				return s.SendBookingConfirmation(context.Background(), "jo@example.com", "Jo", "Yoga Flow", "Downtown", when, true)
			},
			wantType:    TypeBookingWaitlist,
			wantSubject: "Waitlisted - Yoga Flow",
			wantBody:    []string{"waitlist"},
		},
		{
			name: "cancelled",
			send: func(s *Service) error {
				return s.SendBookingCancellation(context.Background(), "jo@example.com", "Jo", "Boxing", when)
			},
			wantType:    TypeBookingCancelled,
			wantSubject: "Booking Cancelled - Boxing",
			wantBody:    []string{"Class: Boxing"},
		},
		{
			name: "promoted",
			send: func(s *Service) error {
				return s.SendWaitlistPromotion(context.Background(), "jo@example.com", "Jo", "Spin", "Uptown", when)
			},
			wantType:    TypeWaitlistPromoted,
			wantSubject: "You're in - Spin",
			wantBody:    []string{"now confirmed", "Gym: Uptown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			svc := newTestService(db, nil)

			var queued Job
			mock.CustomMatch(func(expected, actual []interface{}) error {
				raw, ok := actual[2].([]byte)
				if !ok {
					return errors.New("payload is not bytes")
				}
				return json.Unmarshal(raw, &queued)
			}).ExpectLPush("emails", "payload").SetVal(1)

			require.NoError(t, tt.send(svc))
			assert.NoError(t, mock.ExpectationsWereMet())
			assert.Equal(t, tt.wantType, queued.Type)
			assert.Equal(t, "jo@example.com", queued.To)
			assert.Equal(t, tt.wantSubject, queued.Subject)
			for _, s := range tt.wantBody {
				assert.Contains(t, queued.Body, s)
			}
		})
	}
}

func TestProcessNext(t *testing.T) {
	job := Job{Type: TypeBookingConfirmed, To: "jo@example.com", Subject: "Hi", Body: "x", Created: testNow}

	t.Run("delivered", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectBRPop(2*time.Second, "emails").SetVal([]string{"emails", encode(t, job)})

		var got Job
		svc := newTestService(db, func(j Job) error { got = j; return nil })
		svc.processNext(context.Background())

		assert.Equal(t, 1, got.Tries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure is requeued with attempt count", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectBRPop(2*time.Second, "emails").SetVal([]string{"emails", encode(t, job)})
		retried := job
		retried.Tries = 1
		mock.ExpectLPush("emails", []byte(encode(t, retried))).SetVal(1)

		svc := newTestService(db, func(Job) error { return errors.New("smtp down") })
		svc.processNext(context.Background())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("last attempt goes to failed queue", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		exhausted := job
		exhausted.Tries = maxTries - 1
		mock.ExpectBRPop(2*time.Second, "emails").SetVal([]string{"emails", encode(t, exhausted)})
		mock.Regexp().ExpectLPush("emails:failed", `.*`).SetVal(1)

		svc := newTestService(db, func(Job) error { return errors.New("smtp down") })
		svc.processNext(context.Background())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed job is dropped", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectBRPop(2*time.Second, "emails").SetVal([]string{"emails", "{not json"})

		called := false
		svc := newTestService(db, func(Job) error { called = true; return nil })
		svc.processNext(context.Background())
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProcessNextPollErrors(t *testing.T) {
	t.Run("empty queue returns at once", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectBRPop(2*time.Second, "emails").RedisNil()

		svc := newTestService(db, nil)
		svc.pollBackoff = time.Minute

		start := time.Now()
		svc.processNext(context.Background())
		assert.Less(t, time.Since(start), time.Second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error backs off", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectBRPop(2*time.Second, "emails").SetErr(errors.New("dial tcp: connection refused"))

		called := false
		svc := newTestService(db, func(Job) error { called = true; return nil })
		svc.pollBackoff = 50 * time.Millisecond

		start := time.Now()
		svc.processNext(context.Background())
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("backoff ends on cancel", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectBRPop(2*time.Second, "emails").SetErr(errors.New("dial tcp: connection refused"))

		svc := newTestService(db, nil)
		svc.pollBackoff = time.Minute

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)

		start := time.Now()
		svc.processNext(ctx)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestStartStopsOnCancel(t *testing.T) {
	db, _ := redismock.NewClientMock()
	svc := newTestService(db, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		svc.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen("emails").SetVal(5)
	mock.ExpectLLen("emails").SetErr(assert.AnError)

	svc := newTestService(db, nil)
	assert.Equal(t, int64(5), svc.QueueLength(context.Background()))
	assert.Equal(t, int64(0), svc.QueueLength(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendNowWithoutSMTPIsDiscarded(t *testing.T) {
	db, _ := redismock.NewClientMock()
	svc := New(Config{From: "noreply@fitclub.app", FromName: "FitClub"}, db)
	assert.NoError(t, svc.sendNow(Job{To: "jo@example.com"}))
}
