package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"fitclub/internal/logger"
	"fitclub/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
	timeLayout     = "Jan 2, 2006 at 3:04 PM"
)

// Job types, also used as the metrics label.
const (
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingWaitlist  = "booking_waitlist"
	TypeBookingCancelled = "booking_cancelled"
	TypeWaitlistPromoted = "waitlist_promoted"
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Config struct {
	From     string
	FromName string
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
}

// Service is a Redis-backed outbox. Send only enqueues; Start drains the
// queue over SMTP.
type Service struct {
	redis       *redis.Client
	cfg         Config
	retryDelay  time.Duration
	pollBackoff time.Duration
	deliver     func(Job) error
	now         func() time.Time
}

func New(cfg Config, rdb *redis.Client) *Service {
	s := &Service{
		redis:       rdb,
		cfg:         cfg,
		retryDelay:  5 * time.Second,
		pollBackoff: 2 * time.Second,
		now:         time.Now,
	}
	s.deliver = s.sendNow
	return s
}

func (s *Service) Send(ctx context.Context, jobType, to, name, subject, body string) error {
	job := Job{
		Type:    jobType,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: s.now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		metrics.RecordEmail(jobType, "queue_failed")
		logger.WithError(err).Error("failed to queue email", "to", to, "type", jobType)
		return err
	}

	metrics.RecordEmail(jobType, "queued")
	logger.Debug("email queued", "to", to, "type", jobType)
	return nil
}

// Start blocks until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.WithError(err).Error("failed to poll email queue", "backoff", s.pollBackoff)
		wait(ctx, s.pollBackoff)
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.WithError(err).Error("dropping malformed email job")
		return
	}

	job.Tries++
	if err := s.deliver(job); err != nil {
		logger.WithError(err).Warn("email delivery failed", "to", job.To, "attempt", job.Tries)
		if job.Tries < maxTries {
			s.retry(ctx, job)
		} else {
			s.saveFailed(ctx, job, err)
		}
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("email sent", "to", job.To, "type", job.Type)
}

// wait sleeps for d or until ctx is cancelled.
func wait(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (s *Service) retry(ctx context.Context, job Job) {
	wait(ctx, s.retryDelay)

	data, _ := json.Marshal(job)
	// Requeue even on shutdown so the job survives a restart.
	if err := s.redis.LPush(context.WithoutCancel(ctx), queueKey, data).Err(); err != nil {
		logger.WithError(err).Error("failed to requeue email", "to", job.To)
	}
}

func (s *Service) saveFailed(ctx context.Context, job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  s.now(),
	}
	data, _ := json.Marshal(failed)
	if err := s.redis.LPush(context.WithoutCancel(ctx), failedQueueKey, data).Err(); err != nil {
		logger.WithError(err).Error("failed to park email", "to", job.To)
	}
	metrics.RecordEmail(job.Type, "failed")
	logger.Error("email moved to failed queue", "to", job.To, "tries", job.Tries)
}

func (s *Service) sendNow(job Job) error {
	if s.cfg.SMTPHost == "" {
		logger.Warn("SMTP not configured, email discarded", "to", job.To, "subject", job.Subject)
		return nil
	}

	message := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	message += fmt.Sprintf("To: %s <%s>\r\n", job.Name, job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "Content-Type: text/plain; charset=UTF-8\r\n"
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" && s.cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	return smtp.SendMail(addr, auth, s.cfg.From, []string{job.To}, []byte(message))
}

// QueueLength also refreshes the queue gauge.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) signature() string {
	return "- " + s.cfg.FromName + " Team"
}

func (s *Service) SendBookingConfirmation(ctx context.Context, toEmail, toName, className, gymName string, startsAt time.Time, waitlisted bool) error {
	if waitlisted {
		subject := "Waitlisted - " + className
		body := fmt.Sprintf(`Hi %s,

The class is full, so you are on the waitlist:

Class: %s
Gym: %s
Time: %s

We will e-mail you if a spot opens up.

%s`, toName, className, gymName, startsAt.Format(timeLayout), s.signature())
		return s.Send(ctx, TypeBookingWaitlist, toEmail, toName, subject, body)
	}

	subject := "Booking Confirmed - " + className
	body := fmt.Sprintf(`Hi %s,

Your booking is confirmed!

Class: %s
Gym: %s
Time: %s

See you at the gym!

%s`, toName, className, gymName, startsAt.Format(timeLayout), s.signature())
	return s.Send(ctx, TypeBookingConfirmed, toEmail, toName, subject, body)
}

func (s *Service) SendBookingCancellation(ctx context.Context, toEmail, toName, className string, startsAt time.Time) error {
	subject := "Booking Cancelled - " + className
	body := fmt.Sprintf(`Hi %s,

Your booking has been cancelled:

Class: %s
Time: %s

%s`, toName, className, startsAt.Format(timeLayout), s.signature())
	return s.Send(ctx, TypeBookingCancelled, toEmail, toName, subject, body)
}

func (s *Service) SendWaitlistPromotion(ctx context.Context, toEmail, toName, className, gymName string, startsAt time.Time) error {
	subject := "You're in - " + className
	body := fmt.Sprintf(`Hi %s,

A spot opened up and your waitlisted booking is now confirmed:

Class: %s
Gym: %s
Time: %s

See you at the gym!

%s`, toName, className, gymName, startsAt.Format(timeLayout), s.signature())
	return s.Send(ctx, TypeWaitlistPromoted, toEmail, toName, subject, body)
}
