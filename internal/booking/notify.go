package booking

import (
	"context"
	"time"

	"fitclub/internal/events"
	"fitclub/internal/logger"

	"github.com/google/uuid"
)

// Mailer queues booking e-mails.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, toEmail, toName, className, gymName string, startsAt time.Time, waitlisted bool) error
	SendBookingCancellation(ctx context.Context, toEmail, toName, className string, startsAt time.Time) error
	SendWaitlistPromotion(ctx context.Context, toEmail, toName, className, gymName string, startsAt time.Time) error
}

// Contacts resolves where to reach a user.
type Contacts interface {
	Contact(ctx context.Context, userID uuid.UUID) (email, name string, err error)
}

// Notifier fans committed booking changes out to e-mail and the event bus.
// Failures are logged and never returned.
type Notifier struct {
	mailer    Mailer
	contacts  Contacts
	publisher events.Publisher
}

func NewNotifier(mailer Mailer, contacts Contacts, publisher events.Publisher) *Notifier {
	return &Notifier{mailer: mailer, contacts: contacts, publisher: publisher}
}

type bookingEvent struct {
	BookingID   int64     `json:"booking_id"`
	UserID      uuid.UUID `json:"user_id"`
	ScheduleID  int64     `json:"class_schedule_id"`
	Status      Status    `json:"status"`
	ScheduledAt time.Time `json:"scheduled_at,omitempty"`
}

func (n *Notifier) publish(ctx context.Context, key string, b *Booking, scheduledAt time.Time) {
	if n == nil || n.publisher == nil {
		return
	}
	payload := bookingEvent{BookingID: b.ID, UserID: b.UserID, ScheduleID: b.ScheduleID, Status: b.Status, ScheduledAt: scheduledAt}
	if err := n.publisher.Publish(ctx, key, payload); err != nil {
		logger.WithError(err).Warn("failed to publish booking event", "routing_key", key, "booking_id", b.ID)
	}
}

func (n *Notifier) contact(ctx context.Context, userID uuid.UUID) (string, string, bool) {
	if n == nil || n.mailer == nil || n.contacts == nil {
		return "", "", false
	}
	email, name, err := n.contacts.Contact(ctx, userID)
	if err != nil {
		logger.WithError(err).Warn("failed to resolve booking contact", "user_id", userID)
		return "", "", false
	}
	return email, name, email != ""
}

func (n *Notifier) Booked(ctx context.Context, b *BookingWithDetails) {
	key := events.BookingConfirmed
	if b.Status == StatusWaitlist {
		key = events.BookingWaitlisted
	}
	n.publish(ctx, key, &b.Booking, b.ScheduledAt)

	if email, name, ok := n.contact(ctx, b.UserID); ok {
		err := n.mailer.SendBookingConfirmation(ctx, email, name, b.ClassName, b.GymName, b.ScheduledAt, b.Status == StatusWaitlist)
		if err != nil {
			logger.WithError(err).Error("failed to queue booking confirmation", "booking_id", b.ID)
		}
	}
}

func (n *Notifier) Cancelled(ctx context.Context, b *BookingWithDetails) {
	n.publish(ctx, events.BookingCancelled, &b.Booking, b.ScheduledAt)

	if email, name, ok := n.contact(ctx, b.UserID); ok {
		if err := n.mailer.SendBookingCancellation(ctx, email, name, b.ClassName, b.ScheduledAt); err != nil {
			logger.WithError(err).Error("failed to queue cancellation email", "booking_id", b.ID)
		}
	}
}

func (n *Notifier) Promoted(ctx context.Context, b *BookingWithDetails) {
	n.publish(ctx, events.BookingPromoted, &b.Booking, b.ScheduledAt)

	if email, name, ok := n.contact(ctx, b.UserID); ok {
		if err := n.mailer.SendWaitlistPromotion(ctx, email, name, b.ClassName, b.GymName, b.ScheduledAt); err != nil {
			logger.WithError(err).Error("failed to queue promotion email", "booking_id", b.ID)
		}
	}
}
