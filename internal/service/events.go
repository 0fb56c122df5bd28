package service

import (
	"context"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/feed"
	"ridgeworks/internal/models"
	"ridgeworks/pkg/mailer"

	"go.uber.org/zap"
)

// Event is one domain event produced by a workflow transition. The primary
// mutation has already been persisted by the time an event is dispatched;
// delivery failures are logged and never surface to the caller.
type Event struct {
	Type           string
	ContractID     uint
	ContractNumber string
	Status         string
	Actor          Actor

	// Notification targets. NotifyAdmins fans out to every admin account.
	NotifyUserIDs []uint
	NotifyAdmins  bool
	Title         string
	Message       string
	Link          string

	// Optional transactional email.
	EmailUserID  uint
	EmailSubject string
	EmailBody    string
}

// EventSink receives the events a workflow operation produced.
type EventSink interface {
	Dispatch(ctx context.Context, events ...Event)
}

// NotificationStore is the subset of the notification repository the
// dispatcher needs.
type NotificationStore interface {
	Create(n *models.Notification) error
}

// UserDirectory resolves notification and email recipients.
type UserDirectory interface {
	GetByID(id uint) (*models.User, error)
	AdminIDs() ([]uint, error)
}

type EmailLogStore interface {
	Create(l *models.EmailLog) error
}

type FeedPublisher interface {
	Publish(ctx context.Context, msg feed.Message) error
}

// Dispatcher delivers workflow events: notification rows, transactional
// email (logged to email_logs), and the Redis change feed. Mailer and feed
// may be nil when those integrations are disabled.
type Dispatcher struct {
	notifications NotificationStore
	users         UserDirectory
	emailLogs     EmailLogStore
	mail          mailer.Mailer
	feed          FeedPublisher
	log           *zap.SugaredLogger
}

func NewDispatcher(
	notifications NotificationStore,
	users UserDirectory,
	emailLogs EmailLogStore,
	mail mailer.Mailer,
	feedPub FeedPublisher,
	log *zap.SugaredLogger,
) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		users:         users,
		emailLogs:     emailLogs,
		mail:          mail,
		feed:          feedPub,
		log:           log,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, events ...Event) {
	for _, ev := range events {
		d.deliver(ctx, ev)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	targets := append([]uint(nil), ev.NotifyUserIDs...)
	if ev.NotifyAdmins {
		ids, err := d.users.AdminIDs()
		if err != nil {
			d.log.Errorw("dispatch: list admins", "event", ev.Type, "err", err)
		} else {
			targets = append(targets, ids...)
		}
	}
	for _, uid := range targets {
		n := &models.Notification{
			UserID:  uid,
			Type:    ev.Type,
			Title:   ev.Title,
			Message: ev.Message,
			Link:    ev.Link,
		}
		if err := d.notifications.Create(n); err != nil {
			d.log.Errorw("dispatch: notification insert", "event", ev.Type, "user_id", uid, "err", err)
		}
	}

	if ev.EmailUserID != 0 {
		d.sendEmail(ctx, ev)
	}

	if d.feed != nil {
		msg := feed.Message{
			Type:           ev.Type,
			ContractID:     ev.ContractID,
			ContractNumber: ev.ContractNumber,
			Status:         ev.Status,
			UserIDs:        ev.NotifyUserIDs,
		}
		if err := d.feed.Publish(ctx, msg); err != nil {
			d.log.Warnw("dispatch: feed publish", "event", ev.Type, "err", err)
		}
	}
}

func (d *Dispatcher) sendEmail(ctx context.Context, ev Event) {
	if d.mail == nil {
		return
	}
	u, err := d.users.GetByID(ev.EmailUserID)
	if err != nil || u.Email == "" {
		d.log.Warnw("dispatch: email recipient lookup", "event", ev.Type, "user_id", ev.EmailUserID, "err", err)
		return
	}
	logEntry := &models.EmailLog{
		Recipient: u.Email,
		Subject:   ev.EmailSubject,
		Template:  ev.Type,
		Status:    domain.EmailStatusSent,
	}
	if err := d.mail.Send(ctx, u.Email, ev.EmailSubject, ev.EmailBody); err != nil {
		logEntry.Status = domain.EmailStatusFailed
		logEntry.Error = err.Error()
		d.log.Errorw("dispatch: email send", "event", ev.Type, "recipient", u.Email, "err", err)
	}
	if d.emailLogs != nil {
		if err := d.emailLogs.Create(logEntry); err != nil {
			d.log.Errorw("dispatch: email log insert", "event", ev.Type, "err", err)
		}
	}
}
