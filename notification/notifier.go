// Package notification delivers scheduling emails, either directly over SMTP or
// through a Kafka topic drained by the notification consumer.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"justissimo-api/monitoring"
	"justissimo-api/utils"
)

const (
	KindCancelledByLawyer = "cancelled_by_lawyer"
	KindCancelledByClient = "cancelled_by_client"
	KindServiceEnded      = "service_ended"
	KindReviewInvitation  = "review_invitation"
)

const EventRequested = "notification_requested"

type Notification struct {
	SchedulingID uint        `json:"scheduling_id"`
	Kind         string      `json:"kind"`
	Email        utils.Email `json:"email"`
}

type Event struct {
	Event string       `json:"event"`
	Data  Notification `json:"data"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// AfterCommit reports whether n must only be called once the closure is committed,
// outside the closing transaction.
func AfterCommit(n Notifier) bool {
	d, ok := n.(interface{ AfterCommit() bool })
	return ok && d.AfterCommit()
}

// DirectNotifier sends each email before returning.
type DirectNotifier struct {
	mailer utils.Mailer
}

func NewDirectNotifier(mailer utils.Mailer) *DirectNotifier {
	return &DirectNotifier{mailer: mailer}
}

func (d *DirectNotifier) Notify(ctx context.Context, n Notification) error {
	if err := d.mailer.Send(ctx, n.Email); err != nil {
		monitoring.NotificationEmails.WithLabelValues(n.Kind, "failed").Inc()
		return err
	}
	monitoring.NotificationEmails.WithLabelValues(n.Kind, "sent").Inc()
	return nil
}

// QueueNotifier publishes notifications to Kafka; delivery happens in the consumer.
type QueueNotifier struct {
	producer utils.KafkaProducer
	topic    string
}

func NewQueueNotifier(producer utils.KafkaProducer, topic string) *QueueNotifier {
	return &QueueNotifier{producer: producer, topic: topic}
}

// AfterCommit: queued emails are published only for committed closures.
func (q *QueueNotifier) AfterCommit() bool { return true }

func (q *QueueNotifier) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(Event{Event: EventRequested, Data: n})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	// keyed by scheduling so one closure's emails stay ordered on a partition
	key := []byte(strconv.FormatUint(uint64(n.SchedulingID), 10))
	if err := q.producer.SendMessage(ctx, q.topic, key, payload); err != nil {
		monitoring.NotificationEmails.WithLabelValues(n.Kind, "enqueue_failed").Inc()
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	monitoring.NotificationEmails.WithLabelValues(n.Kind, "queued").Inc()
	return nil
}
