package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"justissimo-api/monitoring"
	"justissimo-api/notification"
	"justissimo-api/utils"
)

const auditIndex = "scheduling_notifications"

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DeliveryRecord is the audit document stored for every processed notification.
type DeliveryRecord struct {
	SchedulingID uint      `json:"scheduling_id"`
	Kind         string    `json:"kind"`
	To           []string  `json:"to"`
	Subject      string    `json:"subject"`
	Status       string    `json:"status"`
	Attempts     int       `json:"attempts"`
	Error        string    `json:"error,omitempty"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// NotificationConsumer drains queued scheduling notifications and sends them over SMTP.
type NotificationConsumer struct {
	mailer      utils.Mailer
	es          utils.ElasticsearchClient
	reader      messageReader
	log         logrus.FieldLogger
	maxAttempts int
	retryDelay  time.Duration
	shutdown    chan struct{}
}

func NewNotificationConsumer(broker, topic, groupID string, mailer utils.Mailer, es utils.ElasticsearchClient, log logrus.FieldLogger) *NotificationConsumer {
	return &NotificationConsumer{
		mailer: mailer,
		es:     es,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{broker},
			Topic:   topic,
			GroupID: groupID,
			MaxWait: 10 * time.Second,
		}),
		log:         log,
		maxAttempts: 5,
		retryDelay:  2 * time.Second,
		shutdown:    make(chan struct{}),
	}
}

func (c *NotificationConsumer) Start(ctx context.Context) {
	c.log.Info("Starting notification consumer")

	go func() {
		for {
			select {
			case <-c.shutdown:
				return
			case <-ctx.Done():
				return
			default:
				c.processMessages(ctx)
			}
		}
	}()
}

func (c *NotificationConsumer) Stop() {
	close(c.shutdown)
	if err := c.reader.Close(); err != nil {
		c.log.WithError(err).Warn("Error closing Kafka reader")
	}
}

// processMessages handles one message. Its offset is committed only once the message
// has been dealt with, so a crash mid-delivery leads to redelivery.
func (c *NotificationConsumer) processMessages(ctx context.Context) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.log.WithError(err).Warn("Kafka read error (will retry)")
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
		case <-c.shutdown:
		}
		return
	}

	if err := c.handle(ctx, msg); err != nil {
		// interrupted by shutdown; leave the offset for the next consumer
		c.log.WithError(err).WithField("offset", msg.Offset).Warn("Notification left uncommitted")
		return
	}
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.log.WithError(err).WithField("offset", msg.Offset).Error("Failed to commit notification offset")
	}
}

// handle returns an error only when msg should be redelivered.
func (c *NotificationConsumer) handle(ctx context.Context, msg kafka.Message) error {
	var event notification.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.log.WithError(err).WithField("offset", msg.Offset).Error("Failed to unmarshal notification event")
		return nil
	}

	switch event.Event {
	case notification.EventRequested:
		id := fmt.Sprintf("%d-%d", msg.Partition, msg.Offset)
		if err := c.Deliver(ctx, id, event.Data); err != nil {
			if ctx.Err() != nil {
				return err
			}
			c.log.WithError(err).WithFields(logrus.Fields{
				"scheduling_id": event.Data.SchedulingID,
				"kind":          event.Data.Kind,
			}).Error("Notification delivery failed")
		}
	default:
		c.log.WithField("event", event.Event).Warn("Unknown event type")
	}
	return nil
}

// Deliver sends n with exponential backoff and records the outcome under id.
func (c *NotificationConsumer) Deliver(ctx context.Context, id string, n notification.Notification) error {
	var err error
	attempts := 0
	delay := c.retryDelay

loop:
	for attempts < c.maxAttempts {
		attempts++
		if err = c.mailer.Send(ctx, n.Email); err == nil {
			break
		}
		if errors.Is(err, utils.ErrNoRecipients) || attempts == c.maxAttempts {
			break
		}

		c.log.WithError(err).WithField("attempt", attempts).Warn("Notification send failed, retrying")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			err = ctx.Err()
			break loop
		}
		delay *= 2
	}

	record := DeliveryRecord{
		SchedulingID: n.SchedulingID,
		Kind:         n.Kind,
		To:           n.Email.To,
		Subject:      n.Email.Subject,
		Status:       "sent",
		Attempts:     attempts,
		ProcessedAt:  time.Now().UTC(),
	}
	if err != nil {
		record.Status = "failed"
		record.Error = err.Error()
	}
	monitoring.NotificationEmails.WithLabelValues(n.Kind, record.Status).Inc()
	c.audit(context.WithoutCancel(ctx), id, record)

	if err != nil {
		return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
	}
	c.log.WithFields(logrus.Fields{
		"scheduling_id": n.SchedulingID,
		"kind":          n.Kind,
		"attempts":      attempts,
	}).Info("Notification delivered")
	return nil
}

func (c *NotificationConsumer) audit(ctx context.Context, id string, record DeliveryRecord) {
	if c.es == nil {
		return
	}
	if err := c.es.IndexDocument(ctx, auditIndex, id, record); err != nil {
		c.log.WithError(err).Warn("Failed to index notification audit record")
	}
}
