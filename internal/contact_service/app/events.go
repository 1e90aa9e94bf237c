package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

const (
	SubjectContactCreated = "contactbook.contact.created"
	SubjectContactUpdated = "contactbook.contact.updated"
	SubjectContactDeleted = "contactbook.contact.deleted"
)

// EventPublisher is satisfied by *messagebroker.NatsClient.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// ContactEvent is the JSON payload published on every successful change.
// Contact is nil for deletions.
type ContactEvent struct {
	ContactID  int64           `json:"contact_id"`
	Contact    *domain.Contact `json:"contact,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// publish never fails the calling operation; broker problems are logged and counted.
func (a *Application) publish(ctx context.Context, subject string, evt ContactEvent) {
	if a.events == nil {
		return
	}
	evt.OccurredAt = time.Now().UTC()
	payload, err := json.Marshal(evt)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to marshal contact event", "subject", subject, "error", err)
		contactEventsPublishedCounter.WithLabelValues(subject, "error").Inc()
		return
	}
	if err := a.events.Publish(ctx, subject, payload); err != nil {
		a.logger.ErrorContext(ctx, "Failed to publish contact event", "subject", subject, "contact_id", evt.ContactID, "error", err)
		contactEventsPublishedCounter.WithLabelValues(subject, "error").Inc()
		return
	}
	contactEventsPublishedCounter.WithLabelValues(subject, "success").Inc()
}
