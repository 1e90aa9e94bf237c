package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// Application is the contact store used by every presentation layer.
type Application struct {
	repo   domain.ContactRepository
	events EventPublisher
	logger *slog.Logger
}

// NewApplication creates a new Application. events may be nil to disable change events.
func NewApplication(repo domain.ContactRepository, events EventPublisher, logger *slog.Logger) *Application {
	return &Application{
		repo:   repo,
		events: events,
		logger: logger.With("service_component", "ContactApplication"),
	}
}

// Add trims and validates the input, then stores a new contact.
func (a *Application) Add(ctx context.Context, name, phone, email string) (ct *domain.Contact, err error) {
	defer a.observe("add", time.Now(), &err)

	ct = domain.NewContact(name, phone, email)
	if err := domain.ValidateNewContact(ct); err != nil {
		a.logger.InfoContext(ctx, "Rejected new contact", "error", err)
		return nil, err
	}
	if err := a.repo.Create(ctx, ct); err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "Contact added", "contact_id", ct.ID)
	a.publish(ctx, SubjectContactCreated, ContactEvent{ContactID: ct.ID, Contact: ct})
	return ct, nil
}

// List returns the contacts matching f in id order. No match is an empty slice.
func (a *Application) List(ctx context.Context, f domain.Filter) (contacts []*domain.Contact, err error) {
	defer a.observe("list", time.Now(), &err)
	return a.repo.List(ctx, f)
}

func (a *Application) Get(ctx context.Context, id int64) (ct *domain.Contact, err error) {
	defer a.observe("get", time.Now(), &err)
	return a.repo.GetByID(ctx, id)
}

// Update replaces the three text fields of contact id as given. Unlike Add, it does not
// trim or validate.
func (a *Application) Update(ctx context.Context, id int64, name, phone, email string) (ct *domain.Contact, err error) {
	defer a.observe("update", time.Now(), &err)

	ct = &domain.Contact{ID: id, Name: name, Phone: phone, Email: email}
	if err := a.repo.Update(ctx, ct); err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "Contact updated", "contact_id", id)
	a.publish(ctx, SubjectContactUpdated, ContactEvent{ContactID: id, Contact: ct})
	return ct, nil
}

// Delete removes contact id. Deleting an unknown id succeeds.
func (a *Application) Delete(ctx context.Context, id int64) (err error) {
	defer a.observe("delete", time.Now(), &err)

	if err := a.repo.Delete(ctx, id); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "Contact deleted", "contact_id", id)
	a.publish(ctx, SubjectContactDeleted, ContactEvent{ContactID: id})
	return nil
}

func (a *Application) observe(op string, start time.Time, errp *error) {
	contactOperationDurationHist.WithLabelValues(op).Observe(time.Since(start).Seconds())
	contactOperationsCounter.WithLabelValues(op, statusLabel(*errp)).Inc()
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrValidation):
		return "validation_error"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
