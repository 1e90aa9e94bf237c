package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// ContactRepository keeps contacts in a slice ordered by id. Callers get copies, so
// mutating a returned contact never changes the stored one.
type ContactRepository struct {
	mu       sync.Mutex
	lastID   int64
	contacts []domain.Contact
}

var _ domain.ContactRepository = (*ContactRepository)(nil)

func NewContactRepository() *ContactRepository {
	return &ContactRepository{}
}

func (r *ContactRepository) Create(_ context.Context, ct *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	ct.ID = r.lastID
	r.contacts = append(r.contacts, *ct)
	return nil
}

func (r *ContactRepository) GetByID(_ context.Context, id int64) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.find(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	ct := r.contacts[i]
	return &ct, nil
}

func (r *ContactRepository) List(_ context.Context, f domain.Filter) ([]*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Contact{}
	for i := range r.contacts {
		if f.Matches(&r.contacts[i]) {
			ct := r.contacts[i]
			out = append(out, &ct)
		}
	}
	return out, nil
}

func (r *ContactRepository) Update(_ context.Context, ct *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.find(ct.ID)
	if !ok {
		return domain.ErrNotFound
	}
	r.contacts[i] = *ct
	return nil
}

func (r *ContactRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.find(id); ok {
		r.contacts = slices.Delete(r.contacts, i, i+1)
	}
	return nil
}

// find relies on contacts being sorted by id, which holds because ids only grow.
func (r *ContactRepository) find(id int64) (int, bool) {
	return slices.BinarySearchFunc(r.contacts, id, func(c domain.Contact, id int64) int {
		return cmp.Compare(c.ID, id)
	})
}
