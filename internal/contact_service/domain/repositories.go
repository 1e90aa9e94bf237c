package domain

import "context"

// ContactRepository persists contacts. Every method is a single statement against the store;
// implementations wrap driver failures in *StorageError.
type ContactRepository interface {
	// Create assigns ct.ID.
	Create(ctx context.Context, ct *Contact) error
	GetByID(ctx context.Context, id int64) (*Contact, error)
	// List returns matching contacts in id order; no match is an empty slice.
	List(ctx context.Context, f Filter) ([]*Contact, error)
	// Update returns ErrNotFound when no row has ct.ID.
	Update(ctx context.Context, ct *Contact) error
	// Delete is a no-op for an unknown id.
	Delete(ctx context.Context, id int64) error
}
