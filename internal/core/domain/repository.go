package domain

import "context"

// ContactRepository is the storage collaborator for contacts.
// Find and Remove report a missing identity as ErrContactNotFound.
type ContactRepository interface {
	Add(ctx context.Context, contact *Contact) error
	Find(ctx context.Context, id int) (*Contact, error)
	Update(ctx context.Context, id int, contact *Contact) error
	Remove(ctx context.Context, id int) error
	Count(ctx context.Context, filter ContactFilter) (int, error)
	List(ctx context.Context, filter ContactFilter, offset, limit int) ([]*Contact, error)
}
