/*
store.go - Persistence interface for contact records

PURPOSE:
  Defines the interface between the HTTP boundary and the database. Every
  write operation is atomic: uniqueness validation and the subsequent
  mutation run inside one storage transaction, so a rejected write leaves
  prior state untouched.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite

SEE ALSO:
  - api/handlers.go: Consumer of this interface
*/
package contacts

import "context"

// Store handles persistence of contacts and their child collections.
type Store interface {
	// Create validates uniqueness of the scalar phone and of every
	// phone-number and address entry, then persists the contact with its
	// children and resolves tags. Returns *ConflictError without writing
	// anything if a value is already claimed.
	Create(ctx context.Context, c NewContact) (*Contact, error)

	// GetByID returns the contact with all child collections populated,
	// or (nil, nil) when the id does not exist.
	GetByID(ctx context.Context, id int64) (*Contact, error)

	// Update applies a partial update. Supplied child lists replace the
	// existing set wholesale, and every entry is validated against other
	// contacts before the old set is deleted. Returns ErrNotFound for a
	// missing id, *ConflictError (with no mutation applied) on collision.
	Update(ctx context.Context, id int64, u Update) (*Contact, error)

	// Delete removes the contact and cascades to its phone numbers and
	// addresses; tag rows survive. Returns ErrNotFound for a missing id.
	Delete(ctx context.Context, id int64) error

	// List returns one page of contacts plus the total count.
	List(ctx context.Context, opts ListOptions) (*Page, error)

	// Search filters by case-insensitive substring (name, email, scalar
	// phone, or any owned phone number) and/or exact case-insensitive tag
	// name, ANDed when both are present. Results are deduplicated.
	Search(ctx context.Context, query, tag string, opts ListOptions) (*Page, error)
}
