/*
Package contacts defines the core domain model for the address book.

PURPOSE:
  This package contains the contact record types, the error taxonomy, and
  the storage interface. It is transport-agnostic: the api package maps
  these types to HTTP, and store/sqlite persists them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Contact: A person record owning phone numbers, addresses, and tags
  - PhoneNumber / Address: Child rows cascade-deleted with their contact
  - Tag: A shared label with an independent lifecycle
  - Update: A patch carrier where nil means "leave untouched"
  - ListOptions / Page: Pagination and sorting contract

UNIQUENESS MODEL:
  A contact carries an optional scalar phone (and a legacy scalar address)
  alongside its child collections. The scalar field and the child table
  share one logical namespace: a phone value may appear in at most one
  place system-wide, whether as Contact.Phone or as a PhoneNumber row.
  The same holds for addresses. Tag names are case-insensitive-unique and
  stored lowercase.

SEE ALSO:
  - errors.go: Error taxonomy (NotFound, Conflict)
  - store.go: Persistence interface
  - store/sqlite/sqlite.go: Concrete implementation
*/
package contacts

// =============================================================================
// RECORD TYPES
// =============================================================================

// Contact is a full contact record with all child collections populated.
type Contact struct {
	ID    int64
	Name  string
	Email string
	Phone string

	// Address is a legacy scalar field. No write path populates it, but it
	// remains part of the address uniqueness namespace.
	Address string

	PhoneNumbers []PhoneNumber
	Addresses    []Address
	Tags         []Tag
}

// PhoneNumber is a child row owned by exactly one contact.
// Its number is unique across the whole store.
type PhoneNumber struct {
	ID        int64
	ContactID int64
	Number    string
}

// Address is a child row owned by exactly one contact.
// Its address is unique across the whole store.
type Address struct {
	ID        int64
	ContactID int64
	Address   string
}

// Tag is a shared label. Names are lowercased at write time and never
// deleted when detached from a contact.
type Tag struct {
	ID   int64
	Name string
}

// =============================================================================
// WRITE CARRIERS
// =============================================================================

// NewContact carries the fields for a create operation. Child entries are
// values, not rows: ids are assigned by the store.
type NewContact struct {
	Name         string
	Email        string
	Phone        string
	PhoneNumbers []string
	Addresses    []string
	Tags         []string
}

// Update carries a partial update. A nil field is left untouched; a non-nil
// slice replaces the corresponding child collection wholesale (an empty
// slice clears it).
type Update struct {
	Name         *string
	Email        *string
	Phone        *string
	PhoneNumbers *[]string
	Addresses    *[]string
	Tags         *[]string
}

// =============================================================================
// QUERY TYPES
// =============================================================================

// Sort fields accepted by List and Search. Anything else falls back to name.
const (
	SortByName  = "name"
	SortByEmail = "email"
)

// ListOptions controls sorting and pagination for List and Search.
// Offset is zero-based; the HTTP boundary converts 1-based pages.
type ListOptions struct {
	SortBy    string
	SortOrder string // "asc" or "desc"
	Offset    int
	Limit     int
}

// Page is one page of results plus the total count of the filtered set.
type Page struct {
	Contacts []Contact
	Total    int
}
