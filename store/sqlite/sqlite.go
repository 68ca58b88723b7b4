/*
Package sqlite provides the SQLite-backed implementation of contacts.Store.

PURPOSE:
  Implements all contact persistence using SQLite. In production, the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  contacts:       Contact records (scalar phone/address participate in the
                  uniqueness namespaces below)
  phone_numbers:  Child rows, number UNIQUE system-wide
  addresses:      Child rows, address UNIQUE system-wide
  tags:           Shared labels, name UNIQUE, stored lowercase
  contact_tags:   Contact-to-tag associations

UNIQUENESS ENFORCEMENT:
  Every write validates candidate phone numbers and addresses against BOTH
  storage locations (scalar column and child table) inside the same
  transaction that performs the mutation. The UNIQUE indexes are the last
  line of defense against races: a constraint violation at write time is
  translated into the same conflict error as a pre-flight failure.

VALIDATE-BEFORE-DELETE:
  When an update replaces a child collection, every new entry is validated
  against other contacts before the old rows are deleted. A rejected update
  therefore never destroys the contact's previous valid children.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery
  Foreign keys are enabled so contact deletion cascades to children.

USAGE:
  store, err := sqlite.New("./data/addressbook.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - contacts/store.go: Interface definition
  - contacts/errors.go: Error taxonomy produced here
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/addressbook/contacts"
)

// Store implements contacts.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// querier is satisfied by both *sql.DB and *sql.Tx so read helpers can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		address TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts(name);
	CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
	CREATE INDEX IF NOT EXISTS idx_contacts_phone ON contacts(phone);

	-- CRITICAL: number is unique across the whole store, and the scalar
	-- contacts.phone column shares the same logical namespace (enforced by
	-- the pre-flight checks; this index is the race backstop).
	CREATE TABLE IF NOT EXISTS phone_numbers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		number TEXT NOT NULL UNIQUE
	);

	CREATE INDEX IF NOT EXISTS idx_phone_numbers_contact
		ON phone_numbers(contact_id);

	CREATE TABLE IF NOT EXISTS addresses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		address TEXT NOT NULL UNIQUE
	);

	CREATE INDEX IF NOT EXISTS idx_addresses_contact
		ON addresses(contact_id);

	-- Tag names are stored lowercase; the UNIQUE index backs the lazy
	-- get-or-create against concurrent creation of the same tag.
	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS contact_tags (
		contact_id INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (contact_id, tag_id)
	);

	CREATE INDEX IF NOT EXISTS idx_contact_tags_tag
		ON contact_tags(tag_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// UNIQUENESS VALIDATOR
// =============================================================================

// phoneNumberExists reports whether number is already claimed, either as a
// contact's scalar phone or as a phone_numbers row. Rows belonging to
// excludeContactID (when > 0) are ignored, supporting "does this collide
// with some OTHER contact" semantics during update.
func phoneNumberExists(ctx context.Context, q querier, number string, excludeContactID int64) (bool, error) {
	if number == "" {
		return false, nil
	}
	return valueExists(ctx, q, "contacts", "phone", "id", number, excludeContactID,
		"phone_numbers", "number", "contact_id")
}

// addressExists is the address counterpart of phoneNumberExists. The scalar
// contacts.address column is never written by current paths but still
// participates in the namespace.
func addressExists(ctx context.Context, q querier, address string, excludeContactID int64) (bool, error) {
	if address == "" {
		return false, nil
	}
	return valueExists(ctx, q, "contacts", "address", "id", address, excludeContactID,
		"addresses", "address", "contact_id")
}

// valueExists probes the scalar column and the child table; the result is
// the logical OR of the two checks.
func valueExists(ctx context.Context, q querier,
	scalarTable, scalarCol, scalarOwnerCol, value string, excludeContactID int64,
	childTable, childCol, childOwnerCol string) (bool, error) {

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", scalarTable, scalarCol)
	args := []any{value}
	if excludeContactID > 0 {
		query += fmt.Sprintf(" AND %s != ?", scalarOwnerCol)
		args = append(args, excludeContactID)
	}

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check %s.%s: %w", scalarTable, scalarCol, err)
	}
	if count > 0 {
		return true, nil
	}

	query = fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", childTable, childCol)
	args = []any{value}
	if excludeContactID > 0 {
		query += fmt.Sprintf(" AND %s != ?", childOwnerCol)
		args = append(args, excludeContactID)
	}

	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check %s.%s: %w", childTable, childCol, err)
	}
	return count > 0, nil
}

// =============================================================================
// CREATE
// =============================================================================

// Create validates every candidate value, then persists the contact, its
// children, and its tag associations atomically.
func (s *Store) Create(ctx context.Context, c contacts.NewContact) (*contacts.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// All validation happens before any mutation.
	if exists, err := phoneNumberExists(ctx, tx, c.Phone, 0); err != nil {
		return nil, err
	} else if exists {
		return nil, &contacts.ConflictError{Field: contacts.FieldPhone, Value: c.Phone}
	}
	for _, number := range c.PhoneNumbers {
		if exists, err := phoneNumberExists(ctx, tx, number, 0); err != nil {
			return nil, err
		} else if exists {
			return nil, &contacts.ConflictError{Field: contacts.FieldPhone, Value: number}
		}
	}
	for _, address := range c.Addresses {
		if exists, err := addressExists(ctx, tx, address, 0); err != nil {
			return nil, err
		} else if exists {
			return nil, &contacts.ConflictError{Field: contacts.FieldAddress, Value: address}
		}
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO contacts (name, email, phone) VALUES (?, ?, ?)",
		c.Name, nullString(c.Email), nullString(c.Phone),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read contact id: %w", err)
	}

	if err := insertPhoneNumbers(ctx, tx, id, c.PhoneNumbers); err != nil {
		return nil, err
	}
	if err := insertAddresses(ctx, tx, id, c.Addresses); err != nil {
		return nil, err
	}
	if err := attachTags(ctx, tx, id, c.Tags); err != nil {
		return nil, err
	}

	created, err := getContact(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, translateCommitError(err)
	}
	return created, nil
}

// =============================================================================
// READ
// =============================================================================

// GetByID returns the contact with all child collections populated, or
// (nil, nil) when the id does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*contacts.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return getContact(ctx, s.db, id)
}

func getContact(ctx context.Context, q querier, id int64) (*contacts.Contact, error) {
	var c contacts.Contact
	var email, phone, address sql.NullString

	err := q.QueryRowContext(ctx,
		"SELECT id, name, email, phone, address FROM contacts WHERE id = ?",
		id,
	).Scan(&c.ID, &c.Name, &email, &phone, &address)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	c.Email = email.String
	c.Phone = phone.String
	c.Address = address.String

	if err := loadChildren(ctx, q, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// loadChildren eagerly populates the phone-number, address, and tag
// collections of a contact.
func loadChildren(ctx context.Context, q querier, c *contacts.Contact) error {
	c.PhoneNumbers = []contacts.PhoneNumber{}
	c.Addresses = []contacts.Address{}
	c.Tags = []contacts.Tag{}

	rows, err := q.QueryContext(ctx,
		"SELECT id, contact_id, number FROM phone_numbers WHERE contact_id = ? ORDER BY id",
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load phone numbers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p contacts.PhoneNumber
		if err := rows.Scan(&p.ID, &p.ContactID, &p.Number); err != nil {
			return err
		}
		c.PhoneNumbers = append(c.PhoneNumbers, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx,
		"SELECT id, contact_id, address FROM addresses WHERE contact_id = ? ORDER BY id",
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load addresses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a contacts.Address
		if err := rows.Scan(&a.ID, &a.ContactID, &a.Address); err != nil {
			return err
		}
		c.Addresses = append(c.Addresses, a)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx, `
		SELECT t.id, t.name
		FROM tags t
		JOIN contact_tags ct ON ct.tag_id = t.id
		WHERE ct.contact_id = ?
		ORDER BY t.name`,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t contacts.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return err
		}
		c.Tags = append(c.Tags, t)
	}
	return rows.Err()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update applies a partial update inside one transaction. Child collections
// are replaced wholesale, and every supplied entry is validated against
// other contacts BEFORE the old rows are deleted, so a rejected update
// never destroys the previous valid state.
func (s *Store) Update(ctx context.Context, id int64, u contacts.Update) (*contacts.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var found int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts WHERE id = ?", id).Scan(&found)
	if err != nil {
		return nil, fmt.Errorf("failed to check contact: %w", err)
	}
	if found == 0 {
		return nil, contacts.ErrNotFound
	}

	if u.Name != nil {
		if _, err := tx.ExecContext(ctx, "UPDATE contacts SET name = ? WHERE id = ?", *u.Name, id); err != nil {
			return nil, fmt.Errorf("failed to update name: %w", err)
		}
	}
	if u.Email != nil {
		if _, err := tx.ExecContext(ctx, "UPDATE contacts SET email = ? WHERE id = ?", nullString(*u.Email), id); err != nil {
			return nil, fmt.Errorf("failed to update email: %w", err)
		}
	}

	if u.Phone != nil {
		if exists, err := phoneNumberExists(ctx, tx, *u.Phone, id); err != nil {
			return nil, err
		} else if exists {
			return nil, &contacts.ConflictError{Field: contacts.FieldPhone, Value: *u.Phone}
		}
		if _, err := tx.ExecContext(ctx, "UPDATE contacts SET phone = ? WHERE id = ?", nullString(*u.Phone), id); err != nil {
			return nil, fmt.Errorf("failed to update phone: %w", err)
		}
	}

	if u.PhoneNumbers != nil {
		// Validate the whole new set before touching the old one.
		for _, number := range *u.PhoneNumbers {
			if exists, err := phoneNumberExists(ctx, tx, number, id); err != nil {
				return nil, err
			} else if exists {
				return nil, &contacts.ConflictError{Field: contacts.FieldPhone, Value: number}
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM phone_numbers WHERE contact_id = ?", id); err != nil {
			return nil, fmt.Errorf("failed to delete phone numbers: %w", err)
		}
		if err := insertPhoneNumbers(ctx, tx, id, *u.PhoneNumbers); err != nil {
			return nil, err
		}
	}

	if u.Addresses != nil {
		for _, address := range *u.Addresses {
			if exists, err := addressExists(ctx, tx, address, id); err != nil {
				return nil, err
			} else if exists {
				return nil, &contacts.ConflictError{Field: contacts.FieldAddress, Value: address}
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM addresses WHERE contact_id = ?", id); err != nil {
			return nil, fmt.Errorf("failed to delete addresses: %w", err)
		}
		if err := insertAddresses(ctx, tx, id, *u.Addresses); err != nil {
			return nil, err
		}
	}

	if u.Tags != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM contact_tags WHERE contact_id = ?", id); err != nil {
			return nil, fmt.Errorf("failed to clear tags: %w", err)
		}
		if err := attachTags(ctx, tx, id, *u.Tags); err != nil {
			return nil, err
		}
	}

	updated, err := getContact(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, translateCommitError(err)
	}
	return updated, nil
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes the contact; foreign keys cascade to phone numbers,
// addresses, and tag associations. Tag rows themselves survive.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return contacts.ErrNotFound
	}
	return nil
}

// =============================================================================
// QUERY COMPOSER (List / Search)
// =============================================================================

// List returns one page of contacts plus the total count.
func (s *Store) List(ctx context.Context, opts contacts.ListOptions) (*contacts.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, phone, address
		FROM contacts
		ORDER BY %s
		LIMIT ? OFFSET ?`, orderClause(opts, ""))

	page, err := s.queryContacts(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	return &contacts.Page{Contacts: page, Total: total}, nil
}

// Search combines an optional case-insensitive substring filter (name,
// email, scalar phone, or any owned phone number) with an optional exact
// case-insensitive tag filter, ANDed when both are present. DISTINCT
// deduplicates contacts matched through multiple phone numbers.
func (s *Store) Search(ctx context.Context, query, tag string, opts contacts.ListOptions) (*contacts.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var joins, conds []string
	var args []any

	if query != "" {
		term := "%" + strings.ToLower(query) + "%"
		joins = append(joins, "LEFT JOIN phone_numbers p ON p.contact_id = c.id")
		conds = append(conds, `(LOWER(c.name) LIKE ?
			OR LOWER(c.email) LIKE ?
			OR LOWER(c.phone) LIKE ?
			OR LOWER(p.number) LIKE ?)`)
		args = append(args, term, term, term, term)
	}

	if tag != "" {
		joins = append(joins,
			"JOIN contact_tags ct ON ct.contact_id = c.id",
			"JOIN tags t ON t.id = ct.tag_id")
		conds = append(conds, "LOWER(t.name) = ?")
		args = append(args, strings.ToLower(tag))
	}

	from := "FROM contacts c " + strings.Join(joins, " ")
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(DISTINCT c.id) " + from + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	selectQuery := fmt.Sprintf(
		"SELECT DISTINCT c.id, c.name, c.email, c.phone, c.address %s%s ORDER BY %s LIMIT ? OFFSET ?",
		from, where, orderClause(opts, "c."))
	args = append(args, opts.Limit, opts.Offset)

	page, err := s.queryContacts(ctx, selectQuery, args...)
	if err != nil {
		return nil, err
	}
	return &contacts.Page{Contacts: page, Total: total}, nil
}

// orderClause builds the ORDER BY expression from a whitelist. Unrecognized
// sort fields fall back to name; id breaks ties for stable pagination.
func orderClause(opts contacts.ListOptions, prefix string) string {
	column := contacts.SortByName
	if opts.SortBy == contacts.SortByEmail {
		column = contacts.SortByEmail
	}
	direction := "ASC"
	if strings.EqualFold(opts.SortOrder, "desc") {
		direction = "DESC"
	}
	return fmt.Sprintf("%s%s %s, %sid %s", prefix, column, direction, prefix, direction)
}

func (s *Store) queryContacts(ctx context.Context, query string, args ...any) ([]contacts.Contact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	result := []contacts.Contact{}
	for rows.Next() {
		var c contacts.Contact
		var email, phone, address sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &email, &phone, &address); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c.Email = email.String
		c.Phone = phone.String
		c.Address = address.String
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := loadChildren(ctx, s.db, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// =============================================================================
// CHILD ROW HELPERS
// =============================================================================

func insertPhoneNumbers(ctx context.Context, q querier, contactID int64, numbers []string) error {
	for _, number := range numbers {
		_, err := q.ExecContext(ctx,
			"INSERT INTO phone_numbers (contact_id, number) VALUES (?, ?)",
			contactID, number,
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return &contacts.ConflictError{Field: contacts.FieldPhone, Value: number}
			}
			return fmt.Errorf("failed to insert phone number: %w", err)
		}
	}
	return nil
}

func insertAddresses(ctx context.Context, q querier, contactID int64, addresses []string) error {
	for _, address := range addresses {
		_, err := q.ExecContext(ctx,
			"INSERT INTO addresses (contact_id, address) VALUES (?, ?)",
			contactID, address,
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return &contacts.ConflictError{Field: contacts.FieldAddress, Value: address}
			}
			return fmt.Errorf("failed to insert address: %w", err)
		}
	}
	return nil
}

// attachTags resolves each name (lowercased) to an existing tag or creates
// it, then links it to the contact. A UNIQUE violation on tags.name means a
// concurrent writer created the same tag first; that is reuse, not a
// conflict, so the insert falls back to a re-read.
func attachTags(ctx context.Context, q querier, contactID int64, names []string) error {
	for _, name := range names {
		name = strings.ToLower(name)

		var tagID int64
		err := q.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&tagID)
		if err == sql.ErrNoRows {
			res, insertErr := q.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", name)
			if insertErr != nil {
				if !isUniqueConstraintError(insertErr) {
					return fmt.Errorf("failed to insert tag: %w", insertErr)
				}
				if err := q.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&tagID); err != nil {
					return fmt.Errorf("failed to re-read tag: %w", err)
				}
			} else {
				tagID, err = res.LastInsertId()
				if err != nil {
					return fmt.Errorf("failed to read tag id: %w", err)
				}
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up tag: %w", err)
		}

		// OR IGNORE tolerates duplicate names within one supplied list
		// (e.g. ["Friend", "friend"]).
		_, err = q.ExecContext(ctx,
			"INSERT OR IGNORE INTO contact_tags (contact_id, tag_id) VALUES (?, ?)",
			contactID, tagID,
		)
		if err != nil {
			return fmt.Errorf("failed to attach tag: %w", err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}

// translateCommitError maps a constraint violation surfacing at commit time
// into the conflict category, never a generic failure.
func translateCommitError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueConstraintError(err) {
		if strings.Contains(err.Error(), "addresses.address") {
			return &contacts.ConflictError{Field: contacts.FieldAddress}
		}
		return &contacts.ConflictError{Field: contacts.FieldPhone}
	}
	return fmt.Errorf("failed to commit: %w", err)
}
