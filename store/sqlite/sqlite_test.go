package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/addressbook/contacts"
	"github.com/warp/addressbook/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreate(t *testing.T, store *sqlite.Store, c contacts.NewContact) *contacts.Contact {
	t.Helper()
	created, err := store.Create(context.Background(), c)
	require.NoError(t, err)
	require.NotNil(t, created)
	return created
}

func strPtr(s string) *string { return &s }

func listPtr(ss ...string) *[]string { return &ss }

func defaultOpts() contacts.ListOptions {
	return contacts.ListOptions{SortBy: "name", SortOrder: "asc", Offset: 0, Limit: 10}
}

// =============================================================================
// CREATE
// =============================================================================

func TestCreate_FullContact(t *testing.T) {
	store := newTestStore(t)

	created := mustCreate(t, store, contacts.NewContact{
		Name:         "John Doe",
		Email:        "john@example.com",
		Phone:        "1234567890",
		PhoneNumbers: []string{"555-0001", "555-0002"},
		Addresses:    []string{"1 Main St"},
		Tags:         []string{"Friend", "Work"},
	})

	assert.NotZero(t, created.ID)
	assert.Equal(t, "John Doe", created.Name)
	assert.Equal(t, "john@example.com", created.Email)
	assert.Equal(t, "1234567890", created.Phone)

	require.Len(t, created.PhoneNumbers, 2)
	assert.Equal(t, created.ID, created.PhoneNumbers[0].ContactID)
	assert.Equal(t, "555-0001", created.PhoneNumbers[0].Number)

	require.Len(t, created.Addresses, 1)
	assert.Equal(t, "1 Main St", created.Addresses[0].Address)

	// Tag names are folded to lowercase at write time.
	require.Len(t, created.Tags, 2)
	assert.Equal(t, "friend", created.Tags[0].Name)
	assert.Equal(t, "work", created.Tags[1].Name)
}

func TestCreate_DuplicateNamesAllowed(t *testing.T) {
	store := newTestStore(t)

	mustCreate(t, store, contacts.NewContact{Name: "John Doe"})
	mustCreate(t, store, contacts.NewContact{Name: "John Doe"})

	page, err := store.List(context.Background(), defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestCreate_ScalarPhoneConflictsWithScalar(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, contacts.NewContact{Name: "John", Phone: "1234567890"})

	_, err := store.Create(context.Background(), contacts.NewContact{Name: "Jane", Phone: "1234567890"})

	require.Error(t, err)
	assert.True(t, contacts.IsConflict(err))
}

func TestCreate_ChildNumberConflictsWithScalarPhone(t *testing.T) {
	// GIVEN: A contact claiming 1234567890 via the scalar phone field
	store := newTestStore(t)
	mustCreate(t, store, contacts.NewContact{Name: "John Doe", Phone: "1234567890"})

	// WHEN: A second contact claims the same value as a phone-number entry
	_, err := store.Create(context.Background(), contacts.NewContact{
		Name:         "Jane",
		PhoneNumbers: []string{"1234567890"},
	})

	// THEN: Conflict, and the store still contains exactly one contact
	require.Error(t, err)
	var conflict *contacts.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, contacts.FieldPhone, conflict.Field)
	assert.Equal(t, "1234567890", conflict.Value)

	page, err := store.List(context.Background(), defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestCreate_ScalarPhoneConflictsWithChildNumber(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, contacts.NewContact{Name: "John", PhoneNumbers: []string{"555-1111"}})

	_, err := store.Create(context.Background(), contacts.NewContact{Name: "Jane", Phone: "555-1111"})

	require.Error(t, err)
	assert.True(t, contacts.IsConflict(err))
}

func TestCreate_AddressConflict(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, contacts.NewContact{Name: "John", Addresses: []string{"1 Main St"}})

	_, err := store.Create(context.Background(), contacts.NewContact{
		Name:      "Jane",
		Addresses: []string{"1 Main St"},
	})

	require.Error(t, err)
	var conflict *contacts.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, contacts.FieldAddress, conflict.Field)
	assert.Equal(t, "1 Main St", conflict.Value)
}

func TestCreate_DuplicateNumberWithinOneRequest(t *testing.T) {
	// The pre-flight check only sees committed rows, so a duplicate within
	// the same request is caught by the UNIQUE index and must surface as
	// the same conflict category.
	store := newTestStore(t)

	_, err := store.Create(context.Background(), contacts.NewContact{
		Name:         "John",
		PhoneNumbers: []string{"555-2222", "555-2222"},
	})

	require.Error(t, err)
	assert.True(t, contacts.IsConflict(err))

	// Nothing committed.
	page, err := store.List(context.Background(), defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

func TestCreate_EmptyPhoneNeverConflicts(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, contacts.NewContact{Name: "John"})
	mustCreate(t, store, contacts.NewContact{Name: "Jane"})

	page, err := store.List(context.Background(), defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

// =============================================================================
// READ
// =============================================================================

func TestGetByID_Missing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetByID_EagerLoadsChildren(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, contacts.NewContact{
		Name:         "John",
		PhoneNumbers: []string{"555-0001"},
		Addresses:    []string{"1 Main St"},
		Tags:         []string{"friend"},
	})

	got, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.PhoneNumbers, 1)
	assert.Len(t, got.Addresses, 1)
	assert.Len(t, got.Tags, 1)
}

// =============================================================================
// UPDATE
// =============================================================================

func TestUpdate_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Update(context.Background(), 42, contacts.Update{Name: strPtr("Nobody")})
	assert.ErrorIs(t, err, contacts.ErrNotFound)
}

func TestUpdate_PatchLeavesUnsuppliedFieldsUntouched(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, contacts.NewContact{
		Name:         "John",
		Email:        "john@example.com",
		Phone:        "555-0001",
		PhoneNumbers: []string{"555-0002"},
		Tags:         []string{"friend"},
	})

	updated, err := store.Update(context.Background(), created.ID, contacts.Update{
		Name: strPtr("Johnny"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Johnny", updated.Name)
	assert.Equal(t, "john@example.com", updated.Email)
	assert.Equal(t, "555-0001", updated.Phone)
	assert.Len(t, updated.PhoneNumbers, 1)
	assert.Len(t, updated.Tags, 1)
}

func TestUpdate_ScalarPhoneConflictLeavesTargetUnchanged(t *testing.T) {
	// GIVEN: Two contacts, the first owning phone 1234567890
	store := newTestStore(t)
	mustCreate(t, store, contacts.NewContact{Name: "John", Phone: "1234567890"})
	jane := mustCreate(t, store, contacts.NewContact{Name: "Jane", Phone: "555-9999"})

	// WHEN: Updating the second contact to the first one's phone
	_, err := store.Update(context.Background(), jane.ID, contacts.Update{
		Phone: strPtr("1234567890"),
	})

	// THEN: Conflict, and the second contact's phone is unchanged
	require.Error(t, err)
	assert.True(t, contacts.IsConflict(err))

	got, err := store.GetByID(context.Background(), jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-9999", got.Phone)
}

func TestUpdate_OwnValuesExcludedFromConflictCheck(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, contacts.NewContact{
		Name:         "John",
		Phone:        "555-0001",
		PhoneNumbers: []string{"555-0002", "555-0003"},
	})

	// Re-submitting the contact's own values must not conflict with itself.
	updated, err := store.Update(context.Background(), created.ID, contacts.Update{
		Phone:        strPtr("555-0001"),
		PhoneNumbers: listPtr("555-0003", "555-0002"),
	})
	require.NoError(t, err)
	assert.Len(t, updated.PhoneNumbers, 2)
}

func TestUpdate_RejectedReplacementKeepsPriorChildren(t *testing.T) {
	// GIVEN: Contact A with number N1 and contact B with number N2
	store := newTestStore(t)
	a := mustCreate(t, store, contacts.NewContact{Name: "A", PhoneNumbers: []string{"555-0001"}})
	mustCreate(t, store, contacts.NewContact{Name: "B", PhoneNumbers: []string{"555-0002"}})

	// WHEN: Replacing A's numbers with a set colliding on B's number
	_, err := store.Update(context.Background(), a.ID, contacts.Update{
		PhoneNumbers: listPtr("555-0003", "555-0002"),
	})

	// THEN: Conflict, and A's previous number survives (validation runs
	// before the old rows are deleted)
	require.Error(t, err)
	assert.True(t, contacts.IsConflict(err))

	got, err := store.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, got.PhoneNumbers, 1)
	assert.Equal(t, "555-0001", got.PhoneNumbers[0].Number)
}

func TestUpdate_RejectedAddressReplacementKeepsPriorChildren(t *testing.T) {
	store := newTestStore(t)
	a := mustCreate(t, store, contacts.NewContact{Name: "A", Addresses: []string{"1 Main St"}})
	mustCreate(t, store, contacts.NewContact{Name: "B", Addresses: []string{"2 Oak Ave"}})

	_, err := store.Update(context.Background(), a.ID, contacts.Update{
		Addresses: listPtr("2 Oak Ave"),
	})
	require.Error(t, err)
	assert.True(t, contacts.IsConflict(err))

	got, err := store.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, got.Addresses, 1)
	assert.Equal(t, "1 Main St", got.Addresses[0].Address)
}

func TestUpdate_EmptyListClearsChildren(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, contacts.NewContact{
		Name:         "John",
		PhoneNumbers: []string{"555-0001"},
	})

	updated, err := store.Update(context.Background(), created.ID, contacts.Update{
		PhoneNumbers: listPtr(),
	})
	require.NoError(t, err)
	assert.Empty(t, updated.PhoneNumbers)

	// The freed number is claimable again.
	mustCreate(t, store, contacts.NewContact{Name: "Jane", PhoneNumbers: []string{"555-0001"}})
}

func TestUpdate_ReplaceTagsOrphansOldRows(t *testing.T) {
	// GIVEN: A contact tagged friend and work
	store := newTestStore(t)
	created := mustCreate(t, store, contacts.NewContact{
		Name: "John",
		Tags: []string{"friend", "work"},
	})
	friendID := created.Tags[0].ID

	// WHEN: Replacing the tag set with family
	updated, err := store.Update(context.Background(), created.ID, contacts.Update{
		Tags: listPtr("family"),
	})
	require.NoError(t, err)

	// THEN: The final tag set is exactly {family}
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "family", updated.Tags[0].Name)

	// AND: The detached rows still exist - a new contact tagged "Friend"
	// reuses the original row rather than creating a new one.
	other := mustCreate(t, store, contacts.NewContact{Name: "Jane", Tags: []string{"Friend"}})
	require.Len(t, other.Tags, 1)
	assert.Equal(t, friendID, other.Tags[0].ID)
}

// =============================================================================
// TAGS
// =============================================================================

func TestTags_CaseInsensitiveReuse(t *testing.T) {
	store := newTestStore(t)

	first := mustCreate(t, store, contacts.NewContact{Name: "John", Tags: []string{"Friend"}})
	second := mustCreate(t, store, contacts.NewContact{Name: "Jane", Tags: []string{"friend"}})

	require.Len(t, first.Tags, 1)
	require.Len(t, second.Tags, 1)
	assert.Equal(t, first.Tags[0].ID, second.Tags[0].ID)
	assert.Equal(t, "friend", second.Tags[0].Name)
}

func TestTags_DuplicatesWithinOneRequestAttachOnce(t *testing.T) {
	store := newTestStore(t)

	created := mustCreate(t, store, contacts.NewContact{
		Name: "John",
		Tags: []string{"Friend", "friend", "FRIEND"},
	})
	assert.Len(t, created.Tags, 1)
}

// =============================================================================
// DELETE
// =============================================================================

func TestDelete_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.Delete(context.Background(), 42)
	assert.True(t, errors.Is(err, contacts.ErrNotFound))
}

func TestDelete_CascadesChildrenButKeepsTags(t *testing.T) {
	// GIVEN: A contact with children and a tag shared with another contact
	store := newTestStore(t)
	doomed := mustCreate(t, store, contacts.NewContact{
		Name:         "John",
		PhoneNumbers: []string{"555-0001"},
		Addresses:    []string{"1 Main St"},
		Tags:         []string{"friend"},
	})
	tagID := doomed.Tags[0].ID
	survivor := mustCreate(t, store, contacts.NewContact{Name: "Jane", Tags: []string{"friend"}})

	// WHEN: Deleting the first contact
	require.NoError(t, store.Delete(context.Background(), doomed.ID))

	// THEN: It is gone
	got, err := store.GetByID(context.Background(), doomed.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// AND: Its phone number and address are claimable again (child rows
	// were cascade-deleted, not merely orphaned)
	mustCreate(t, store, contacts.NewContact{
		Name:         "Reclaimer",
		PhoneNumbers: []string{"555-0001"},
		Addresses:    []string{"1 Main St"},
	})

	// AND: The tag row and the other contact's association survive
	gotSurvivor, err := store.GetByID(context.Background(), survivor.ID)
	require.NoError(t, err)
	require.Len(t, gotSurvivor.Tags, 1)
	assert.Equal(t, tagID, gotSurvivor.Tags[0].ID)
}

// =============================================================================
// LIST
// =============================================================================

func TestList_Pagination(t *testing.T) {
	// GIVEN: 5 contacts named Contact 0..4
	store := newTestStore(t)
	for i := 0; i < 5; i++ {
		mustCreate(t, store, contacts.NewContact{Name: "Contact " + string(rune('0'+i))})
	}

	// WHEN: Requesting the first page of size 2
	page, err := store.List(context.Background(), contacts.ListOptions{
		SortBy: "name", SortOrder: "asc", Offset: 0, Limit: 2,
	})
	require.NoError(t, err)

	// THEN: 2 contacts returned, total 5
	assert.Len(t, page.Contacts, 2)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, "Contact 0", page.Contacts[0].Name)
	assert.Equal(t, "Contact 1", page.Contacts[1].Name)
}

func TestList_SortDescending(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, contacts.NewContact{Name: "Alice"})
	mustCreate(t, store, contacts.NewContact{Name: "Bob"})

	page, err := store.List(context.Background(), contacts.ListOptions{
		SortBy: "name", SortOrder: "desc", Offset: 0, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, page.Contacts, 2)
	assert.Equal(t, "Bob", page.Contacts[0].Name)
}

func TestList_SortByEmail(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, contacts.NewContact{Name: "Zed", Email: "a@example.com"})
	mustCreate(t, store, contacts.NewContact{Name: "Amy", Email: "z@example.com"})

	page, err := store.List(context.Background(), contacts.ListOptions{
		SortBy: "email", SortOrder: "asc", Offset: 0, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, page.Contacts, 2)
	assert.Equal(t, "Zed", page.Contacts[0].Name)
}

func TestList_UnknownSortFieldFallsBackToName(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, contacts.NewContact{Name: "Bob"})
	mustCreate(t, store, contacts.NewContact{Name: "Alice"})

	page, err := store.List(context.Background(), contacts.ListOptions{
		SortBy: "bogus", SortOrder: "asc", Offset: 0, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, page.Contacts, 2)
	assert.Equal(t, "Alice", page.Contacts[0].Name)
}

// =============================================================================
// SEARCH
// =============================================================================

func seedSearchFixtures(t *testing.T, store *sqlite.Store) {
	t.Helper()
	mustCreate(t, store, contacts.NewContact{
		Name:         "John Doe",
		Email:        "john@x.com",
		Phone:        "111-2222",
		PhoneNumbers: []string{"333-4444"},
		Tags:         []string{"friend"},
	})
	mustCreate(t, store, contacts.NewContact{
		Name:  "Jane Smith",
		Email: "jane@x.com",
		Tags:  []string{"work"},
	})
}

func TestSearch_SubstringOnName(t *testing.T) {
	store := newTestStore(t)
	seedSearchFixtures(t, store)

	page, err := store.Search(context.Background(), "John", "", defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Contacts, 1)
	assert.Contains(t, page.Contacts[0].Name, "John")
}

func TestSearch_CaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	seedSearchFixtures(t, store)

	page, err := store.Search(context.Background(), "jOhN", "", defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestSearch_MatchesOwnedPhoneNumber(t *testing.T) {
	store := newTestStore(t)
	seedSearchFixtures(t, store)

	page, err := store.Search(context.Background(), "333-44", "", defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, "John Doe", page.Contacts[0].Name)
}

func TestSearch_MatchesScalarPhone(t *testing.T) {
	store := newTestStore(t)
	seedSearchFixtures(t, store)

	page, err := store.Search(context.Background(), "111-2", "", defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestSearch_TagFilter(t *testing.T) {
	store := newTestStore(t)
	seedSearchFixtures(t, store)

	page, err := store.Search(context.Background(), "", "FRIEND", defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, "John Doe", page.Contacts[0].Name)
}

func TestSearch_BothFiltersAreANDed(t *testing.T) {
	store := newTestStore(t)
	seedSearchFixtures(t, store)

	// "x.com" matches both contacts by email, but only Jane carries "work".
	page, err := store.Search(context.Background(), "x.com", "work", defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, "Jane Smith", page.Contacts[0].Name)
}

func TestSearch_DeduplicatesMultipleMatchingNumbers(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, contacts.NewContact{
		Name:         "Multi",
		PhoneNumbers: []string{"777-0001", "777-0002"},
	})

	page, err := store.Search(context.Background(), "777", "", defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Len(t, page.Contacts, 1)
}

func TestSearch_NoFiltersReturnsEverything(t *testing.T) {
	store := newTestStore(t)
	seedSearchFixtures(t, store)

	page, err := store.Search(context.Background(), "", "", defaultOpts())
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestSearch_PaginationCountsFilteredSet(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"Match A", "Match B", "Match C", "Other"} {
		mustCreate(t, store, contacts.NewContact{Name: name})
	}

	page, err := store.Search(context.Background(), "match", "", contacts.ListOptions{
		SortBy: "name", SortOrder: "asc", Offset: 0, Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Contacts, 2)
	assert.Equal(t, "Match A", page.Contacts[0].Name)
}
