/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Field constraints are declared as validator/v10 struct tags and checked
  in the handlers before anything reaches the store. Update requests use
  pointer fields: nil means "leave untouched".

SEE ALSO:
  - handlers.go: Uses these types
  - validation.go: Struct tag validation
*/
package api

import "github.com/warp/addressbook/contacts"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// PhoneNumberRequest is one phone-number entry in a create or update body.
type PhoneNumberRequest struct {
	Number string `json:"number" validate:"required,min=1,max=20"`
}

// AddressRequest is one address entry in a create or update body.
type AddressRequest struct {
	Address string `json:"address" validate:"required,min=1,max=500"`
}

// CreateContactRequest is the request to create a contact.
type CreateContactRequest struct {
	Name         string               `json:"name" validate:"required,min=1,max=200"`
	Email        string               `json:"email" validate:"omitempty,email"`
	Phone        string               `json:"phone" validate:"omitempty,max=20"`
	PhoneNumbers []PhoneNumberRequest `json:"phone_numbers" validate:"omitempty,dive"`
	Addresses    []AddressRequest     `json:"addresses" validate:"omitempty,dive"`
	Tags         []string             `json:"tags" validate:"omitempty,dive,min=1,max=50"`
}

// UpdateContactRequest is a partial update. Absent fields stay nil and the
// corresponding contact state is left untouched; a supplied list replaces
// the existing set wholesale.
type UpdateContactRequest struct {
	Name         *string               `json:"name" validate:"omitempty,min=1,max=200"`
	Email        *string               `json:"email" validate:"omitempty,email"`
	Phone        *string               `json:"phone" validate:"omitempty,max=20"`
	PhoneNumbers *[]PhoneNumberRequest `json:"phone_numbers" validate:"omitempty,dive"`
	Addresses    *[]AddressRequest     `json:"addresses" validate:"omitempty,dive"`
	Tags         *[]string             `json:"tags" validate:"omitempty,dive,min=1,max=50"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// PhoneNumberDTO represents a phone-number row in API responses.
type PhoneNumberDTO struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
}

// AddressDTO represents an address row in API responses.
type AddressDTO struct {
	ID      int64  `json:"id"`
	Address string `json:"address"`
}

// TagDTO represents a tag in API responses.
type TagDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ContactDTO represents a contact with all child collections.
type ContactDTO struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	PhoneNumbers []PhoneNumberDTO `json:"phone_numbers"`
	Addresses    []AddressDTO     `json:"addresses"`
	Tags         []TagDTO         `json:"tags"`
}

// ContactListResponse is the envelope for list and search results.
type ContactListResponse struct {
	Contacts   []ContactDTO `json:"contacts"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toContactDTO(c *contacts.Contact) ContactDTO {
	dto := ContactDTO{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Phone:        c.Phone,
		PhoneNumbers: make([]PhoneNumberDTO, len(c.PhoneNumbers)),
		Addresses:    make([]AddressDTO, len(c.Addresses)),
		Tags:         make([]TagDTO, len(c.Tags)),
	}
	for i, p := range c.PhoneNumbers {
		dto.PhoneNumbers[i] = PhoneNumberDTO{ID: p.ID, Number: p.Number}
	}
	for i, a := range c.Addresses {
		dto.Addresses[i] = AddressDTO{ID: a.ID, Address: a.Address}
	}
	for i, t := range c.Tags {
		dto.Tags[i] = TagDTO{ID: t.ID, Name: t.Name}
	}
	return dto
}

func toContactDTOs(cs []contacts.Contact) []ContactDTO {
	dtos := make([]ContactDTO, len(cs))
	for i := range cs {
		dtos[i] = toContactDTO(&cs[i])
	}
	return dtos
}

func phoneNumberValues(entries []PhoneNumberRequest) []string {
	values := make([]string, len(entries))
	for i, e := range entries {
		values[i] = e.Number
	}
	return values
}

func addressValues(entries []AddressRequest) []string {
	values := make([]string, len(entries))
	for i, e := range entries {
		values[i] = e.Address
	}
	return values
}
