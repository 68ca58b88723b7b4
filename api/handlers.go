/*
handlers.go - HTTP API handlers for the address book

PURPOSE:
  Exposes the contact store via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the store.

ENDPOINTS:
  GET    /                     API info
  POST   /contacts             Create contact
  GET    /contacts             List contacts (paginated, sorted)
  GET    /contacts/search      Substring and/or tag search
  GET    /contacts/{id}        Get contact with children
  PUT    /contacts/{id}        Partial update
  DELETE /contacts/{id}        Delete contact (cascades to children)

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (validator struct tags, query param ranges)
  3. Call the store
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, invalid id, out-of-range query params
  - 404: Contact not found
  - 422: Field validation failure, or a phone/address already assigned
         to another contact (uniqueness conflict)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - contacts/errors.go: Error taxonomy mapped here
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/warp/addressbook/contacts"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    contacts.Store
	validate *validator.Validate
}

// NewHandler creates a new handler backed by the given store.
func NewHandler(store contacts.Store) *Handler {
	return &Handler{
		Store:    store,
		validate: newValidator(),
	}
}

// Root returns basic API info.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Address Book API"})
}

// =============================================================================
// CONTACT HANDLERS
// =============================================================================

// CreateContact creates a new contact with its children and tags.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Validation failed",
			Details: validationDetails(err),
		})
		return
	}

	created, err := h.Store.Create(r.Context(), contacts.NewContact{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PhoneNumbers: phoneNumberValues(req.PhoneNumbers),
		Addresses:    addressValues(req.Addresses),
		Tags:         req.Tags,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toContactDTO(created))
}

// GetContact returns a single contact with all child collections.
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, err := contactID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact id", err)
		return
	}

	contact, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get contact", err)
		return
	}
	if contact == nil {
		writeError(w, http.StatusNotFound, "Contact not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toContactDTO(contact))
}

// ListContacts returns a sorted page of contacts.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	page, pageSize, opts, err := listParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.Store.List(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contacts", err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse(result, page, pageSize))
}

// SearchContacts filters by substring and/or tag with the same pagination
// contract as ListContacts.
func (h *Handler) SearchContacts(w http.ResponseWriter, r *http.Request) {
	page, pageSize, opts, err := listParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	query := r.URL.Query().Get("query")
	tag := r.URL.Query().Get("tag")

	result, err := h.Store.Search(r.Context(), query, tag, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to search contacts", err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse(result, page, pageSize))
}

// UpdateContact applies a partial update.
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := contactID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact id", err)
		return
	}

	var req UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Validation failed",
			Details: validationDetails(err),
		})
		return
	}
	// omitempty treats an explicit "" as absent, but a contact name can
	// never be cleared.
	if req.Name != nil && *req.Name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"name": "is required"},
		})
		return
	}

	update := contacts.Update{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Tags:  req.Tags,
	}
	if req.PhoneNumbers != nil {
		values := phoneNumberValues(*req.PhoneNumbers)
		update.PhoneNumbers = &values
	}
	if req.Addresses != nil {
		values := addressValues(*req.Addresses)
		update.Addresses = &values
	}

	updated, err := h.Store.Update(r.Context(), id, update)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toContactDTO(updated))
}

// DeleteContact removes a contact and its children.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := contactID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact id", err)
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REQUEST PARSING
// =============================================================================

func contactID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// listParams parses and range-checks the shared pagination/sorting query
// parameters. The boundary rejects out-of-range values; the store's own
// whitelist is defense in depth.
func listParams(r *http.Request) (page, pageSize int, opts contacts.ListOptions, err error) {
	q := r.URL.Query()

	page = 1
	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, opts, errInvalidParam("page must be an integer >= 1")
		}
	}

	pageSize = 10
	if raw := q.Get("page_size"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize < 1 || pageSize > 100 {
			return 0, 0, opts, errInvalidParam("page_size must be an integer in [1, 100]")
		}
	}

	sortBy := q.Get("sort_by")
	if sortBy == "" {
		sortBy = contacts.SortByName
	}
	if sortBy != contacts.SortByName && sortBy != contacts.SortByEmail {
		return 0, 0, opts, errInvalidParam("sort_by must be one of: name, email")
	}

	sortOrder := q.Get("sort_order")
	if sortOrder == "" {
		sortOrder = "asc"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		return 0, 0, opts, errInvalidParam("sort_order must be one of: asc, desc")
	}

	opts = contacts.ListOptions{
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
	}
	return page, pageSize, opts, nil
}

type errInvalidParam string

func (e errInvalidParam) Error() string { return string(e) }

func listResponse(result *contacts.Page, page, pageSize int) ContactListResponse {
	return ContactListResponse{
		Contacts:   toContactDTOs(result.Contacts),
		Total:      result.Total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (result.Total + pageSize - 1) / pageSize,
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// writeDomainError maps store errors to transport status codes:
// NotFound -> 404, uniqueness Conflict -> 422, anything else -> 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case contacts.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Contact not found", nil)
	case contacts.IsConflict(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
