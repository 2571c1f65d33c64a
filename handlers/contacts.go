// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, update_contact, delete_contact, select_contact, get_contact and list_contacts
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	store *store.Store
}

func NewContactHandlers(s *store.Store) *ContactHandlers {
	return &ContactHandlers{store: s}
}

type AddContactInput struct {
	Name    string `json:"name,omitempty" jsonschema:"Contact name (defaults to New Contact)"`
	Company string `json:"company,omitempty" jsonschema:"Company name"`
	Email   string `json:"email,omitempty" jsonschema:"Contact email address"`
	Phone   string `json:"phone,omitempty" jsonschema:"Contact phone number"`
	Notes   string `json:"notes,omitempty" jsonschema:"Additional notes about the contact"`
}

func (h *ContactHandlers) AddContact(_ context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	patch := store.ContactPatch{}
	if input.Name != "" {
		patch.Name = &input.Name
	}
	if input.Company != "" {
		patch.Company = &input.Company
	}
	if input.Email != "" {
		patch.Email = &input.Email
	}
	if input.Phone != "" {
		patch.Phone = &input.Phone
	}
	if input.Notes != "" {
		patch.Notes = &input.Notes
	}

	id, err := h.store.CreateContactWith(patch)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return h.contactResult(id)
}

type UpdateContactInput struct {
	ID      string  `json:"id" jsonschema:"Contact ID (required)"`
	Name    *string `json:"name,omitempty" jsonschema:"New name (blank saves as Untitled)"`
	Company *string `json:"company,omitempty" jsonschema:"New company"`
	Email   *string `json:"email,omitempty" jsonschema:"New email"`
	Phone   *string `json:"phone,omitempty" jsonschema:"New phone"`
	Notes   *string `json:"notes,omitempty" jsonschema:"New notes"`
}

func (h *ContactHandlers) UpdateContact(_ context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	ok, err := h.store.UpdateContact(input.ID, store.ContactPatch{
		Name:    input.Name,
		Company: input.Company,
		Email:   input.Email,
		Phone:   input.Phone,
		Notes:   input.Notes,
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}
	if !ok {
		return nil, ContactOutput{}, models.NewNotFoundError("contact", input.ID)
	}

	return h.contactResult(input.ID)
}

type ContactIDInput struct {
	ID string `json:"id" jsonschema:"Contact ID"`
}

type StatusOutput struct {
	ID      string `json:"id,omitempty"`
	Changed bool   `json:"changed"`
	Message string `json:"message"`
}

func (h *ContactHandlers) DeleteContact(_ context.Context, request *mcp.CallToolRequest, input ContactIDInput) (*mcp.CallToolResult, StatusOutput, error) {
	if input.ID == "" {
		return nil, StatusOutput{}, fmt.Errorf("id is required")
	}
	ok, err := h.store.DeleteContact(input.ID)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}
	if !ok {
		return nil, StatusOutput{ID: input.ID, Message: "contact not found"}, nil
	}
	return nil, StatusOutput{ID: input.ID, Changed: true, Message: "contact and its deals deleted"}, nil
}

// SelectContact changes the current selection. An empty id clears it.
func (h *ContactHandlers) SelectContact(_ context.Context, request *mcp.CallToolRequest, input ContactIDInput) (*mcp.CallToolResult, StatusOutput, error) {
	ok, err := h.store.SelectContact(input.ID)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("failed to select contact: %w", err)
	}
	if !ok {
		return nil, StatusOutput{ID: input.ID, Message: "contact not found"}, nil
	}
	if input.ID == "" {
		return nil, StatusOutput{Changed: true, Message: "selection cleared"}, nil
	}
	return nil, StatusOutput{ID: input.ID, Changed: true, Message: "contact selected"}, nil
}

func (h *ContactHandlers) GetContact(_ context.Context, request *mcp.CallToolRequest, input ContactIDInput) (*mcp.CallToolResult, ContactOutput, error) {
	id := input.ID
	if id == "" {
		doc := h.store.Snapshot()
		if selected := query.SelectedContact(doc); selected != nil {
			id = selected.ID
		}
	}
	if id == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required when no contact is selected")
	}
	return h.contactResult(id)
}

type ListContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search text matched against name, company, email and phone"`
	Sort  string `json:"sort,omitempty" jsonschema:"Sort order: updated (default), name or company"`
}

type ListContactsOutput struct {
	Contacts   []ContactOutput `json:"contacts"`
	SelectedID string          `json:"selected_id,omitempty"`
}

func (h *ContactHandlers) ListContacts(_ context.Context, request *mcp.CallToolRequest, input ListContactsInput) (*mcp.CallToolResult, ListContactsOutput, error) {
	sortKey, ok := query.ParseContactSort(input.Sort)
	if !ok {
		return nil, ListContactsOutput{}, fmt.Errorf("invalid sort %q: expected updated, name or company", input.Sort)
	}

	doc := h.store.Snapshot()
	contacts := query.SortContacts(query.SearchContacts(doc.Contacts, input.Query), sortKey)

	out := ListContactsOutput{
		Contacts:   make([]ContactOutput, 0, len(contacts)),
		SelectedID: string(doc.SelectedID),
	}
	for _, c := range contacts {
		out.Contacts = append(out.Contacts, contactToOutput(doc, c, false))
	}
	return nil, out, nil
}

func (h *ContactHandlers) contactResult(id string) (*mcp.CallToolResult, ContactOutput, error) {
	doc := h.store.Snapshot()
	c := doc.Contact(id)
	if c == nil {
		return nil, ContactOutput{}, models.NewNotFoundError("contact", id)
	}
	return nil, contactToOutput(doc, *c, true), nil
}
