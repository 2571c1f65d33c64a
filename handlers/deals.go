// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements upsert_deal, delete_deal and list_deals
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type DealHandlers struct {
	store *store.Store
}

func NewDealHandlers(s *store.Store) *DealHandlers {
	return &DealHandlers{store: s}
}

type UpsertDealInput struct {
	ContactID string `json:"contact_id" jsonschema:"Owning contact ID (required)"`
	DealID    string `json:"deal_id,omitempty" jsonschema:"Deal to replace; omit to create a new deal"`
	Title     string `json:"title" jsonschema:"Deal title (required)"`
	Value     string `json:"value,omitempty" jsonschema:"Deal value; rounded to a whole non-negative amount, blank for none"`
	Stage     string `json:"stage,omitempty" jsonschema:"One of lead, qualified, proposal, won, lost (default lead)"`
	CloseDate string `json:"close_date,omitempty" jsonschema:"Expected close date"`
}

func (h *DealHandlers) UpsertDeal(_ context.Context, request *mcp.CallToolRequest, input UpsertDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.ContactID == "" {
		return nil, DealOutput{}, fmt.Errorf("contact_id is required")
	}

	id, err := h.store.UpsertDeal(input.ContactID, input.DealID, store.DealInput{
		Title:     input.Title,
		Value:     input.Value,
		Stage:     models.Stage(input.Stage),
		CloseDate: input.CloseDate,
	})
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to save deal: %w", err)
	}
	if id == "" {
		return nil, DealOutput{}, models.NewNotFoundError("contact", input.ContactID)
	}

	c := h.store.Snapshot().Contact(input.ContactID)
	if c == nil {
		return nil, DealOutput{}, models.NewNotFoundError("contact", input.ContactID)
	}
	i := c.DealIndex(id)
	if i < 0 {
		return nil, DealOutput{}, models.NewNotFoundError("deal", id)
	}
	return nil, dealToOutput(c.Deals[i]), nil
}

type DeleteDealInput struct {
	ContactID string `json:"contact_id" jsonschema:"Owning contact ID"`
	DealID    string `json:"deal_id" jsonschema:"Deal ID"`
}

func (h *DealHandlers) DeleteDeal(_ context.Context, request *mcp.CallToolRequest, input DeleteDealInput) (*mcp.CallToolResult, StatusOutput, error) {
	ok, err := h.store.DeleteDeal(input.ContactID, input.DealID)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("failed to delete deal: %w", err)
	}
	if !ok {
		return nil, StatusOutput{ID: input.DealID, Message: "deal not found"}, nil
	}
	return nil, StatusOutput{ID: input.DealID, Changed: true, Message: "deal deleted"}, nil
}

type ListDealsInput struct {
	ContactID string `json:"contact_id,omitempty" jsonschema:"Only deals of this contact"`
	Stage     string `json:"stage,omitempty" jsonschema:"Stage filter or all (default all)"`
}

type DealRowOutput struct {
	Deal        DealOutput `json:"deal"`
	ContactID   string     `json:"contact_id"`
	ContactName string     `json:"contact_name"`
	Company     string     `json:"company,omitempty"`
}

type ListDealsOutput struct {
	Deals []DealRowOutput `json:"deals"`
}

func (h *DealHandlers) ListDeals(_ context.Context, request *mcp.CallToolRequest, input ListDealsInput) (*mcp.CallToolResult, ListDealsOutput, error) {
	doc := h.store.Snapshot()
	if input.ContactID != "" && doc.Contact(input.ContactID) == nil {
		return nil, ListDealsOutput{}, models.NewNotFoundError("contact", input.ContactID)
	}

	out := ListDealsOutput{Deals: []DealRowOutput{}}
	for _, row := range query.AllDeals(doc) {
		if input.ContactID != "" && row.ContactID != input.ContactID {
			continue
		}
		if len(query.FilterDeals([]models.Deal{row.Deal}, input.Stage)) == 0 {
			continue
		}
		out.Deals = append(out.Deals, DealRowOutput{
			Deal:        dealToOutput(row.Deal),
			ContactID:   row.ContactID,
			ContactName: row.ContactName,
			Company:     row.Company,
		})
	}
	return nil, out, nil
}
