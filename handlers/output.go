// ABOUTME: Tool output shapes shared by the MCP handlers
// ABOUTME: Converts document records into JSON-friendly structs
package handlers

import (
	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/query"
)

type DealOutput struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Value      *int64 `json:"value,omitempty"`
	Stage      string `json:"stage"`
	StageLabel string `json:"stage_label"`
	CloseDate  string `json:"close_date,omitempty"`
}

type ContactOutput struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Company   string       `json:"company,omitempty"`
	Email     string       `json:"email,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	DealCount int          `json:"deal_count"`
	OpenDeals int          `json:"open_deals"`
	Selected  bool         `json:"selected"`
	Deals     []DealOutput `json:"deals,omitempty"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

type TaskOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ContactID   string `json:"contact_id,omitempty"`
	ContactName string `json:"contact_name,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Done        bool   `json:"done"`
	CreatedAt   string `json:"created_at"`
}

func dealToOutput(d models.Deal) DealOutput {
	out := DealOutput{
		ID:         d.ID,
		Title:      d.Title,
		Stage:      string(d.Stage),
		StageLabel: d.Stage.Label(),
		CloseDate:  d.CloseDate,
	}
	if amount, ok := d.Value.Amount(); ok {
		out.Value = &amount
	}
	return out
}

func contactToOutput(doc *models.Document, c models.Contact, withDeals bool) ContactOutput {
	summary := query.SummarizeContact(c)
	out := ContactOutput{
		ID:        c.ID,
		Name:      c.DisplayName(),
		Company:   c.Company,
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
		DealCount: summary.DealCount,
		OpenDeals: summary.OpenCount,
		Selected:  string(doc.SelectedID) == c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if withDeals {
		for _, d := range c.Deals {
			out.Deals = append(out.Deals, dealToOutput(d))
		}
	}
	return out
}

func taskToOutput(doc *models.Document, t models.Task) TaskOutput {
	out := TaskOutput{
		ID:        t.ID,
		Title:     t.Title,
		ContactID: string(t.ContactID),
		DueDate:   t.DueDate,
		Done:      t.Done,
		CreatedAt: t.CreatedAt,
	}
	if c := query.TaskContact(doc, t); c != nil {
		out.ContactName = c.DisplayName()
	}
	return out
}
