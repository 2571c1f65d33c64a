// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Provides contact-summary and follow-up-suggestions prompts built from live data
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	store *store.Store
}

func NewPromptHandlers(s *store.Store) *PromptHandlers {
	return &PromptHandlers{store: s}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "contact-summary":
		return h.getContactSummaryPrompt(request.Params.Arguments)
	case "follow-up-suggestions":
		return h.getFollowUpSuggestionsPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getContactSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	doc := h.store.Snapshot()

	contact := query.SelectedContact(doc)
	if id, ok := args["contact_id"]; ok && id != "" {
		contact = doc.Contact(id)
		if contact == nil {
			return nil, fmt.Errorf("contact not found: %s", id)
		}
	}
	if contact == nil {
		return nil, fmt.Errorf("contact_id is required when no contact is selected")
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Contact: %s\n", contact.DisplayName()))
	if contact.Company != "" {
		text.WriteString(fmt.Sprintf("Company: %s\n", contact.Company))
	}
	if contact.Email != "" {
		text.WriteString(fmt.Sprintf("Email: %s\n", contact.Email))
	}
	if contact.Notes != "" {
		text.WriteString(fmt.Sprintf("Notes: %s\n", contact.Notes))
	}

	text.WriteString("\nDeals:\n")
	if len(contact.Deals) == 0 {
		text.WriteString("- none\n")
	}
	for _, d := range contact.Deals {
		line := fmt.Sprintf("- %s [%s]", d.Title, d.Stage.Label())
		if v := query.FormatDealValue(d.Value); v != "" {
			line += " $" + v
		}
		if d.CloseDate != "" {
			line += " closing " + d.CloseDate
		}
		text.WriteString(line + "\n")
	}

	text.WriteString("\nOpen tasks:\n")
	open := 0
	for _, t := range query.SortTasksForDisplay(query.FilterTasks(doc.Tasks, query.TaskPending)) {
		if string(t.ContactID) != contact.ID {
			continue
		}
		open++
		if t.DueDate != "" {
			text.WriteString(fmt.Sprintf("- %s (due %s)\n", t.Title, t.DueDate))
		} else {
			text.WriteString(fmt.Sprintf("- %s\n", t.Title))
		}
	}
	if open == 0 {
		text.WriteString("- none\n")
	}

	text.WriteString("\nPlease summarize where this relationship stands and suggest the next step.")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Summary of %s", contact.DisplayName()),
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text.String()}},
		},
	}, nil
}

func (h *PromptHandlers) getFollowUpSuggestionsPrompt() (*mcp.GetPromptResult, error) {
	doc := h.store.Snapshot()

	var text strings.Builder
	text.WriteString("Contacts with open deals and no pending task:\n\n")

	pending := make(map[string]bool)
	for _, t := range doc.Tasks {
		if !t.Done && t.ContactID != "" {
			pending[string(t.ContactID)] = true
		}
	}

	count := 0
	for _, c := range query.SortContacts(doc.Contacts, query.SortUpdated) {
		summary := query.SummarizeContact(c)
		if summary.OpenCount == 0 || pending[c.ID] {
			continue
		}
		text.WriteString(fmt.Sprintf("- %s (%d open deal(s), last updated %s)\n", c.DisplayName(), summary.OpenCount, c.UpdatedAt))
		count++
	}
	if count == 0 {
		text.WriteString("Every contact with an open deal already has a follow-up task.\n")
	}

	text.WriteString("\nPlease:")
	text.WriteString("\n1. Prioritize which contacts to reach out to first")
	text.WriteString("\n2. Suggest a concrete follow-up task for each")

	return &mcp.GetPromptResult{
		Description: "Follow-up suggestions for contacts",
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text.String()}},
		},
	}, nil
}
