// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only JSON views of the document, contacts, tasks and report
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ResourceURIs lists the fixed resources registered with the server.
var ResourceURIs = []string{"crm://document", "crm://contacts", "crm://tasks", "crm://report"}

type ResourceHandlers struct {
	store *store.Store
}

func NewResourceHandlers(s *store.Store) *ResourceHandlers {
	return &ResourceHandlers{store: s}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	doc := h.store.Snapshot()
	var payload any
	switch strings.TrimPrefix(uri, "crm://") {
	case "document":
		payload = doc
	case "contacts":
		contacts := query.SortContacts(doc.Contacts, query.SortUpdated)
		out := make([]ContactOutput, 0, len(contacts))
		for _, c := range contacts {
			out = append(out, contactToOutput(doc, c, true))
		}
		payload = out
	case "tasks":
		tasks := query.SortTasksForDisplay(doc.Tasks)
		out := make([]TaskOutput, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, taskToOutput(doc, t))
		}
		payload = out
	case "report":
		payload = query.ComputeStats(doc)
	default:
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
