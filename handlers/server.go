// ABOUTME: MCP server assembly
// ABOUTME: Registers every CRM tool, resource and prompt against one store
package handlers

import (
	"github.com/harperreed/simplecrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing the store.
func NewServer(s *store.Store, version string) *mcp.Server {
	contactHandlers := NewContactHandlers(s)
	dealHandlers := NewDealHandlers(s)
	taskHandlers := NewTaskHandlers(s)
	reportHandlers := NewReportHandlers(s)
	vizHandlers := NewVizHandlers(s)
	resourceHandlers := NewResourceHandlers(s)
	promptHandlers := NewPromptHandlers(s)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "simplecrm",
		Version: version,
	}, nil)

	// Contacts
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Create a contact (placed first and selected) with optional details",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Overwrite the given fields of a contact",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact and all of its deals",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "select_contact",
		Description: "Select a contact, or clear the selection with an empty id",
	}, contactHandlers.SelectContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_contact",
		Description: "Get a contact with its deals (defaults to the selected contact)",
	}, contactHandlers.GetContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_contacts",
		Description: "Search and sort contacts",
	}, contactHandlers.ListContacts)

	// Deals
	mcp.AddTool(server, &mcp.Tool{
		Name:        "upsert_deal",
		Description: "Create a deal on a contact, or replace one when deal_id is given",
	}, dealHandlers.UpsertDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_deal",
		Description: "Delete a deal from a contact",
	}, dealHandlers.DeleteDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_deals",
		Description: "List deals across contacts, optionally by contact and stage",
	}, dealHandlers.ListDeals)

	// Tasks
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_task",
		Description: "Add a follow-up task, optionally linked to a contact",
	}, taskHandlers.AddTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks (pending first, then by due date)",
	}, taskHandlers.ListTasks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_task",
		Description: "Mark a task done or not done",
	}, taskHandlers.ToggleTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task",
	}, taskHandlers.DeleteTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_completed_tasks",
		Description: "Remove every completed task",
	}, taskHandlers.ClearCompletedTasks)

	// Reports and data
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_report",
		Description: "Pipeline value, won value and deal counts per stage",
	}, reportHandlers.GetReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_document",
		Description: "Export the full document as JSON or the deals as CSV",
	}, reportHandlers.ExportDocument)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_document",
		Description: "Replace all data with a previously exported JSON document",
	}, reportHandlers.ImportDocument)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_graph",
		Description: "Graphviz DOT source of contacts, deals and stages",
	}, vizHandlers.PipelineGraph)

	for _, uri := range ResourceURIs {
		server.AddResource(&mcp.Resource{
			URI:      uri,
			Name:     uri[len("crm://"):],
			MIMEType: "application/json",
		}, resourceHandlers.ReadResource)
	}

	server.AddPrompt(&mcp.Prompt{
		Name:        "contact-summary",
		Description: "Summarize a contact, its deals and open tasks",
		Arguments: []*mcp.PromptArgument{
			{Name: "contact_id", Description: "Contact ID (defaults to the selected contact)"},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "follow-up-suggestions",
		Description: "Contacts with open deals that have no pending task",
	}, promptHandlers.GetPrompt)

	return server
}
