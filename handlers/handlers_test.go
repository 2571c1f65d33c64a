// ABOUTME: Tests for the MCP tool, resource and prompt handlers
// ABOUTME: Drives handlers directly against a store backed by an in-memory slot
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/storage"
	"github.com/harperreed/simplecrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(storage.NewAdapter(storage.NewMemorySlot(), models.StorageKey, nil), nil)
	require.NoError(t, err)
	return s
}

func strPtr(s string) *string { return &s }

func TestAddContactFailedSaveLeavesNothing(t *testing.T) {
	slot := storage.NewMemorySlot()
	s, err := store.Open(storage.NewAdapter(slot, models.StorageKey, nil), nil)
	require.NoError(t, err)
	before := s.Snapshot()

	slot.FailWrites = errors.New("disk full")
	_, _, err = NewContactHandlers(s).AddContact(context.Background(), nil, AddContactInput{Name: "Ann Lee", Phone: "555-0100"})
	require.Error(t, err)
	assert.True(t, models.IsStorage(err))
	assert.Equal(t, before, s.Snapshot())
}

func TestAddAndUpdateContact(t *testing.T) {
	s := setupTestStore(t)
	h := NewContactHandlers(s)
	ctx := context.Background()

	_, created, err := h.AddContact(ctx, nil, AddContactInput{Name: "Ann Lee", Company: "Lee Inc", Email: "ann@lee.example"})
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", created.Name)
	assert.Equal(t, "Lee Inc", created.Company)
	assert.True(t, created.Selected)
	assert.Equal(t, 0, created.DealCount)

	_, bare, err := h.AddContact(ctx, nil, AddContactInput{})
	require.NoError(t, err)
	assert.Equal(t, models.NewContactName, bare.Name)

	_, updated, err := h.UpdateContact(ctx, nil, UpdateContactInput{ID: created.ID, Name: strPtr(""), Phone: strPtr("555-0100")})
	require.NoError(t, err)
	assert.Equal(t, models.PlaceholderName, updated.Name)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, "Lee Inc", updated.Company)

	_, _, err = h.UpdateContact(ctx, nil, UpdateContactInput{ID: "missing", Name: strPtr("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListAndSelectContacts(t *testing.T) {
	s := setupTestStore(t)
	h := NewContactHandlers(s)
	ctx := context.Background()

	_, list, err := h.ListContacts(ctx, nil, ListContactsInput{Sort: "name"})
	require.NoError(t, err)
	require.Len(t, list.Contacts, 2)
	assert.Equal(t, "ACME Corp", list.Contacts[0].Name)
	assert.Equal(t, "Jane Doe", list.Contacts[1].Name)
	assert.Equal(t, 1, list.Contacts[1].OpenDeals)

	_, list, err = h.ListContacts(ctx, nil, ListContactsInput{Query: "nimbus"})
	require.NoError(t, err)
	require.Len(t, list.Contacts, 1)
	jane := list.Contacts[0].ID

	_, _, err = h.ListContacts(ctx, nil, ListContactsInput{Sort: "shoe size"})
	assert.Error(t, err)

	_, status, err := h.SelectContact(ctx, nil, ContactIDInput{ID: jane})
	require.NoError(t, err)
	assert.True(t, status.Changed)

	_, got, err := h.GetContact(ctx, nil, ContactIDInput{})
	require.NoError(t, err)
	assert.Equal(t, jane, got.ID)
	require.Len(t, got.Deals, 1)
	assert.Equal(t, "Proposal", got.Deals[0].StageLabel)
	require.NotNil(t, got.Deals[0].Value)
	assert.Equal(t, int64(42000), *got.Deals[0].Value)

	_, status, err = h.SelectContact(ctx, nil, ContactIDInput{ID: "missing"})
	require.NoError(t, err)
	assert.False(t, status.Changed)

	_, status, err = h.DeleteContact(ctx, nil, ContactIDInput{ID: jane})
	require.NoError(t, err)
	assert.True(t, status.Changed)
	assert.Equal(t, models.Ref(s.Snapshot().Contacts[0].ID), s.Snapshot().SelectedID)
}

func TestUpsertAndListDeals(t *testing.T) {
	s := setupTestStore(t)
	h := NewDealHandlers(s)
	ctx := context.Background()
	contactID := s.Snapshot().Contacts[0].ID

	_, deal, err := h.UpsertDeal(ctx, nil, UpsertDealInput{ContactID: contactID, Title: "X", Value: "12345.6", Stage: "lead"})
	require.NoError(t, err)
	require.NotNil(t, deal.Value)
	assert.Equal(t, int64(12346), *deal.Value)
	assert.Equal(t, "lead", deal.Stage)

	_, replaced, err := h.UpsertDeal(ctx, nil, UpsertDealInput{ContactID: contactID, DealID: deal.ID, Title: "X2", Stage: "won"})
	require.NoError(t, err)
	assert.Equal(t, deal.ID, replaced.ID)
	assert.Nil(t, replaced.Value)

	_, _, err = h.UpsertDeal(ctx, nil, UpsertDealInput{ContactID: contactID, Title: ""})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	_, _, err = h.UpsertDeal(ctx, nil, UpsertDealInput{ContactID: "missing", Title: "Y"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, all, err := h.ListDeals(ctx, nil, ListDealsInput{})
	require.NoError(t, err)
	assert.Len(t, all.Deals, 3)

	_, won, err := h.ListDeals(ctx, nil, ListDealsInput{Stage: "won"})
	require.NoError(t, err)
	require.Len(t, won.Deals, 1)
	assert.Equal(t, "X2", won.Deals[0].Deal.Title)

	_, status, err := h.DeleteDeal(ctx, nil, DeleteDealInput{ContactID: contactID, DealID: deal.ID})
	require.NoError(t, err)
	assert.True(t, status.Changed)
}

func TestTaskTools(t *testing.T) {
	s := setupTestStore(t)
	h := NewTaskHandlers(s)
	ctx := context.Background()
	contact := s.Snapshot().Contacts[0]

	_, empty, err := h.ListTasks(ctx, nil, ListTasksInput{Filter: "pending"})
	require.NoError(t, err)
	assert.Empty(t, empty.Tasks)
	assert.Equal(t, "No pending tasks.", empty.Message)

	_, first, err := h.AddTask(ctx, nil, AddTaskInput{Title: "Demo", ContactID: contact.ID, DueDate: "2024-02-01"})
	require.NoError(t, err)
	assert.Equal(t, contact.Name, first.ContactName)

	_, second, err := h.AddTask(ctx, nil, AddTaskInput{Title: "Someday"})
	require.NoError(t, err)
	_, _, err = h.AddTask(ctx, nil, AddTaskInput{Title: "  "})
	assert.Error(t, err)

	_, status, err := h.ToggleTask(ctx, nil, ToggleTaskInput{ID: first.ID, Done: true})
	require.NoError(t, err)
	assert.Equal(t, "task completed", status.Message)

	_, list, err := h.ListTasks(ctx, nil, ListTasksInput{})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, second.ID, list.Tasks[0].ID)
	assert.True(t, list.Tasks[1].Done)

	_, cleared, err := h.ClearCompletedTasks(ctx, nil, ClearCompletedInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, cleared.Removed)

	_, status, err = h.DeleteTask(ctx, nil, TaskIDInput{ID: second.ID})
	require.NoError(t, err)
	assert.True(t, status.Changed)
	assert.Empty(t, s.Snapshot().Tasks)
}

func TestReportExportImport(t *testing.T) {
	s := setupTestStore(t)
	h := NewReportHandlers(s)
	ctx := context.Background()

	_, report, err := h.GetReport(ctx, nil, GetReportInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Contacts)
	assert.Equal(t, int64(57000), report.PipelineValue)
	assert.Equal(t, "$57,000", report.Pipeline)
	assert.Len(t, report.Stages, 5)

	_, csv, err := h.ExportDocument(ctx, nil, ExportInput{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "crm-deals.csv", csv.FileName)
	assert.True(t, strings.HasPrefix(csv.Content, "Contact,Company,Deal,Value,Stage,Close Date\n"))

	_, exported, err := h.ExportDocument(ctx, nil, ExportInput{})
	require.NoError(t, err)
	assert.Equal(t, "simple-crm-export.json", exported.FileName)

	_, _, err = h.ExportDocument(ctx, nil, ExportInput{Format: "xml"})
	assert.Error(t, err)

	before := s.Snapshot()
	_, _, err = h.ImportDocument(ctx, nil, ImportInput{Document: `{"contacts":{}}`})
	require.Error(t, err)
	assert.Equal(t, before, s.Snapshot())

	_, imported, err := h.ImportDocument(ctx, nil, ImportInput{Document: `{"contacts":[{"id":"only","name":"Solo","deals":[]}]}`})
	require.NoError(t, err)
	assert.Equal(t, 1, imported.Contacts)

	// export then import round-trips
	_, _, err = h.ImportDocument(ctx, nil, ImportInput{Document: exported.Content})
	require.NoError(t, err)
	assert.Equal(t, before, s.Snapshot())
}

func TestReadResource(t *testing.T) {
	s := setupTestStore(t)
	h := NewResourceHandlers(s)

	for _, uri := range ResourceURIs {
		res, err := h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
		require.NoError(t, err, uri)
		require.Len(t, res.Contents, 1)
		assert.True(t, json.Valid([]byte(res.Contents[0].Text)), uri)
	}

	_, err := h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "crm://nope"}})
	assert.Error(t, err)
	_, err = h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "http://document"}})
	assert.Error(t, err)
}

func TestPrompts(t *testing.T) {
	s := setupTestStore(t)
	h := NewPromptHandlers(s)

	res, err := h.GetPrompt(context.Background(), &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: "contact-summary"}})
	require.NoError(t, err)
	text := res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "ACME Corp")
	assert.Contains(t, text, "Pilot - ACME [Qualified] $15,000")

	res, err = h.GetPrompt(context.Background(), &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: "follow-up-suggestions"}})
	require.NoError(t, err)
	text = res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "Jane Doe")

	_, err = h.GetPrompt(context.Background(), &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: "nope"}})
	assert.Error(t, err)
}

func TestPipelineGraphTool(t *testing.T) {
	s := setupTestStore(t)
	_, out, err := NewVizHandlers(s).PipelineGraph(context.Background(), nil, PipelineGraphInput{})
	require.NoError(t, err)
	assert.Contains(t, out.DOTSource, "stage_qualified")
	assert.Greater(t, out.EdgeCount, 0)
}

func TestNewServerRegisters(t *testing.T) {
	assert.NotNil(t, NewServer(setupTestStore(t), "test"))
}
