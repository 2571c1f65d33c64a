// ABOUTME: Tests for the query and view derivations
// ABOUTME: Covers search, sorting, deal and task filters, stats and money formatting
package query

import (
	"testing"

	"github.com/harperreed/simplecrm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(contacts []models.Contact) []string {
	out := make([]string, len(contacts))
	for i, c := range contacts {
		out[i] = c.Name
	}
	return out
}

func taskIDs(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

var people = []models.Contact{
	{ID: "1", Name: "bravo", Company: "Zed Co", Email: "b@zed.example", UpdatedAt: "2024-01-02T00:00:00.000Z"},
	{ID: "2", Name: "Alpha", Company: "acme", Phone: "555-0100", UpdatedAt: "2024-01-03T00:00:00.000Z"},
	{ID: "3", Name: "charlie", Company: "Acme Labs", UpdatedAt: "2024-01-01T00:00:00.000Z"},
	{ID: "4", Name: "Alpha", Company: "", UpdatedAt: "2024-01-03T00:00:00.000Z"},
}

func TestSearchContacts(t *testing.T) {
	assert.Len(t, SearchContacts(people, ""), 4)
	assert.Len(t, SearchContacts(people, "   "), 4)
	assert.Equal(t, []string{"Alpha", "charlie"}, names(SearchContacts(people, "ACME")))
	assert.Equal(t, []string{"Alpha"}, names(SearchContacts(people, "555")))
	assert.Equal(t, []string{"bravo"}, names(SearchContacts(people, "zed.example")))
	assert.Empty(t, SearchContacts(people, "nobody"))
}

func TestSortContacts(t *testing.T) {
	byName := SortContacts(people, SortName)
	assert.Equal(t, []string{"Alpha", "Alpha", "bravo", "charlie"}, names(byName))
	// ties keep input order
	assert.Equal(t, "2", byName[0].ID)
	assert.Equal(t, "4", byName[1].ID)

	byCompany := SortContacts(people, SortCompany)
	assert.Equal(t, "4", byCompany[0].ID, "blank company sorts first")
	assert.Equal(t, "2", byCompany[1].ID)
	assert.Equal(t, "3", byCompany[2].ID)
	assert.Equal(t, "1", byCompany[3].ID)

	byUpdated := SortContacts(people, SortUpdated)
	assert.Equal(t, []string{"2", "4", "1", "3"}, []string{byUpdated[0].ID, byUpdated[1].ID, byUpdated[2].ID, byUpdated[3].ID})

	// input untouched
	assert.Equal(t, "1", people[0].ID)
}

func TestParseContactSort(t *testing.T) {
	s, ok := ParseContactSort("company")
	assert.True(t, ok)
	assert.Equal(t, SortCompany, s)

	s, ok = ParseContactSort("")
	assert.True(t, ok)
	assert.Equal(t, SortUpdated, s)

	_, ok = ParseContactSort("random")
	assert.False(t, ok)
}

func TestFilterDeals(t *testing.T) {
	deals := []models.Deal{
		{ID: "a", Stage: models.StageLead},
		{ID: "b", Stage: models.StageWon},
		{ID: "c", Stage: models.StageLead},
	}
	assert.Len(t, FilterDeals(deals, StageAll), 3)
	assert.Len(t, FilterDeals(deals, ""), 3)
	assert.Len(t, FilterDeals(deals, "lead"), 2)
	assert.Empty(t, FilterDeals(deals, "lost"))
}

func TestSortTasksForDisplay(t *testing.T) {
	tasks := []models.Task{
		{ID: "a", DueDate: "2024-01-01"},
		{ID: "b", DueDate: ""},
		{ID: "c", Done: true, DueDate: "2023-01-01"},
	}
	assert.Equal(t, []string{"a", "b", "c"}, taskIDs(SortTasksForDisplay(tasks)))

	mixed := []models.Task{
		{ID: "done-late", Done: true, DueDate: "2025-01-01"},
		{ID: "undated", DueDate: ""},
		{ID: "done-undated", Done: true},
		{ID: "late", DueDate: "2024-09-01"},
		{ID: "undated-2"},
		{ID: "early", DueDate: "2024-02-01"},
	}
	assert.Equal(t,
		[]string{"early", "late", "undated", "undated-2", "done-late", "done-undated"},
		taskIDs(SortTasksForDisplay(mixed)))
}

func TestFilterTasks(t *testing.T) {
	tasks := []models.Task{{ID: "a"}, {ID: "b", Done: true}}
	assert.Equal(t, []string{"a", "b"}, taskIDs(FilterTasks(tasks, TaskAll)))
	assert.Equal(t, []string{"a"}, taskIDs(FilterTasks(tasks, TaskPending)))
	assert.Equal(t, []string{"b"}, taskIDs(FilterTasks(tasks, TaskDone)))

	assert.Equal(t, "No pending tasks.", EmptyTaskMessage(TaskPending))
	assert.Equal(t, "No completed tasks.", EmptyTaskMessage(TaskDone))
	assert.Equal(t, "No tasks yet.", EmptyTaskMessage(TaskAll))

	f, ok := ParseTaskFilter("DONE")
	assert.True(t, ok)
	assert.Equal(t, TaskDone, f)
}

func TestComputeStats(t *testing.T) {
	doc := models.NewDocument()
	doc.Contacts = []models.Contact{
		{ID: "c1", Deals: []models.Deal{
			{Stage: models.StageLead, Value: models.NewDealValue(100)},
			{Stage: models.StageProposal, Value: models.NewDealValue(250)},
			{Stage: models.StageWon, Value: models.NewDealValue(1000)},
		}},
		{ID: "c2", Deals: []models.Deal{
			{Stage: models.StageLead},
			{Stage: models.StageLost, Value: models.NewDealValue(999)},
		}},
	}

	st := ComputeStats(doc)
	assert.Equal(t, 2, st.Contacts)
	assert.Equal(t, 5, st.Deals)
	assert.Equal(t, int64(350), st.PipelineValue)
	assert.Equal(t, int64(1000), st.WonValue)
	assert.Equal(t, 2, st.MaxCount)

	require.Len(t, st.Stages, 5)
	assert.Equal(t, models.StageLead, st.Stages[0].Stage)
	assert.Equal(t, 2, st.Stages[0].Count)
	assert.Equal(t, 100, st.Stages[0].Percent)
	assert.Equal(t, "Qualified", st.Stages[1].Label)
	assert.Equal(t, 0, st.Stages[1].Percent)
	assert.Equal(t, 50, st.Stages[2].Percent)
	assert.InDelta(t, 0.5, st.Stages[3].Ratio, 1e-9)
}

func TestComputeStatsEmpty(t *testing.T) {
	st := ComputeStats(models.NewDocument())
	assert.Equal(t, 0, st.Deals)
	assert.Equal(t, 1, st.MaxCount)
	for _, s := range st.Stages {
		assert.Equal(t, 0, s.Count)
		assert.Equal(t, 0.0, s.Ratio)
		assert.Equal(t, 0, s.Percent)
	}
}

func TestSummariesAndLookups(t *testing.T) {
	c := models.Contact{ID: "c1", Deals: []models.Deal{
		{Stage: models.StageLead}, {Stage: models.StageWon}, {Stage: models.StageQualified},
	}}
	assert.Equal(t, ContactSummary{DealCount: 3, OpenCount: 2}, SummarizeContact(c))

	doc := models.NewDocument()
	doc.Contacts = []models.Contact{c}
	assert.Nil(t, SelectedContact(doc))
	doc.SelectedID = "c1"
	require.NotNil(t, SelectedContact(doc))

	assert.Nil(t, TaskContact(doc, models.Task{ContactID: "gone"}))
	assert.Nil(t, TaskContact(doc, models.Task{}))
	assert.Equal(t, "c1", TaskContact(doc, models.Task{ContactID: "c1"}).ID)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0", FormatMoney(0))
	assert.Equal(t, "999", FormatMoney(999))
	assert.Equal(t, "15,000", FormatMoney(15000))
	assert.Equal(t, "1,234,567", FormatMoney(1234567))

	assert.Equal(t, "", FormatDealValue(models.DealValue{}))
	assert.Equal(t, "42,000", FormatDealValue(models.NewDealValue(42000)))
}
