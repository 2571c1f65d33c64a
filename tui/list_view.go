// ABOUTME: List screens for the TUI tabs
// ABOUTME: Contacts table with search and sort, task list with filters, report dashboard
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/viz"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("SIMPLE CRM"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.tab {
	case TabContacts:
		if m.searching || m.search.Value() != "" {
			s.WriteString(m.search.View())
			s.WriteString("\n")
		}
		s.WriteString(m.renderContactsTable())
	case TabTasks:
		s.WriteString(m.renderTaskList())
	case TabReport:
		s.WriteString(viz.RenderDashboard(query.ComputeStats(m.store.Snapshot())))
	}
	s.WriteString("\n\n")

	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, tab := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) visibleContacts(doc *models.Document) []models.Contact {
	return query.SortContacts(query.SearchContacts(doc.Contacts, m.search.Value()), m.sortKey)
}

func (m Model) visibleTasks(doc *models.Document) []models.Task {
	return query.SortTasksForDisplay(query.FilterTasks(doc.Tasks, m.taskFilter))
}

func (m Model) renderContactsTable() string {
	doc := m.store.Snapshot()
	contacts := m.visibleContacts(doc)
	if len(contacts) == 0 {
		return "No contacts found"
	}

	columns := []table.Column{
		{Title: " ", Width: 1},
		{Title: "Name", Width: 24},
		{Title: "Company", Width: 20},
		{Title: "Email", Width: 26},
		{Title: "Deals", Width: 6},
		{Title: "Open", Width: 5},
	}

	var rows []table.Row
	for _, c := range contacts {
		marker := ""
		if string(doc.SelectedID) == c.ID {
			marker = "*"
		}
		summary := query.SummarizeContact(c)
		rows = append(rows, table.Row{
			marker,
			c.DisplayName(),
			c.Company,
			c.Email,
			fmt.Sprintf("%d", summary.DealCount),
			fmt.Sprintf("%d", summary.OpenCount),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View() + fmt.Sprintf("\nSort: %s", m.sortKey)
}

func (m Model) renderTaskList() string {
	doc := m.store.Snapshot()
	tasks := m.visibleTasks(doc)

	var s strings.Builder
	s.WriteString(fmt.Sprintf("Filter: %s\n\n", m.taskFilter))
	if len(tasks) == 0 {
		s.WriteString(query.EmptyTaskMessage(m.taskFilter))
		return s.String()
	}

	for i, t := range tasks {
		cursor := "  "
		if i == m.selectedRow {
			cursor = "> "
		}
		check := "[ ]"
		if t.Done {
			check = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, check, t.Title)
		if c := query.TaskContact(doc, t); c != nil {
			line += " · " + c.DisplayName()
		}
		if t.DueDate != "" {
			line += " · due " + t.DueDate
		}
		s.WriteString(line)
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderListHelp() string {
	var help []string
	switch m.tab {
	case TabContacts:
		if m.searching {
			help = []string{"Enter: Done", "Esc: Clear search"}
		} else {
			help = []string{"↑/↓: Navigate", "Tab: Switch tabs", "Enter: Open", "/: Search", "s: Sort", "n: New", "d: Delete", "q: Quit"}
		}
	case TabTasks:
		help = []string{"↑/↓: Navigate", "Tab: Switch tabs", "Space: Toggle", "n: New", "f: Filter", "c: Clear completed", "d: Delete", "q: Quit"}
	case TabReport:
		help = []string{"Tab: Switch tabs", "q: Quit"}
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil
	case "down", "j":
		m.selectedRow++
		m.clampRow()
		return m, nil
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.selectedRow = 0
		m.status, m.err = "", nil
		return m, nil
	}

	switch m.tab {
	case TabContacts:
		return m.handleContactListKeys(msg)
	case TabTasks:
		return m.handleTaskListKeys(msg)
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.SetValue("")
		m.search.Blur()
		m.selectedRow = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.selectedRow = 0
	return m, cmd
}

func (m Model) handleContactListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	case "s":
		m.sortKey = nextSort(m.sortKey)
	case "n":
		id, err := m.store.CreateContact()
		if err != nil {
			m.setResult("", err)
			return m, nil
		}
		m.contactID = id
		m.search.SetValue("")
		cmd := m.openContactForm(id)
		return m, cmd
	case "enter":
		if c := m.contactAtCursor(); c != nil {
			_, err := m.store.SelectContact(c.ID)
			m.setResult("", err)
			m.contactID = c.ID
			m.dealRow = 0
			m.viewMode = ViewDetail
		}
	case "d":
		if c := m.contactAtCursor(); c != nil {
			m.confirmDelete("contact", c.ID)
		}
	}
	return m, nil
}

func (m Model) handleTaskListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		cmd := m.openTaskForm()
		return m, cmd
	case " ", "x":
		if t := m.taskAtCursor(); t != nil {
			_, err := m.store.ToggleTask(t.ID, !t.Done)
			m.setResult("", err)
		}
	case "f":
		m.taskFilter = nextFilter(m.taskFilter)
		m.selectedRow = 0
	case "c":
		n, err := m.store.ClearCompletedTasks()
		m.setResult(fmt.Sprintf("Cleared %d completed task(s)", n), err)
		m.clampRow()
	case "d":
		if t := m.taskAtCursor(); t != nil {
			m.confirmDelete("task", t.ID)
		}
	}
	return m, nil
}

func (m Model) contactAtCursor() *models.Contact {
	contacts := m.visibleContacts(m.store.Snapshot())
	if m.selectedRow < len(contacts) {
		return &contacts[m.selectedRow]
	}
	return nil
}

func (m Model) taskAtCursor() *models.Task {
	tasks := m.visibleTasks(m.store.Snapshot())
	if m.selectedRow < len(tasks) {
		return &tasks[m.selectedRow]
	}
	return nil
}

// clampRow keeps the cursor inside the current list after it shrinks.
func (m *Model) clampRow() {
	doc := m.store.Snapshot()
	n := 0
	switch m.tab {
	case TabContacts:
		n = len(m.visibleContacts(doc))
	case TabTasks:
		n = len(m.visibleTasks(doc))
	}
	if m.selectedRow >= n {
		m.selectedRow = max(n-1, 0)
	}
}

func nextSort(current query.ContactSort) query.ContactSort {
	for i, key := range query.ContactSorts {
		if key == current {
			return query.ContactSorts[(i+1)%len(query.ContactSorts)]
		}
	}
	return query.SortUpdated
}

func nextFilter(current query.TaskFilter) query.TaskFilter {
	switch current {
	case query.TaskAll:
		return query.TaskPending
	case query.TaskPending:
		return query.TaskDone
	default:
		return query.TaskAll
	}
}
