// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Confirms deletion of contacts, deals and tasks before touching the store
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

// confirmDelete remembers what to delete and where to return afterwards.
func (m *Model) confirmDelete(kind, id string) {
	m.deleteKind = kind
	m.deleteID = id
	m.deleteFrom = m.viewMode
	m.viewMode = ViewConfirmDelete
}

func (m Model) deleteTarget() string {
	doc := m.store.Snapshot()
	switch m.deleteKind {
	case "contact":
		if c := doc.Contact(m.deleteID); c != nil {
			return c.DisplayName()
		}
	case "deal":
		if c := doc.Contact(m.contactID); c != nil {
			if i := c.DealIndex(m.deleteID); i >= 0 {
				return c.Deals[i].Title
			}
		}
	case "task":
		if i := doc.TaskIndex(m.deleteID); i >= 0 {
			return doc.Tasks[i].Title
		}
	}
	return m.deleteID
}

func (m Model) renderConfirmDeleteView() string {
	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete this %s?", m.deleteKind)
	entityInfo := fmt.Sprintf("\n%s: %s\n", strings.ToUpper(m.deleteKind), m.deleteTarget())
	warning := "\nThis action cannot be undone!"
	if m.deleteKind == "contact" {
		warning = "\nIts deals are deleted too. This action cannot be undone!"
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, confirmBoxStyle.Render(content))
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		err := m.performDelete()
		m.setResult("Successfully deleted", err)
		m.viewMode = ViewList
		if m.deleteKind == "deal" {
			m.viewMode = ViewDetail
			m.dealRow = 0
		}
		m.clampRow()
	case "n", "N", "esc":
		m.viewMode = m.deleteFrom
	}
	return m, nil
}

func (m Model) performDelete() error {
	switch m.deleteKind {
	case "contact":
		_, err := m.store.DeleteContact(m.deleteID)
		return err
	case "deal":
		_, err := m.store.DeleteDeal(m.contactID, m.deleteID)
		return err
	case "task":
		_, err := m.store.DeleteTask(m.deleteID)
		return err
	default:
		return fmt.Errorf("unknown entity type %q", m.deleteKind)
	}
}
