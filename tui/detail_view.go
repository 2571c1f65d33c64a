package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/query"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(12)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
)

func (m Model) currentContact() *models.Contact {
	return m.store.Snapshot().Contact(m.contactID)
}

func (m Model) renderDetailView() string {
	c := m.currentContact()
	if c == nil {
		return "Contact no longer exists. Press Esc to go back."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(strings.ToUpper(c.DisplayName())))
	s.WriteString("\n\n")

	s.WriteString(m.renderField("Company", c.Company))
	s.WriteString(m.renderField("Email", c.Email))
	s.WriteString(m.renderField("Phone", c.Phone))
	s.WriteString(m.renderField("Notes", c.Notes))
	s.WriteString(m.renderField("Updated", c.UpdatedAt))

	summary := query.SummarizeContact(*c)
	s.WriteString("\n")
	s.WriteString(sectionStyle.Render(fmt.Sprintf("Deals (%d, %d open)", summary.DealCount, summary.OpenCount)))
	s.WriteString("\n")
	if len(c.Deals) == 0 {
		s.WriteString("  No deals yet.\n")
	}
	for i, d := range c.Deals {
		cursor := "  "
		if i == m.dealRow {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s [%s]", cursor, d.Title, d.Stage.Label())
		if v := query.FormatDealValue(d.Value); v != "" {
			line += " $" + v
		}
		if d.CloseDate != "" {
			line += " · closes " + d.CloseDate
		}
		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}
	s.WriteString(m.renderDetailHelp())
	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"e: Edit contact",
		"a: Add deal",
		"↑/↓ + Enter: Edit deal",
		"x: Delete deal",
		"d: Delete contact",
		"Esc: Back",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.currentContact()
	if c == nil {
		if msg.String() == "esc" {
			m.viewMode = ViewList
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.status, m.err = "", nil
		m.clampRow()
	case "up", "k":
		if m.dealRow > 0 {
			m.dealRow--
		}
	case "down", "j":
		if m.dealRow < len(c.Deals)-1 {
			m.dealRow++
		}
	case "e":
		cmd := m.openContactForm(c.ID)
		return m, cmd
	case "a":
		cmd := m.openDealForm(nil)
		return m, cmd
	case "enter":
		if m.dealRow < len(c.Deals) {
			cmd := m.openDealForm(&c.Deals[m.dealRow])
			return m, cmd
		}
	case "x":
		if m.dealRow < len(c.Deals) {
			m.confirmDelete("deal", c.Deals[m.dealRow].ID)
		}
	case "d":
		m.confirmDelete("contact", c.ID)
	}
	return m, nil
}
