package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
)

type formKind int

const (
	formContact formKind = iota
	formDeal
	formTask
)

func (m Model) renderEditView() string {
	var s strings.Builder

	switch m.form {
	case formContact:
		s.WriteString(titleStyle.Render("EDIT CONTACT"))
	case formDeal:
		if m.editingID == "" {
			s.WriteString(titleStyle.Render("NEW DEAL"))
		} else {
			s.WriteString(titleStyle.Render("EDIT DEAL"))
		}
	case formTask:
		s.WriteString(titleStyle.Render("NEW TASK"))
	}
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}
	s.WriteString("\n")

	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}
	s.WriteString(m.renderEditHelp())
	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		m.viewMode = m.returnMode()
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		cmd := m.updateFormFocus()
		return m, cmd
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		cmd := m.updateFormFocus()
		return m, cmd
	case "enter":
		if err := m.saveForm(); err != nil {
			m.setResult("", err)
			return m, nil
		}
		m.viewMode = m.returnMode()
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

// returnMode is where a form goes back to once it closes.
func (m Model) returnMode() ViewMode {
	if m.form == formTask {
		return ViewList
	}
	return ViewDetail
}

func newInput(placeholder string, limit int, value string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.SetValue(value)
	return in
}

func (m *Model) openForm(kind formKind, editingID string, inputs []textinput.Model) tea.Cmd {
	m.form = kind
	m.editingID = editingID
	m.formInputs = inputs
	m.focusIndex = 0
	m.err = nil
	m.viewMode = ViewEdit
	return m.updateFormFocus()
}

func (m *Model) openContactForm(id string) tea.Cmd {
	m.contactID = id
	c := m.store.Snapshot().Contact(id)
	if c == nil {
		return nil
	}
	return m.openForm(formContact, id, []textinput.Model{
		newInput("Name", 100, c.Name),
		newInput("Company", 100, c.Company),
		newInput("Email", 100, c.Email),
		newInput("Phone", 30, c.Phone),
		newInput("Notes", 500, c.Notes),
	})
}

// openDealForm edits d, or starts a new deal on the current contact when d is nil.
func (m *Model) openDealForm(d *models.Deal) tea.Cmd {
	deal := models.Deal{Stage: models.StageLead}
	if d != nil {
		deal = *d
	}
	return m.openForm(formDeal, deal.ID, []textinput.Model{
		newInput("Title", 100, deal.Title),
		newInput("Value", 20, deal.Value.String()),
		newInput("Stage (lead/qualified/proposal/won/lost)", 20, string(deal.Stage)),
		newInput("Close date", 20, deal.CloseDate),
	})
}

// openTaskForm starts a task linked to the selected contact, if any.
func (m *Model) openTaskForm() tea.Cmd {
	return m.openForm(formTask, "", []textinput.Model{
		newInput("Title", 200, ""),
		newInput("Due date", 20, ""),
	})
}

func (m *Model) updateFormFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.focusIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) saveForm() error {
	value := func(i int) string { return m.formInputs[i].Value() }

	switch m.form {
	case formContact:
		name, company, email, phone, notes := value(0), value(1), value(2), value(3), value(4)
		_, err := m.store.UpdateContact(m.editingID, store.ContactPatch{
			Name:    &name,
			Company: &company,
			Email:   &email,
			Phone:   &phone,
			Notes:   &notes,
		})
		if err == nil {
			m.status = "Contact saved"
		}
		return err
	case formDeal:
		id, err := m.store.UpsertDeal(m.contactID, m.editingID, store.DealInput{
			Title:     value(0),
			Value:     value(1),
			Stage:     models.Stage(value(2)),
			CloseDate: value(3),
		})
		if err == nil && id != "" {
			m.status = "Deal saved"
		}
		return err
	case formTask:
		contactID := ""
		if c := query.SelectedContact(m.store.Snapshot()); c != nil {
			contactID = c.ID
		}
		_, err := m.store.CreateTask(value(0), contactID, value(1))
		if err == nil {
			m.status = "Task added"
		}
		return err
	}
	return nil
}
