// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive full-screen interface with contacts, tasks and report tabs
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewConfirmDelete
)

// Tab is one of the top-level list screens.
type Tab int

const (
	TabContacts Tab = iota
	TabTasks
	TabReport
)

var tabNames = []string{"Contacts", "Tasks", "Report"}

// changedMsg tells the program the document changed outside of Update.
type changedMsg store.Change

// Model is the main bubbletea model
type Model struct {
	store    *store.Store
	viewMode ViewMode
	tab      Tab

	// List view state
	selectedRow int
	searching   bool
	search      textinput.Model
	sortKey     query.ContactSort
	taskFilter  query.TaskFilter

	// Detail view state
	contactID string
	dealRow   int

	// Edit view state
	form       formKind
	editingID  string
	formInputs []textinput.Model
	focusIndex int

	// Delete confirmation state
	deleteKind string
	deleteID   string
	deleteFrom ViewMode

	// UI state
	status string
	err    error
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(s *store.Store) Model {
	search := textinput.New()
	search.Placeholder = "Search contacts"
	search.CharLimit = 100

	return Model{
		store:      s,
		viewMode:   ViewList,
		tab:        TabContacts,
		search:     search,
		sortKey:    query.SortUpdated,
		taskFilter: query.TaskAll,
		width:      80,
		height:     24,
	}
}

// Run starts the full-screen program and blocks until the user quits.
func Run(s *store.Store) error {
	p := tea.NewProgram(NewModel(s), tea.WithAltScreen())
	unsubscribe := s.Subscribe(func(c store.Change) {
		// Send blocks until the event loop reads it, and mutations run inside Update.
		go p.Send(changedMsg(c))
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case changedMsg:
		m.clampRow()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Text entry owns every other key.
	typing := m.viewMode == ViewEdit || m.searching
	if msg.String() == "q" && !typing {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// setResult records the outcome of a store call for the status line.
func (m *Model) setResult(ok string, err error) {
	if err != nil {
		m.err = err
		m.status = ""
		return
	}
	m.err = nil
	m.status = ok
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)
