package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/i18n"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/manifest"
)

// RegistryItem is one registry entry shown in the browser.
type RegistryItem struct {
	Key   manifest.Key
	Entry manifest.Entry
}

// PluginID returns the plugin id half of the composite key.
func (r RegistryItem) PluginID() string {
	id, _, _ := r.Key.Split()
	return id
}

// Version returns the version half of the composite key.
func (r RegistryItem) Version() string {
	_, v, _ := r.Key.Split()
	return v
}

// FinderResult holds the result of an interactive browse session.
type FinderResult struct {
	Selected  *RegistryItem
	Cancelled bool
}

// Model is the bubbletea model for the registry browser
type Model struct {
	items         []RegistryItem
	filteredItems []RegistryItem
	cursor        int
	width         int
	height        int
	searchInput   textinput.Model
	quitting      bool
	confirmed     bool
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// NewModel creates a new browser model
func NewModel(items []RegistryItem) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 50
	ti.Width = 30

	return Model{
		items:         items,
		filteredItems: items,
		searchInput:   ti,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		// If search has text, clear it; otherwise quit
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.applyFilter()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down":
		if m.cursor < len(m.filteredItems)-1 {
			m.cursor++
		}

	case "enter":
		if len(m.filteredItems) > 0 {
			m.confirmed = true
			m.quitting = true
			return m, tea.Quit
		}

	case "backspace":
		// Handle backspace for search
		val := m.searchInput.Value()
		if len(val) > 0 {
			m.searchInput.SetValue(val[:len(val)-1])
			m.applyFilter()
		}

	default:
		// Any other printable character goes to search
		if len(msg.String()) == 1 && msg.String()[0] >= 32 && msg.String()[0] < 127 {
			m.searchInput.SetValue(m.searchInput.Value() + msg.String())
			m.applyFilter()
		}
	}

	return m, nil
}

func (m *Model) applyFilter() {
	query := m.searchInput.Value()
	if query == "" {
		m.filteredItems = m.items
		if m.cursor >= len(m.filteredItems) {
			m.cursor = max(0, len(m.filteredItems)-1)
		}
		return
	}

	// Build searchable strings
	searchables := make([]string, len(m.items))
	for i, item := range m.items {
		searchables[i] = strings.ToLower(item.PluginID() + " " + item.Version())
	}

	matches := fuzzy.Find(strings.ToLower(query), searchables)
	m.filteredItems = make([]RegistryItem, len(matches))
	for i, match := range matches {
		m.filteredItems[i] = m.items[match.Index]
	}

	if m.cursor >= len(m.filteredItems) {
		m.cursor = max(0, len(m.filteredItems)-1)
	}
}

func (m Model) View() string {
	if m.quitting && !m.confirmed {
		return ""
	}

	var b strings.Builder

	// Header
	header := titleStyle.Render(i18n.T("TUIHeader", map[string]any{"Count": len(m.items)}))
	b.WriteString(header)
	b.WriteString("\n\n")

	// Calculate layout
	listWidth := 50
	previewWidth := max(30, m.width-listWidth-6)
	listHeight := max(5, m.height-8)

	// Build list
	var listLines []string
	for i, item := range m.filteredItems {
		line := m.renderItem(i, item)
		listLines = append(listLines, line)
	}

	// Paginate if needed
	start := 0
	if m.cursor >= listHeight {
		start = m.cursor - listHeight + 1
	}
	end := min(start+listHeight, len(listLines))

	visibleList := strings.Join(listLines[start:end], "\n")

	// Build preview
	preview := m.renderPreview()

	// Combine list and preview horizontally
	listBox := lipgloss.NewStyle().Width(listWidth).Render(visibleList)
	previewBox := previewStyle.Width(previewWidth).Height(listHeight).Render(preview)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listBox, "  ", previewBox)
	b.WriteString(content)
	b.WriteString("\n\n")

	// Search bar (always visible)
	searchQuery := m.searchInput.Value()
	if searchQuery != "" {
		b.WriteString("> " + searchQuery + "_")
	} else {
		b.WriteString(helpStyle.Render("> type to filter..."))
	}
	b.WriteString("\n")

	// Help
	help := helpStyle.Render("↑/↓: move | Enter: select | Esc: clear/quit")
	b.WriteString(help)

	return b.String()
}

func (m Model) renderItem(idx int, item RegistryItem) string {
	cursor := "  "
	if idx == m.cursor {
		cursor = "> "
	}

	text := fmt.Sprintf("%s%s %s", cursor, item.PluginID(), item.Version())

	if idx == m.cursor {
		return selectedStyle.Render(text)
	}
	return normalStyle.Render(text)
}

func (m Model) renderPreview() string {
	if len(m.filteredItems) == 0 || m.cursor >= len(m.filteredItems) {
		return i18n.T("TUIPreviewEmpty", nil)
	}

	item := m.filteredItems[m.cursor]

	var b strings.Builder

	b.WriteString(fmt.Sprintf("Plugin: %s\n", item.PluginID()))
	b.WriteString(fmt.Sprintf("Version: %s\n", item.Version()))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Archive:\n  %s\n\n", item.Entry.Path))
	b.WriteString(fmt.Sprintf("SHA-256:\n  %s\n", item.Entry.Hash))

	return b.String()
}

// RunRegistryBrowser launches the interactive fuzzy browser over a registry.
func RunRegistryBrowser(reg *manifest.Registry) (*FinderResult, error) {
	var items []RegistryItem
	for _, key := range reg.SortedKeys() {
		entry, _ := reg.Get(key)
		items = append(items, RegistryItem{Key: key, Entry: entry})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%s", i18n.T("NoPluginsAvailable", nil))
	}

	// Sort by plugin id, then by version
	sort.Slice(items, func(i, j int) bool {
		if items[i].PluginID() != items[j].PluginID() {
			return items[i].PluginID() < items[j].PluginID()
		}
		return items[i].Version() < items[j].Version()
	})

	// Run the TUI
	model := NewModel(items)
	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := finalModel.(Model)

	if !m.confirmed {
		return &FinderResult{Cancelled: true}, nil
	}

	selected := m.filteredItems[m.cursor]
	return &FinderResult{Selected: &selected}, nil
}
