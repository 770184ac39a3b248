// Package ui renders the interactive assist picker for terminal use.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"lumen/internal/assist"
)

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
	}
}

type pickerModel struct {
	title  string
	items  []assist.Label
	keys   pickerKeyMap
	cursor int
	choice int
	width  int
}

// NewPickerModel returns a Bubble Tea model that lets the user choose
// one assist from the labels reported by the check pass.
func NewPickerModel(title string, items []assist.Label) tea.Model {
	return &pickerModel{
		title:  title,
		items:  items,
		keys:   defaultPickerKeyMap(),
		choice: -1,
		width:  80,
	}
}

func (m *pickerModel) Init() tea.Cmd {
	return nil
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			m.choice = m.cursor
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *pickerModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := truncate(item.Label, m.width-6)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render(fmt.Sprintf("> %s", line)))
		} else {
			b.WriteString(fmt.Sprintf("  %s", line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ move · enter apply · q cancel"))
	b.WriteString("\n")
	return b.String()
}

// Choice returns the picked label, or false when the user cancelled.
func (m *pickerModel) Choice() (assist.Label, bool) {
	if m.choice < 0 || m.choice >= len(m.items) {
		return assist.Label{}, false
	}
	return m.items[m.choice], true
}

// Pick runs the picker and returns the chosen label.
func Pick(title string, items []assist.Label) (assist.Label, bool, error) {
	if len(items) == 0 {
		return assist.Label{}, false, nil
	}
	program := tea.NewProgram(NewPickerModel(title, items))
	final, err := program.Run()
	if err != nil {
		return assist.Label{}, false, err
	}
	model, ok := final.(*pickerModel)
	if !ok {
		return assist.Label{}, false, fmt.Errorf("ui: unexpected model %T", final)
	}
	label, chosen := model.Choice()
	return label, chosen, nil
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
