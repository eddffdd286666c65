package tui

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/ticket-board/internal/domain"
	"github.com/spec-kit/ticket-board/internal/service"
)

// Display panel fields.
const (
	fieldGrouping = iota
	fieldOrdering
	fieldCount
)

// loadedMsg reports that the one-time fetch finished.
type loadedMsg struct {
	err error
}

// Model is the bubbletea model of the board. All state that outlives a frame
// (theme, selections, panel visibility) lives in the BoardService.
type Model struct {
	ctx     context.Context
	service *service.BoardService
	keys    KeyMap

	width  int
	height int

	loading bool
	offset  int // index of the first visible column
	field   int // focused Display panel field
}

// NewModel creates a board model. ctx bounds the fetch; canceling it drops a
// result that has not arrived yet.
func NewModel(ctx context.Context, boardService *service.BoardService) Model {
	return Model{
		ctx:     ctx,
		service: boardService,
		keys:    DefaultKeyMap,
		loading: true,
	}
}

// Init implements tea.Model. Starts the fetch.
func (model Model) Init() tea.Cmd {
	boardService, ctx := model.service, model.ctx
	return func() tea.Msg {
		return loadedMsg{err: boardService.Load(ctx)}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case loadedMsg:
		// Failures were already logged by the service; the board stays empty.
		model.loading = false
		model.clampOffset()
		return model, nil

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.clampOffset()
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.ToggleTheme):
		model.service.ToggleTheme(model.ctx)
		return model, nil

	case key.Matches(message, model.keys.ToggleDisplay):
		if model.service.ToggleDropdown().DropdownVisible {
			model.field = fieldGrouping
		}
		return model, nil
	}

	if model.service.State().DropdownVisible {
		switch {
		case key.Matches(message, model.keys.ClosePanel):
			model.service.ToggleDropdown()
		case key.Matches(message, model.keys.NextField):
			model.field = (model.field + 1) % fieldCount
		case key.Matches(message, model.keys.Left):
			model.cycleField(-1)
		case key.Matches(message, model.keys.Right):
			model.cycleField(1)
		}
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Left):
		model.offset--
		model.clampOffset()
	case key.Matches(message, model.keys.Right):
		model.offset++
		model.clampOffset()
	}
	return model, nil
}

// cycleField moves the focused panel field to the previous or next mode.
func (model *Model) cycleField(step int) {
	state := model.service.State()
	switch model.field {
	case fieldGrouping:
		next := cycle(domain.GroupingModes, state.Grouping, step)
		_, _ = model.service.SetGrouping(model.ctx, next)
		model.offset = 0
	case fieldOrdering:
		next := cycle(domain.OrderingModes, state.Ordering, step)
		_, _ = model.service.SetOrdering(model.ctx, next)
	}
}

func cycle[T comparable](values []T, current T, step int) T {
	index := slices.Index(values, current)
	if index < 0 {
		return values[0]
	}
	n := len(values)
	return values[((index+step)%n+n)%n]
}

func (model *Model) clampOffset() {
	groups := len(model.service.View().Groups)
	maxOffset := max(groups-visibleColumns(model.width), 0)
	model.offset = min(max(model.offset, 0), maxOffset)
}

// View implements tea.Model.
func (model Model) View() string {
	state := model.service.State()
	theme := ThemeFor(state.DarkMode)

	sections := []string{model.renderHeader(theme)}
	if state.DropdownVisible {
		sections = append(sections, model.renderPanel(state, theme))
	}

	if model.loading {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.FaintText).Render("Loading tickets..."))
	} else {
		sections = append(sections, model.renderBoard(theme))
	}

	sections = append(sections, model.renderHelp(state, theme))
	return strings.Join(sections, "\n\n")
}

func (model Model) renderHeader(theme Theme) string {
	width := model.width
	if width <= 0 {
		width = defaultWidth
	}
	left := "☰ Display ▾"
	right := theme.Indicator
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)

	return lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.HeaderForeground).
		Background(theme.HeaderBackground).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", padding) + right)
}

func (model Model) renderPanel(state service.DisplayState, theme Theme) string {
	rows := []struct {
		label string
		value string
	}{
		{"Grouping", state.Grouping.Title()},
		{"Ordering", state.Ordering.Title()},
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText).Width(10)
	valueStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	focusedStyle := lipgloss.NewStyle().
		Foreground(theme.SelectedForeground).
		Background(theme.SelectedBackground).
		Bold(true)

	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		value := "‹ " + row.value + " ›"
		if i == model.field {
			value = focusedStyle.Render(value)
		} else {
			value = valueStyle.Render(value)
		}
		lines = append(lines, labelStyle.Render(row.label)+value)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (model Model) renderBoard(theme Theme) string {
	view := model.service.View()
	if len(view.Groups) == 0 {
		return RenderBoard(view, theme, model.width)
	}
	end := min(model.offset+visibleColumns(model.width), len(view.Groups))
	return renderColumns(view, theme, model.offset, end)
}

func (model Model) renderHelp(state service.DisplayState, theme Theme) string {
	bindings := []key.Binding{model.keys.ToggleTheme, model.keys.ToggleDisplay}
	if state.DropdownVisible {
		bindings = append(bindings, model.keys.NextField, model.keys.Left, model.keys.Right, model.keys.ClosePanel)
	} else {
		bindings = append(bindings, model.keys.Left, model.keys.Right)
	}
	bindings = append(bindings, model.keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return lipgloss.NewStyle().Foreground(theme.HelpText).Render(strings.Join(parts, "  "))
}
