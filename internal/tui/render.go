package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/spec-kit/ticket-board/internal/board"
	"github.com/spec-kit/ticket-board/internal/domain"
)

const (
	columnWidth  = 32
	columnGap    = 2
	defaultWidth = 100
)

// visibleColumns returns how many columns fit in width. At least one is always shown.
func visibleColumns(width int) int {
	if width <= 0 {
		width = defaultWidth
	}
	count := (width + columnGap) / (columnWidth + columnGap)
	if count < 1 {
		return 1
	}
	return count
}

// RenderBoard renders every column of view, wrapping onto further rows when
// they do not fit in width.
func RenderBoard(view board.GroupedView, theme Theme, width int) string {
	if len(view.Groups) == 0 {
		return lipgloss.NewStyle().Foreground(theme.FaintText).Render("No tickets to display.")
	}

	perRow := visibleColumns(width)
	var rows []string
	for start := 0; start < len(view.Groups); start += perRow {
		end := min(start+perRow, len(view.Groups))
		rows = append(rows, renderColumns(view, theme, start, end))
	}
	return strings.Join(rows, "\n\n")
}

// renderColumns joins the columns view.Groups[start:end] side by side.
func renderColumns(view board.GroupedView, theme Theme, start, end int) string {
	gap := strings.Repeat(" ", columnGap)
	columns := make([]string, 0, 2*(end-start))
	for i := start; i < end; i++ {
		if i > start {
			columns = append(columns, gap)
		}
		group := view.Groups[i]
		columns = append(columns, renderColumn(view.Header(group.Label), group.Tickets, theme))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderColumn(header string, tickets []domain.Ticket, theme Theme) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	countStyle := lipgloss.NewStyle().Foreground(theme.FaintText)

	count := fmt.Sprintf(" %d", len(tickets))
	title := ansi.Truncate(header, columnWidth-ansi.StringWidth(count), "…")

	lines := []string{headerStyle.Render(title) + countStyle.Render(count)}
	if len(tickets) == 0 {
		lines = append(lines, countStyle.Render("(empty)"))
	}
	for _, t := range tickets {
		lines = append(lines, renderCard(t, theme))
	}
	return lipgloss.NewStyle().Width(columnWidth).Render(strings.Join(lines, "\n"))
}

// renderCard draws one ticket: id, title, then status and priority.
func renderCard(t domain.Ticket, theme Theme) string {
	inner := columnWidth - 4 // border and horizontal padding

	idLine := lipgloss.NewStyle().Foreground(theme.FaintText).Render(ansi.Truncate(t.ID, inner, "…"))
	titleLine := lipgloss.NewStyle().Foreground(theme.NormalText).Render(ansi.Truncate(t.Title, inner, "…"))

	status := lipgloss.NewStyle().Foreground(theme.StatusColor(t.Status)).Render(string(t.Status))
	priority := t.Priority.Label()
	if priority == "" {
		priority = "P" + t.Priority.String()
	}
	meta := ansi.Truncate(status+" · "+lipgloss.NewStyle().Foreground(theme.PriorityColor(t.Priority)).Render(priority), inner, "…")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1).
		Width(columnWidth - 2).
		Render(strings.Join([]string{idLine, titleLine, meta}, "\n"))
}
