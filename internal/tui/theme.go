package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/ticket-board/internal/domain"
)

// Theme is the color palette for the board. Colors are ANSI 256 codes.
type Theme struct {
	Name      string
	Indicator string // header glyph for the theme a toggle switches to

	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	HeaderForeground lipgloss.Color
	HeaderBackground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Display panel selection highlight.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Indexed by priority value: none, low, medium, high, urgent.
	PriorityColors [5]lipgloss.Color

	StatusColors map[domain.TicketStatus]lipgloss.Color
}

// PriorityColor returns the color for a priority. Out-of-range values use FaintText.
func (theme Theme) PriorityColor(priority domain.Priority) lipgloss.Color {
	if !priority.Valid() {
		return theme.FaintText
	}
	return theme.PriorityColors[priority]
}

// StatusColor returns the color for a status, FaintText for statuses outside the vocabulary.
func (theme Theme) StatusColor(status domain.TicketStatus) lipgloss.Color {
	if color, ok := theme.StatusColors[status]; ok {
		return color
	}
	return theme.FaintText
}

// LightTheme is used when dark mode is off.
var LightTheme = Theme{
	Name:      "light",
	Indicator: "🌜",

	NormalText: lipgloss.Color("235"),
	FaintText:  lipgloss.Color("243"),

	HeaderForeground: lipgloss.Color("232"),
	HeaderBackground: lipgloss.Color("254"),
	BorderColor:      lipgloss.Color("250"),
	HelpText:         lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("153"),
	SelectedForeground: lipgloss.Color("16"),

	PriorityColors: [5]lipgloss.Color{
		lipgloss.Color("245"), // no priority: gray
		lipgloss.Color("31"),  // low: teal
		lipgloss.Color("136"), // medium: amber
		lipgloss.Color("166"), // high: orange
		lipgloss.Color("160"), // urgent: red
	},

	StatusColors: map[domain.TicketStatus]lipgloss.Color{
		domain.TicketStatusBacklog:    lipgloss.Color("244"),
		domain.TicketStatusTodo:       lipgloss.Color("25"),
		domain.TicketStatusInProgress: lipgloss.Color("136"),
		domain.TicketStatusDone:       lipgloss.Color("28"),
		domain.TicketStatusCancelled:  lipgloss.Color("124"),
	},
}

// DarkTheme is used when dark mode is on.
var DarkTheme = Theme{
	Name:      "dark",
	Indicator: "🌞",

	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("255"),
	HeaderBackground: lipgloss.Color("236"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	SelectedBackground: lipgloss.Color("238"),
	SelectedForeground: lipgloss.Color("255"),

	PriorityColors: [5]lipgloss.Color{
		lipgloss.Color("240"), // no priority: dim gray
		lipgloss.Color("75"),  // low: blue
		lipgloss.Color("220"), // medium: yellow
		lipgloss.Color("208"), // high: orange
		lipgloss.Color("196"), // urgent: bright red
	},

	StatusColors: map[domain.TicketStatus]lipgloss.Color{
		domain.TicketStatusBacklog:    lipgloss.Color("245"),
		domain.TicketStatusTodo:       lipgloss.Color("75"),
		domain.TicketStatusInProgress: lipgloss.Color("220"),
		domain.TicketStatusDone:       lipgloss.Color("114"),
		domain.TicketStatusCancelled:  lipgloss.Color("203"),
	},
}

// ThemeFor picks the palette for the dark mode flag.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}
