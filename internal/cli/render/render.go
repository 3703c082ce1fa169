// Package render holds the terminal styles shared by the commands.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Italic(true)

	Danger = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	Label = lipgloss.NewStyle().
		Width(22).
		Foreground(lipgloss.Color("250"))

	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1)

	// heat levels from "no completions" to "saturated"
	heat = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	}
)

// Row renders "label  value" with an aligned label column.
func Row(label string, value any) string {
	return Label.Render(label) + fmt.Sprint(value)
}

// Bar renders a percentage as a fixed-width bar.
func Bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))
	filled := int(percent / 100 * float64(width))
	return Success.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

// Percent formats a percentage with one decimal.
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// HeatCell renders one heat map square for an intensity in [0, 1].
func HeatCell(intensity float64) string {
	idx := 0
	if intensity > 0 {
		idx = 1 + int(intensity*float64(len(heat)-2)+0.5)
		idx = min(idx, len(heat)-1)
	}
	return heat[idx].Render("■")
}

// Blank is the placeholder for days outside the rendered period.
func Blank() string {
	return " "
}

// Check renders a done/not-done marker.
func Check(done bool) string {
	if done {
		return Success.Render("✓")
	}
	return Muted.Render("·")
}
