// Package ui renders run reports and module listings for the terminal.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles for one output stream. Color is dropped automatically
// when the stream is not a terminal.
type Theme struct {
	renderer *lipgloss.Renderer

	title   lipgloss.Style
	section lipgloss.Style
	header  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	dryRun  lipgloss.Style
	muted   lipgloss.Style
}

// NewTheme builds a Theme whose color profile is detected from w.
func NewTheme(w io.Writer) Theme {
	r := lipgloss.NewRenderer(w)
	return Theme{
		renderer: r,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		section:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1),
		header:   r.NewStyle().Bold(true).Padding(0, 1),
		success:  r.NewStyle().Foreground(lipgloss.Color("42")),
		failure:  r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		dryRun:   r.NewStyle().Foreground(lipgloss.Color("33")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("244")),
	}
}
