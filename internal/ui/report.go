package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/powar/internal/model"
)

// StatusIcon returns the glyph representing a module status.
func (t Theme) StatusIcon(status string) string {
	switch status {
	case model.StatusSuccess:
		return t.success.Render("✓")
	case model.StatusDryRun:
		return t.dryRun.Render("✱")
	case model.StatusFailed:
		return t.failure.Render("✗")
	default:
		return t.muted.Render("…")
	}
}

// Report renders the per-module outcome of a run followed by a one-line summary.
func (t Theme) Report(report *model.RunReport) string {
	if report == nil {
		return ""
	}

	title := "powar • apply"
	if report.DryRun {
		title = "powar • dry run"
	}
	sections := []string{t.title.Render(title)}

	if len(report.Modules) > 0 {
		lines := make([]string, 0, len(report.Modules))
		for _, res := range report.Modules {
			line := fmt.Sprintf(" %s %s", t.StatusIcon(res.Status), res.Module)
			if res.Duration > 0 {
				line += t.muted.Render(fmt.Sprintf(" (%s)", res.Duration.Truncate(time.Millisecond)))
			}
			if res.Error != nil {
				line += ": " + t.failure.Render(firstLine(res.Error.Error()))
			}
			lines = append(lines, line)
		}
		sections = append(sections, t.section.Render("Modules"), strings.Join(lines, "\n"))
	}

	sections = append(sections, t.section.Render("Summary"), summaryLine(report))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func summaryLine(report *model.RunReport) string {
	counts := report.Counts()
	parts := []string{fmt.Sprintf("%d module(s)", len(report.Modules))}
	for _, status := range []string{model.StatusSuccess, model.StatusDryRun, model.StatusFailed} {
		if n := counts[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, strings.ReplaceAll(status, "_", " ")))
		}
	}
	return fmt.Sprintf("%s in %s", strings.Join(parts, ", "), report.Duration.Truncate(time.Millisecond))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
