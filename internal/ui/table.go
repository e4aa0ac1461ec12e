package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ModuleRow is one line of the module listing.
type ModuleRow struct {
	Name      string
	Path      string
	DependsOn []string
	Selected  bool
}

// ModuleTable renders rows as a bordered table.
func (t Theme) ModuleTable(rows []ModuleRow) string {
	data := make([][]string, len(rows))
	for i, row := range rows {
		selected := "no"
		if row.Selected {
			selected = "yes"
		}
		deps := strings.Join(row.DependsOn, ", ")
		if deps == "" {
			deps = "-"
		}
		data[i] = []string{row.Name, selected, row.Path, deps}
	}

	cell := t.renderer.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(t.muted).
		Headers("MODULE", "SELECTED", "PATH", "DEPENDS ON").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return t.header
			case col == 1 && !rows[row].Selected:
				return cell.Foreground(lipgloss.Color("244"))
			default:
				return cell
			}
		}).
		String()
}
