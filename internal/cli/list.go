package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formrows/pkg/orchestrator"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (a *app) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <document>",
		Short: "List the row regions of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.openDocument(cmd, args[0])
			if err != nil {
				return err
			}
			defer session.Close()
			return writeRegionTable(cmd.OutOrStdout(), session)
		},
	}
}

type regionRow struct {
	id        string
	rows      int
	visible   int
	sortable  bool
	canDelete bool
	indices   []string
}

func summarise(session *orchestrator.Session) ([]regionRow, error) {
	var out []regionRow
	for _, id := range session.IDs() {
		editor, err := session.Editor(id)
		if err != nil {
			return nil, err
		}
		visible := editor.VisibleRows()
		row := regionRow{
			id:        id,
			rows:      len(editor.Rows()),
			visible:   len(visible),
			sortable:  editor.Reorderable(),
			canDelete: editor.CanDelete(),
		}
		for _, node := range visible {
			if idx, ok := editor.RowIndex(node); ok {
				row.indices = append(row.indices, strconv.Itoa(idx))
			} else {
				row.indices = append(row.indices, "?")
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func writeRegionTable(w io.Writer, session *orchestrator.Session) error {
	regions, err := summarise(session)
	if err != nil {
		return err
	}
	if len(regions) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("no row regions found"))
		return err
	}

	header := []string{"CONTAINER", "ROWS", "VISIBLE", "SORTABLE", "DELETE", "INDICES"}
	table := [][]string{header}
	for _, r := range regions {
		table = append(table, []string{
			r.id,
			strconv.Itoa(r.rows),
			strconv.Itoa(r.visible),
			yesNo(r.sortable),
			yesNo(r.canDelete),
			strings.Join(r.indices, ","),
		})
	}

	widths := make([]int, len(header))
	for _, line := range table {
		for i, cell := range line {
			if n := lipgloss.Width(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for i, line := range table {
		cells := make([]string, len(line))
		for j, cell := range line {
			style := cellStyle.Width(widths[j] + 2)
			if i == 0 {
				style = style.Inherit(headerStyle)
			}
			cells[j] = style.Render(cell)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " ")); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
