package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("147"))

	cellStyle = lipgloss.NewStyle()

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// renderTable lays out rows under a styled header, sizing each column to its
// widest cell.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := widths[i]
			if i < len(cells)-1 {
				w += 2
			}
			parts[i] = style.Width(w).Render(cell)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	out := make([]string, 0, len(rows)+1)
	out = append(out, line(headers, headerStyle))
	for _, row := range rows {
		out = append(out, line(row, cellStyle))
	}
	return strings.Join(out, "\n")
}

// renderFacts lays out label/value pairs, one per line, labels padded to a
// common width.
func renderFacts(facts [][2]string) string {
	width := 0
	for _, f := range facts {
		if w := lipgloss.Width(f[0]); w > width {
			width = w
		}
	}
	lines := make([]string, 0, len(facts))
	for _, f := range facts {
		lines = append(lines, labelStyle.Width(width+2).Render(f[0])+f[1])
	}
	return strings.Join(lines, "\n")
}
