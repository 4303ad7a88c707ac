package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")  // teal - headings
	colorWhite = lipgloss.Color("255") // bright white - values
	colorDim   = lipgloss.Color("240") // dim gray - labels
	colorGreen = lipgloss.Color("35")  // green - success
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
)

// summary renders a titled label/value block for command output.
type summary struct {
	title string
	rows  [][2]string
}

func (s *summary) add(label string, format string, args ...any) {
	s.rows = append(s.rows, [2]string{label, fmt.Sprintf(format, args...)})
}

func (s *summary) render() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(s.title))
	b.WriteString("\n")
	width := 0
	for _, row := range s.rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	for _, row := range s.rows {
		b.WriteString("  ")
		b.WriteString(styleLabel.Render(fmt.Sprintf("%-*s", width+2, row[0])))
		b.WriteString(styleValue.Render(row[1]))
		b.WriteString("\n")
	}
	return b.String()
}
