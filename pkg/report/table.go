package report

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ishanwen-byte/evoenv-go/internal/types"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16858E"))
)

// TableHeaders are the column names of the comparison table
var TableHeaders = []string{"Environment", "Max Fitness", "Evolution Time (s)"}

// RenderTable renders (name, fitness, duration) rows as a bordered table
func RenderTable(title string, results []types.RunResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(TableHeaders...)

	for _, result := range results {
		t.Row(
			result.Name,
			strconv.FormatFloat(result.Fitness, 'g', -1, 64),
			fmt.Sprintf("%.4f", result.Duration.Seconds()),
		)
	}

	if title == "" {
		return t.String()
	}
	return titleStyle.Render(title) + "\n" + t.String()
}
