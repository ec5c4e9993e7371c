package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/enow/internal/adapters/render"
	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/national"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1F77B4"))
	labelStyle = lipgloss.NewStyle().Width(28)
	valueStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// barWidth is the widest terminal waffle bar in cells.
const barWidth = 40

func title(s string) string {
	return titleStyle.Render(s)
}

// pair renders one aligned label and value line.
func pair(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// pictogramBlock renders one pictogram: title, caption, then one colored icon
// run per impact type.
func pictogramBlock(p national.Pictogram) string {
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color))
	var sb strings.Builder
	sb.WriteString(title(p.Title))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(p.Caption))
	sb.WriteString("\n")
	for _, row := range p.Rows {
		fmt.Fprintf(&sb, "%s %s (%d)\n",
			lipgloss.NewStyle().Width(9).Render(string(row.ImpactType)),
			icon.Render(row.Icons),
			row.Count,
		)
	}
	return sb.String()
}

// bucketBar renders a bucket as a bar whose length is its share of the grid.
func bucketBar(b breakdown.Bucket, total int) string {
	filled := 0
	if total > 0 {
		filled = b.Squares * barWidth / total
	}
	if b.Squares > 0 && filled == 0 {
		filled = 1
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(render.BucketColor(b))).Render(strings.Repeat("█", filled))
	return fmt.Sprintf("%s %s%s %d",
		lipgloss.NewStyle().Width(28).Render(b.Label),
		bar,
		mutedStyle.Render(strings.Repeat("░", barWidth-filled)),
		b.Squares,
	)
}
