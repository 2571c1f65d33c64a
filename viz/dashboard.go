// ABOUTME: Terminal report dashboard rendering
// ABOUTME: Stat tiles and the proportional stage breakdown drawn with block bars
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/simplecrm/query"
)

// BarWidth is the number of cells a full stage bar occupies.
const BarWidth = 20

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	tileStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// Bar draws a bar for ratio in [0,1] using width cells.
func Bar(ratio float64, width int) string {
	if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(math.Round(ratio * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RenderDashboard lays out the report figures for a terminal.
func RenderDashboard(stats query.Stats) string {
	var out strings.Builder

	out.WriteString(headerStyle.Render("SIMPLE CRM REPORT"))
	out.WriteString("\n\n")

	tiles := []string{
		tileStyle.Render(fmt.Sprintf("Contacts\n%d", stats.Contacts)),
		tileStyle.Render(fmt.Sprintf("Deals\n%d", stats.Deals)),
		tileStyle.Render(fmt.Sprintf("Pipeline value\n$%s", query.FormatMoney(stats.PipelineValue))),
		tileStyle.Render(fmt.Sprintf("Won value\n$%s", query.FormatMoney(stats.WonValue))),
	}
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	out.WriteString("\n\n")

	out.WriteString(sectionStyle.Render("STAGE BREAKDOWN"))
	out.WriteString("\n")
	for _, s := range stats.Stages {
		out.WriteString(fmt.Sprintf("  %-10s %s %3d %4d%%\n",
			s.Label, barStyle.Render(Bar(s.Ratio, BarWidth)), s.Count, s.Percent))
	}

	return out.String()
}
