package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fchimpan/leetboard/internal/dashboard"
	"github.com/fchimpan/leetboard/internal/heatmap"
	"github.com/fchimpan/leetboard/internal/stats"
)

// ===== Render helpers (cached styles) =====

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d0d7de"))
	styleLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
	styleValue  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d0d7de"))
	styleWinner = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd33d"))
	styleOk     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7ee787"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
	styleTab    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#8b949e"))
	styleTabOn  = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("#0d1117")).Background(lipgloss.Color("#7ee787"))

	styleEasy   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00b8a3"))
	styleMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffc01e"))
	styleHard   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff375f"))

	// GitHub-like greens (light -> dark), level 0 is the empty tile:
	// 0: #ebedf0, 1: #9be9a8, 2: #40c463, 3: #30a14e, 4: #216e39
	levelSpan2 = [heatmap.MaxLevel + 1]string{
		lipgloss.NewStyle().Background(lipgloss.Color("#ebedf0")).Render("  "),
		lipgloss.NewStyle().Background(lipgloss.Color("#9be9a8")).Render("  "),
		lipgloss.NewStyle().Background(lipgloss.Color("#40c463")).Render("  "),
		lipgloss.NewStyle().Background(lipgloss.Color("#30a14e")).Render("  "),
		lipgloss.NewStyle().Background(lipgloss.Color("#216e39")).Render("  "),
	}

	printer = message.NewPrinter(language.English)
)

const (
	cellW  = 2
	gutter = 4
)

func levelSpan(level int) string {
	if level < 0 {
		level = 0
	}
	if level > heatmap.MaxLevel {
		level = heatmap.MaxLevel
	}
	return levelSpan2[level]
}

func weekdayLabel(row int) string {
	switch row {
	case 1:
		return "Mon"
	case 3:
		return "Wed"
	case 5:
		return "Fri"
	default:
		return ""
	}
}

// RenderHeatmap draws the grid as 7 weekday rows under a month header.
// maxWidth > 0 keeps only the most recent weeks that fit.
func RenderHeatmap(g heatmap.Grid, maxWidth int) string {
	weeks := g.Weeks
	offset := 0
	if maxWidth > 0 {
		fit := max((maxWidth-gutter)/cellW, 1)
		if len(weeks) > fit {
			offset = len(weeks) - fit
			weeks = weeks[offset:]
		}
	}

	var b strings.Builder

	// Month header; a label that would overlap its left neighbour is dropped.
	// A month whose start was trimmed is shown at the first visible column
	// unless the next label needs that room.
	type placed struct {
		pos  int
		name string
	}
	var labels []placed
	clipped := ""
	for _, m := range g.Months {
		if m.Week < offset {
			clipped = m.Name
			continue
		}
		labels = append(labels, placed{pos: gutter + (m.Week-offset)*cellW, name: m.Name})
	}
	if clipped != "" && (len(labels) == 0 || labels[0].pos > gutter+len(clipped)) {
		labels = append([]placed{{pos: gutter, name: clipped}}, labels...)
	}

	header := []byte(strings.Repeat(" ", gutter+len(weeks)*cellW+3))
	cursor := 0
	for _, l := range labels {
		if l.pos < cursor {
			continue
		}
		copy(header[l.pos:], l.name)
		cursor = l.pos + len(l.name) + 1
	}
	b.WriteString(styleLabel.Render(strings.TrimRight(string(header), " ")))
	b.WriteByte('\n')

	for row := range 7 {
		b.WriteString(styleLabel.Render(fmt.Sprintf("%-*s", gutter, weekdayLabel(row))))
		for _, w := range weeks {
			if row >= len(w) {
				break
			}
			switch c := w[row].(type) {
			case heatmap.Day:
				b.WriteString(levelSpan(c.Level))
			case heatmap.Empty:
				b.WriteString(strings.Repeat(" ", cellW))
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString(RenderLegend(g.Policy))
	b.WriteByte('\n')
	b.WriteString(styleLabel.Render(printer.Sprintf("%d submissions in the last year, %d active days, busiest day %d",
		g.Total, g.ActiveDays, g.MaxCount)))
	return b.String()
}

// RenderLegend prints the level swatches together with the policy that produced them.
func RenderLegend(policy string) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutter))
	b.WriteString(styleLabel.Render("Less "))
	for lvl := 0; lvl <= heatmap.MaxLevel; lvl++ {
		b.WriteString(levelSpan(lvl))
		b.WriteByte(' ')
	}
	b.WriteString(styleLabel.Render("More"))
	if policy != "" {
		b.WriteString(styleDim.Render("  (" + policy + ")"))
	}
	return b.String()
}

func cell(s string, width int, st lipgloss.Style) string {
	return st.Width(width).Render(s)
}

// RenderComparison draws one row per user; the best value of each column is highlighted.
func RenderComparison(users []stats.User, winners map[dashboard.Metric]string) string {
	const nameW, numW = 18, 8
	var b strings.Builder

	header := []string{
		cell("User", nameW, styleLabel),
		cell("Total", numW, styleLabel),
		cell("Easy", numW, styleLabel),
		cell("Medium", numW, styleLabel),
		cell("Hard", numW, styleLabel),
		cell("Streak", numW+2, styleLabel),
		cell("Ranking", numW+4, styleLabel),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteByte('\n')

	for _, u := range users {
		row := []string{cell(u.Username, nameW, styleValue)}
		for _, m := range dashboard.Metrics {
			st := metricStyle(m)
			if winners[m] == u.Username {
				st = styleWinner
			}
			row = append(row, cell(fmt.Sprintf("%d", m.Value(u.Solved)), numW, st))
		}
		row = append(row,
			cell(fmt.Sprintf("%d days", u.Activity.Streak), numW+2, styleValue),
			cell(formatRanking(u.Profile.Ranking), numW+4, styleValue),
		)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func metricStyle(m dashboard.Metric) lipgloss.Style {
	switch m {
	case dashboard.MetricEasy:
		return styleEasy
	case dashboard.MetricMedium:
		return styleMedium
	case dashboard.MetricHard:
		return styleHard
	default:
		return styleValue
	}
}

func formatRanking(r int) string {
	if r <= 0 {
		return "-"
	}
	return printer.Sprintf("#%d", r)
}

// RenderLeaderboard lists standings, highest total first.
func RenderLeaderboard(standings []dashboard.Standing) string {
	var b strings.Builder
	for i, s := range standings {
		if i > 0 {
			b.WriteByte('\n')
		}
		rank := styleLabel.Render(fmt.Sprintf("%2d.", s.Rank))
		if s.Rank == 1 {
			rank = styleWinner.Render(fmt.Sprintf("%2d.", s.Rank))
		}
		b.WriteString(rank + " " +
			cell(s.Username, 18, styleValue) +
			styleOk.Render(fmt.Sprintf("%5d", s.Total)) + styleLabel.Render(" solved  ") +
			styleEasy.Render(fmt.Sprintf("E %d", s.Easy)) + styleDim.Render(" / ") +
			styleMedium.Render(fmt.Sprintf("M %d", s.Medium)) + styleDim.Render(" / ") +
			styleHard.Render(fmt.Sprintf("H %d", s.Hard)))
	}
	return b.String()
}

// RenderProgress draws a solved/available bar per difficulty.
func RenderProgress(rows []dashboard.DifficultyProgress) string {
	const barW = 24
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		fill := 0
		if r.Total > 0 {
			fill = min(max(int(float64(barW)*float64(r.Solved)/float64(r.Total)), 0), barW)
		}
		st := metricStyle(dashboard.Metric(strings.ToLower(r.Difficulty)))
		bar := styleLabel.Render("[") +
			st.Render(strings.Repeat("█", fill)) +
			styleDim.Render(strings.Repeat("░", barW-fill)) +
			styleLabel.Render("]")
		b.WriteString(cell(r.Difficulty, 8, st) + bar +
			styleValue.Render(fmt.Sprintf(" %d/%d", r.Solved, r.Total)) +
			styleDim.Render(fmt.Sprintf(" (%.1f%%)", r.Percent)))
	}
	return b.String()
}

func renderTabs(users []stats.User, selected int) string {
	tabs := make([]string, 0, len(users))
	for i, u := range users {
		if i == selected {
			tabs = append(tabs, styleTabOn.Render(u.Username))
			continue
		}
		tabs = append(tabs, styleTab.Render(u.Username))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
