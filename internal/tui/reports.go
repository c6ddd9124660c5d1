package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/worklog/internal/store"
	"github.com/sadopc/worklog/internal/task"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

type reportsModel struct {
	tasks  task.Repository
	width  int
	height int

	mode      reportMode
	totals    []task.DailyTotal
	offset    int // weeks or 7-day blocks offset from today (0 = current)
	weekStart time.Weekday

	chart barchart.Model
}

func newReportsModel(tasks task.Repository) reportsModel {
	return reportsModel{
		tasks:     tasks,
		weekStart: time.Monday,
		chart:     barchart.New(60, 12),
	}
}

// applySettings picks up the configured week start.
func (r *reportsModel) applySettings(settings []store.Setting) {
	for _, s := range settings {
		if s.Key != "week_start" {
			continue
		}
		if s.Value == "sunday" {
			r.weekStart = time.Sunday
		} else {
			r.weekStart = time.Monday
		}
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r reportsModel) refresh() tea.Cmd {
	from, to := r.dateRange()
	tasks := r.tasks
	return func() tea.Msg {
		totals, err := tasks.DailyTotals(from, to)
		if err != nil {
			return statusMsg{text: "Report failed: " + err.Error(), isError: true}
		}
		return totalsDataMsg{totals: totals}
	}
}

func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch r.mode {
	case reportWeekly:
		// Days since the configured week start
		diff := (int(today.Weekday()) - int(r.weekStart) + 7) % 7
		startOfWeek := today.AddDate(0, 0, -diff)
		startOfWeek = startOfWeek.AddDate(0, 0, -7*r.offset)
		return startOfWeek, startOfWeek.AddDate(0, 0, 7)
	default:
		// Daily: last 7 days
		end := today.AddDate(0, 0, 1-7*r.offset)
		start := end.AddDate(0, 0, -7)
		return start, end
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case totalsDataMsg:
		r.totals = msg.totals
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Tab):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()

	// One bar per day, stacked by task type.
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("Mon 02")

		var values []barchart.BarValue
		for _, t := range r.totals {
			if t.Date == dateStr {
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(taskTypeColor(t.TaskType)))
				values = append(values, barchart.BarValue{
					Name:  t.TaskType,
					Value: t.Hours,
					Style: style,
				})
			}
		}

		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	// Mode tabs
	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	// Date range label
	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	chartView := r.chart.View()
	tableView := r.renderSummaryTable(w)
	legend := r.renderLegend()

	nav := mutedStyle.Render("  ←/→: navigate  tab: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", legend, "", tableView, "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.totals) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %-20s %10s %8s", "Date", "Task Type", "Hours", "Tasks"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	for _, t := range r.totals {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(taskTypeColor(t.TaskType))).Render("●")
		rows = append(rows, fmt.Sprintf("  %-12s %s %-18s %10s %8d",
			t.Date, colorDot, truncate(t.TaskType, 18), formatHours(t.Hours), t.Count,
		))
	}

	return strings.Join(rows, "\n")
}

func (r reportsModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	for _, t := range r.totals {
		if seen[t.TaskType] {
			continue
		}
		seen[t.TaskType] = true
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(taskTypeColor(t.TaskType))).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, t.TaskType))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
