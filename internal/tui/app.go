package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/sadopc/worklog/internal/export"
	"github.com/sadopc/worklog/internal/field"
	"github.com/sadopc/worklog/internal/store"
	"github.com/sadopc/worklog/internal/task"
)

// App is the root Bubble Tea model.
type App struct {
	fieldStore *field.Store
	taskRepo   task.Repository
	prefs      *store.Store
	log        zerolog.Logger

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	record   recordModel
	tasks    tasksModel
	reports  reportsModel
	fields   fieldsModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(fields *field.Store, tasks task.Repository, prefs *store.Store, log zerolog.Logger) App {
	h := help.New()
	h.ShowAll = false

	return App{
		fieldStore: fields,
		taskRepo:   tasks,
		prefs:      prefs,
		log:        log,
		activeView: viewRecord,
		record:     newRecordModel(fields, tasks),
		tasks:      newTasksModel(fields, tasks),
		reports:    newReportsModel(tasks),
		fields:     newFieldsModel(fields),
		settings:   newSettingsModel(prefs),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.tasks.refresh(),
		a.fields.refresh(),
		a.settings.refresh(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.record.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.fields.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = a.defaultExportCursor()
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewRecord
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTasks
			return a, a.tasks.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewReports
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewFields
			return a, a.fields.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			if a.activeView != viewReports {
				a.activeView = (a.activeView + 1) % 5
				return a, a.refreshCurrentView()
			}
		}

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		if msg.isError {
			a.log.Warn().Str("status", msg.text).Msg("user-facing error")
		}
		return a, nil

	case recordSavedMsg:
		a.status = "Task recorded successfully!"
		a.statusErr = false
		a.log.Info().Str("record", msg.record.ID).Msg("task recorded")
		return a, a.tasks.refresh()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case settingsDataMsg:
		// The reports view follows the configured week start.
		a.reports.applySettings(msg.settings)
		return a.updateActiveView(msg)
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewRecord:
		a.record, cmd = a.record.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewFields:
		a.fields, cmd = a.fields.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewRecord:
		return a.record.formActive
	case viewTasks:
		return a.tasks.formActive
	case viewFields:
		return a.fields.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTasks:
		return a.tasks.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewFields:
		return a.fields.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewRecord:
		content = a.record.view()
	case viewTasks:
		content = a.tasks.view()
	case viewReports:
		content = a.reports.view()
	case viewFields:
		content = a.fields.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("worklog")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = successStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

var exportFormats = []string{"Excel (xlsx)", "CSV", "JSON"}
var exportExts = []string{"xlsx", "csv", "json"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// defaultExportCursor preselects the configured export format.
func (a App) defaultExportCursor() int {
	format, err := a.prefs.GetSetting("export_format")
	if err != nil {
		return 0
	}
	for i, ext := range exportExts {
		if ext == format {
			return i
		}
	}
	return 0
}

func (a App) doExport(format int) tea.Cmd {
	repo := a.taskRepo
	prefs := a.prefs
	log := a.log
	return func() tea.Msg {
		records, err := repo.ListRecords()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		dir, _ := prefs.GetSetting("export_dir")
		if dir == "" {
			dir, _ = os.UserHomeDir()
		}
		dateStr := time.Now().Format("2006-01-02")
		path := filepath.Join(dir, fmt.Sprintf("worklog-export-%s.%s", dateStr, exportExts[format]))

		switch exportExts[format] {
		case "xlsx":
			err = export.ToXLSX(records, path)
		case "csv":
			err = export.ToCSV(records, path)
		default:
			err = export.ToJSON(records, path)
		}
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("export failed")
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		log.Info().Str("path", path).Int("records", len(records)).Msg("exported")
		return exportDoneMsg{path: path}
	}
}
