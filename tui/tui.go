package tui

import (
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"task-manager/app"
	"task-manager/export"
	"task-manager/model"
)

type uiMode int

const (
	modeNormal uiMode = iota
	modeAdd
	modeDrag
	modeConfirmDelete
)

// Lines taken by the header, filter bar, border and footer around the task rows.
const chromeLines = 8

type Model struct {
	store      *app.Store
	exportPath string
	now        func() time.Time

	mode   uiMode
	cursor int
	input  textinput.Model

	dragFrom int
	dragTo   int

	confirmID   int64
	confirmText string

	keys     keyMap
	help     help.Model
	showHelp bool

	status    string
	statusErr bool

	width  int
	height int
}

func NewModel(store *app.Store, exportPath, startupStatus string) *Model {
	status := strings.TrimSpace(startupStatus)
	if status == "" {
		status = "Ready"
	}

	input := textinput.New()
	input.Placeholder = "Add a new task..."
	input.CharLimit = 200
	input.Width = 48

	m := &Model{
		store:      store,
		exportPath: exportPath,
		now:        time.Now,
		mode:       modeNormal,
		input:      input,
		keys:       defaultKeyMap(),
		help:       help.New(),
		status:     status,
	}
	m.ensureSelection()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m, m.updateAddMode(msg)
		case modeDrag:
			m.updateDragMode(msg)
		case modeConfirmDelete:
			m.updateConfirmMode(msg)
		default:
			if quit := m.updateNormalMode(msg); quit {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *Model) updateNormalMode(msg tea.KeyMsg) bool {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return true
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel):
			m.showHelp = false
			m.setStatus("Shortcuts hidden", false)
		}
		return false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return true
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Add):
		m.startAdd()
		return false
	case key.Matches(msg, m.keys.Toggle):
		m.toggleSelected()
	case key.Matches(msg, m.keys.Delete):
		m.startDeleteConfirm()
	case key.Matches(msg, m.keys.Priority):
		m.cycleSelectedPriority()
	case key.Matches(msg, m.keys.Filter):
		m.setFilter(m.store.View().Filter.Next())
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(model.FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		m.setFilter(model.FilterActive)
	case key.Matches(msg, m.keys.FilterCompleted):
		m.setFilter(model.FilterCompleted)
	case key.Matches(msg, m.keys.Sort):
		m.setSort(m.store.View().SortBy.Next())
	case key.Matches(msg, m.keys.Grab):
		m.startDrag()
	case key.Matches(msg, m.keys.MoveDown):
		m.quickMove(1)
	case key.Matches(msg, m.keys.MoveUp):
		m.quickMove(-1)
	case key.Matches(msg, m.keys.Export):
		m.exportView()
	case key.Matches(msg, m.keys.Copy):
		m.copyView()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.setStatus("Shortcuts open (press ? or Esc to close)", false)
	}

	m.ensureSelection()
	return false
}

func (m *Model) updateAddMode(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC, key.Matches(msg, m.keys.Cancel):
		m.input.Reset()
		m.input.Blur()
		m.mode = modeNormal
		m.setStatus("Cancelled", false)
		return nil
	case msg.Type == tea.KeyEnter:
		m.submitInput()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) updateDragMode(msg tea.KeyMsg) {
	view := m.store.DeriveView()
	switch {
	case msg.Type == tea.KeyCtrlC, key.Matches(msg, m.keys.Cancel):
		m.dragEnd(m.dragFrom, -1)
	case msg.Type == tea.KeyEnter, key.Matches(msg, m.keys.Grab):
		m.dragEnd(m.dragFrom, m.dragTo)
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.MoveDown):
		m.dragTo = clamp(m.dragTo+1, 0, len(view)-1)
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.MoveUp):
		m.dragTo = clamp(m.dragTo-1, 0, len(view)-1)
	}
}

func (m *Model) updateConfirmMode(msg tea.KeyMsg) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.store.Delete(m.confirmID)
		log.Printf("deleted task %d", m.confirmID)
		m.setStatus("Task deleted", false)
	case "n", "esc", "enter":
		m.setStatus("Action cancelled", false)
	default:
		return
	}
	m.mode = modeNormal
	m.confirmID = 0
	m.confirmText = ""
	m.ensureSelection()
}

func (m *Model) startAdd() {
	m.mode = modeAdd
	m.input.Reset()
	m.input.Focus()
}

func (m *Model) submitInput() {
	task, ok := m.store.Add(m.input.Value())
	if !ok {
		// blank input is ignored; the form stays open
		return
	}
	log.Printf("added task %d", task.ID)
	m.input.Reset()
	m.input.Blur()
	m.mode = modeNormal
	m.selectTask(task.ID)
	if !m.store.View().Filter.Matches(task.Completed) {
		m.setStatus("Task added (hidden by the current filter)", false)
		return
	}
	m.setStatus("Task added", false)
}

func (m *Model) moveCursor(delta int) {
	view := m.store.DeriveView()
	if len(view) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(view)-1)
}

func (m *Model) toggleSelected() {
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("No task selected", false)
		return
	}
	m.store.ToggleCompleted(task.ID)
	if task.Completed {
		m.setStatus("Task reopened", false)
	} else {
		m.setStatus("Task completed", false)
	}
	m.selectTask(task.ID)
}

func (m *Model) startDeleteConfirm() {
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("No task selected", false)
		return
	}
	m.mode = modeConfirmDelete
	m.confirmID = task.ID
	m.confirmText = task.Text
}

func (m *Model) cycleSelectedPriority() {
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("No task selected", false)
		return
	}
	m.store.CyclePriority(task.ID)
	updated, _ := m.store.Task(task.ID)
	m.selectTask(task.ID)
	m.setStatus("Priority: "+priorityLabel(updated.Priority), false)
}

func (m *Model) setFilter(f model.Filter) {
	m.store.SetFilter(f)
	m.cursor = 0
	m.setStatus("Filter: "+filterLabel(f), false)
}

func (m *Model) setSort(s model.SortBy) {
	m.store.SetSort(s)
	m.cursor = 0
	m.setStatus("Sort: "+sortLabel(s), false)
}

func (m *Model) startDrag() {
	if _, ok := m.selectedTask(); !ok {
		m.setStatus("No task selected", false)
		return
	}
	m.mode = modeDrag
	m.dragFrom = m.cursor
	m.dragTo = m.cursor
	m.setStatus("Moving: j/k to choose a spot, Enter to drop, Esc to cancel", false)
}

func (m *Model) quickMove(delta int) {
	if _, ok := m.selectedTask(); !ok {
		m.setStatus("No task selected", false)
		return
	}
	target := m.cursor + delta
	if target < 0 {
		m.setStatus("Task is already at the top", false)
		return
	}
	if target >= len(m.store.DeriveView()) {
		m.setStatus("Task is already at the bottom", false)
		return
	}
	m.dragEnd(m.cursor, target)
}

// dragEnd forwards a finished drag to the store. A negative destination means
// the drag was dropped outside the list.
func (m *Model) dragEnd(source, destination int) {
	m.mode = modeNormal
	view := m.store.DeriveView()
	var movedID int64
	if source >= 0 && source < len(view) {
		movedID = view[source].ID
	}

	committed := m.store.Reorder(source, destination)
	log.Printf("drag end source=%d destination=%d committed=%v", source, destination, committed)

	switch {
	case destination < 0:
		m.setStatus("Move cancelled", false)
	case committed:
		m.setStatus("Order saved", false)
	default:
		m.setStatus("Move discarded: manual order only sticks with filter all and sort by date", false)
	}
	m.selectTask(movedID)
}

func (m *Model) exportView() {
	snap := export.Snapshot{
		View:       m.store.View(),
		Tasks:      m.store.DeriveView(),
		ExportedAt: m.now(),
	}
	if err := export.WriteFile(m.exportPath, snap); err != nil {
		log.Printf("export failed: %v", err)
		m.setStatus("Export failed: "+err.Error(), true)
		return
	}
	m.setStatus(fmt.Sprintf("%d tasks exported to %s", len(snap.Tasks), m.exportPath), false)
}

func (m *Model) copyView() {
	tasks := m.store.DeriveView()
	if len(tasks) == 0 {
		m.setStatus("No tasks to copy", false)
		return
	}
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, export.ChecklistLine(t))
	}
	if err := export.CopyToClipboard(strings.Join(lines, "\n")); err != nil {
		m.setStatus("Copy failed: "+err.Error(), true)
		return
	}
	m.setStatus(fmt.Sprintf("%d tasks copied to the clipboard", len(lines)), false)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) ensureSelection() {
	view := m.store.DeriveView()
	if len(view) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = clamp(m.cursor, 0, len(view)-1)
}

func (m *Model) selectedTask() (model.Task, bool) {
	view := m.store.DeriveView()
	if len(view) == 0 {
		return model.Task{}, false
	}
	if m.cursor < 0 || m.cursor >= len(view) {
		m.cursor = 0
	}
	return view[m.cursor], true
}

// selectTask moves the cursor to the task with id, or clamps it when the task
// is no longer visible.
func (m *Model) selectTask(id int64) {
	for i, t := range m.store.DeriveView() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.ensureSelection()
}

// displayedTasks is the derived view, rearranged to preview an in-progress drag.
func (m *Model) displayedTasks() []model.Task {
	view := m.store.DeriveView()
	if m.mode != modeDrag || m.dragFrom < 0 || m.dragFrom >= len(view) {
		return view
	}
	to := clamp(m.dragTo, 0, len(view)-1)
	moved := view[m.dragFrom]
	preview := append([]model.Task{}, view[:m.dragFrom]...)
	preview = append(preview, view[m.dragFrom+1:]...)
	preview = append(preview[:to], append([]model.Task{moved}, preview[to:]...)...)
	return preview
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	viewW := m.viewportWidth()
	vs := m.store.View()
	all := m.store.Tasks()
	done := 0
	for _, t := range all {
		if t.Completed {
			done++
		}
	}

	title := lipgloss.NewStyle().Bold(true).Render("Task Manager")
	summary := fmt.Sprintf("%d tasks • %d done", len(all), done)
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		title,
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("  "+summary),
	)

	panelH := m.height - chromeLines + 2
	if panelH < 4 {
		panelH = 4
	}
	frameColor := lipgloss.Color("240")
	if m.mode == modeNormal {
		frameColor = lipgloss.Color("39")
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(frameColor).
		Width(viewW - 2).
		Height(panelH - 2).
		Render(m.renderTasks(viewW-2, panelH-2))

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	if m.statusErr {
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}
	rightHint := "? shortcuts"
	if m.showHelp {
		rightHint = "Esc/? close shortcuts"
	}
	footer := m.renderFooter(m.status, statusStyle, rightHint)

	if m.showHelp {
		popupW := viewW - 8
		if popupW > 80 {
			popupW = 80
		}
		if popupW < 40 {
			popupW = viewW
		}
		panel = lipgloss.Place(viewW, panelH, lipgloss.Center, lipgloss.Center, m.renderHelpOverlay(popupW))
	}

	parts := []string{header, renderSelectors(vs), panel, footer}
	if prompt := m.renderPrompt(viewW); prompt != "" && !m.showHelp {
		parts = append(parts, prompt)
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderPrompt(width int) string {
	line := ""
	switch m.mode {
	case modeAdd:
		line = "New task: " + m.input.View()
	case modeConfirmDelete:
		line = fmt.Sprintf("Delete task \"%s\"? [y/N]", m.confirmText)
	case modeDrag:
		line = fmt.Sprintf("Moving row %d → %d (Enter drop • Esc cancel)", m.dragFrom+1, m.dragTo+1)
	default:
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Width(width).Render(line)
}

func renderSelectors(vs model.ViewState) string {
	on := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62")).Padding(0, 1)
	off := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)

	parts := make([]string, 0, 5)
	for _, f := range []model.Filter{model.FilterAll, model.FilterActive, model.FilterCompleted} {
		style := off
		if f == vs.Filter {
			style = on
		}
		parts = append(parts, style.Render(filterLabel(f)))
	}
	sortText := lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Render("  Sort by " + sortLabel(vs.SortBy))
	parts = append(parts, sortText)
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func (m *Model) renderTasks(width, height int) string {
	tasks := m.displayedTasks()
	if len(tasks) == 0 {
		msg := "No tasks yet. Press 'a' to add one."
		if m.store.Len() > 0 {
			msg = "No tasks for the current filter (use 'f')."
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(msg)
	}

	selected := m.cursor
	if m.mode == modeDrag {
		selected = clamp(m.dragTo, 0, len(tasks)-1)
	}

	// each task takes two lines: text, then creation time
	rows := height / 2
	if rows < 1 {
		rows = 1
	}
	start, end := visibleRange(len(tasks), selected, rows)

	now := m.now()
	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		t := tasks[i]
		cursor := " "
		if i == selected {
			cursor = "▸"
			if m.mode == modeDrag {
				cursor = "≡"
			}
		}
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}

		cursorStyle := lipgloss.NewStyle()
		textStyle := lipgloss.NewStyle()
		if t.Completed {
			textStyle = textStyle.Faint(true)
		}
		if i == selected {
			sel := lipgloss.Color("229")
			cursorStyle = cursorStyle.Bold(true).Foreground(sel)
			textStyle = textStyle.Bold(true).Foreground(sel)
		}

		text := truncateRunes(t.Text, width-20)
		line := lipgloss.JoinHorizontal(lipgloss.Left,
			cursorStyle.Render(cursor+" "),
			textStyle.Render(check+" "),
			priorityIndicator(t.Priority)+" ",
			textStyle.Render(text),
		)
		added := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("      Added: " + formatCreatedAt(t.CreatedAt, now))
		lines = append(lines, line, added)
	}
	return strings.Join(lines, "\n")
}

// visibleRange returns the window [start, end) of rows to draw so that
// selected stays on screen.
func visibleRange(total, selected, rows int) (int, int) {
	if total <= rows {
		return 0, total
	}
	start := selected - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > total {
		start = total - rows
	}
	return start, start + rows
}

func formatCreatedAt(created, now time.Time) string {
	return fmt.Sprintf("%s (%s)", created.Local().Format("Jan 2, 2006 15:04"), humanize.RelTime(created, now, "ago", "from now"))
}

func (m *Model) viewportWidth() int {
	if m.width <= 0 {
		return 1
	}
	// keep the last column free; some terminals wrap on it
	if m.width > 1 {
		return m.width - 1
	}
	return m.width
}

func (m *Model) renderFooter(statusText string, statusStyle lipgloss.Style, rightHint string) string {
	left := strings.TrimSpace(statusText)
	right := strings.TrimSpace(rightHint)
	if left == "" {
		left = "Ready"
	}

	leftW := utf8.RuneCountInString(left)
	rightW := utf8.RuneCountInString(right)
	width := m.viewportWidth()

	if leftW+rightW+1 > width {
		maxLeft := width - rightW - 1
		if maxLeft < 8 {
			maxLeft = 8
		}
		left = truncateRunes(left, maxLeft)
		leftW = utf8.RuneCountInString(left)
	}

	padding := width - leftW - rightW
	if padding < 1 {
		padding = 1
	}

	rightStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return statusStyle.Render(left) + strings.Repeat(" ", padding) + rightStyle.Render(right)
}

func (m *Model) renderHelpOverlay(width int) string {
	title := lipgloss.NewStyle().Bold(true).Render("Shortcuts")
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("244")).
		Padding(1, 2)

	m.help.Width = width - 6
	body := m.help.FullHelpView(m.keys.FullHelp())
	return style.Width(width).Render(title + "\n\n" + body)
}

func priorityIndicator(p model.Priority) string {
	label := priorityLabel(p)
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(label)
	case model.PriorityLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Render(label)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Render(label)
	}
}

func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "High"
	case model.PriorityLow:
		return "Low"
	default:
		return "Medium"
	}
}

func filterLabel(f model.Filter) string {
	switch f {
	case model.FilterActive:
		return "Active"
	case model.FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

func sortLabel(s model.SortBy) string {
	switch s {
	case model.SortPriority:
		return "priority"
	case model.SortAlphabetical:
		return "name"
	default:
		return "date"
	}
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
