// Package tui provides the interactive note editor for a quadrant's top
// customers.
package tui

import (
	"fmt"
	"strings"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/reconcile"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SaveFunc persists an edit table and reports the reconciliation.
type SaveFunc func(edits model.Table) (reconcile.Result, error)

type savedMsg struct {
	err    error
	result reconcile.Result
}

// submittedRow is a row of the edit table in flight: the record index and
// the note sent for it.
type submittedRow struct {
	note  string
	index int
}

// NoteEditor is a bubbletea model that edits the Keterangan of a fixed set
// of records.
type NoteEditor struct {
	save      SaveFunc
	err       error
	keys      KeyMap
	title     string
	status    string
	notes     []string
	original  []string
	records   []model.Record
	saved     []reconcile.Result
	submitted []submittedRow
	theme     themes.Theme
	help      help.Model
	input     textinput.Model
	cursor    int
	width     int
	editing   bool
	saving    bool
	quitArmed bool
	quitting  bool
}

// EditorOption configures a NoteEditor.
type EditorOption func(*NoteEditor)

// WithTheme sets the color theme.
func WithTheme(t themes.Theme) EditorOption {
	return func(m *NoteEditor) { m.theme = t }
}

// NewNoteEditor creates an editor over records. save is called with the
// changed rows when the user saves.
func NewNoteEditor(title string, records []model.Record, save SaveFunc, opts ...EditorOption) NoteEditor {
	input := textinput.New()
	input.Placeholder = model.Placeholder
	input.Prompt = "> "
	input.CharLimit = 500

	m := NoteEditor{
		title:    title,
		records:  records,
		notes:    make([]string, len(records)),
		original: make([]string, len(records)),
		save:     save,
		keys:     DefaultKeyMap(),
		theme:    themes.Default,
		help:     help.New(),
		input:    input,
	}
	for i := range records {
		m.notes[i] = records[i].Note
		m.original[i] = records[i].Note
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m NoteEditor) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m NoteEditor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-6, 10)
		return m, nil

	case savedMsg:
		m.saving = false
		submitted := m.submitted
		m.submitted = nil
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.saved = append(m.saved, msg.result)
		m.markSaved(submitted, msg.result)
		m.status = fmt.Sprintf("Saved %d row(s), %d cell(s)", msg.result.Applied, len(msg.result.Updates))
		if n := len(msg.result.Warnings); n > 0 {
			m.status += fmt.Sprintf(", %d warning(s)", n)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m NoteEditor) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		note := strings.TrimSpace(m.input.Value())
		if note == "" {
			note = model.Placeholder
		}
		m.notes[m.cursor] = note
		m.editing = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m NoteEditor) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Quit) {
		m.quitArmed = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.Dirty() && !m.quitArmed {
			m.quitArmed = true
			m.status = "Unsaved notes, press q again to discard them"
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.cursor = max(len(m.records)-1, 0)

	case key.Matches(msg, m.keys.Edit):
		if len(m.records) == 0 || m.saving {
			return m, nil
		}
		m.editing = true
		m.input.SetValue(m.notes[m.cursor])
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Revert):
		if len(m.records) > 0 {
			m.notes[m.cursor] = m.original[m.cursor]
		}

	case key.Matches(msg, m.keys.Save):
		if m.saving {
			return m, nil
		}
		if !m.Dirty() {
			m.status = "Nothing to save"
			return m, nil
		}
		m.saving = true
		m.status = "Saving..."
		m.submitted = m.changedRows()
		return m, m.saveCmd(m.editTable(m.submitted))

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m NoteEditor) saveCmd(edits model.Table) tea.Cmd {
	save := m.save
	return func() tea.Msg {
		if save == nil {
			return savedMsg{err: fmt.Errorf("no save handler configured")}
		}
		res, err := save(edits)
		return savedMsg{result: res, err: err}
	}
}

// markSaved records the submitted notes as saved, except rows the save
// warned about, which stay dirty. Warning rows index the edit table.
func (m *NoteEditor) markSaved(submitted []submittedRow, result reconcile.Result) {
	skipped := make(map[int]bool)
	for _, w := range result.Warnings {
		if w.Row >= 0 {
			skipped[w.Row] = true
		}
	}
	for i, row := range submitted {
		if !skipped[i] {
			m.original[row.index] = row.note
		}
	}
}

// Dirty reports whether any note differs from its last saved value.
func (m NoteEditor) Dirty() bool {
	for i := range m.notes {
		if m.notes[i] != m.original[i] {
			return true
		}
	}
	return false
}

// Saved returns the result of every successful save, in order.
func (m NoteEditor) Saved() []reconcile.Result {
	return m.saved
}

// Err returns the error of the last failed save.
func (m NoteEditor) Err() error {
	return m.err
}

// EditTable returns the changed rows as an edit table of the key columns
// plus Keterangan.
func (m NoteEditor) EditTable() model.Table {
	return m.editTable(m.changedRows())
}

func (m NoteEditor) changedRows() []submittedRow {
	var rows []submittedRow
	for i := range m.records {
		if m.notes[i] != m.original[i] {
			rows = append(rows, submittedRow{index: i, note: m.notes[i]})
		}
	}
	return rows
}

func (m NoteEditor) editTable(rows []submittedRow) model.Table {
	columns := append(append([]string(nil), model.KeyColumns...), model.ColNote)
	t := model.Table{Columns: columns}
	for _, row := range rows {
		r := &m.records[row.index]
		t.Rows = append(t.Rows, []string{r.CustomerID, r.Segment, r.Period, row.note})
	}
	return t
}

// View implements tea.Model.
func (m NoteEditor) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.title))
	b.WriteString("\n")

	if len(m.records) == 0 {
		b.WriteString(m.theme.Faint.Render("No records in this view."))
		b.WriteString("\n")
	}
	for i := range m.records {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	if m.editing {
		r := &m.records[m.cursor]
		b.WriteString("\n")
		b.WriteString(m.theme.BorderedBox.Render(
			m.theme.Subtitle.Render("Keterangan for "+r.CustomerName) + "\n" + m.input.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(m.theme.StatusError.Render("Save failed: " + m.err.Error()))
	case m.quitArmed:
		b.WriteString(m.theme.StatusWarning.Render(m.status))
	case m.saving:
		b.WriteString(m.theme.StatusInfo.Render(m.status))
	case m.status != "":
		b.WriteString(m.theme.StatusSuccess.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m NoteEditor) renderRow(i int) string {
	r := &m.records[i]
	marker := " "
	if m.notes[i] != m.original[i] {
		marker = "*"
	}
	line := fmt.Sprintf("%s %-12s %-28s %18s  %s",
		marker,
		truncate(r.CustomerID, 12),
		truncate(r.CustomerName, 28),
		normalize.FormatCurrency(r.EndingBalance),
		m.notes[i])

	style := m.theme.Normal
	switch {
	case i == m.cursor:
		style = m.theme.Selected
	case marker == "*":
		style = m.theme.Changed
	}
	if m.width > 0 {
		style = style.MaxWidth(m.width)
	}
	return style.Render(line)
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
