// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package tui is the flowdesk console: a tabbed list of records with a
// split detail panel holding the entity form. Backend work runs in tea.Cmds
// and every result is checked against the navigator's epoch before it is
// applied.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/confighub/flowdesk/internal/clierr"
	"github.com/confighub/flowdesk/internal/formsvc"
	"github.com/confighub/flowdesk/internal/logging"
	"github.com/confighub/flowdesk/internal/navsvc"
	"github.com/confighub/flowdesk/internal/selectsvc"
	"github.com/confighub/flowdesk/internal/session"
	"github.com/confighub/flowdesk/pkg/backend"
)

const (
	toastDuration = 4 * time.Second
	splitStep     = 0.05
	// header, sub-tabs, status and help lines plus the pane border
	chromeHeight = 6
)

type pane int

const (
	paneList pane = iota
	panePanel
)

// Options configures a Console.
type Options struct {
	Service  backend.Service
	Registry *formsvc.Registry
	Tabs     []navsvc.Tab
	Session  session.Session
	Logger   *logging.Logger
	// SnapshotPath is where the tab position is saved on quit; empty
	// disables saving.
	SnapshotPath string
	// Restore is applied when it is recent enough.
	Restore *session.Snapshot
}

// Console is the root bubbletea model.
type Console struct {
	svc          backend.Service
	registry     *formsvc.Registry
	sess         session.Session
	nav          *navsvc.Navigator
	log          *logging.Logger
	snapshotPath string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	grid    Grid
	form    *Form
	dialog  *dialog
	focus   pane

	width    int
	height   int
	ready    bool
	loading  bool
	saving   bool
	showHelp bool
	listErr  error

	toast    string
	toastErr bool
	toastSeq int

	// pendingSelect is the row id to put the cursor on after the next load.
	pendingSelect string
}

// New builds a console positioned on the first tab, or on the restored
// position.
func New(opts Options) Console {
	if opts.Registry == nil {
		opts.Registry = formsvc.DefaultRegistry()
	}
	if opts.Tabs == nil {
		opts.Tabs = navsvc.DefaultTabs
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	nav := navsvc.New(opts.Tabs)
	if snap := opts.Restore; snap.Restorable(time.Now()) {
		nav.Restore(snap.MainTab, snap.SubTab)
		if snap.Split > 0 {
			nav.SetSplit(snap.Split)
		}
	}

	m := Console{
		svc:          opts.Service,
		registry:     opts.Registry,
		sess:         opts.Session,
		nav:          nav,
		log:          opts.Logger,
		snapshotPath: opts.SnapshotPath,
		keys:         defaultKeyMap(),
		help:         help.New(),
		spinner:      s,
		dialog:       newDialog(),
		loading:      true,
	}
	m.grid = NewGrid(m.columns())
	return m
}

// Run starts the console full screen and blocks until it quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Navigator exposes the navigation state.
func (m Console) Navigator() *navsvc.Navigator { return m.nav }

// Form returns the open form, or nil.
func (m Console) Form() *Form { return m.form }

func (m Console) entity() formsvc.Entity {
	e, _ := m.registry.Get(m.nav.Active().Entity)
	return e
}

func (m Console) columns() []selectsvc.Column {
	if e := m.entity(); e != nil {
		return e.Columns()
	}
	return nil
}

func (m Console) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadList(),
	)
}

func (m Console) loadList() tea.Cmd {
	ctx, epoch := m.nav.Context()
	entity, svc := m.entity(), m.svc
	name := m.nav.Active().Entity
	return func() tea.Msg {
		if entity == nil {
			return listLoadedMsg{epoch: epoch, entity: name, err: fmt.Errorf("no form registered for %q", name)}
		}
		rows, err := entity.List(ctx, svc)
		return listLoadedMsg{epoch: epoch, entity: name, rows: rows, err: err}
	}
}

func (m Console) loadOptions(entity formsvc.Entity) tea.Cmd {
	ctx, epoch := m.nav.PanelContext()
	svc, schema, log := m.svc, entity.Schema(), m.log
	return func() tea.Msg {
		return optionsLoadedMsg{epoch: epoch, opts: formsvc.LoadOptions(ctx, svc, schema, log)}
	}
}

// writeContext bounds a save or delete. Writes outlive navigation: only
// their results are checked against the epoch.
func writeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), backend.DefaultTimeout)
}

func (m Console) deleteRow(entity formsvc.Entity, row selectsvc.Row) tea.Cmd {
	epoch := m.nav.Epoch()
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		err := entity.Delete(ctx, svc, row.RowID())
		return deletedMsg{epoch: epoch, label: row.RowLabel(), id: row.RowID(), err: err}
	}
}

func (m Console) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listLoadedMsg:
		if !m.nav.Current(msg.epoch) {
			m.log.Printf("drop stale %s list (epoch %d)", msg.entity, msg.epoch)
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.listErr = msg.err
			m.log.Errorf("list %s: %v", msg.entity, msg.err)
			m.grid.SetRows(nil)
			m.nav.Select(nil)
			return m.showToast(clierr.Short(msg.err), true)
		}
		m.listErr = nil
		m.grid.SetRows(msg.rows)
		if m.pendingSelect != "" {
			m.grid.SelectID(m.pendingSelect)
			m.pendingSelect = ""
		}
		if m.nav.Panel() == navsvc.PanelClosed {
			m.nav.Select(m.grid.Selected())
		}
		m.log.Printf("loaded %d %s", len(msg.rows), msg.entity)
		return m, nil

	case optionsLoadedMsg:
		if m.form == nil || !m.nav.PanelCurrent(msg.epoch) {
			m.log.Printf("drop stale form options (epoch %d)", msg.epoch)
			return m, nil
		}
		m.form.SetOptions(msg.opts)
		return m, nil

	case savedMsg:
		m.saving = false
		if !m.nav.PanelCurrent(msg.epoch) {
			m.log.Printf("drop stale save result (epoch %d)", msg.epoch)
			return m, nil
		}
		return m.saved(msg)

	case deletedMsg:
		return m.deleted(msg)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m, m.form.Update(msg)
	}
	return m, nil
}

func (m Console) saved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Errorf("save %s: %v", m.nav.Active().Entity, msg.err)
		var verr *formsvc.ValidationError
		if errors.As(msg.err, &verr) && m.form != nil {
			m.form.SetErrors(verr.Errs)
			m.dialog.alert("Cannot save "+verr.Entity, clierr.Pretty(msg.err))
			return m, nil
		}
		return m.showToast(clierr.Short(msg.err), true)
	}

	m.log.Printf("saved %s %s (%s)", m.nav.Active().Entity, msg.row.RowID(), msg.mode)
	m.pendingSelect = msg.row.RowID()
	m.closePanel()
	m.nav.Refresh()
	m.loading = true

	var cmd tea.Cmd
	m, cmd = m.showToast("Saved "+msg.row.RowLabel(), false)
	return m, tea.Batch(cmd, m.loadList())
}

func (m Console) deleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Errorf("delete %s: %v", msg.id, msg.err)
		return m.showToast(clierr.Short(msg.err), true)
	}
	m.log.Printf("deleted %s", msg.id)

	var cmd tea.Cmd
	m, cmd = m.showToast("Deleted "+msg.label, false)
	if !m.nav.Current(msg.epoch) {
		return m, cmd
	}
	if sel := m.nav.Selected(); sel != nil && sel.RowID() == msg.id {
		m.closePanel()
	}
	m.nav.Refresh()
	m.loading = true
	return m, tea.Batch(cmd, m.loadList())
}

func (m Console) showToast(text string, isErr bool) (Console, tea.Cmd) {
	m.toastSeq++
	m.toast = text
	m.toastErr = isErr
	seq := m.toastSeq
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m Console) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.dialog.modal.IsOpen() {
		return m.handleDialogKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.focus == panePanel && m.form != nil {
		return m.handlePanelKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Console) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.dialog
	if d.kind != dialogConfirmDelete {
		d.modal.Close()
		return m, nil
	}
	switch msg.String() {
	case "y", "Y":
		entity, row := d.entity, d.row
		d.modal.Close()
		m.log.Printf("delete %s %s", entity.Key(), row.RowID())
		return m, m.deleteRow(entity, row)
	case "n", "N", "esc":
		d.modal.Close()
	}
	return m, nil
}

func (m Console) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.PickerView() != nil {
		return m, m.form.Update(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.Close):
		m.closePanel()
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		m.focus = paneList
		m.grid.Focus()
		return m, nil
	}
	return m, m.form.Update(msg)
}

func (m Console) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.nav.NextMainTab()
		return m.navigated()
	case key.Matches(msg, m.keys.PrevTab):
		m.nav.PrevMainTab()
		return m.navigated()
	case key.Matches(msg, m.keys.NextSub):
		m.nav.NextSubTab()
		return m.navigated()
	case key.Matches(msg, m.keys.PrevSub):
		m.nav.PrevSubTab()
		return m.navigated()

	case key.Matches(msg, m.keys.Grow):
		m.nav.Resize(splitStep)
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.Shrink):
		m.nav.Resize(-splitStep)
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if sel := m.grid.Selected(); sel != nil {
			m.pendingSelect = sel.RowID()
		}
		m.nav.Refresh()
		m.loading = true
		return m, m.loadList()

	case key.Matches(msg, m.keys.Add):
		m.nav.OpenCreate()
		return m.openPanel()
	case key.Matches(msg, m.keys.Open):
		row := m.grid.Selected()
		if row == nil {
			return m, nil
		}
		m.nav.OpenEdit(row)
		return m.openPanel()
	case key.Matches(msg, m.keys.Duplicate):
		row := m.grid.Selected()
		if row == nil {
			return m, nil
		}
		m.nav.OpenDuplicate(row)
		return m.openPanel()

	case key.Matches(msg, m.keys.Delete):
		row, entity := m.grid.Selected(), m.entity()
		if row != nil && entity != nil {
			m.dialog.confirmDelete(entity, row)
		}
		return m, nil

	case key.Matches(msg, m.keys.Close):
		m.closePanel()
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		if m.form != nil {
			m.focus = panePanel
			m.grid.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	if m.nav.Panel() == navsvc.PanelClosed {
		m.nav.Select(m.grid.Selected())
	}
	return m, cmd
}

// navigated rebuilds the list after a tab or sub-tab change. The navigator
// has already closed the panel and cleared the selection.
func (m Console) navigated() (tea.Model, tea.Cmd) {
	m.form = nil
	m.focus = paneList
	m.listErr = nil
	m.loading = true
	m.pendingSelect = ""
	m.grid = NewGrid(m.columns())
	m.layout()
	m.log.Printf("view %s", m.nav.Active().Entity)
	return m, m.loadList()
}

func (m Console) openPanel() (tea.Model, tea.Cmd) {
	entity := m.entity()
	if entity == nil {
		return m, nil
	}
	draft := entity.NewDraft(m.nav.PanelRow(), modeFor(m.nav.Panel()))
	m.form = NewForm(entity, draft)
	m.focus = panePanel
	m.grid.Blur()
	m.layout()
	m.log.Printf("open %s panel for %s", m.nav.Panel(), entity.Key())
	return m, m.loadOptions(entity)
}

func (m *Console) closePanel() {
	m.nav.ClosePanel()
	m.form = nil
	m.focus = paneList
	m.grid.Focus()
	m.layout()
}

func (m Console) save() (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	m.saving = true
	entity, draft, opts := m.form.Entity(), m.form.Draft().Clone(), m.form.Options()
	epoch := m.nav.PanelEpoch()
	svc, sess := m.svc, m.sess
	return m, func() tea.Msg {
		ctx, cancel := writeContext()
		defer cancel()
		row, err := entity.Save(ctx, svc, sess, draft, opts)
		return savedMsg{epoch: epoch, mode: draft.Mode, row: row, err: err}
	}
}

func (m Console) quit() (tea.Model, tea.Cmd) {
	if m.snapshotPath != "" {
		snap := &session.Snapshot{
			UserID:  m.sess.UserID,
			MainTab: m.nav.MainTab(),
			SubTab:  m.nav.SubTab(),
			Split:   m.nav.Split(),
		}
		if err := session.Save(m.snapshotPath, snap); err != nil {
			m.log.Errorf("save session: %v", err)
		}
	}
	m.nav.Stop()
	return m, tea.Quit
}

func modeFor(p navsvc.PanelMode) formsvc.Mode {
	switch p {
	case navsvc.PanelEdit:
		return formsvc.ModeEdit
	case navsvc.PanelDuplicate:
		return formsvc.ModeDuplicate
	default:
		return formsvc.ModeCreate
	}
}

func (m Console) panelOpen() bool {
	return m.form != nil && m.nav.Panel() != navsvc.PanelClosed
}

// paneWidths returns the outer widths of the list and detail panes.
func (m Console) paneWidths() (int, int) {
	if !m.panelOpen() {
		return m.width, 0
	}
	left := int(float64(m.width) * m.nav.Split())
	return left, m.width - left - 1
}

func (m Console) contentHeight() int {
	return max(m.height-chromeHeight, 5)
}

func (m *Console) layout() {
	if !m.ready {
		return
	}
	left, right := m.paneWidths()
	// border and padding take two columns each side
	m.grid.SetSize(left-4, m.contentHeight()-1)
	if m.form != nil {
		m.form.SetWidth(right - 4)
	}
}

func (m Console) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.dialog.modal.IsOpen() {
		return renderModal(m.dialog.View(), m.width, m.height)
	}
	if m.form != nil {
		if pv := m.form.PickerView(); pv != nil {
			return renderModal(pv.View(), m.width, m.height)
		}
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderSubTabs())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Console) renderTabs() string {
	parts := []string{headerStyle.Render("flowdesk") + " "}
	for i, t := range m.nav.Tabs() {
		if i == m.nav.MainTab() {
			parts = append(parts, tabActiveStyle.Render(t.Title))
		} else {
			parts = append(parts, tabStyle.Render(t.Title))
		}
	}
	user := "anonymous"
	if !m.sess.Anonymous() {
		user = m.sess.UserID
	}
	parts = append(parts, dimStyle.Render("  user: ")+nameStyle.Render(user))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Console) renderSubTabs() string {
	tab := m.nav.Tabs()[m.nav.MainTab()]
	parts := []string{dimStyle.Render("  ")}
	for i, st := range tab.SubTabs {
		if i == m.nav.SubTab() {
			parts = append(parts, tabActiveStyle.Render(st.Title))
		} else {
			parts = append(parts, tabStyle.Render(st.Title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Console) renderBody() string {
	height := m.contentHeight()

	title := sectionStyle.Render(m.nav.Active().Title)
	if m.loading {
		title += " " + m.spinner.View()
	}
	if m.listErr != nil {
		title += " " + errStyle.Render("(load failed)")
	}
	list := title + "\n" + m.grid.View()

	left, right := m.paneWidths()
	if !m.panelOpen() {
		return paneActiveStyle.Width(left - 2).Height(height).MaxHeight(height + 2).Render(list)
	}

	leftStyle, rightStyle := paneStyle, paneActiveStyle
	if m.focus == paneList {
		leftStyle, rightStyle = paneActiveStyle, paneStyle
	}
	leftPane := leftStyle.Width(left - 2).Height(height).MaxHeight(height + 2).Render(list)
	rightPane := rightStyle.Width(right - 2).Height(height).MaxHeight(height + 2).Render(m.form.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, " ", rightPane)
}

func (m Console) renderStatus() string {
	if m.toast != "" {
		if m.toastErr {
			return errStyle.Render("✗ " + m.toast)
		}
		return okStyle.Render("✓ " + m.toast)
	}
	status := fmt.Sprintf("%d records", len(m.grid.Rows()))
	if m.panelOpen() {
		status += fmt.Sprintf(" · %s · split %d%%", m.nav.Panel(), int(m.nav.Split()*100+0.5))
	}
	if m.saving {
		status += " · saving..."
	}
	return statusBarStyle.Render(status)
}

func (m Console) renderHelp() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("FLOWDESK CONSOLE HELP"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("NAVIGATION"))
	b.WriteString("\n")
	b.WriteString("  " + nameStyle.Render("[ / ]") + "          Previous/next tab\n")
	b.WriteString("  " + nameStyle.Render("tab / shift+tab") + "  Next/previous view\n")
	b.WriteString("  " + nameStyle.Render("↑/k ↓/j") + "        Move up/down\n")
	b.WriteString("  " + nameStyle.Render("< / >") + "          Narrow/widen the list\n")
	b.WriteString("  " + nameStyle.Render("ctrl+o") + "         Switch between list and panel\n")
	b.WriteString("  " + nameStyle.Render("r") + "              Refresh\n")
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("RECORDS"))
	b.WriteString("\n")
	b.WriteString("  " + nameStyle.Render("enter/e") + "  Edit selected\n")
	b.WriteString("  " + nameStyle.Render("a") + "        Add new\n")
	b.WriteString("  " + nameStyle.Render("c") + "        Copy selected\n")
	b.WriteString("  " + nameStyle.Render("d") + "        Delete selected\n")
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("FORM"))
	b.WriteString("\n")
	b.WriteString("  " + nameStyle.Render("tab") + "      Next field\n")
	b.WriteString("  " + nameStyle.Render("enter") + "    Choose or add from a list\n")
	b.WriteString("  " + nameStyle.Render("x") + "        Remove item / clear choice\n")
	b.WriteString("  " + nameStyle.Render("g") + "        Apply to all (where offered)\n")
	b.WriteString("  " + nameStyle.Render("ctrl+s") + "   Save\n")
	b.WriteString("  " + nameStyle.Render("esc") + "      Close panel\n")
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("PICKER"))
	b.WriteString("\n")
	b.WriteString("  " + nameStyle.Render("space") + "  Mark row\n")
	b.WriteString("  " + nameStyle.Render("enter") + "  Choose row\n")
	b.WriteString("  " + nameStyle.Render("s") + "      Select marked row\n")
	b.WriteString("  " + nameStyle.Render("/") + "      Filter\n")
	b.WriteString("  " + nameStyle.Render("esc") + "    Cancel\n")
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("QUIT"))
	b.WriteString("\n")
	b.WriteString("  " + nameStyle.Render("q") + "  Quit\n")
	b.WriteString("  " + nameStyle.Render("?") + "  Show this help\n")
	b.WriteString("\n")

	b.WriteString(dimStyle.Render("Press any key to close"))
	return b.String()
}
