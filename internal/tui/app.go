// Package tui is the full-screen terminal front end of prepkit.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/prepkit/internal/model"
	"github.com/amishk599/prepkit/internal/prep"
	"github.com/amishk599/prepkit/internal/session"
)

type field int

const (
	fieldNone field = iota
	fieldRole
	fieldIndustry
	fieldDifficulty
	fieldAnswer
	fieldResumePath
	fieldJobDescription
	fieldCompany
	fieldJobRole
)

// doneMsg is sent when a backend action completes.
type doneMsg struct {
	action prep.Action
	err    error
}

var busyLabels = []struct {
	action prep.Action
	label  string
}{
	{prep.ActionStart, "Generating your first question..."},
	{prep.ActionSubmit, "Evaluating your answer..."},
	{prep.ActionEnd, "Summarizing your interview..."},
	{prep.ActionOptimize, "Optimizing your resume..."},
	{prep.ActionResearch, "Researching..."},
}

type appModel struct {
	ctx     context.Context
	ctrl    *prep.Controller
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	role       textinput.Model
	industry   textinput.Model
	difficulty textinput.Model
	answer     textarea.Model
	resumePath textinput.Model
	jobDesc    textarea.Model
	company    textinput.Model
	jobRole    textinput.Model
	focus      field

	feedbackVP viewport.Model
	resumeVP   viewport.Model
	researchVP viewport.Model
	summaryVP  viewport.Model

	snap      prep.Snapshot
	err       error
	notice    string
	savedPath string
	width     int
	height    int
	ready     bool
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Prompt = ""
	return ti
}

func newArea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	return ta
}

func newAppModel(ctx context.Context, ctrl *prep.Controller) appModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	m := appModel{
		ctx:        ctx,
		ctrl:       ctrl,
		keys:       newKeyMap(),
		help:       help.New(),
		spinner:    sp,
		role:       newInput("e.g. Backend Engineer"),
		industry:   newInput("e.g. Fintech"),
		difficulty: newInput("Junior, Mid or Senior"),
		answer:     newArea("Type your answer here..."),
		resumePath: newInput("/path/to/resume.pdf"),
		jobDesc:    newArea("Paste the job description..."),
		company:    newInput("e.g. Acme Corp"),
		jobRole:    newInput("e.g. Site Reliability Engineer"),
	}
	m.setFocus(fieldRole)
	m.snap = ctrl.Snapshot()
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		// pick up busy flags set by running commands
		m.snap = m.ctrl.Snapshot()
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case doneMsg:
		return m.handleDone(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m appModel) handleDone(msg doneMsg) (tea.Model, tea.Cmd) {
	m.refresh()
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	switch msg.action {
	case prep.ActionStart:
		m.notice = ""
		if m.snap.TextOnly {
			cmd = m.setFocus(fieldAnswer)
		} else {
			m.setFocus(fieldNone)
		}
	case prep.ActionSubmit:
		m.answer.Reset()
		m.feedbackVP.GotoBottom()
		if m.snap.Session.State != session.InProgress {
			m.setFocus(fieldNone)
		}
	case prep.ActionEnd:
		m.summaryVP.GotoTop()
	case prep.ActionOptimize:
		m.resumeVP.GotoTop()
	case prep.ActionResearch:
		m.researchVP.GotoTop()
	}
	return m, cmd
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.ctrl.Shutdown()
		return m, tea.Quit
	}

	// the error box blocks all other input
	if m.err != nil {
		if msg.Type == tea.KeyEnter || key.Matches(msg, m.keys.Close) {
			m.err = nil
		}
		return m, nil
	}

	if m.snap.Session.Summary != nil {
		if key.Matches(msg, m.keys.Close) {
			m.ctrl.CloseSummary()
			m.refresh()
			cmd := m.setFocus(fieldRole)
			return m, cmd
		}
		var cmd tea.Cmd
		m.summaryVP, cmd = m.summaryVP.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab((m.snap.Tab + 1) % prep.Tab(len(prep.Tabs)))
	case key.Matches(msg, m.keys.Interview):
		return m.switchTab(prep.TabInterview)
	case key.Matches(msg, m.keys.Resume):
		return m.switchTab(prep.TabResume)
	case key.Matches(msg, m.keys.Research):
		return m.switchTab(prep.TabResearch)
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.End) && m.snap.Tab == prep.TabInterview:
		return m, m.endCmd()
	case key.Matches(msg, m.keys.Download) && m.snap.Tab == prep.TabResume:
		m.download()
		return m, nil
	case key.Matches(msg, m.keys.Open) && m.savedPath != "":
		openPath(m.savedPath)
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		cmd := m.cycleFocus(1)
		return m, cmd
	case key.Matches(msg, m.keys.FocusBack):
		cmd := m.cycleFocus(-1)
		return m, cmd
	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		return m.scroll(msg)
	case key.Matches(msg, m.keys.Record) && m.focus == fieldNone && m.inInterview():
		if err := m.ctrl.ToggleRecording(); err != nil {
			m.err = err
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Close) && m.focus == fieldAnswer:
		m.setFocus(fieldNone)
		return m, nil
	case msg.Type == tea.KeyEnter:
		if next, cmd, ok := m.enter(); ok {
			return next, cmd
		}
	}

	return m.updateFocused(msg)
}

func (m appModel) inInterview() bool {
	return m.snap.Tab == prep.TabInterview && m.snap.Session.State == session.InProgress
}

func (m appModel) switchTab(t prep.Tab) (tea.Model, tea.Cmd) {
	m.ctrl.SwitchTab(t)
	m.refresh()
	fields := m.fields()
	if len(fields) == 0 {
		m.setFocus(fieldNone)
		return m, nil
	}
	cmd := m.setFocus(fields[0])
	return m, cmd
}

// fields lists the focusable inputs of the visible panel in tab order.
func (m appModel) fields() []field {
	switch m.snap.Tab {
	case prep.TabInterview:
		switch m.snap.Session.State {
		case session.Idle, session.Setup:
			return []field{fieldRole, fieldIndustry, fieldDifficulty}
		case session.InProgress:
			// fieldNone lets space reach the recorder
			return []field{fieldNone, fieldAnswer}
		}
		return nil
	case prep.TabResume:
		return []field{fieldResumePath, fieldJobDescription}
	case prep.TabResearch:
		return []field{fieldCompany, fieldJobRole}
	}
	return nil
}

func (m *appModel) cycleFocus(delta int) tea.Cmd {
	fields := m.fields()
	if len(fields) == 0 {
		return nil
	}
	idx := -1
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	if idx < 0 {
		return m.setFocus(fields[0])
	}
	return m.setFocus(fields[(idx+delta+len(fields))%len(fields)])
}

func (m *appModel) setFocus(f field) tea.Cmd {
	m.role.Blur()
	m.industry.Blur()
	m.difficulty.Blur()
	m.answer.Blur()
	m.resumePath.Blur()
	m.jobDesc.Blur()
	m.company.Blur()
	m.jobRole.Blur()

	m.focus = f
	switch f {
	case fieldRole:
		return m.role.Focus()
	case fieldIndustry:
		return m.industry.Focus()
	case fieldDifficulty:
		return m.difficulty.Focus()
	case fieldAnswer:
		return m.answer.Focus()
	case fieldResumePath:
		return m.resumePath.Focus()
	case fieldJobDescription:
		return m.jobDesc.Focus()
	case fieldCompany:
		return m.company.Focus()
	case fieldJobRole:
		return m.jobRole.Focus()
	}
	return nil
}

func (m appModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldRole:
		m.role, cmd = m.role.Update(msg)
	case fieldIndustry:
		m.industry, cmd = m.industry.Update(msg)
	case fieldDifficulty:
		m.difficulty, cmd = m.difficulty.Update(msg)
	case fieldAnswer:
		m.answer, cmd = m.answer.Update(msg)
	case fieldResumePath:
		m.resumePath, cmd = m.resumePath.Update(msg)
	case fieldJobDescription:
		m.jobDesc, cmd = m.jobDesc.Update(msg)
	case fieldCompany:
		m.company, cmd = m.company.Update(msg)
	case fieldJobRole:
		m.jobRole, cmd = m.jobRole.Update(msg)
	case fieldNone:
		if _, ok := msg.(tea.KeyMsg); ok {
			return m.scroll(msg)
		}
	}
	return m, cmd
}

// enter handles the enter key on single-line inputs. Multi-line inputs keep
// it as a newline.
func (m appModel) enter() (tea.Model, tea.Cmd, bool) {
	switch m.focus {
	case fieldRole, fieldIndustry, fieldCompany:
		cmd := m.cycleFocus(1)
		return m, cmd, true
	case fieldDifficulty, fieldJobRole:
		return m, m.submit(), true
	case fieldResumePath:
		f, err := m.ctrl.SelectResume(m.resumePath.Value())
		if err != nil {
			m.err = err
			return m, nil, true
		}
		m.notice = "Selected " + f.Name
		m.refresh()
		cmd := m.setFocus(fieldJobDescription)
		return m, cmd, true
	}
	return m, nil, false
}

func (m appModel) scroll(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.snap.Tab {
	case prep.TabInterview:
		m.feedbackVP, cmd = m.feedbackVP.Update(msg)
	case prep.TabResume:
		m.resumeVP, cmd = m.resumeVP.Update(msg)
	case prep.TabResearch:
		m.researchVP, cmd = m.researchVP.Update(msg)
	}
	return m, cmd
}

// submit runs the primary action of the visible panel.
func (m appModel) submit() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	switch m.snap.Tab {
	case prep.TabInterview:
		switch m.snap.Session.State {
		case session.Idle, session.Setup:
			role, industry, difficulty := m.role.Value(), m.industry.Value(), m.difficulty.Value()
			return func() tea.Msg {
				return doneMsg{action: prep.ActionStart, err: ctrl.StartInterview(ctx, role, industry, difficulty)}
			}
		case session.InProgress:
			text := m.answer.Value()
			return func() tea.Msg {
				_, err := ctrl.SubmitAnswer(ctx, text)
				return doneMsg{action: prep.ActionSubmit, err: err}
			}
		}
	case prep.TabResume:
		jd := m.jobDesc.Value()
		return func() tea.Msg {
			_, err := ctrl.OptimizeResume(ctx, jd)
			return doneMsg{action: prep.ActionOptimize, err: err}
		}
	case prep.TabResearch:
		company, role := m.company.Value(), m.jobRole.Value()
		return func() tea.Msg {
			_, err := ctrl.Research(ctx, company, role)
			return doneMsg{action: prep.ActionResearch, err: err}
		}
	}
	return nil
}

func (m appModel) endCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		_, err := ctrl.EndInterview(ctx)
		return doneMsg{action: prep.ActionEnd, err: err}
	}
}

func (m *appModel) download() {
	path, err := m.ctrl.DownloadResume()
	if err != nil {
		m.err = err
		return
	}
	m.savedPath = path
	m.notice = "Saved " + path + " (ctrl+o to open)"
}

func (m *appModel) resize() {
	inner := max(m.width-4, 20)
	for _, ti := range []*textinput.Model{&m.role, &m.industry, &m.difficulty, &m.resumePath, &m.company, &m.jobRole} {
		ti.Width = max(inner-18, 10)
	}
	m.answer.SetWidth(inner)
	m.answer.SetHeight(4)
	m.jobDesc.SetWidth(inner)
	m.jobDesc.SetHeight(6)

	modalWidth := min(m.width-8, 100)
	modalHeight := max(m.height-10, 5)
	if !m.ready {
		m.feedbackVP = viewport.New(inner, 5)
		m.resumeVP = viewport.New(inner, 5)
		m.researchVP = viewport.New(inner, 5)
		m.summaryVP = viewport.New(modalWidth, modalHeight)
		m.ready = true
		return
	}
	m.feedbackVP.Width = inner
	m.resumeVP.Width = inner
	m.researchVP.Width = inner
	m.summaryVP.Width = modalWidth
	m.summaryVP.Height = modalHeight
}

// refresh re-reads the controller and re-renders the scrollable contents.
func (m *appModel) refresh() {
	m.snap = m.ctrl.Snapshot()
	if !m.ready {
		return
	}

	width := m.feedbackVP.Width
	m.feedbackVP.SetContent(renderFeedback(m.snap.Session.Log, width))

	if m.snap.Optimized != nil {
		m.resumeVP.SetContent(renderOptimized(*m.snap.Optimized, width))
	} else {
		m.resumeVP.SetContent(hintStyle.Render("The optimized resume will appear here."))
	}

	if m.snap.Research != nil {
		m.researchVP.SetContent(renderResearch(*m.snap.Research, width))
	} else {
		m.researchVP.SetContent(hintStyle.Render("Enter a company and role, then press enter."))
	}

	if m.snap.Session.Summary != nil {
		m.summaryVP.SetContent(renderSummary(*m.snap.Session.Summary, m.summaryVP.Width))
	}
}

func (m appModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := renderTabBar(m.snap.Tab)
	status := m.statusBar()
	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(status)-2, 5)

	var body string
	switch {
	case m.err != nil:
		var note string
		if model.ErrorKind(m.err) == "transcription" && m.snap.HasAudio {
			note = resendNote
		}
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, renderErrorNote(m.err, min(m.width-4, 72), note))
	case m.snap.Session.Summary != nil:
		modal := modalBorderStyle.Render(m.summaryVP.View() + "\n\n" + hintStyle.Render("↑/↓ scroll  esc close"))
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, modal)
	default:
		body = m.panel(bodyHeight)
	}

	return header + "\n" + body + "\n" + status
}

func (m appModel) labeled(label string, input string) string {
	return labelStyle.Render(label) + input
}

// panel renders the visible tab: its form on top, results below.
func (m appModel) panel(height int) string {
	var form string
	var vp viewport.Model

	switch m.snap.Tab {
	case prep.TabInterview:
		vp = m.feedbackVP
		switch m.snap.Session.State {
		case session.Idle, session.Setup:
			form = strings.Join([]string{
				titleStyle.Render("Set up your mock interview"),
				"",
				m.labeled("Role", m.role.View()),
				m.labeled("Industry", m.industry.View()),
				m.labeled("Difficulty", m.difficulty.View()),
				"",
				hintStyle.Render("enter on the last field or ctrl+s to start"),
			}, "\n")
		default:
			parts := []string{renderQuestion(m.snap.Session, vp.Width)}
			if m.snap.Session.State == session.InProgress {
				parts = append(parts, renderRecordingStatus(m.snap), m.answer.View())
			}
			form = strings.Join(parts, "\n")
		}
	case prep.TabResume:
		vp = m.resumeVP
		form = strings.Join([]string{
			m.labeled("Resume file", m.resumePath.View()),
			strings.Repeat(" ", 16) + renderResumeFile(m.snap.ResumeFile),
			labelStyle.Render("Job description"),
			m.jobDesc.View(),
			hintStyle.Render("ctrl+s to optimize"),
		}, "\n")
	case prep.TabResearch:
		vp = m.researchVP
		form = strings.Join([]string{
			m.labeled("Company", m.company.View()),
			m.labeled("Job role", m.jobRole.View()),
		}, "\n")
	}

	vp.Height = max(height-lipgloss.Height(form)-3, 3)
	content := form + "\n" + divider("", vp.Width) + "\n" + vp.View()
	return activeBorderStyle.Width(m.width - 2).Render(content)
}

func (m appModel) statusBar() string {
	for _, b := range busyLabels {
		if m.snap.Busy(b.action) {
			return statusBarStyle.Width(m.width).Render(m.spinner.View() + " " + b.label)
		}
	}
	text := m.help.ShortHelpView(m.contextKeys())
	if m.notice != "" {
		text = m.notice + "  " + text
	}
	return statusBarStyle.Width(m.width).Render(text)
}

func (m appModel) contextKeys() []key.Binding {
	k := m.keys
	switch m.snap.Tab {
	case prep.TabInterview:
		if m.snap.Session.State == session.InProgress {
			if m.focus == fieldNone {
				return []key.Binding{k.Record, k.Submit, k.End, k.Focus, k.NextTab, k.Quit}
			}
			return []key.Binding{k.Submit, k.End, k.Close, k.NextTab, k.Quit}
		}
		if m.snap.Session.State == session.Completed {
			return []key.Binding{k.End, k.NextTab, k.Quit}
		}
		return []key.Binding{k.Focus, k.Submit, k.NextTab, k.Quit}
	case prep.TabResume:
		keys := []key.Binding{k.Focus, k.Submit, k.Download}
		if m.savedPath != "" {
			keys = append(keys, k.Open)
		}
		return append(keys, k.NextTab, k.Quit)
	default:
		return []key.Binding{k.Focus, k.Submit, k.ScrollDown, k.NextTab, k.Quit}
	}
}

// Run starts the full-screen program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, ctrl *prep.Controller) error {
	p := tea.NewProgram(newAppModel(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
