// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tui is the interactive view layer: a Bubble Tea program with a
// path field, the issue list of the loaded repository and key bindings for
// fetching more issues and toggling the star.
//
// Network calls run as tea.Cmds through state.Run and come back as
// resultMsg; the session is only touched from Update.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	apperrors "github.com/sirseerhq/sirseer-issues/internal/errors"
	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/internal/logging"
	"github.com/sirseerhq/sirseer-issues/internal/state"
)

const title = "GitHub Issues"

// resultMsg delivers the outcome of a state.Command.
type resultMsg struct {
	result state.Result
}

// openedMsg reports the outcome of opening an issue in the browser.
type openedMsg struct {
	url string
	err error
}

// Model is the Bubble Tea model of the issue browser.
type Model struct {
	ctx     context.Context
	client  github.Client
	session *state.Session

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	editing bool
	cursor  int
	status  string
	width   int
	height  int

	// startup is the command issued on mount for an initial path.
	startup *state.Command
	openURL func(string) error
}

// New creates the model. When initialPath is set the session starts
// loading it right away.
func New(ctx context.Context, client github.Client, initialPath string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	ti := textinput.New()
	ti.Placeholder = "organization/repository"
	ti.CharLimit = 200
	ti.Width = 50
	ti.Prompt = "https://github.com/"
	ti.PromptStyle = dimStyle

	m := Model{
		ctx:     ctx,
		client:  client,
		session: state.NewSession(),
		input:   ti,
		spinner: s,
		help:    help.New(),
		keys:    defaultKeyMap(),
		width:   80,
		height:  24,
		openURL: browser.OpenURL,
	}

	if initialPath != "" {
		m.input.SetValue(initialPath)
		if cmd, err := m.session.Submit(initialPath); err != nil {
			m.status = err.Error()
			m.editing = true
		} else {
			m.startup = &cmd
		}
	} else {
		m.editing = true
	}
	if m.editing {
		m.input.Focus()
	}
	m.syncKeys()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.startup != nil {
		cmds = append(cmds, m.run(*m.startup))
	}
	if m.editing {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

func (m Model) run(cmd state.Command) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		return resultMsg{result: state.Run(ctx, client, cmd)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case resultMsg:
		applied, err := m.session.Apply(msg.result)
		if err != nil {
			logging.Error("failed to apply result", "action", msg.result.Command.Action.String(), "error", err)
			m.status = err.Error()
		} else if applied {
			m.status = ""
		}
		m.clampCursor()
		m.syncKeys()
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("could not open %s: %v", msg.url, msg.err)
		} else {
			m.status = "opened " + msg.url
		}
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.editing {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.editing {
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.submit(m.input.Value())
		case key.Matches(msg, m.keys.Cancel):
			if m.session.Phase() != state.PhaseIdle {
				m.editing = false
				m.input.Blur()
				m.syncKeys()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.input.Focus()
		m.syncKeys()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if repo := m.session.Snapshot().Repository(); repo != nil && m.cursor < len(repo.Issues.Edges)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.FetchMore):
		return m.dispatch(m.session.FetchMore())
	case key.Matches(msg, m.keys.Star):
		return m.dispatch(m.session.ToggleStar())
	case key.Matches(msg, m.keys.Open):
		return m.open()
	}
	return m, nil
}

func (m Model) submit(path string) (tea.Model, tea.Cmd) {
	cmd, err := m.session.Submit(path)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.editing = false
	m.input.Blur()
	m.cursor = 0
	m.status = ""
	m.syncKeys()
	return m, m.run(cmd)
}

func (m Model) dispatch(cmd state.Command, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	m.syncKeys()
	return m, m.run(cmd)
}

func (m Model) open() (tea.Model, tea.Cmd) {
	repo := m.session.Snapshot().Repository()
	if repo == nil || m.cursor >= len(repo.Issues.Edges) {
		return m, nil
	}
	url := repo.Issues.Edges[m.cursor].Node.URL
	openURL := m.openURL
	return m, func() tea.Msg {
		return openedMsg{url: url, err: openURL(url)}
	}
}

func (m *Model) clampCursor() {
	repo := m.session.Snapshot().Repository()
	if repo == nil || len(repo.Issues.Edges) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(repo.Issues.Edges) {
		m.cursor = len(repo.Issues.Edges) - 1
	}
}

// syncKeys enables exactly the bindings that can act in the current state.
func (m *Model) syncKeys() {
	snap := m.session.Snapshot()
	hasIssues := snap.Repository() != nil && len(snap.Repository().Issues.Edges) > 0

	m.keys.Submit.SetEnabled(m.editing)
	m.keys.Cancel.SetEnabled(m.editing && snap.Phase != state.PhaseIdle)
	m.keys.Edit.SetEnabled(!m.editing)
	m.keys.Quit.SetEnabled(!m.editing)
	m.keys.FetchMore.SetEnabled(!m.editing && snap.CanFetchMore)
	m.keys.Star.SetEnabled(!m.editing && snap.CanToggleStar)
	m.keys.Up.SetEnabled(!m.editing && hasIssues)
	m.keys.Down.SetEnabled(!m.editing && hasIssues)
	m.keys.Open.SetEnabled(!m.editing && hasIssues)
}

// View implements tea.Model.
func (m Model) View() string {
	snap := m.session.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch snap.Phase {
	case state.PhaseIdle:
		b.WriteString(dimStyle.Render("Enter an organization/repository path and press enter."))
		b.WriteString("\n")
	case state.PhaseLoading:
		fmt.Fprintf(&b, "%s Loading %s...\n", m.spinner.View(), snap.Path)
	case state.PhaseNotFound:
		b.WriteString(errorStyle.Render(fmt.Sprintf("No repository found at %s.", snap.Path)))
		b.WriteString("\n")
	case state.PhaseError:
		b.WriteString(m.viewErrors(snap))
		if snap.Repository() != nil {
			b.WriteString("\n")
			b.WriteString(m.viewRepository(snap))
		}
	case state.PhaseLoaded:
		b.WriteString(m.viewRepository(snap))
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewErrors(snap state.Snapshot) string {
	var lines []string
	if snap.Err != nil {
		lines = append(lines, describeTransportError(snap.Err))
	}
	for _, e := range snap.Errors {
		lines = append(lines, e.Message)
	}
	for i, line := range lines {
		lines[i] = errorStyle.Render("✗ " + line)
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m Model) viewRepository(snap state.Snapshot) string {
	org := snap.Organization
	repo := org.Repository
	var b strings.Builder

	star := "☆"
	if repo.ViewerHasStarred {
		star = "★"
	}
	header := fmt.Sprintf("%s / %s", org.Name, repo.Name)
	fmt.Fprintf(&b, "%s  %s\n", headerStyle.Render(header), starStyle.Render(fmt.Sprintf("%s %d", star, repo.Stargazers.TotalCount)))
	if snap.Starring {
		fmt.Fprintf(&b, "%s updating star...\n", m.spinner.View())
	}
	b.WriteString(dimStyle.Render(repo.URL))
	b.WriteString("\n\n")

	if len(repo.Issues.Edges) == 0 {
		b.WriteString(dimStyle.Render("No open issues."))
		b.WriteString("\n")
	}
	var list strings.Builder
	for i, e := range repo.Issues.Edges {
		line := fmt.Sprintf("%3d. %s", i+1, e.Node.Title)
		if i == m.cursor && !m.editing {
			list.WriteString(selectedStyle.Render("> " + line))
		} else {
			list.WriteString("  " + line)
		}
		if i < len(repo.Issues.Edges)-1 {
			list.WriteString("\n")
		}
	}
	if list.Len() > 0 {
		b.WriteString(boxStyle.Render(list.String()))
		b.WriteString("\n")
	}

	switch {
	case snap.FetchingMore:
		fmt.Fprintf(&b, "%s fetching more issues...\n", m.spinner.View())
	case repo.Issues.PageInfo.HasNextPage:
		b.WriteString(dimStyle.Render("More issues available."))
		b.WriteString("\n")
	}
	return b.String()
}

func describeTransportError(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidToken):
		return "Authentication failed, check your GitHub token: " + err.Error()
	case errors.Is(err, apperrors.ErrRateLimit):
		return "GitHub rate limit exceeded, try again later: " + err.Error()
	case errors.Is(err, apperrors.ErrNetworkFailure):
		return "Could not reach GitHub: " + err.Error()
	default:
		return err.Error()
	}
}

// Run starts the program and blocks until the user quits. Logs must not
// go to the terminal while it runs.
func Run(ctx context.Context, client github.Client, initialPath string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	p := tea.NewProgram(New(ctx, client, initialPath), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
