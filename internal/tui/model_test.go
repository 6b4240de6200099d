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

package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sirseerhq/sirseer-issues/internal/github"
	"github.com/sirseerhq/sirseer-issues/internal/state"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle executes cmd and feeds request results back into the model until
// no request is left. Timer driven messages are ignored.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case resultMsg, openedMsg:
			updated, c := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, c)
		}
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	return settle(t, updated.(Model), cmd)
}

func start(t *testing.T, client github.Client, path string) Model {
	t.Helper()
	m := New(context.Background(), client, path)
	return settle(t, m, m.Init())
}

func TestModel_InitialPathLoadsOnMount(t *testing.T) {
	client := github.NewMockClientWithOptions(github.WithStargazers(false, 10))
	m := New(context.Background(), client, "google/tink")

	if m.session.Phase() != state.PhaseLoading {
		t.Fatalf("Phase = %v, want loading on mount", m.session.Phase())
	}
	if !strings.Contains(m.View(), "Loading google/tink") {
		t.Errorf("expected loading view, got:\n%s", m.View())
	}

	m = settle(t, m, m.Init())
	view := m.View()
	if m.session.Phase() != state.PhaseLoaded {
		t.Fatalf("Phase = %v, want loaded", m.session.Phase())
	}
	for _, want := range []string{"Google / tink", "☆ 10", "Issue 1", "Issue 5", "More issues available."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_FetchMore(t *testing.T) {
	client := github.NewMockClient()
	m := start(t, client, "google/tink")

	m = press(t, m, runes("m"))
	view := m.View()
	if !strings.Contains(view, "Issue 8") {
		t.Errorf("expected the second page, got:\n%s", view)
	}
	if strings.Contains(view, "More issues available.") {
		t.Error("no further pages should be advertised")
	}
	if m.keys.FetchMore.Enabled() {
		t.Error("fetch more should be disabled after the last page")
	}

	// The disabled binding ignores further presses.
	m = press(t, m, runes("m"))
	if client.CallCount != 2 {
		t.Errorf("expected 2 fetches, got %d", client.CallCount)
	}
}

func TestModel_ToggleStar(t *testing.T) {
	client := github.NewMockClientWithOptions(github.WithStargazers(false, 10))
	m := start(t, client, "google/tink")

	m = press(t, m, runes("s"))
	if !strings.Contains(m.View(), "★ 11") {
		t.Errorf("expected starred count 11, got:\n%s", m.View())
	}

	m = press(t, m, runes("s"))
	if !strings.Contains(m.View(), "☆ 10") {
		t.Errorf("expected unstarred count 10, got:\n%s", m.View())
	}
}

func TestModel_SubmitFromInput(t *testing.T) {
	client := github.NewMockClient()
	m := start(t, client, "")

	if !m.editing {
		t.Fatal("expected the path field to be focused without an initial path")
	}
	if m.keys.Star.Enabled() || m.keys.FetchMore.Enabled() {
		t.Error("actions must be disabled before a repository is loaded")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.status == "" {
		t.Error("expected an error for an empty path")
	}

	m.input.SetValue("google/tink")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing {
		t.Error("submit should leave the path field")
	}
	if m.session.Phase() != state.PhaseLoaded {
		t.Errorf("Phase = %v, want loaded", m.session.Phase())
	}
	if client.LastRequest.Kind != github.FetchInitial {
		t.Errorf("expected an initial fetch, got %v", client.LastRequest.Kind)
	}

	// Typing while editing goes to the field, not to the bindings.
	m = press(t, m, runes("/"))
	if !m.editing {
		t.Fatal("expected / to focus the path field")
	}
	m = press(t, m, runes("s"))
	if client.StarCalls != 0 {
		t.Error("keys typed into the field must not trigger actions")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing {
		t.Error("esc should return to the issue list")
	}
}

func TestModel_ErrorView(t *testing.T) {
	client := github.NewMockClient()
	client.ShouldFailNotFound = true
	m := start(t, client, "nope/tink")

	if m.session.Phase() != state.PhaseError {
		t.Fatalf("Phase = %v, want error", m.session.Phase())
	}
	if !strings.Contains(m.View(), "Could not resolve to an Organization") {
		t.Errorf("expected the query error, got:\n%s", m.View())
	}
}

func TestModel_NotFoundView(t *testing.T) {
	client := github.NewMockClientWithOptions(github.WithMissingRepository())
	m := start(t, client, "google/nope")

	if !strings.Contains(m.View(), "No repository found at google/nope.") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}

func TestModel_TransportErrorView(t *testing.T) {
	client := github.NewMockClientWithOptions(github.WithAuthFailure())
	m := start(t, client, "google/tink")

	if !strings.Contains(m.View(), "Authentication failed") {
		t.Errorf("unexpected view:\n%s", m.View())
	}
}

func TestModel_NavigateAndOpen(t *testing.T) {
	client := github.NewMockClient()
	m := start(t, client, "google/tink")

	var opened string
	m.openURL = func(url string) error {
		opened = url
		return nil
	}

	m = press(t, m, runes("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 at the top", m.cursor)
	}
	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}

	m = press(t, m, runes("o"))
	if opened != "https://github.com/google/tink/issues/3" {
		t.Errorf("opened %q", opened)
	}
	if !strings.Contains(m.status, "opened") {
		t.Errorf("status = %q", m.status)
	}

	for i := 0; i < 10; i++ {
		m = press(t, m, runes("j"))
	}
	if m.cursor != 4 {
		t.Errorf("cursor = %d, want it clamped to 4", m.cursor)
	}
}

func TestModel_Quit(t *testing.T) {
	m := start(t, github.NewMockClient(), "google/tink")

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
