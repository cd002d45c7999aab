package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentis/app"
	"mentis/settings"
)

// newSimView builds a view on a tcell simulation screen with a full session
// behind it, so key handling runs against the real dispatch path.
func newSimView(t *testing.T) (*View, tcell.SimulationScreen, *app.Service) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())

	v := &View{screen: screen, log: zerolog.Nop()}
	t.Cleanup(v.Close)

	prefs, err := settings.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { prefs.Close() })

	service := app.New(prefs, v, v, zerolog.Nop())
	v.SetService(service)
	return v, screen, service
}

func pressRune(v *View, r rune) {
	v.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func pressKey(v *View, key tcell.Key) {
	v.handleKey(tcell.NewEventKey(key, 0, tcell.ModNone))
}

func TestAddKeyCreatesAndSelectsNode(t *testing.T) {
	v, _, s := newSimView(t)
	pressRune(v, 'a')

	assert.Equal(t, 1, s.Editor().Document().NodeCount())
	assert.True(t, s.Editor().HasSelection())
	assert.Len(t, s.Scene().NodeItems(), 1)
}

func TestUndoAndRedoKeys(t *testing.T) {
	v, _, s := newSimView(t)
	pressRune(v, 'a')

	pressKey(v, tcell.KeyCtrlZ)
	assert.Equal(t, 0, s.Editor().Document().NodeCount())
	assert.Empty(t, s.Scene().NodeItems(), "undo rebuilds the scene")

	pressKey(v, tcell.KeyCtrlY)
	assert.Equal(t, 1, s.Editor().Document().NodeCount())
	assert.Len(t, s.Scene().NodeItems(), 1)
}

func TestDeleteKeyRemovesSelectedNode(t *testing.T) {
	v, _, s := newSimView(t)
	pressRune(v, 'a')
	pressRune(v, 'd')

	assert.Equal(t, 0, s.Editor().Document().NodeCount())
	assert.Empty(t, s.Scene().NodeItems())
	assert.False(t, s.Editor().HasSelection())
}

func TestTabCyclesSelectionInIndexOrder(t *testing.T) {
	v, _, s := newSimView(t)
	pressRune(v, 'a')
	pressRune(v, 'a')
	require.Equal(t, 1, s.Editor().SelectedNode(), "last created node starts selected")

	pressKey(v, tcell.KeyTab)
	assert.Equal(t, 0, s.Editor().SelectedNode())

	pressKey(v, tcell.KeyTab)
	assert.Equal(t, 1, s.Editor().SelectedNode())
}

func TestEditKeyPromptsForNodeText(t *testing.T) {
	v, screen, s := newSimView(t)
	pressRune(v, 'a')
	idx := s.Editor().SelectedNode()

	screen.InjectKey(tcell.KeyRune, 'h', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'i', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)
	pressRune(v, 'e')

	node, ok := s.Editor().Document().NodeByIndex(idx)
	require.True(t, ok)
	assert.Equal(t, "hi", node.Text)
}

func TestConnectKeyCreatesEdgeToTypedIndex(t *testing.T) {
	v, screen, s := newSimView(t)
	pressRune(v, 'a')
	pressRune(v, 'a')
	require.Equal(t, 1, s.Editor().SelectedNode())

	screen.InjectKey(tcell.KeyRune, '0', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)
	pressRune(v, 'c')

	assert.Equal(t, 1, s.Editor().Document().EdgeCount())
	assert.True(t, s.Scene().HasEdge(1, 0))
}

func TestEscapeInPromptCancelsEdit(t *testing.T) {
	v, screen, s := newSimView(t)
	pressRune(v, 'a')
	idx := s.Editor().SelectedNode()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	pressRune(v, 'e')

	node, ok := s.Editor().Document().NodeByIndex(idx)
	require.True(t, ok)
	assert.Empty(t, node.Text, "escape discards the typed text")
}

func TestQuitKeyClosesCleanSession(t *testing.T) {
	v, _, s := newSimView(t)
	pressRune(v, 'q')

	assert.True(t, s.Done())
	assert.True(t, v.closed)
}
