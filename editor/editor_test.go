package editor

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentis/geometry"
)

func newTestEditor() *Editor {
	return New(zerolog.Nop())
}

func TestCreateNodeSelectsIt(t *testing.T) {
	e := newTestEditor()
	index := e.CreateNode(geometry.Point{X: 10, Y: 20})
	assert.Equal(t, index, e.SelectedNode())
	assert.True(t, e.HasSelection())
	assert.True(t, e.IsModified())
}

func TestUndoAfterCreateRemovesNode(t *testing.T) {
	e := newTestEditor()
	index := e.CreateNode(geometry.Point{})

	require.True(t, e.Undo())
	_, ok := e.Document().NodeByIndex(index)
	assert.False(t, ok)
	assert.False(t, e.HasSelection(), "selection must not dangle after undo")

	require.True(t, e.Redo())
	_, ok = e.Document().NodeByIndex(index)
	assert.True(t, ok)
}

func TestConnectNodesRecordsUndoPoint(t *testing.T) {
	e := newTestEditor()
	a := e.CreateNode(geometry.Point{})
	b := e.CreateNode(geometry.Point{X: 100})

	_, err := e.ConnectNodes(a, b)
	require.NoError(t, err)
	require.Equal(t, 1, e.Document().EdgeCount())

	require.True(t, e.Undo())
	assert.Equal(t, 0, e.Document().EdgeCount())
}

func TestRejectedConnectLeavesHistoryUntouched(t *testing.T) {
	e := newTestEditor()
	a := e.CreateNode(geometry.Point{})
	require.True(t, e.Undo())
	require.True(t, e.CanRedo())
	require.False(t, e.CanUndo())

	_, err := e.ConnectNodes(a, 999)
	require.Error(t, err)

	assert.True(t, e.CanRedo(), "a rejected connect must not clear redo history")
	assert.False(t, e.CanUndo(), "a rejected connect must not record an undo point")
	require.True(t, e.Redo())
	assert.Equal(t, 0, e.Document().EdgeCount())
}

func TestDeleteAbsentNodeRecordsNothing(t *testing.T) {
	e := newTestEditor()
	e.CreateNode(geometry.Point{})
	require.True(t, e.Undo())
	require.True(t, e.CanRedo())

	e.DeleteNode(42)

	assert.True(t, e.CanRedo(), "a no-op delete must not clear redo history")
	assert.False(t, e.CanUndo())
}

func TestDeleteNodeClearsSelection(t *testing.T) {
	e := newTestEditor()
	index := e.CreateNode(geometry.Point{})
	e.DeleteNode(index)
	assert.False(t, e.HasSelection())
}

func TestInitializeNewClearsEverything(t *testing.T) {
	e := newTestEditor()
	e.CreateNode(geometry.Point{})
	e.SetFilePath("/tmp/x" + ".mentis")

	e.InitializeNew()
	assert.Equal(t, 0, e.Document().NodeCount())
	assert.False(t, e.IsModified())
	assert.False(t, e.CanBeSaved())
	assert.False(t, e.CanUndo())
	assert.False(t, e.CanRedo())
}

func TestUndoNoOpWithoutHistory(t *testing.T) {
	e := newTestEditor()
	assert.False(t, e.Undo())
	assert.False(t, e.Redo())
}
