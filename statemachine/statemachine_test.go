package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeContext is a hand-rolled Context with settable answers.
type fakeContext struct {
	modified   bool
	saveable   bool
	hasSelNode bool
}

func (c *fakeContext) IsModified() bool   { return c.modified }
func (c *fakeContext) CanBeSaved() bool   { return c.saveable }
func (c *fakeContext) HasSelection() bool { return c.hasSelNode }

func TestStartsInEditState(t *testing.T) {
	sm := New(&fakeContext{})
	assert.Equal(t, StateEdit, sm.State())
}

func TestNewOnCleanDocumentSkipsGuard(t *testing.T) {
	sm := New(&fakeContext{modified: false})
	assert.Equal(t, StateInitializeNewMindMap, sm.CalculateState(ActionNewSelected))
	assert.Equal(t, StateEdit, sm.CalculateState(ActionNewMindMapInitialized))
}

func TestNewOnModifiedDocumentShowsNotSavedDialog(t *testing.T) {
	sm := New(&fakeContext{modified: true})
	assert.Equal(t, StateShowNotSavedDialog, sm.CalculateState(ActionNewSelected))
}

func TestNotSavedDialogCancelReturnsToEditWithDocumentIntact(t *testing.T) {
	sm := New(&fakeContext{modified: true})
	sm.CalculateState(ActionNewSelected)
	assert.Equal(t, StateEdit, sm.CalculateState(ActionNotSavedDialogCanceled))

	// The pending "new" intent is forgotten: a later save does not resume it.
	ctx := &fakeContext{saveable: true}
	sm2 := New(ctx)
	ctx.modified = true
	sm2.CalculateState(ActionNewSelected)
	sm2.CalculateState(ActionNotSavedDialogCanceled)
	assert.Equal(t, StateEdit, sm2.CalculateState(ActionMindMapSaved))
}

func TestNotSavedDialogDiscardResumesInterruptedOperation(t *testing.T) {
	cases := []struct {
		name    string
		trigger Action
		resumed State
	}{
		{"new", ActionNewSelected, StateInitializeNewMindMap},
		{"open", ActionOpenSelected, StateShowOpenDialog},
		{"recent", ActionRecentFileSelected, StateOpenRecent},
		{"drop", ActionDropFileSelected, StateOpenDrop},
		{"quit", ActionQuitSelected, StateTryCloseWindow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sm := New(&fakeContext{modified: true})
			assert.Equal(t, StateShowNotSavedDialog, sm.CalculateState(tc.trigger))
			assert.Equal(t, tc.resumed, sm.CalculateState(ActionNotSavedDialogDiscarded))
		})
	}
}

func TestNotSavedDialogAcceptSavesThenResumes(t *testing.T) {
	ctx := &fakeContext{modified: true, saveable: true}
	sm := New(ctx)
	sm.CalculateState(ActionQuitSelected)
	assert.Equal(t, StateSave, sm.CalculateState(ActionNotSavedDialogAccepted))
	assert.Equal(t, StateTryCloseWindow, sm.CalculateState(ActionMindMapSaved))
	assert.Equal(t, StateExit, sm.CalculateState(ActionWindowClosed))
}

func TestNotSavedDialogAcceptWithoutFileBindingGoesThroughSaveAs(t *testing.T) {
	ctx := &fakeContext{modified: true, saveable: false}
	sm := New(ctx)
	sm.CalculateState(ActionOpenSelected)
	assert.Equal(t, StateShowSaveAsDialog, sm.CalculateState(ActionNotSavedDialogAccepted))
	assert.Equal(t, StateShowOpenDialog, sm.CalculateState(ActionMindMapSavedAs))
}

func TestSaveFailureCancelsPendingQuit(t *testing.T) {
	ctx := &fakeContext{modified: true, saveable: true}
	sm := New(ctx)
	sm.CalculateState(ActionQuitSelected)
	sm.CalculateState(ActionNotSavedDialogAccepted)
	assert.Equal(t, StateEdit, sm.CalculateState(ActionMindMapSaveFailed))

	// A later successful save must not resume the abandoned quit.
	sm.CalculateState(ActionSaveSelected)
	assert.Equal(t, StateEdit, sm.CalculateState(ActionMindMapSaved))
}

func TestSaveAsCancelAbandonsPendingIntent(t *testing.T) {
	ctx := &fakeContext{modified: true}
	sm := New(ctx)
	sm.CalculateState(ActionNewSelected)
	sm.CalculateState(ActionNotSavedDialogAccepted)
	assert.Equal(t, StateEdit, sm.CalculateState(ActionMindMapSaveAsCanceled))
	assert.Equal(t, StateEdit, sm.CalculateState(ActionMindMapSaved))
}

func TestSaveSelectedRoutesOnFileBinding(t *testing.T) {
	ctx := &fakeContext{}
	sm := New(ctx)
	assert.Equal(t, StateShowSaveAsDialog, sm.CalculateState(ActionSaveSelected))
	sm.Reset()
	ctx.saveable = true
	assert.Equal(t, StateSave, sm.CalculateState(ActionSaveSelected))
}

func TestQuitOnCleanDocumentClosesDirectly(t *testing.T) {
	sm := New(&fakeContext{})
	assert.Equal(t, StateTryCloseWindow, sm.CalculateState(ActionQuitSelected))
	assert.Equal(t, StateExit, sm.CalculateState(ActionWindowClosed))
}

func TestOpenFailureReturnsToEdit(t *testing.T) {
	sm := New(&fakeContext{})
	sm.CalculateState(ActionOpenSelected)
	assert.Equal(t, StateEdit, sm.CalculateState(ActionOpeningMindMapFailed))

	sm.CalculateState(ActionOpenSelected)
	assert.Equal(t, StateEdit, sm.CalculateState(ActionOpeningMindMapCanceled))
}

func TestImageDialogRequiresSelection(t *testing.T) {
	ctx := &fakeContext{}
	sm := New(ctx)
	assert.Equal(t, StateEdit, sm.CalculateState(ActionShowImageFileDialogRequested))

	ctx.hasSelNode = true
	assert.Equal(t, StateShowImageFileDialog, sm.CalculateState(ActionShowImageFileDialogRequested))
	assert.Equal(t, StateEdit, sm.CalculateState(ActionImageAttached))
}

func TestDialogRequestAndCompletionPairs(t *testing.T) {
	pairs := []struct {
		request Action
		shown   State
		done    Action
	}{
		{ActionShowBackgroundColorDialogRequested, StateShowBackgroundColorDialog, ActionBackgroundColorChanged},
		{ActionShowEdgeColorDialogRequested, StateShowEdgeColorDialog, ActionEdgeColorChanged},
		{ActionShowGridColorDialogRequested, StateShowGridColorDialog, ActionGridColorChanged},
		{ActionShowNodeColorDialogRequested, StateShowNodeColorDialog, ActionNodeColorChanged},
		{ActionShowTextColorDialogRequested, StateShowTextColorDialog, ActionTextColorChanged},
		{ActionShowLayoutOptimizationDialogRequested, StateShowLayoutOptimizationDialog, ActionLayoutOptimized},
		{ActionShowPngExportDialogRequested, StateShowPngExportDialog, ActionPngExported},
		{ActionShowSvgExportDialogRequested, StateShowSvgExportDialog, ActionSvgExported},
	}
	for _, p := range pairs {
		sm := New(&fakeContext{})
		assert.Equal(t, p.shown, sm.CalculateState(p.request), "request %v", p.request)
		assert.Equal(t, StateEdit, sm.CalculateState(p.done), "completion %v", p.done)
	}
}

func TestUndoRedoStayInEdit(t *testing.T) {
	sm := New(&fakeContext{modified: true})
	assert.Equal(t, StateEdit, sm.CalculateState(ActionUndoSelected))
	assert.Equal(t, StateEdit, sm.CalculateState(ActionRedoSelected))
}

func TestUnknownActionLeavesStateUnchanged(t *testing.T) {
	sm := New(&fakeContext{modified: true})
	sm.CalculateState(ActionNewSelected)
	before := sm.State()
	assert.Equal(t, before, sm.CalculateState(Action(9999)))
}
