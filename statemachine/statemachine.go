// Package statemachine serializes user-triggered actions into legal
// application state transitions, gating file operations, dialogs and
// undo/redo against the current document state. A state machine instance is
// owned by the session that constructs it; tests create as many independent
// instances as they need.
package statemachine

// State is a named mode of the application controlling which operation is
// currently legal or in progress.
type State int

const (
	StateEdit State = iota
	StateExit
	StateInitializeNewMindMap
	StateOpenDrop
	StateOpenRecent
	StateSave
	StateShowBackgroundColorDialog
	StateShowEdgeColorDialog
	StateShowGridColorDialog
	StateShowImageFileDialog
	StateShowLayoutOptimizationDialog
	StateShowNodeColorDialog
	StateShowNotSavedDialog
	StateShowOpenDialog
	StateShowPngExportDialog
	StateShowSaveAsDialog
	StateShowSvgExportDialog
	StateShowTextColorDialog
	StateTryCloseWindow
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateEdit:
		return "Edit"
	case StateExit:
		return "Exit"
	case StateInitializeNewMindMap:
		return "InitializeNewMindMap"
	case StateOpenDrop:
		return "OpenDrop"
	case StateOpenRecent:
		return "OpenRecent"
	case StateSave:
		return "Save"
	case StateShowBackgroundColorDialog:
		return "ShowBackgroundColorDialog"
	case StateShowEdgeColorDialog:
		return "ShowEdgeColorDialog"
	case StateShowGridColorDialog:
		return "ShowGridColorDialog"
	case StateShowImageFileDialog:
		return "ShowImageFileDialog"
	case StateShowLayoutOptimizationDialog:
		return "ShowLayoutOptimizationDialog"
	case StateShowNodeColorDialog:
		return "ShowNodeColorDialog"
	case StateShowNotSavedDialog:
		return "ShowNotSavedDialog"
	case StateShowOpenDialog:
		return "ShowOpenDialog"
	case StateShowPngExportDialog:
		return "ShowPngExportDialog"
	case StateShowSaveAsDialog:
		return "ShowSaveAsDialog"
	case StateShowSvgExportDialog:
		return "ShowSvgExportDialog"
	case StateShowTextColorDialog:
		return "ShowTextColorDialog"
	case StateTryCloseWindow:
		return "TryCloseWindow"
	default:
		return "Unknown"
	}
}

// Action is a symbolic user- or system-triggered event consumed by the state
// machine. The vocabulary is closed: the UI layer raises these and nothing
// else.
type Action int

const (
	ActionBackgroundColorChanged Action = iota
	ActionDropFileSelected
	ActionEdgeColorChanged
	ActionGridColorChanged
	ActionImageAttached
	ActionImageLoadFailed
	ActionLayoutOptimized
	ActionMindMapOpened
	ActionMindMapSaveAsCanceled
	ActionMindMapSaveAsFailed
	ActionMindMapSaveFailed
	ActionMindMapSaved
	ActionMindMapSavedAs
	ActionNewMindMapInitialized
	ActionNewSelected
	ActionNodeColorChanged
	ActionNotSavedDialogAccepted
	ActionNotSavedDialogCanceled
	ActionNotSavedDialogDiscarded
	ActionOpenSelected
	ActionOpeningMindMapCanceled
	ActionOpeningMindMapFailed
	ActionPngExported
	ActionQuitSelected
	ActionRecentFileSelected
	ActionRedoSelected
	ActionSaveAsSelected
	ActionSaveSelected
	ActionShowBackgroundColorDialogRequested
	ActionShowEdgeColorDialogRequested
	ActionShowGridColorDialogRequested
	ActionShowImageFileDialogRequested
	ActionShowLayoutOptimizationDialogRequested
	ActionShowNodeColorDialogRequested
	ActionShowPngExportDialogRequested
	ActionShowSvgExportDialogRequested
	ActionShowTextColorDialogRequested
	ActionSvgExported
	ActionTextColorChanged
	ActionUndoSelected
	ActionWindowClosed
)

// Context supplies the small amount of external state transitions depend on.
// The editor session implements it.
type Context interface {
	// IsModified reports unsaved changes in the current document.
	IsModified() bool
	// CanBeSaved reports whether a plain save is possible (file binding
	// exists).
	CanBeSaved() bool
	// HasSelection reports whether a node is selected.
	HasSelection() bool
}

// quitType remembers the operation that was interrupted by the
// not-saved-dialog guard, so the dialog's outcome can resume, abandon or
// cancel it.
type quitType int

const (
	quitNone quitType = iota
	quitClose
	quitNew
	quitOpen
	quitOpenRecent
	quitOpenDrop
)

// StateMachine computes new states from (current state, action) pairs plus
// the injected Context. Unrecognized actions in a given state leave the state
// unchanged.
type StateMachine struct {
	state State
	quit  quitType
	ctx   Context
}

// New creates a state machine starting in the Edit state.
func New(ctx Context) *StateMachine {
	return &StateMachine{state: StateEdit, ctx: ctx}
}

// State returns the current state.
func (sm *StateMachine) State() State {
	return sm.state
}

// Reset returns the machine to the Edit state and forgets any pending
// interrupted operation.
func (sm *StateMachine) Reset() {
	sm.state = StateEdit
	sm.quit = quitNone
}

// CalculateState advances the machine by one action and returns the new
// state. The function is total: every action has a defined outcome in every
// state, defaulting to "no change".
func (sm *StateMachine) CalculateState(action Action) State {
	switch action {

	case ActionNewSelected:
		if sm.ctx.IsModified() {
			sm.quit = quitNew
			sm.state = StateShowNotSavedDialog
		} else {
			sm.state = StateInitializeNewMindMap
		}

	case ActionNewMindMapInitialized:
		sm.quit = quitNone
		sm.state = StateEdit

	case ActionOpenSelected:
		if sm.ctx.IsModified() {
			sm.quit = quitOpen
			sm.state = StateShowNotSavedDialog
		} else {
			sm.state = StateShowOpenDialog
		}

	case ActionRecentFileSelected:
		if sm.ctx.IsModified() {
			sm.quit = quitOpenRecent
			sm.state = StateShowNotSavedDialog
		} else {
			sm.state = StateOpenRecent
		}

	case ActionDropFileSelected:
		if sm.ctx.IsModified() {
			sm.quit = quitOpenDrop
			sm.state = StateShowNotSavedDialog
		} else {
			sm.state = StateOpenDrop
		}

	case ActionMindMapOpened:
		sm.quit = quitNone
		sm.state = StateEdit

	case ActionOpeningMindMapCanceled, ActionOpeningMindMapFailed:
		sm.quit = quitNone
		sm.state = StateEdit

	case ActionSaveSelected:
		if sm.ctx.CanBeSaved() {
			sm.state = StateSave
		} else {
			sm.state = StateShowSaveAsDialog
		}

	case ActionSaveAsSelected:
		sm.state = StateShowSaveAsDialog

	case ActionMindMapSaved, ActionMindMapSavedAs:
		sm.state = sm.continueInterrupted()

	case ActionMindMapSaveFailed, ActionMindMapSaveAsFailed:
		// A failed save cancels any pending close/open so nothing is lost
		// silently.
		sm.quit = quitNone
		sm.state = StateEdit

	case ActionMindMapSaveAsCanceled:
		sm.quit = quitNone
		sm.state = StateEdit

	case ActionNotSavedDialogAccepted:
		if sm.ctx.CanBeSaved() {
			sm.state = StateSave
		} else {
			sm.state = StateShowSaveAsDialog
		}

	case ActionNotSavedDialogDiscarded:
		sm.state = sm.continueInterrupted()

	case ActionNotSavedDialogCanceled:
		sm.quit = quitNone
		sm.state = StateEdit

	case ActionQuitSelected:
		if sm.ctx.IsModified() {
			sm.quit = quitClose
			sm.state = StateShowNotSavedDialog
		} else {
			sm.state = StateTryCloseWindow
		}

	case ActionWindowClosed:
		sm.state = StateExit

	case ActionUndoSelected, ActionRedoSelected:
		sm.state = StateEdit

	case ActionShowBackgroundColorDialogRequested:
		sm.state = StateShowBackgroundColorDialog

	case ActionShowEdgeColorDialogRequested:
		sm.state = StateShowEdgeColorDialog

	case ActionShowGridColorDialogRequested:
		sm.state = StateShowGridColorDialog

	case ActionShowNodeColorDialogRequested:
		sm.state = StateShowNodeColorDialog

	case ActionShowTextColorDialogRequested:
		sm.state = StateShowTextColorDialog

	case ActionShowImageFileDialogRequested:
		// Attaching an image needs a target node.
		if sm.ctx.HasSelection() {
			sm.state = StateShowImageFileDialog
		}

	case ActionShowLayoutOptimizationDialogRequested:
		sm.state = StateShowLayoutOptimizationDialog

	case ActionShowPngExportDialogRequested:
		sm.state = StateShowPngExportDialog

	case ActionShowSvgExportDialogRequested:
		sm.state = StateShowSvgExportDialog

	case ActionBackgroundColorChanged,
		ActionEdgeColorChanged,
		ActionGridColorChanged,
		ActionNodeColorChanged,
		ActionTextColorChanged,
		ActionImageAttached,
		ActionImageLoadFailed,
		ActionLayoutOptimized,
		ActionPngExported,
		ActionSvgExported:
		sm.state = StateEdit

	default:
		// Unrecognized action: state unchanged, never a crash.
	}

	return sm.state
}

// continueInterrupted resumes the operation the not-saved-dialog guard put on
// hold, or falls back to Edit when nothing was pending.
func (sm *StateMachine) continueInterrupted() State {
	quit := sm.quit
	sm.quit = quitNone
	switch quit {
	case quitClose:
		return StateTryCloseWindow
	case quitNew:
		return StateInitializeNewMindMap
	case quitOpen:
		return StateShowOpenDialog
	case quitOpenRecent:
		return StateOpenRecent
	case quitOpenDrop:
		return StateOpenDrop
	default:
		return StateEdit
	}
}
