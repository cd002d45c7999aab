package editor

import (
	"mentis/model"
)

// History manages undo/redo over full-document snapshots: a bounded undo
// stack plus a redo stack of deep clones. A fresh undo point invalidates all
// redo history (linear undo, not branching).
type History struct {
	undoStack []*model.MindMap
	redoStack []*model.MindMap
	max       int
}

// NewHistory creates a history with the given maximum undo depth.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 50
	}
	return &History{
		undoStack: make([]*model.MindMap, 0, max),
		max:       max,
	}
}

// SaveUndoPoint pushes a deep copy of the current document onto the undo
// stack and clears the redo stack. When the stack exceeds the maximum depth
// the oldest entry is evicted.
func (h *History) SaveUndoPoint(current *model.MindMap) {
	h.undoStack = append(h.undoStack, current.Clone())
	if len(h.undoStack) > h.max {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = h.redoStack[:0]
}

// CanUndo reports whether the undo stack is non-empty. Pure query, safe to
// poll for enabling UI controls.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Undo pushes the current document onto the redo stack, pops the most recent
// snapshot and returns it as the new live document. Returns nil when there is
// nothing to undo.
func (h *History) Undo(current *model.MindMap) *model.MindMap {
	if !h.CanUndo() {
		return nil
	}
	h.redoStack = append(h.redoStack, current.Clone())
	top := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	return top
}

// Redo is symmetric to Undo: pushes the current document onto the undo stack
// and returns the popped redo snapshot, or nil when the redo stack is empty.
func (h *History) Redo(current *model.MindMap) *model.MindMap {
	if !h.CanRedo() {
		return nil
	}
	h.undoStack = append(h.undoStack, current.Clone())
	top := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	return top
}

// Clear drops both stacks, used when a new document is opened or initialized.
func (h *History) Clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}

// Depths returns the current stack depths.
func (h *History) Depths() (undo, redo int) {
	return len(h.undoStack), len(h.redoStack)
}
