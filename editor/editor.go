// Package editor holds the editing session: the live document, its file
// binding, the current selection and the snapshot-based undo/redo history.
package editor

import (
	"fmt"

	"github.com/rs/zerolog"

	"mentis/geometry"
	"mentis/model"
)

// MaxUndoDepth bounds undo memory; pushing past it evicts the oldest snapshot.
const MaxUndoDepth = 100

// Editor owns the live MindMap for the session. All access happens on the
// event loop thread.
type Editor struct {
	doc      *model.MindMap
	history  *History
	filePath string
	selected int
	log      zerolog.Logger
}

// New creates an editing session around an empty document.
func New(log zerolog.Logger) *Editor {
	return &Editor{
		doc:      model.NewMindMap(),
		history:  NewHistory(MaxUndoDepth),
		selected: -1,
		log:      log.With().Str("component", "editor").Logger(),
	}
}

// Document returns the live document.
func (e *Editor) Document() *model.MindMap {
	return e.doc
}

// SetDocument replaces the live document, clearing history, selection and the
// file binding unless a path is given. Used after open and new-document.
func (e *Editor) SetDocument(doc *model.MindMap, filePath string) {
	e.doc = doc
	e.filePath = filePath
	e.selected = -1
	e.history.Clear()
}

// FilePath returns the file the document is bound to, or "" if never saved.
func (e *Editor) FilePath() string {
	return e.filePath
}

// SetFilePath binds the document to a file after a successful save-as.
func (e *Editor) SetFilePath(path string) {
	e.filePath = path
}

// CanBeSaved reports whether a plain save is possible (a file binding exists).
func (e *Editor) CanBeSaved() bool {
	return e.filePath != ""
}

// IsModified reports whether the document has unsaved changes.
func (e *Editor) IsModified() bool {
	return e.doc.IsModified()
}

// SelectedNode returns the selected node index, or -1 when nothing is
// selected.
func (e *Editor) SelectedNode() int {
	return e.selected
}

// SetSelectedNode updates the selection. Pass -1 to clear.
func (e *Editor) SetSelectedNode(index int) {
	e.selected = index
}

// HasSelection reports whether a node is selected.
func (e *Editor) HasSelection() bool {
	if e.selected < 0 {
		return false
	}
	_, ok := e.doc.NodeByIndex(e.selected)
	return ok
}

// SaveUndoPoint records the current document state before a destructive or
// complex edit.
func (e *Editor) SaveUndoPoint() {
	e.history.SaveUndoPoint(e.doc)
	e.log.Trace().Msg("undo point saved")
}

// CanUndo reports whether an undo snapshot is available.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether a redo snapshot is available.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// Undo restores the most recent snapshot as the live document. No-op when
// the undo stack is empty. The caller must rebuild the scene afterwards; the
// snapshot mechanism has no visual side effects.
func (e *Editor) Undo() bool {
	restored := e.history.Undo(e.doc)
	if restored == nil {
		return false
	}
	e.doc = restored
	if e.selected >= 0 {
		if _, ok := e.doc.NodeByIndex(e.selected); !ok {
			e.selected = -1
		}
	}
	e.log.Debug().Msg("undo")
	return true
}

// Redo restores the most recently undone state. No-op when the redo stack is
// empty.
func (e *Editor) Redo() bool {
	restored := e.history.Redo(e.doc)
	if restored == nil {
		return false
	}
	e.doc = restored
	if e.selected >= 0 {
		if _, ok := e.doc.NodeByIndex(e.selected); !ok {
			e.selected = -1
		}
	}
	e.log.Debug().Msg("redo")
	return true
}

// CreateNode records an undo point, creates a node and selects it.
func (e *Editor) CreateNode(position geometry.Point) int {
	e.SaveUndoPoint()
	index := e.doc.CreateNode(position)
	e.selected = index
	return index
}

// ConnectNodes records an undo point and creates a directed edge. Both
// endpoints are validated first: a rejected connect mutates nothing and must
// leave the undo and redo stacks exactly as they were.
func (e *Editor) ConnectNodes(sourceIndex, targetIndex int) (*model.Edge, error) {
	if _, ok := e.doc.NodeByIndex(sourceIndex); !ok {
		return nil, fmt.Errorf("source %d: %w", sourceIndex, model.ErrInvalidReference)
	}
	if _, ok := e.doc.NodeByIndex(targetIndex); !ok {
		return nil, fmt.Errorf("target %d: %w", targetIndex, model.ErrInvalidReference)
	}
	e.SaveUndoPoint()
	return e.doc.CreateEdge(sourceIndex, targetIndex)
}

// DeleteNode records an undo point and deletes the node with its edges.
// Deleting an absent index is a no-op and records nothing.
func (e *Editor) DeleteNode(index int) {
	if _, ok := e.doc.NodeByIndex(index); !ok {
		return
	}
	e.SaveUndoPoint()
	e.doc.DeleteNode(index)
	if e.selected == index {
		e.selected = -1
	}
}

// InitializeNew replaces the session with a fresh unmodified document.
func (e *Editor) InitializeNew() {
	e.SetDocument(model.NewMindMap(), "")
	e.log.Debug().Msg("new mind map initialized")
}
