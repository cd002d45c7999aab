// Package app owns the application control flow: it feeds user actions
// through the state machine and runs the handler each resulting state calls
// for. Subsystems are reached only through their narrow command surfaces.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"mentis/editor"
	"mentis/export"
	"mentis/layout"
	"mentis/model"
	"mentis/scene"
	"mentis/settings"
	"mentis/statemachine"
	"mentis/storage"
)

// Service wires the editor session, scene, state machine and settings
// together. One instance per running session; tests construct as many as they
// need.
type Service struct {
	editor   *editor.Editor
	scene    *scene.Scene
	sm       *statemachine.StateMachine
	settings *settings.Settings
	dialogs  Dialogs
	view     View
	log      zerolog.Logger

	// pendingOpenPath holds the file for OpenRecent/OpenDrop transitions,
	// set before the action is raised.
	pendingOpenPath string
	done            bool
}

// New constructs a session. The state machine queries the editor for its
// guard context (modified, file binding, selection).
func New(prefs *settings.Settings, dialogs Dialogs, view View, log zerolog.Logger) *Service {
	ed := editor.New(log)
	s := &Service{
		editor:   ed,
		scene:    scene.New(log),
		sm:       statemachine.New(ed),
		settings: prefs,
		dialogs:  dialogs,
		view:     view,
		log:      log.With().Str("component", "app").Logger(),
	}
	s.scene.RebuildFromGraph(ed.Document())
	return s
}

// Editor exposes the editing session to the view layer.
func (s *Service) Editor() *editor.Editor {
	return s.editor
}

// Scene exposes the scene synchronizer to the view layer.
func (s *Service) Scene() *scene.Scene {
	return s.scene
}

// Done reports whether the session has reached the Exit state.
func (s *Service) Done() bool {
	return s.done
}

// State returns the current application state.
func (s *Service) State() statemachine.State {
	return s.sm.State()
}

// TriggerAction feeds one action into the state machine and runs the handler
// for the resulting state. Handlers may raise follow-up actions, which recurse
// through here; every chain terminates in Edit, Exit or a dialog state.
func (s *Service) TriggerAction(action statemachine.Action) {
	// Undo and redo are performed here so the transition function stays pure.
	switch action {
	case statemachine.ActionUndoSelected:
		if s.editor.Undo() {
			s.scene.RebuildFromGraph(s.editor.Document())
			s.Autosave()
		}
	case statemachine.ActionRedoSelected:
		if s.editor.Redo() {
			s.scene.RebuildFromGraph(s.editor.Document())
			s.Autosave()
		}
	}

	state := s.sm.CalculateState(action)
	s.log.Trace().Stringer("state", state).Msg("state calculated")
	s.runState(state)
}

// OpenDrop opens a file dropped onto the canvas, routing through the
// not-saved guard first.
func (s *Service) OpenDrop(path string) {
	s.pendingOpenPath = path
	s.TriggerAction(statemachine.ActionDropFileSelected)
}

// OpenRecent opens a file from the recent list, routing through the
// not-saved guard first.
func (s *Service) OpenRecent(path string) {
	s.pendingOpenPath = path
	s.TriggerAction(statemachine.ActionRecentFileSelected)
}

// OpenAtLaunch opens the positional argument file, or the most recent file
// when autoload is enabled. Called once after construction.
func (s *Service) OpenAtLaunch(argPath string) {
	if argPath != "" {
		s.OpenDrop(argPath)
		return
	}
	if s.settings.Autoload() {
		if recent, ok := s.settings.RecentFile(); ok {
			s.OpenRecent(recent)
		}
	}
}

func (s *Service) runState(state statemachine.State) {
	switch state {
	case statemachine.StateEdit:
		s.view.Refresh()

	case statemachine.StateInitializeNewMindMap:
		s.editor.InitializeNew()
		s.scene.RebuildFromGraph(s.editor.Document())
		s.TriggerAction(statemachine.ActionNewMindMapInitialized)

	case statemachine.StateShowOpenDialog:
		if path, ok := s.dialogs.OpenFileName(s.settings.RecentPath()); ok {
			s.doOpen(path)
		} else {
			s.TriggerAction(statemachine.ActionOpeningMindMapCanceled)
		}

	case statemachine.StateOpenRecent, statemachine.StateOpenDrop:
		s.doOpen(s.pendingOpenPath)

	case statemachine.StateSave:
		s.doSave(s.editor.FilePath(), statemachine.ActionMindMapSaved, statemachine.ActionMindMapSaveFailed)

	case statemachine.StateShowSaveAsDialog:
		path, ok := s.dialogs.SaveFileName(s.settings.RecentPath())
		if !ok {
			s.TriggerAction(statemachine.ActionMindMapSaveAsCanceled)
			return
		}
		if !strings.HasSuffix(path, storage.FileExtension) {
			path += storage.FileExtension
		}
		s.doSave(path, statemachine.ActionMindMapSavedAs, statemachine.ActionMindMapSaveAsFailed)

	case statemachine.StateShowNotSavedDialog:
		switch s.dialogs.AskNotSaved() {
		case NotSavedSave:
			s.TriggerAction(statemachine.ActionNotSavedDialogAccepted)
		case NotSavedDiscard:
			s.TriggerAction(statemachine.ActionNotSavedDialogDiscarded)
		case NotSavedCancel:
			s.TriggerAction(statemachine.ActionNotSavedDialogCanceled)
		}

	case statemachine.StateShowBackgroundColorDialog:
		s.runColorDialog(ColorRoleBackground, statemachine.ActionBackgroundColorChanged)

	case statemachine.StateShowEdgeColorDialog:
		s.runColorDialog(ColorRoleEdge, statemachine.ActionEdgeColorChanged)

	case statemachine.StateShowGridColorDialog:
		s.runColorDialog(ColorRoleGrid, statemachine.ActionGridColorChanged)

	case statemachine.StateShowNodeColorDialog:
		s.runColorDialog(ColorRoleNode, statemachine.ActionNodeColorChanged)

	case statemachine.StateShowTextColorDialog:
		s.runColorDialog(ColorRoleText, statemachine.ActionTextColorChanged)

	case statemachine.StateShowImageFileDialog:
		s.runImageDialog()

	case statemachine.StateShowPngExportDialog:
		s.runPNGExport()

	case statemachine.StateShowSvgExportDialog:
		s.runSVGExport()

	case statemachine.StateShowLayoutOptimizationDialog:
		s.runLayoutDialog()

	case statemachine.StateTryCloseWindow:
		s.view.Close()
		s.TriggerAction(statemachine.ActionWindowClosed)

	case statemachine.StateExit:
		s.done = true
	}
}

func (s *Service) doOpen(path string) {
	s.log.Debug().Str("path", path).Msg("opening")
	doc, err := storage.Load(path, s.progress())
	if err != nil {
		// The current document is untouched on failure.
		if errors.Is(err, storage.ErrCorrupted) {
			s.dialogs.ShowMessage(fmt.Sprintf("Cannot read '%s': the file is corrupted.", path))
		} else {
			s.dialogs.ShowMessage(fmt.Sprintf("Failed to open '%s'.", path))
		}
		s.log.Error().Err(err).Str("path", path).Msg("open failed")
		s.TriggerAction(statemachine.ActionOpeningMindMapFailed)
		return
	}

	s.editor.SetDocument(doc, path)
	s.scene.RebuildFromGraph(doc)
	if err := s.settings.AddRecentFile(path); err != nil {
		s.log.Warn().Err(err).Msg("failed to update recent files")
	}
	if err := s.settings.SetRecentPath(filepath.Dir(path)); err != nil {
		s.log.Warn().Err(err).Msg("failed to update recent path")
	}
	s.TriggerAction(statemachine.ActionMindMapOpened)
}

func (s *Service) doSave(path string, onSuccess, onFailure statemachine.Action) {
	s.log.Debug().Str("path", path).Msg("saving")
	if err := storage.Save(s.editor.Document(), path, s.progress()); err != nil {
		s.dialogs.ShowMessage(fmt.Sprintf("Failed to save file '%s'.", path))
		s.log.Error().Err(err).Str("path", path).Msg("save failed")
		s.TriggerAction(onFailure)
		return
	}

	s.editor.SetFilePath(path)
	if err := s.settings.AddRecentFile(path); err != nil {
		s.log.Warn().Err(err).Msg("failed to update recent files")
	}
	if err := s.settings.SetRecentPath(filepath.Dir(path)); err != nil {
		s.log.Warn().Err(err).Msg("failed to update recent path")
	}
	s.TriggerAction(onSuccess)
}

// Autosave writes the bound file after an edit when the autosave preference
// is enabled. Failures are logged only; the modified flag stays set so a
// manual save can retry.
func (s *Service) Autosave() {
	if !s.settings.Autosave() || !s.editor.CanBeSaved() || !s.editor.IsModified() {
		return
	}
	path := s.editor.FilePath()
	if err := storage.Save(s.editor.Document(), path, s.progress()); err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("autosave failed")
	}
}

// runColorDialog applies a chosen color to the role's document default, or to
// the selected node for the node and text roles.
func (s *Service) runColorDialog(role ColorRole, completed statemachine.Action) {
	doc := s.editor.Document()
	defaults := doc.Defaults()

	current := defaults.BackgroundColor
	switch role {
	case ColorRoleEdge:
		current = defaults.EdgeColor
	case ColorRoleGrid:
		current = defaults.GridColor
	case ColorRoleNode:
		current = defaults.NodeColor
	case ColorRoleText:
		current = defaults.TextColor
	}

	color, ok := s.dialogs.ChooseColor(role, current)
	if ok {
		s.editor.SaveUndoPoint()
		switch role {
		case ColorRoleBackground:
			defaults.BackgroundColor = color
			doc.SetDefaults(defaults)
		case ColorRoleEdge:
			defaults.EdgeColor = color
			doc.SetDefaults(defaults)
		case ColorRoleGrid:
			defaults.GridColor = color
			doc.SetDefaults(defaults)
		case ColorRoleNode:
			s.applyNodeColor(color, false, &defaults)
		case ColorRoleText:
			s.applyNodeColor(color, true, &defaults)
		}
		s.Autosave()
	}
	s.TriggerAction(completed)
}

func (s *Service) applyNodeColor(color model.Color, textRole bool, defaults *model.Defaults) {
	doc := s.editor.Document()
	if node, ok := doc.NodeByIndex(s.editor.SelectedNode()); ok {
		c := color
		if textRole {
			node.TextColor = &c
		} else {
			node.Color = &c
		}
		doc.SetModified(true)
		return
	}
	if textRole {
		defaults.TextColor = color
	} else {
		defaults.NodeColor = color
	}
	doc.SetDefaults(*defaults)
}

func (s *Service) runImageDialog() {
	path, ok := s.dialogs.ImageFileName(s.settings.RecentImagePath())
	if !ok {
		s.TriggerAction(statemachine.ActionImageLoadFailed)
		return
	}
	if _, err := os.Stat(path); err != nil {
		s.dialogs.ShowMessage(fmt.Sprintf("Failed to load image '%s'.", path))
		s.TriggerAction(statemachine.ActionImageLoadFailed)
		return
	}

	doc := s.editor.Document()
	if node, ok := doc.NodeByIndex(s.editor.SelectedNode()); ok {
		s.editor.SaveUndoPoint()
		node.ImagePath = path
		doc.SetModified(true)
		if err := s.settings.SetRecentImagePath(filepath.Dir(path)); err != nil {
			s.log.Warn().Err(err).Msg("failed to update recent image path")
		}
		s.Autosave()
	}
	s.TriggerAction(statemachine.ActionImageAttached)
}

func (s *Service) runPNGExport() {
	width, height := s.scene.ExportImageSize()
	req, ok := s.dialogs.PNGExport(s.defaultExportPath(".png"), width, height)
	if ok {
		exporter := export.NewPNGExporter()
		opts := export.Options{
			Width:                 req.Width,
			Height:                req.Height,
			TransparentBackground: req.Transparent,
			Title:                 s.exportTitle(),
		}
		if err := exporter.Export(s.scene, s.editor.Document().Defaults(), opts, req.Path); err != nil {
			s.dialogs.ShowMessage(fmt.Sprintf("Failed to export %s '%s'.", exporter.FormatName(), req.Path))
			s.log.Error().Err(err).Str("path", req.Path).Msg("png export failed")
		}
	}
	// Completed either way; cancellation is not an error.
	s.TriggerAction(statemachine.ActionPngExported)
}

func (s *Service) runSVGExport() {
	path, ok := s.dialogs.SVGExport(s.defaultExportPath(".svg"))
	if ok {
		exporter := export.NewSVGExporter()
		opts := export.Options{Title: s.exportTitle()}
		if err := exporter.Export(s.scene, s.editor.Document().Defaults(), opts, path); err != nil {
			s.dialogs.ShowMessage(fmt.Sprintf("Failed to export %s '%s'.", exporter.FormatName(), path))
			s.log.Error().Err(err).Str("path", path).Msg("svg export failed")
		}
	}
	s.TriggerAction(statemachine.ActionSvgExported)
}

func (s *Service) runLayoutDialog() {
	req, ok := s.dialogs.LayoutParams()
	if ok {
		// The optimizer mutates positions in place with no built-in reversal.
		s.editor.SaveUndoPoint()
		optimizer := layout.New(layout.DefaultParameters(req.AspectRatio, req.MinEdgeLength), s.log)
		optimizer.Optimize(s.editor.Document(), nil)
		s.scene.RebuildFromGraph(s.editor.Document())
		s.Autosave()
	}
	s.TriggerAction(statemachine.ActionLayoutOptimized)
}

func (s *Service) defaultExportPath(extension string) string {
	path := s.editor.FilePath()
	if path == "" {
		return "mindmap" + extension
	}
	return strings.TrimSuffix(path, storage.FileExtension) + extension
}

func (s *Service) exportTitle() string {
	if path := s.editor.FilePath(); path != "" {
		return filepath.Base(path)
	}
	return "mind map"
}

// progress returns a checkpoint callback that keeps the view updated during
// long operations.
func (s *Service) progress() storage.ProgressFunc {
	return func() {
		s.view.Refresh()
	}
}
