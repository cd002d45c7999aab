package app

import "mentis/model"

// NotSavedChoice is the outcome of the not-saved dialog. Save continues the
// interrupted operation after saving, Discard continues without saving,
// Cancel abandons the interrupted operation.
type NotSavedChoice int

const (
	NotSavedSave NotSavedChoice = iota
	NotSavedDiscard
	NotSavedCancel
)

// ColorRole identifies which document color a color dialog edits.
type ColorRole int

const (
	ColorRoleBackground ColorRole = iota
	ColorRoleEdge
	ColorRoleGrid
	ColorRoleNode
	ColorRoleText
)

// PNGExportRequest carries the parameters collected by the PNG export dialog.
type PNGExportRequest struct {
	Path        string
	Width       int
	Height      int
	Transparent bool
}

// LayoutRequest carries the parameters collected by the layout optimization
// dialog.
type LayoutRequest struct {
	AspectRatio   float64
	MinEdgeLength float64
}

// Dialogs is the narrow boundary to the user-interaction layer. Every method
// blocks until the user answers; the second return value is false when the
// user cancels. Cancellation is not an error.
type Dialogs interface {
	// OpenFileName asks for an existing mind map file, starting in dir.
	OpenFileName(dir string) (string, bool)
	// SaveFileName asks for a destination mind map file, starting in dir.
	SaveFileName(dir string) (string, bool)
	// ImageFileName asks for an image to attach, starting in dir.
	ImageFileName(dir string) (string, bool)
	// ChooseColor asks for a color for the given role.
	ChooseColor(role ColorRole, current model.Color) (model.Color, bool)
	// AskNotSaved shows the save/discard/cancel prompt for unsaved changes.
	AskNotSaved() NotSavedChoice
	// PNGExport collects raster export parameters, pre-filled with defaults.
	PNGExport(defaultPath string, defaultWidth, defaultHeight int) (PNGExportRequest, bool)
	// SVGExport asks for the vector export destination.
	SVGExport(defaultPath string) (string, bool)
	// LayoutParams collects layout optimization parameters.
	LayoutParams() (LayoutRequest, bool)
	// ShowMessage reports a failure and blocks until acknowledged.
	ShowMessage(message string)
}

// View is the render-surface collaborator. The scene pushes consistent item
// sets; the view draws them.
type View interface {
	// Refresh redraws the view from the current scene.
	Refresh()
	// Close tears the window down.
	Close()
}
