package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"mentis/app"
	"mentis/model"
)

// The view doubles as the dialog provider: every dialog degrades to a
// status-line prompt. Escape cancels, which is a distinct outcome, not an
// error.

// OpenFileName asks for a mind map file to open.
func (v *View) OpenFileName(dir string) (string, bool) {
	return v.readPath("Open file: ", dir)
}

// SaveFileName asks for a destination file.
func (v *View) SaveFileName(dir string) (string, bool) {
	return v.readPath("Save as: ", dir)
}

// ImageFileName asks for an image to attach to the selected node.
func (v *View) ImageFileName(dir string) (string, bool) {
	return v.readPath("Image file: ", dir)
}

func (v *View) readPath(prompt, dir string) (string, bool) {
	initial := ""
	if dir != "" {
		initial = dir + "/"
	}
	path, ok := v.readLine(prompt, initial)
	if !ok || strings.TrimSpace(path) == "" {
		return "", false
	}
	return strings.TrimSpace(path), true
}

// ChooseColor asks for a #rrggbb color value.
func (v *View) ChooseColor(role app.ColorRole, current model.Color) (model.Color, bool) {
	input, ok := v.readLine("Color (#rrggbb): ", current.String())
	if !ok {
		return current, false
	}
	color, err := parseColor(strings.TrimSpace(input))
	if err != nil {
		v.ShowMessage(fmt.Sprintf("Not a color: '%s'.", input))
		return current, false
	}
	return color, true
}

func parseColor(s string) (model.Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return model.Color{}, fmt.Errorf("expected 6 hex digits, got %q", s)
	}
	value, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return model.Color{}, err
	}
	return model.Color{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
	}, nil
}

// AskNotSaved shows the unsaved-changes prompt with its three outcomes.
func (v *View) AskNotSaved() app.NotSavedChoice {
	for {
		input, ok := v.readLine("Mind map modified. (s)ave / (d)iscard / (c)ancel: ", "")
		if !ok {
			return app.NotSavedCancel
		}
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "s", "save":
			return app.NotSavedSave
		case "d", "discard":
			return app.NotSavedDiscard
		case "c", "cancel":
			return app.NotSavedCancel
		}
	}
}

// PNGExport collects path, pixel size and background transparency.
func (v *View) PNGExport(defaultPath string, defaultWidth, defaultHeight int) (app.PNGExportRequest, bool) {
	path, ok := v.readLine("Export PNG to: ", defaultPath)
	if !ok || strings.TrimSpace(path) == "" {
		return app.PNGExportRequest{}, false
	}

	size, ok := v.readLine("Size (WxH): ", fmt.Sprintf("%dx%d", defaultWidth, defaultHeight))
	if !ok {
		return app.PNGExportRequest{}, false
	}
	width, height := defaultWidth, defaultHeight
	if parts := strings.SplitN(strings.TrimSpace(size), "x", 2); len(parts) == 2 {
		if w, err := strconv.Atoi(parts[0]); err == nil {
			width = w
		}
		if h, err := strconv.Atoi(parts[1]); err == nil {
			height = h
		}
	}

	transparent, ok := v.readLine("Transparent background (y/n): ", "n")
	if !ok {
		return app.PNGExportRequest{}, false
	}

	return app.PNGExportRequest{
		Path:        strings.TrimSpace(path),
		Width:       width,
		Height:      height,
		Transparent: strings.HasPrefix(strings.ToLower(strings.TrimSpace(transparent)), "y"),
	}, true
}

// SVGExport asks for the vector export destination.
func (v *View) SVGExport(defaultPath string) (string, bool) {
	path, ok := v.readLine("Export SVG to: ", defaultPath)
	if !ok || strings.TrimSpace(path) == "" {
		return "", false
	}
	return strings.TrimSpace(path), true
}

// LayoutParams collects the aspect ratio and minimum edge length targets.
func (v *View) LayoutParams() (app.LayoutRequest, bool) {
	aspect, ok := v.readFloat("Target aspect ratio: ", 1.6)
	if !ok {
		return app.LayoutRequest{}, false
	}
	minLength, ok := v.readFloat("Minimum edge length: ", 120)
	if !ok {
		return app.LayoutRequest{}, false
	}
	return app.LayoutRequest{AspectRatio: aspect, MinEdgeLength: minLength}, true
}

func (v *View) readFloat(prompt string, fallback float64) (float64, bool) {
	input, ok := v.readLine(prompt, strconv.FormatFloat(fallback, 'f', -1, 64))
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return fallback, true
	}
	return value, true
}

// ShowMessage blocks until the user acknowledges the message.
func (v *View) ShowMessage(message string) {
	w, h := v.screen.Size()
	line := " " + message + " (press any key)"
	v.drawString(0, h-1, line+strings.Repeat(" ", max(0, w-len(line))), styleInput)
	v.screen.Show()
	for {
		if _, ok := v.screen.PollEvent().(*tcell.EventKey); ok {
			return
		}
	}
}
