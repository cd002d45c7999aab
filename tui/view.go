// Package tui is the terminal rendering surface for the scene: it draws the
// node and edge item collections onto a tcell screen and translates key
// presses into application actions. The mapping logic lives in the scene
// package; this layer only paints and prompts.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"mentis/app"
	"mentis/geometry"
	"mentis/model"
	"mentis/statemachine"
)

// Cells are roughly twice as tall as wide, so the vertical scale is halved to
// keep shapes visually square.
const (
	cellsPerUnitX = 0.1
	cellsPerUnitY = 0.05
)

var (
	styleNode    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleNodeSel = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleEdge    = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleInput   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue)
)

// View renders the scene on a terminal. It implements app.View and
// app.Dialogs: dialogs degrade to status-line prompts.
type View struct {
	screen  tcell.Screen
	service *app.Service
	log     zerolog.Logger
	closed  bool
}

// New initializes the terminal screen.
func New(log zerolog.Logger) (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return &View{
		screen: screen,
		log:    log.With().Str("component", "tui").Logger(),
	}, nil
}

// SetService binds the view to the session after construction; the service
// needs the view as a collaborator and vice versa.
func (v *View) SetService(s *app.Service) {
	v.service = s
}

// Refresh redraws the whole screen from the current scene.
func (v *View) Refresh() {
	if v.closed {
		return
	}
	v.draw()
	v.screen.Show()
}

// Close tears the terminal down.
func (v *View) Close() {
	if !v.closed {
		v.closed = true
		v.screen.Fini()
	}
}

// Run drives the event loop until the session exits.
func (v *View) Run() {
	for !v.service.Done() {
		v.Refresh()
		event := v.screen.PollEvent()
		switch ev := event.(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			v.handleKey(ev)
		}
	}
}

func (v *View) handleKey(ev *tcell.EventKey) {
	editor := v.service.Editor()

	switch ev.Key() {
	case tcell.KeyCtrlN:
		v.service.TriggerAction(statemachine.ActionNewSelected)
	case tcell.KeyCtrlO:
		v.service.TriggerAction(statemachine.ActionOpenSelected)
	case tcell.KeyCtrlS:
		v.service.TriggerAction(statemachine.ActionSaveSelected)
	case tcell.KeyCtrlZ:
		v.service.TriggerAction(statemachine.ActionUndoSelected)
	case tcell.KeyCtrlY:
		v.service.TriggerAction(statemachine.ActionRedoSelected)
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		v.service.TriggerAction(statemachine.ActionQuitSelected)
	case tcell.KeyTab:
		v.cycleSelection()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			v.service.TriggerAction(statemachine.ActionQuitSelected)
		case 'S':
			v.service.TriggerAction(statemachine.ActionSaveAsSelected)
		case 'a':
			editor.CreateNode(v.viewCenter())
			v.service.Scene().RebuildFromGraph(editor.Document())
			v.service.Autosave()
		case 'e':
			v.editSelectedText()
		case 'c':
			v.connectSelected()
		case 'd':
			if editor.HasSelection() {
				editor.DeleteNode(editor.SelectedNode())
				v.service.Scene().RebuildFromGraph(editor.Document())
				v.service.Autosave()
			}
		case 'i':
			v.service.TriggerAction(statemachine.ActionShowImageFileDialogRequested)
		case 'p':
			v.service.TriggerAction(statemachine.ActionShowPngExportDialogRequested)
		case 'v':
			v.service.TriggerAction(statemachine.ActionShowSvgExportDialogRequested)
		case 'l':
			v.service.TriggerAction(statemachine.ActionShowLayoutOptimizationDialogRequested)
		case 'B':
			v.service.TriggerAction(statemachine.ActionShowBackgroundColorDialogRequested)
		case 'E':
			v.service.TriggerAction(statemachine.ActionShowEdgeColorDialogRequested)
		case 'G':
			v.service.TriggerAction(statemachine.ActionShowGridColorDialogRequested)
		case 'N':
			v.service.TriggerAction(statemachine.ActionShowNodeColorDialogRequested)
		case 'T':
			v.service.TriggerAction(statemachine.ActionShowTextColorDialogRequested)
		}
	}
}

// cycleSelection advances the selection through the nodes in index order.
func (v *View) cycleSelection() {
	nodes := v.service.Editor().Document().Nodes()
	if len(nodes) == 0 {
		return
	}
	current := v.service.Editor().SelectedNode()
	next := nodes[0].Index
	for i, n := range nodes {
		if n.Index == current && i+1 < len(nodes) {
			next = nodes[i+1].Index
			break
		}
	}
	v.service.Editor().SetSelectedNode(next)
}

func (v *View) editSelectedText() {
	editor := v.service.Editor()
	node, ok := editor.Document().NodeByIndex(editor.SelectedNode())
	if !ok {
		return
	}
	if text, ok := v.readLine("Text: ", node.Text); ok {
		editor.SaveUndoPoint()
		editor.Document().SetNodeText(node.Index, text)
		v.service.Autosave()
	}
}

func (v *View) connectSelected() {
	editor := v.service.Editor()
	if !editor.HasSelection() {
		return
	}
	input, ok := v.readLine("Connect to node index: ", "")
	if !ok {
		return
	}
	target, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return
	}
	source := editor.SelectedNode()
	// Soft duplicate check; the model itself allows duplicates.
	if v.service.Scene().HasEdge(source, target) {
		return
	}
	if _, err := editor.ConnectNodes(source, target); err != nil {
		v.ShowMessage(fmt.Sprintf("Cannot connect %d to %d.", source, target))
		return
	}
	v.service.Scene().RebuildFromGraph(editor.Document())
	v.service.Autosave()
}

// viewCenter converts the middle of the screen back to scene coordinates.
func (v *View) viewCenter() geometry.Point {
	center, _ := v.contentOrigin()
	return center
}

// contentOrigin returns the scene point mapped to the middle of the screen
// and the item bounds used to derive it.
func (v *View) contentOrigin() (geometry.Point, geometry.Rect) {
	bounds, ok := v.service.Scene().ItemBounds()
	if !ok {
		return geometry.Point{}, geometry.Rect{}
	}
	return bounds.Center(), bounds
}

func (v *View) toCell(p geometry.Point) (int, int) {
	w, h := v.screen.Size()
	center, _ := v.contentOrigin()
	x := int((p.X-center.X)*cellsPerUnitX) + w/2
	y := int((p.Y-center.Y)*cellsPerUnitY) + h/2
	return x, y
}

func (v *View) draw() {
	v.screen.Clear()
	scene := v.service.Scene()

	for _, item := range scene.EdgeItems() {
		x1, y1 := v.toCell(item.Source.Position)
		x2, y2 := v.toCell(item.Target.Position)
		v.drawLine(x1, y1, x2, y2, item.Edge.ArrowMode)
	}
	for _, item := range scene.NodeItems() {
		v.drawNode(item.Node)
	}
	v.drawStatusBar()
}

func (v *View) drawNode(node *model.Node) {
	x, y := v.toCell(node.Position)
	label := node.Text
	if label == "" {
		label = fmt.Sprintf("#%d", node.Index)
	}
	style := styleNode
	if node.Index == v.service.Editor().SelectedNode() {
		style = styleNodeSel
	}
	boxWidth := len(label) + 2

	v.drawString(x-boxWidth/2, y-1, "┌"+strings.Repeat("─", boxWidth)+"┐", style)
	v.drawString(x-boxWidth/2, y, "│ "+label+" │", style)
	v.drawString(x-boxWidth/2, y+1, "└"+strings.Repeat("─", boxWidth)+"┘", style)
}

// drawLine walks the segment cell by cell.
func (v *View) drawLine(x1, y1, x2, y2 int, arrow model.ArrowMode) {
	dx, dy := x2-x1, y2-y1
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		x := x1 + dx*i/steps
		y := y1 + dy*i/steps
		v.screen.SetContent(x, y, '·', nil, styleEdge)
	}
	if arrow == model.ArrowSingle || arrow == model.ArrowDouble {
		v.screen.SetContent(x2, y2, '>', nil, styleEdge)
	}
	if arrow == model.ArrowDouble {
		v.screen.SetContent(x1, y1, '<', nil, styleEdge)
	}
}

func (v *View) drawStatusBar() {
	w, h := v.screen.Size()
	editor := v.service.Editor()

	name := editor.FilePath()
	if name == "" {
		name = "[untitled]"
	}
	modified := ""
	if editor.IsModified() {
		modified = " *"
	}
	undo := " "
	if editor.CanUndo() {
		undo = "u"
	}
	redo := " "
	if editor.CanRedo() {
		redo = "r"
	}
	status := fmt.Sprintf(" %s%s  [%s%s]  a:add c:connect d:delete e:edit ^S:save ^O:open ^Z:undo q:quit", name, modified, undo, redo)
	v.drawString(0, h-1, status+strings.Repeat(" ", max(0, w-len(status))), styleStatus)
}

func (v *View) drawString(x, y int, s string, style tcell.Style) {
	col := x
	for _, r := range s {
		v.screen.SetContent(col, y, r, nil, style)
		col++
	}
}

// readLine runs a status-line prompt, returning false when the user presses
// escape.
func (v *View) readLine(prompt, initial string) (string, bool) {
	buffer := []rune(initial)
	for {
		w, h := v.screen.Size()
		line := prompt + string(buffer)
		v.drawString(0, h-1, line+strings.Repeat(" ", max(0, w-len(line))), styleInput)
		v.screen.ShowCursor(len(line), h-1)
		v.screen.Show()

		ev, ok := v.screen.PollEvent().(*tcell.EventKey)
		if !ok {
			continue
		}
		switch ev.Key() {
		case tcell.KeyEnter:
			v.screen.HideCursor()
			return string(buffer), true
		case tcell.KeyEscape:
			v.screen.HideCursor()
			return "", false
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(buffer) > 0 {
				buffer = buffer[:len(buffer)-1]
			}
		case tcell.KeyRune:
			buffer = append(buffer, ev.Rune())
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
