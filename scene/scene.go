// Package scene keeps the visual representation of the mind map consistent
// with the graph model. The actual rendering surface (terminal view, image
// exporter) is an external collaborator; this package owns the mapping logic
// and the geometric queries on the item set.
package scene

import (
	"github.com/rs/zerolog"

	"mentis/geometry"
	"mentis/model"
)

const (
	// initialSize is the half-extent of a fresh scene rect and the growth
	// increment applied per side when nodes drift out of bounds.
	initialSize = 1000.0

	// containsAllMarginFactor shrinks the scene rect on each side before the
	// containment test, so the rect grows before nodes reach the edge.
	containsAllMarginFactor = 0.25

	// exportMargin frames exported images tightly.
	exportMargin = 20.0

	// zoomToFitMarginFactor adds breathing room for interactive zoom-to-fit.
	zoomToFitMarginFactor = 0.1
)

// NodeItem is the visual counterpart of a model node. It holds a non-owning
// reference; the document owns the node.
type NodeItem struct {
	Node *model.Node
}

// Rect returns the item's bounding rectangle in scene coordinates.
func (i NodeItem) Rect() geometry.Rect {
	return i.Node.Rect()
}

// EdgeItem is the visual counterpart of a model edge, keeping non-owning
// references to both endpoint nodes for geometry queries.
type EdgeItem struct {
	Edge   *model.Edge
	Source *model.Node
	Target *model.Node
}

// Rect returns the rectangle spanned by the edge endpoints.
func (i EdgeItem) Rect() geometry.Rect {
	return geometry.RectFromPoints(i.Source.Position, i.Target.Position)
}

// Scene maintains a one-to-one correspondence between graph entities and
// visual items in separate, capability-typed collections. Node and edge items
// never share a generic list, so dispatch is a direct loop instead of type
// inspection.
type Scene struct {
	nodeItems []NodeItem
	edgeItems []EdgeItem
	sceneRect geometry.Rect
	log       zerolog.Logger
}

// New creates an empty scene centered on the origin.
func New(log zerolog.Logger) *Scene {
	return &Scene{
		sceneRect: geometry.Rect{
			X:      -initialSize,
			Y:      -initialSize,
			Width:  initialSize * 2,
			Height: initialSize * 2,
		},
		log: log.With().Str("component", "scene").Logger(),
	}
}

// RebuildFromGraph clears all visual items and recreates one item per node
// and per edge from the document. Used after undo, redo and load: with
// bounded graph sizes a full rebuild is simpler and correctness-preserving
// compared to incremental diffing.
func (s *Scene) RebuildFromGraph(doc *model.MindMap) {
	s.nodeItems = s.nodeItems[:0]
	s.edgeItems = s.edgeItems[:0]
	for _, node := range doc.Nodes() {
		s.nodeItems = append(s.nodeItems, NodeItem{Node: node})
	}
	for _, edge := range doc.Edges() {
		source, ok := doc.NodeByIndex(edge.SourceIndex)
		if !ok {
			continue
		}
		target, ok := doc.NodeByIndex(edge.TargetIndex)
		if !ok {
			continue
		}
		s.edgeItems = append(s.edgeItems, EdgeItem{Edge: edge, Source: source, Target: target})
	}
	s.AdjustSceneRect()
	s.log.Trace().Int("nodes", len(s.nodeItems)).Int("edges", len(s.edgeItems)).Msg("scene rebuilt")
}

// NodeItems returns the node item collection.
func (s *Scene) NodeItems() []NodeItem {
	return s.nodeItems
}

// EdgeItems returns the edge item collection.
func (s *Scene) EdgeItems() []EdgeItem {
	return s.edgeItems
}

// SceneRect returns the current logical extent of the canvas.
func (s *Scene) SceneRect() geometry.Rect {
	return s.sceneRect
}

// HasEdge queries whether a rendered edge connects source to target in that
// direction. The UI layer consults this before creating an edge to avoid
// duplicates; the model itself does not enforce uniqueness.
func (s *Scene) HasEdge(sourceIndex, targetIndex int) bool {
	for _, item := range s.edgeItems {
		if item.Edge.SourceIndex == sourceIndex && item.Edge.TargetIndex == targetIndex {
			return true
		}
	}
	return false
}

// ItemBounds returns the minimal rectangle enclosing all visual items, and
// false when the scene is empty.
func (s *Scene) ItemBounds() (geometry.Rect, bool) {
	if len(s.nodeItems) == 0 && len(s.edgeItems) == 0 {
		return geometry.Rect{}, false
	}
	var bounds geometry.Rect
	first := true
	for _, item := range s.nodeItems {
		if first {
			bounds = item.Rect()
			first = false
		} else {
			bounds = bounds.Union(item.Rect())
		}
	}
	for _, item := range s.edgeItems {
		if first {
			bounds = item.Rect()
			first = false
		} else {
			bounds = bounds.Union(item.Rect())
		}
	}
	return bounds, true
}

// CalculateZoomToFitRectangle computes the bounding rectangle of all visible
// items expanded by a margin. Export favors tight framing with a fixed
// margin; interactive zoom adds proportional breathing room. An empty scene
// yields a well-defined default rectangle around the origin.
func (s *Scene) CalculateZoomToFitRectangle(forExport bool) geometry.Rect {
	bounds, ok := s.ItemBounds()
	if !ok {
		return geometry.Rect{X: -initialSize / 2, Y: -initialSize / 2, Width: initialSize, Height: initialSize}
	}
	if forExport {
		return bounds.Expanded(exportMargin)
	}
	marginX := bounds.Width * zoomToFitMarginFactor
	marginY := bounds.Height * zoomToFitMarginFactor
	if marginX < exportMargin {
		marginX = exportMargin
	}
	if marginY < exportMargin {
		marginY = exportMargin
	}
	return bounds.Adjusted(-marginX, -marginY, marginX, marginY)
}

// ContainsAll tests whether every node item lies within the scene rect shrunk
// by the margin fraction on each side.
func (s *Scene) ContainsAll() bool {
	marginX := s.sceneRect.Width * containsAllMarginFactor
	marginY := s.sceneRect.Height * containsAllMarginFactor
	testRect := s.sceneRect.Adjusted(marginX, marginY, -marginX, -marginY)
	for _, item := range s.nodeItems {
		if !testRect.ContainsRect(item.Rect()) {
			return false
		}
	}
	return true
}

// AdjustSceneRect grows the scene bounds outward by a fixed increment on all
// four sides until every node fits inside the tested margin, growing the
// addressable canvas instead of moving content. Terminates because each pass
// strictly enlarges the tested area and the node count is finite.
func (s *Scene) AdjustSceneRect() {
	for !s.ContainsAll() {
		s.sceneRect = s.sceneRect.Adjusted(-initialSize, -initialSize, initialSize, initialSize)
		s.log.Debug().
			Float64("x", s.sceneRect.X).
			Float64("y", s.sceneRect.Y).
			Float64("w", s.sceneRect.Width).
			Float64("h", s.sceneRect.Height).
			Msg("scene rect grown")
	}
}

// ExportImageSize converts the export zoom-to-fit rectangle to pixel
// dimensions, used as the default size offered by the export dialog.
func (s *Scene) ExportImageSize() (width, height int) {
	rect := s.CalculateZoomToFitRectangle(true)
	return int(rect.Width), int(rect.Height)
}
